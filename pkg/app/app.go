// Package app 提供高尔顿板应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，桌面入口通过 main.go 调用 NewApp()。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/decker502/galton/pkg/config"
	"github.com/decker502/galton/pkg/embedded"
	"github.com/decker502/galton/pkg/game"
	"github.com/decker502/galton/pkg/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// AppName gdata 存储使用的应用名
const AppName = "galton"

// DefaultConfigPath 嵌入的默认棋盘配置
const DefaultConfigPath = "data/board.yaml"

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 外部棋盘配置文件，为空时使用嵌入的 data/board.yaml
	ConfigPath string
	// Rows 覆盖钉子行数，0 表示不覆盖
	Rows int
	// Seed 覆盖随机种子，0 表示不覆盖
	Seed int64
	// Mute 禁用音频上下文（无声卡的环境）
	Mute bool
}

// App 是应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	board        *game.Board
	sceneManager *game.SceneManager
	verbose      bool
}

// NewApp 创建并初始化应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	settings := game.OpenSettingsManager(AppName)

	boardCfg, err := ResolveBoardConfig(cfg, settings)
	if err != nil {
		return nil, err
	}
	log.Printf("[App] Board config: rows=%d gravity=%.2f speed=%.1f autoSpawn=%v policy=%s",
		boardCfg.PegRows, boardCfg.Gravity, boardCfg.AnimationSpeed, boardCfg.AutoSpawn, boardCfg.SleepPolicy)

	board, err := game.NewBoard(boardCfg)
	if err != nil {
		return nil, fmt.Errorf("棋盘创建失败: %w", err)
	}

	// 初始化音频上下文
	var audioManager *game.AudioManager
	if !cfg.Mute {
		audioManager = game.NewAudioManager(audio.NewContext(game.SampleRate), settings)
		loadSoundFiles(audioManager, boardCfg.SoundFiles)
		log.Printf("[App] AudioManager initialized")
	}

	sceneManager := game.NewSceneManager()
	sceneManager.SwitchTo(scenes.NewBoardScene(board, settings, audioManager))

	return &App{
		board:        board,
		sceneManager: sceneManager,
		verbose:      cfg.Verbose,
	}, nil
}

// loadSoundFiles 加载配置中的音效文件，失败时保留合成音效
func loadSoundFiles(am *game.AudioManager, files config.SoundFiles) {
	for id, path := range map[string]string{
		game.SoundPegHit:      files.Peg,
		game.SoundBucketEntry: files.Bucket,
	} {
		if path == "" {
			continue
		}
		if err := am.LoadSoundFile(id, path); err != nil {
			log.Printf("[App] Warning: %v (using synthesized sound)", err)
		}
	}
}

// ResolveBoardConfig 按优先级合成棋盘配置
//
// 优先级（低到高）：
//   - 配置文件（--config 或嵌入的 data/board.yaml）
//   - 上次保存的用户设置（仅在未指定 --config 时）
//   - 命令行覆盖项（Rows、Seed）
func ResolveBoardConfig(cfg Config, settings *game.SettingsManager) (*config.BoardConfig, error) {
	data, err := embedded.ReadFileOrDisk(cfg.ConfigPath, DefaultConfigPath)
	if err != nil {
		return nil, fmt.Errorf("棋盘配置读取失败: %w", err)
	}
	boardCfg, err := config.ParseBoardConfig(data)
	if err != nil {
		return nil, err
	}

	if cfg.ConfigPath == "" && settings != nil && settings.HasSaved() {
		settings.GetSettings().ApplyTo(boardCfg)
		log.Printf("[App] Applied saved settings")
	}

	if cfg.Rows != 0 {
		boardCfg.PegRows = config.CoerceRows(cfg.Rows)
	}
	if cfg.Seed != 0 {
		boardCfg.Seed = cfg.Seed
	}
	return boardCfg, nil
}

// Update 更新应用逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 窗口关闭前保存设置（需要 SetWindowClosingHandled(true)）
	if ebiten.IsWindowBeingClosed() {
		a.Close()
		return ebiten.Termination
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}

	deltaTime := 1.0 / float64(ebiten.TPS())
	a.sceneManager.Update(deltaTime)
	return nil
}

// Draw 绘制画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 逻辑尺寸跟随窗口尺寸，场景据此重新取景
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth <= 0 || outsideHeight <= 0 {
		return config.GameWindowWidth, config.GameWindowHeight
	}
	a.sceneManager.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// GetSceneManager 返回场景管理器
// 用于在窗口关闭时保存设置
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// Close 保存设置并释放棋盘资源
func (a *App) Close() {
	if !a.sceneManager.SaveOnExit() {
		log.Printf("[App] Warning: settings were not saved")
	}
	a.board.Teardown()
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
