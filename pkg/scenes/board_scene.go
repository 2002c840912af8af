package scenes

import (
	"bytes"
	"fmt"
	"image/color"
	"log"

	"github.com/decker502/galton/pkg/config"
	"github.com/decker502/galton/pkg/ecs"
	"github.com/decker502/galton/pkg/game"
	"github.com/decker502/galton/pkg/systems"
	"github.com/decker502/galton/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	backgroundColor = color.RGBA{R: 18, G: 20, B: 28, A: 255}
	pegColor        = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	pegGlowColor    = color.RGBA{R: 255, G: 230, B: 120, A: 255}
	wallColor       = color.RGBA{R: 120, G: 130, B: 150, A: 255}
	barColor        = color.RGBA{R: 60, G: 110, B: 170, A: 160}
	countColor      = color.RGBA{R: 230, G: 230, B: 240, A: 255}
)

// counterFontSize 桶计数文字大小（像素）
const counterFontSize = 14

// BoardScene 高尔顿板主场景
//
// 键位：
//   - Space 投放一个球
//   - R 重置（保留计数）
//   - C 清零计数
//   - A 切换自动投放
//   - Up/Down 或 +/- 增减行数
//   - P 暂停
//   - S 切换音效
//   - W 切换防抖策略
//   - 鼠标滚轮缩放，拖动平移，点击投放
type BoardScene struct {
	board    *game.Board
	settings *game.SettingsManager
	audio    *game.AudioManager

	uiEntities *ecs.EntityManager
	camera     *systems.CameraSystem
	pointer    *utils.PointerTracker

	width, height int
	generation    int
	paused        bool

	counterFace *text.GoTextFace
}

// NewBoardScene 创建棋盘场景
//
// 参数:
//   - board: 已构建的棋盘
//   - settings: 设置管理器（可为 nil，此时不保存设置）
//   - audio: 音频管理器（可为 nil）
func NewBoardScene(board *game.Board, settings *game.SettingsManager, audio *game.AudioManager) *BoardScene {
	uiEntities := ecs.NewEntityManager()
	scene := &BoardScene{
		board:      board,
		settings:   settings,
		audio:      audio,
		uiEntities: uiEntities,
		camera:     systems.NewCameraSystem(uiEntities),
		pointer:    utils.NewPointerTracker(),
		width:      config.GameWindowWidth,
		height:     config.GameWindowHeight,
		generation: board.Generation(),
	}

	source, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		log.Printf("[BoardScene] Warning: failed to load counter font: %v", err)
	} else {
		scene.counterFace = &text.GoTextFace{Source: source, Size: counterFontSize}
	}

	if audio != nil {
		board.Subscribe(audio.OnBoardEvent)
	}

	scene.camera.Frame(scene.boardBounds(), scene.width, scene.height, false)
	return scene
}

// Resize 窗口尺寸变化时立即重新取景
func (s *BoardScene) Resize(width, height int) {
	s.width, s.height = width, height
	s.camera.Frame(s.boardBounds(), width, height, false)
}

// boardBounds 棋盘（投放点到桶底）的世界坐标范围
func (s *BoardScene) boardBounds() systems.Bounds {
	rows := s.board.Config().PegRows
	bucketWidth := config.PegSpacingX * config.BucketWidthFactor
	_, bucketY := config.BucketCenter(0, rows, config.PegSpacingX, config.PegSpacingY)
	halfWidth := float64(rows)*config.PegSpacingX + bucketWidth/2

	return systems.Bounds{
		MinX: -halfWidth,
		MaxX: halfWidth,
		MinY: bucketY - config.BucketHeight/2,
		MaxY: config.SpawnY + config.PegRadius,
	}
}

// Update 处理输入、推进模拟和摄像机
func (s *BoardScene) Update(deltaTime float64) {
	s.handleInput()

	if !s.paused {
		res := s.board.Tick(deltaTime)
		if s.audio != nil {
			s.audio.OnPegHits(res.Dispatch.PegHits)
		}
	}

	if g := s.board.Generation(); g != s.generation {
		s.generation = g
		s.camera.Frame(s.boardBounds(), s.width, s.height, true)
	}
	s.camera.Update(deltaTime)
}

func (s *BoardScene) handleInput() {
	cfg := s.board.Config()

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		if _, err := s.board.AddBall(); err != nil {
			log.Printf("[BoardScene] Warning: %v", err)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		s.board.Reset()
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		s.board.ClearCounts()
	case inpututil.IsKeyJustPressed(ebiten.KeyA):
		s.board.SetAutoSpawn(!cfg.AutoSpawn)
	case inpututil.IsKeyJustPressed(ebiten.KeyUp), inpututil.IsKeyJustPressed(ebiten.KeyEqual),
		inpututil.IsKeyJustPressed(ebiten.KeyKPAdd):
		s.setRows(cfg.PegRows + 1)
	case inpututil.IsKeyJustPressed(ebiten.KeyDown), inpututil.IsKeyJustPressed(ebiten.KeyMinus),
		inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract):
		if cfg.PegRows > 1 {
			s.setRows(cfg.PegRows - 1)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		s.paused = !s.paused
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		if s.settings != nil {
			s.settings.SetSoundEnabled(!s.settings.GetSettings().SoundEnabled)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyW):
		if cfg.SleepPolicy == config.SleepPolicyStreak {
			s.board.SetSleepPolicy(config.SleepPolicyDisplacement)
		} else {
			s.board.SetSleepPolicy(config.SleepPolicyStreak)
		}
	}

	if _, wheelY := ebiten.Wheel(); wheelY != 0 {
		s.camera.ZoomBy(wheelY)
	}

	switch g := s.pointer.Update(); g.Kind {
	case utils.GestureTap:
		if _, err := s.board.AddBall(); err != nil {
			log.Printf("[BoardScene] Warning: %v", err)
		}
	case utils.GestureDrag:
		s.camera.Pan(float64(g.DX), float64(g.DY))
	}
}

func (s *BoardScene) setRows(rows int) {
	if rows > config.MaxPegRows {
		return
	}
	if err := s.board.SetRows(rows); err != nil {
		log.Printf("[BoardScene] Warning: failed to rebuild board: %v", err)
	}
}

// SaveOnExit 保存当前棋盘参数
func (s *BoardScene) SaveOnExit() bool {
	if s.settings == nil {
		return true
	}
	s.settings.Capture(s.board.Config())
	if err := s.settings.Save(); err != nil {
		log.Printf("[BoardScene] Warning: failed to save settings: %v", err)
		return false
	}
	return true
}

// Draw 绘制棋盘、球体和状态栏
func (s *BoardScene) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	s.drawBuckets(screen)
	s.drawPegs(screen)
	s.drawBalls(screen)
	s.drawHUD(screen)
}

func (s *BoardScene) toScreen(x, y float64) (float32, float32) {
	sx, sy := s.camera.WorldToScreen(x, y, s.width, s.height)
	return float32(sx), float32(sy)
}

func (s *BoardScene) drawPegs(screen *ebiten.Image) {
	scale := s.camera.Scale()
	for _, peg := range s.board.Pegs() {
		x, y := s.toScreen(peg.X, peg.Y)
		vector.DrawFilledCircle(screen, x, y, float32(peg.Radius*scale), mixColor(pegColor, pegGlowColor, peg.Glow), true)
	}
}

func (s *BoardScene) drawBuckets(screen *ebiten.Image) {
	buckets := s.board.Buckets()
	maxCount := 0
	for _, b := range buckets {
		if b.Count > maxCount {
			maxCount = b.Count
		}
	}

	for _, b := range buckets {
		left, top := s.toScreen(b.X-b.Width/2, b.Y+b.Height/2)
		right, bottom := s.toScreen(b.X+b.Width/2, b.Y-b.Height/2)

		// 计数柱：按最大计数归一化
		if maxCount > 0 && b.Count > 0 {
			h := (bottom - top) * float32(b.Count) / float32(maxCount)
			vector.DrawFilledRect(screen, left, bottom-h, right-left, h, barColor, false)
		}

		vector.StrokeLine(screen, left, top, left, bottom, 2, wallColor, true)
		vector.StrokeLine(screen, right, top, right, bottom, 2, wallColor, true)
		vector.StrokeLine(screen, left, bottom, right, bottom, 2, wallColor, true)

		label := fmt.Sprintf("%d", b.Count)
		cx := float64(left+right) / 2
		cy := float64(bottom) + counterFontSize
		if s.counterFace == nil {
			ebitenutil.DebugPrintAt(screen, label, int(cx)-4*len(label), int(cy))
			continue
		}
		op := &text.DrawOptions{}
		op.LayoutOptions.PrimaryAlign = text.AlignCenter
		op.LayoutOptions.SecondaryAlign = text.AlignCenter
		op.GeoM.Translate(cx, cy)
		op.ColorScale.ScaleWithColor(countColor)
		text.Draw(screen, label, s.counterFace, op)
	}
}

func (s *BoardScene) drawBalls(screen *ebiten.Image) {
	scale := s.camera.Scale()
	for _, ball := range s.board.Balls() {
		x, y := s.toScreen(ball.Position.X, ball.Position.Y)
		vector.DrawFilledCircle(screen, x, y, float32(ball.Radius*scale), rgb(ball.Color), true)
	}
}

func (s *BoardScene) drawHUD(screen *ebiten.Image) {
	cfg := s.board.Config()
	sound := "off"
	if s.settings != nil && s.settings.GetSettings().SoundEnabled {
		sound = "on"
	}
	status := ""
	if s.paused {
		status = "  [PAUSED]"
	}

	hud := fmt.Sprintf("balls: %d spawned, %d live   rows: %d   auto: %v   policy: %s   sound: %s%s\n"+
		"space/click add  r reset  c clear  a auto  +/- rows  p pause  s sound  w policy  wheel zoom  drag pan   tps %.0f",
		s.board.BallCount(), s.board.LiveBallCount(), cfg.PegRows, cfg.AutoSpawn, cfg.SleepPolicy, sound, status,
		ebiten.ActualTPS())
	ebitenutil.DebugPrintAt(screen, hud, 8, 8)
}

// mixColor 按 t∈[0,1] 在 a、b 之间线性插值
func mixColor(a, b color.RGBA, t float64) color.RGBA {
	t = utils.Clamp01(t)
	lerp := func(x, y uint8) uint8 {
		return uint8(utils.Lerp(float64(x), float64(y), t) + 0.5)
	}
	return color.RGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: lerp(a.A, b.A)}
}

// rgb 将 0xRRGGBB 转为不透明颜色
func rgb(c uint32) color.RGBA {
	return color.RGBA{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: 255}
}
