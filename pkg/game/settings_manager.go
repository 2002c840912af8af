package game

import (
	"fmt"
	"log"

	"github.com/decker502/galton/pkg/config"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// BoardSettings 用户设置
// 保存上次使用的棋盘参数和音效设置，下次启动时覆盖 data/board.yaml 中的默认值
type BoardSettings struct {
	// 棋盘参数
	PegRows        int                `yaml:"pegRows"`
	BallRadius     float64            `yaml:"ballRadius"`
	Gravity        float64            `yaml:"gravity"`
	AnimationSpeed float64            `yaml:"animationSpeed"`
	AutoSpawn      bool               `yaml:"autoSpawn"`
	SleepPolicy    config.SleepPolicy `yaml:"sleepPolicy"`

	// 音效设置
	SoundEnabled bool    `yaml:"soundEnabled"` // 音效开关
	SoundVolume  float64 `yaml:"soundVolume"`  // 音效音量 0.0 ~ 1.0
}

// DefaultSettings 返回默认设置
func DefaultSettings() *BoardSettings {
	return SettingsFromConfig(config.DefaultBoardConfig())
}

// SettingsFromConfig 从棋盘配置提取用户设置
func SettingsFromConfig(cfg *config.BoardConfig) *BoardSettings {
	return &BoardSettings{
		PegRows:        cfg.PegRows,
		BallRadius:     cfg.BallRadius,
		Gravity:        cfg.Gravity,
		AnimationSpeed: cfg.AnimationSpeed,
		AutoSpawn:      cfg.AutoSpawn,
		SleepPolicy:    cfg.SleepPolicy,
		SoundEnabled:   cfg.Sound,
		SoundVolume:    0.8,
	}
}

// ApplyTo 将设置写入棋盘配置，非法数值按配置规则修正
func (s *BoardSettings) ApplyTo(cfg *config.BoardConfig) {
	cfg.PegRows = s.PegRows
	cfg.BallRadius = s.BallRadius
	cfg.Gravity = s.Gravity
	cfg.AnimationSpeed = s.AnimationSpeed
	cfg.AutoSpawn = s.AutoSpawn
	cfg.SleepPolicy = s.SleepPolicy
	cfg.Sound = s.SoundEnabled
	cfg.Normalize()
}

// SettingsManager 设置管理器
// 负责用户设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *BoardSettings // 当前设置
	persisted    bool           // 设置是否来自持久化存储
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "board"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
//   - error: 保留给调用方的错误位，加载失败不影响创建
func NewSettingsManager(gdataManager *gdata.Manager) (*SettingsManager, error) {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	if err := sm.Load(); err != nil {
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm, nil
}

// OpenSettingsManager 打开应用的 gdata 存储并创建设置管理器
//
// 存储不可用时降级为内存设置并记录日志。
func OpenSettingsManager(appName string) *SettingsManager {
	gdataManager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[SettingsManager] Warning: storage unavailable: %v (settings will not persist)", err)
		gdataManager = nil
	}
	sm, _ := NewSettingsManager(gdataManager)
	return sm
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或文件不存在，使用默认设置
//
// 返回：
//   - error: 如果读取或反序列化失败返回错误
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// 缺失字段保留默认值
	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.SoundVolume = clampVolume(loaded.SoundVolume)

	sm.settings = loaded
	sm.persisted = true
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// HasSaved 返回当前设置是否从存储中加载（而非默认值）
func (sm *SettingsManager) HasSaved() bool {
	return sm.persisted
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *BoardSettings {
	return sm.settings
}

// Capture 用棋盘当前配置覆盖内存中的棋盘参数（音量保持不变）
//
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) Capture(cfg *config.BoardConfig) {
	volume := sm.settings.SoundVolume
	sm.settings = SettingsFromConfig(cfg)
	sm.settings.SoundVolume = volume
}

// SetSoundVolume 设置音效音量，限制在 0.0 ~ 1.0
func (sm *SettingsManager) SetSoundVolume(volume float64) {
	sm.settings.SoundVolume = clampVolume(volume)
}

// SetSoundEnabled 设置音效开关
func (sm *SettingsManager) SetSoundEnabled(enabled bool) {
	sm.settings.SoundEnabled = enabled
}

// clampVolume 将音量值限制在 0.0 ~ 1.0 范围内
func clampVolume(volume float64) float64 {
	if volume < 0.0 {
		return 0.0
	}
	if volume > 1.0 {
		return 1.0
	}
	return volume
}
