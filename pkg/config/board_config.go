package config

import (
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// SleepPolicy 防止球体持续微抖动的策略
type SleepPolicy string

const (
	// SleepPolicyStreak 碰撞连击判定：多次碰撞位移都很小则冻结为静态（默认）
	SleepPolicyStreak SleepPolicy = "streak"
	// SleepPolicyDisplacement 位移判定唤醒：球-球碰撞时根据对方近一秒位移决定是否唤醒
	SleepPolicyDisplacement SleepPolicy = "displacement"
)

// 默认值（与网页版组件一致）
const (
	DefaultPegRows        = 12
	DefaultBallRadius     = 0.2
	DefaultAutoSpawn      = true
	DefaultGravity        = 19.64
	DefaultAnimationSpeed = 20.0

	// MaxPegRows 行数上限，超过时钳制
	MaxPegRows = 30
)

// BoardConfig 棋盘配置
//
// 配置文件位置: data/board.yaml（编译时嵌入），也可通过 --config 指定外部文件。
// 数值型字段格式错误时会被修正为默认值而不是报错（见 Normalize）。
type BoardConfig struct {
	// Width/Height 窗口尺寸（像素）
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// PegRows 钉子行数
	PegRows int `yaml:"pegRows"`

	// BallRadius 球体半径
	BallRadius float64 `yaml:"ballRadius"`

	// AutoSpawn 第二行钉子被击中时是否自动投放新球
	AutoSpawn bool `yaml:"autoSpawn"`

	// Gravity 重力加速度大小（方向始终向下）
	Gravity float64 `yaml:"gravity"`

	// AnimationSpeed 动画速度倍率，作用于每帧的物理时间
	AnimationSpeed float64 `yaml:"animationSpeed"`

	// SleepPolicy 防抖策略
	SleepPolicy SleepPolicy `yaml:"sleepPolicy"`

	// Seed 随机种子，0 表示使用当前时间
	Seed int64 `yaml:"seed"`

	// Sound 是否播放碰撞音效
	Sound bool `yaml:"sound"`

	// SoundFiles 可选的音效文件，为空时使用合成音效
	SoundFiles SoundFiles `yaml:"soundFiles"`

	// Physics 物理与生命周期调参
	Physics PhysicsTuning `yaml:"physics"`
}

// SoundFiles 音效文件路径（.mp3 / .ogg / .wav）
type SoundFiles struct {
	Peg    string `yaml:"peg"`
	Bucket string `yaml:"bucket"`
}

// PhysicsTuning 物理世界与球体生命周期参数
type PhysicsTuning struct {
	// Friction/Restitution 全局接触材质
	Friction    float64 `yaml:"friction"`
	Restitution float64 `yaml:"restitution"`

	// FixedTimeStep 固定子步长（秒）
	FixedTimeStep float64 `yaml:"fixedTimeStep"`
	// MaxSubSteps 每帧最多子步数
	MaxSubSteps int `yaml:"maxSubSteps"`

	// SleepSpeedLimit/SleepTimeLimit 球体休眠阈值
	SleepSpeedLimit float64 `yaml:"sleepSpeedLimit"`
	SleepTimeLimit  float64 `yaml:"sleepTimeLimit"`

	// SmallMovement 碰撞间位移小于该值视为"没动"
	SmallMovement float64 `yaml:"smallMovement"`
	// StaticStreakLimit 连续"没动"的碰撞次数达到该值后冻结为静态
	StaticStreakLimit int `yaml:"staticStreakLimit"`

	// ForcedSleepDisplacement 已入桶的球近一秒位移低于该值时强制休眠
	ForcedSleepDisplacement float64 `yaml:"forcedSleepDisplacement"`
	// HistoryWindow 位置历史保留时长（秒）
	HistoryWindow float64 `yaml:"historyWindow"`
}

// DefaultPhysicsTuning 返回默认物理参数
func DefaultPhysicsTuning() PhysicsTuning {
	return PhysicsTuning{
		Friction:                0.1,
		Restitution:             0.4,
		FixedTimeStep:           1.0 / 60.0,
		MaxSubSteps:             3,
		SleepSpeedLimit:         0.05,
		SleepTimeLimit:          0.5,
		SmallMovement:           0.5,
		StaticStreakLimit:       500,
		ForcedSleepDisplacement: 0.05,
		HistoryWindow:           1.0,
	}
}

// DefaultBoardConfig 返回默认棋盘配置
func DefaultBoardConfig() *BoardConfig {
	return &BoardConfig{
		Width:          GameWindowWidth,
		Height:         GameWindowHeight,
		PegRows:        DefaultPegRows,
		BallRadius:     DefaultBallRadius,
		AutoSpawn:      DefaultAutoSpawn,
		Gravity:        DefaultGravity,
		AnimationSpeed: DefaultAnimationSpeed,
		SleepPolicy:    SleepPolicyStreak,
		Physics:        DefaultPhysicsTuning(),
	}
}

// LoadBoardConfig 加载棋盘配置
//
// 从指定路径加载 YAML 格式的棋盘配置文件。
//
// 参数:
//   - path: 配置文件路径（如 "data/board.yaml"）
//
// 返回:
//   - *BoardConfig: 加载成功后的配置结构
//   - error: 加载失败时返回错误
func LoadBoardConfig(path string) (*BoardConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read board config: %w", err)
	}
	return ParseBoardConfig(data)
}

// ParseBoardConfig 解析 YAML 数据，未出现的字段保留默认值
func ParseBoardConfig(data []byte) (*BoardConfig, error) {
	cfg := DefaultBoardConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse board config: %w", err)
	}

	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid board config: %w", err)
	}
	return cfg, nil
}

// Normalize 将格式错误的数值修正为安全默认值
//
// 与原版组件的属性转换器一致：非法行数回退到 12，非法重力回退到默认重力。
func (c *BoardConfig) Normalize() {
	c.PegRows = CoerceRows(c.PegRows)
	c.BallRadius = coercePositive("ballRadius", c.BallRadius, DefaultBallRadius)
	c.Gravity = coercePositive("gravity", c.Gravity, DefaultGravity)
	c.AnimationSpeed = coercePositive("animationSpeed", c.AnimationSpeed, DefaultAnimationSpeed)

	if c.Width <= 0 {
		c.Width = GameWindowWidth
	}
	if c.Height <= 0 {
		c.Height = GameWindowHeight
	}

	switch c.SleepPolicy {
	case SleepPolicyStreak, SleepPolicyDisplacement:
	case "":
		c.SleepPolicy = SleepPolicyStreak
	default:
		log.Printf("[Config] Warning: unknown sleepPolicy %q, using %q", c.SleepPolicy, SleepPolicyStreak)
		c.SleepPolicy = SleepPolicyStreak
	}

	def := DefaultPhysicsTuning()
	p := &c.Physics
	if p.FixedTimeStep <= 0 {
		p.FixedTimeStep = def.FixedTimeStep
	}
	if p.MaxSubSteps <= 0 {
		p.MaxSubSteps = def.MaxSubSteps
	}
	if p.SleepSpeedLimit <= 0 {
		p.SleepSpeedLimit = def.SleepSpeedLimit
	}
	if p.SleepTimeLimit <= 0 {
		p.SleepTimeLimit = def.SleepTimeLimit
	}
	if p.SmallMovement <= 0 {
		p.SmallMovement = def.SmallMovement
	}
	if p.StaticStreakLimit <= 0 {
		p.StaticStreakLimit = def.StaticStreakLimit
	}
	if p.ForcedSleepDisplacement <= 0 {
		p.ForcedSleepDisplacement = def.ForcedSleepDisplacement
	}
	if p.HistoryWindow <= 0 {
		p.HistoryWindow = def.HistoryWindow
	}
}

// Validate 验证配置有效性
//
// 只检查无法安全修正的取值：
//   - 摩擦系数与恢复系数必须在 [0, 1] 内
//
// 返回:
//   - error: 验证失败时返回错误，成功返回 nil
func (c *BoardConfig) Validate() error {
	if c.Physics.Friction < 0 || c.Physics.Friction > 1 {
		return fmt.Errorf("friction must be within [0, 1], got %.2f", c.Physics.Friction)
	}
	if c.Physics.Restitution < 0 || c.Physics.Restitution > 1 {
		return fmt.Errorf("restitution must be within [0, 1], got %.2f", c.Physics.Restitution)
	}
	return nil
}

// Clone 返回配置的深拷贝
func (c *BoardConfig) Clone() *BoardConfig {
	clone := *c
	return &clone
}

// CoerceRows 将行数修正到 [1, MaxPegRows]，非正数回退到默认值
func CoerceRows(rows int) int {
	if rows < 1 {
		log.Printf("[Config] Warning: invalid pegRows %d, using %d", rows, DefaultPegRows)
		return DefaultPegRows
	}
	if rows > MaxPegRows {
		log.Printf("[Config] Warning: pegRows %d exceeds %d, clamping", rows, MaxPegRows)
		return MaxPegRows
	}
	return rows
}

// CoerceGravity 修正重力，非有限值或非正数回退到默认值
func CoerceGravity(g float64) float64 {
	return coercePositive("gravity", g, DefaultGravity)
}

// CoerceAnimationSpeed 修正动画速度倍率
func CoerceAnimationSpeed(speed float64) float64 {
	return coercePositive("animationSpeed", speed, DefaultAnimationSpeed)
}

// CoerceBallRadius 修正球体半径
func CoerceBallRadius(radius float64) float64 {
	return coercePositive("ballRadius", radius, DefaultBallRadius)
}

// ParseRows 从字符串解析行数，无法解析时返回默认值 12
//
// 示例:
//
//	ParseRows("8")   = 8
//	ParseRows("abc") = 12
func ParseRows(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		log.Printf("[Config] Warning: cannot parse pegRows %q, using %d", value, DefaultPegRows)
		return DefaultPegRows
	}
	return CoerceRows(n)
}

// ParseFloat 从字符串解析浮点数，无法解析时返回 fallback
func ParseFloat(value string, fallback float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fallback
	}
	return f
}

// ParseAutoSpawn 从字符串解析自动投放开关
//
// 空字符串（属性缺省）视为 true，"false" 视为 false，其余非空值视为 true。
func ParseAutoSpawn(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "false", "0", "off", "no":
		return false
	default:
		return true
	}
}

func coercePositive(name string, v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		log.Printf("[Config] Warning: invalid %s %v, using %v", name, v, fallback)
		return fallback
	}
	return v
}
