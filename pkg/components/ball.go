package components

import (
	"github.com/decker502/galton/pkg/ecs"
	"github.com/decker502/galton/pkg/physics"
)

// 球体按休眠状态着色
const (
	BallColorAwake    uint32 = 0xff4444 // 亮红：活动
	BallColorSleepy   uint32 = 0xff8844 // 橙色：即将休眠
	BallColorSleeping uint32 = 0x661111 // 暗红：休眠
)

// BallComponent 球体组件
//
// 保存球体的生命周期状态：位置历史、静止连击计数、所在桶。
// 物理状态（位置、速度、休眠）保存在 PhysicsBodyComponent 中。
type BallComponent struct {
	// Serial 单调递增的投放序号（从 0 开始）
	Serial int
	Radius float64

	// SpawnTime 投放时刻（秒，模拟循环时钟）
	SpawnTime float64
	// LastWakeTime 最近一次被其他球唤醒的时刻
	LastWakeTime float64

	// History 近一秒的位置历史
	History *PositionHistory

	// InBucket 所在桶的实体ID，0 表示尚未入桶；一旦设置不再清除
	InBucket ecs.EntityID

	// Streak 连续"几乎没动"的碰撞次数
	Streak int
	// StreakAnchor 最近一次计为"移动"的碰撞位置
	StreakAnchor physics.Vec3

	// IsStatic 已冻结为静态（终态），不再参与碰撞处理
	IsStatic bool

	// LastSleepState 上一帧结束时的休眠状态，用于识别本帧被碰撞唤醒的球
	LastSleepState physics.SleepState

	// Color 当前显示颜色（0xRRGGBB）
	Color uint32
}

// NewBallComponent 创建球体组件，静止连击的参照点初始化为投放位置
func NewBallComponent(serial int, radius float64, spawnPos physics.Vec3, now, historyWindow float64) *BallComponent {
	return &BallComponent{
		Serial:       serial,
		Radius:       radius,
		SpawnTime:    now,
		History:      NewPositionHistory(historyWindow),
		StreakAnchor: spawnPos,
		Color:        BallColorAwake,
	}
}

// HasBucket 是否已入桶
func (b *BallComponent) HasBucket() bool {
	return b.InBucket != 0
}

// Age 返回球体存在的时长
func (b *BallComponent) Age(now float64) float64 {
	return now - b.SpawnTime
}

// RecordCollision 记录一次球-钉或球-球碰撞
//
// 与参照点的位移小于 smallMovement 时连击计数加一，否则计数清零并更新参照点。
// 计数达到 limit 时标记为静态。
//
// 返回:
//   - bool: 本次调用是否完成了静态转换（每个球最多返回一次 true）
func (b *BallComponent) RecordCollision(pos physics.Vec3, smallMovement float64, limit int) bool {
	if b.IsStatic {
		return false
	}

	if pos.DistanceTo(b.StreakAnchor) < smallMovement {
		b.Streak++
	} else {
		b.Streak = 0
		b.StreakAnchor = pos
	}

	if b.Streak >= limit {
		b.IsStatic = true
		return true
	}
	return false
}

// SleepColor 返回休眠状态对应的颜色
func SleepColor(state physics.SleepState) uint32 {
	switch state {
	case physics.Sleepy:
		return BallColorSleepy
	case physics.Sleeping:
		return BallColorSleeping
	default:
		return BallColorAwake
	}
}
