package physics

// BodyID 刚体的唯一标识符，由 World 分配，0 保留为无效ID
type BodyID uint64

// BodyType 刚体类型
type BodyType int

const (
	// BodyDynamic 动态刚体：受重力影响并参与碰撞响应
	BodyDynamic BodyType = iota
	// BodyStatic 静态刚体：质量为 0，不移动
	BodyStatic
)

// String 返回刚体类型名称
func (t BodyType) String() string {
	switch t {
	case BodyDynamic:
		return "dynamic"
	case BodyStatic:
		return "static"
	default:
		return "unknown"
	}
}

// SleepState 刚体休眠状态
type SleepState int

const (
	// Awake 活跃
	Awake SleepState = iota
	// Sleepy 速度低于阈值，计时中
	Sleepy
	// Sleeping 已休眠，不再积分
	Sleeping
)

// String 返回休眠状态名称
func (s SleepState) String() string {
	switch s {
	case Awake:
		return "awake"
	case Sleepy:
		return "sleepy"
	case Sleeping:
		return "sleeping"
	default:
		return "unknown"
	}
}

// ShapeKind 碰撞形状类型
type ShapeKind int

const (
	// ShapeSphere 球体，使用 Radius
	ShapeSphere ShapeKind = iota
	// ShapeBox 轴对齐长方体，使用 HalfExtents
	ShapeBox
)

// Shape 碰撞形状
//
// 只支持球体和轴对齐长方体；长方体只能用于静态刚体。
type Shape struct {
	Kind        ShapeKind
	Radius      float64
	HalfExtents Vec3
}

// Sphere 创建球体形状
func Sphere(radius float64) Shape {
	return Shape{Kind: ShapeSphere, Radius: radius}
}

// Box 创建长方体形状
func Box(halfExtents Vec3) Shape {
	return Shape{Kind: ShapeBox, HalfExtents: halfExtents}
}

// BodyOptions 创建刚体时的参数
type BodyOptions struct {
	// Mass 质量，0 表示静态刚体
	Mass     float64
	Shape    Shape
	Position Vec3
	// IsTrigger 传感器：只报告碰撞事件，不产生物理响应
	IsTrigger bool
	// AllowSleep 是否允许休眠（还需要 World.AllowSleep 为 true）
	AllowSleep bool
	// SleepSpeedLimit 速度低于此值时进入 Sleepy
	SleepSpeedLimit float64
	// SleepTimeLimit 保持 Sleepy 超过该秒数后进入 Sleeping
	SleepTimeLimit float64
	// LinearDamping 线速度阻尼 [0, 1)
	LinearDamping float64
}

// Body 刚体
type Body struct {
	ID        BodyID
	Type      BodyType
	Mass      float64
	Shape     Shape
	Position  Vec3
	Velocity  Vec3
	IsTrigger bool

	AllowSleep      bool
	SleepSpeedLimit float64
	SleepTimeLimit  float64
	SleepState      SleepState
	LinearDamping   float64

	timeLastSleepy         float64
	wakeUpAfterNarrowphase bool
}

// newBody 根据参数构造刚体，ID 由 World 填充
func newBody(opts BodyOptions) *Body {
	b := &Body{
		Mass:            opts.Mass,
		Shape:           opts.Shape,
		Position:        opts.Position,
		IsTrigger:       opts.IsTrigger,
		AllowSleep:      opts.AllowSleep,
		SleepSpeedLimit: opts.SleepSpeedLimit,
		SleepTimeLimit:  opts.SleepTimeLimit,
		LinearDamping:   opts.LinearDamping,
	}
	if b.SleepSpeedLimit <= 0 {
		b.SleepSpeedLimit = 0.1
	}
	if b.SleepTimeLimit <= 0 {
		b.SleepTimeLimit = 1
	}
	if opts.Mass > 0 {
		b.Type = BodyDynamic
	} else {
		b.Type = BodyStatic
	}
	return b
}

// InvMass 返回质量倒数，静态刚体为 0
func (b *Body) InvMass() float64 {
	if b.Type == BodyStatic || b.Mass <= 0 {
		return 0
	}
	return 1 / b.Mass
}

// Speed 返回当前线速度大小
func (b *Body) Speed() float64 {
	return b.Velocity.Length()
}

// IsDynamic 是否为动态刚体
func (b *Body) IsDynamic() bool {
	return b.Type == BodyDynamic
}

// Sleep 立即进入休眠并清零速度
func (b *Body) Sleep() {
	b.SleepState = Sleeping
	b.Velocity = Vec3{}
	b.wakeUpAfterNarrowphase = false
}

// WakeUp 唤醒刚体
func (b *Body) WakeUp() {
	b.SleepState = Awake
	b.wakeUpAfterNarrowphase = false
}

// MakeStatic 将刚体冻结为静态刚体（质量归零、速度清零），不可逆
func (b *Body) MakeStatic() {
	b.Type = BodyStatic
	b.Mass = 0
	b.Velocity = Vec3{}
	b.SleepState = Awake
}

// SetVelocity 覆盖线速度
func (b *Body) SetVelocity(v Vec3) {
	b.Velocity = v
}

// sleepTick 推进休眠状态机，time 为世界累计时间（秒）
func (b *Body) sleepTick(time float64) {
	if !b.AllowSleep || b.Type != BodyDynamic {
		return
	}
	speedSquared := b.Velocity.LengthSquared()
	limitSquared := b.SleepSpeedLimit * b.SleepSpeedLimit

	switch {
	case b.SleepState == Awake && speedSquared < limitSquared:
		b.SleepState = Sleepy
		b.timeLastSleepy = time
	case b.SleepState == Sleepy && speedSquared > limitSquared:
		b.WakeUp()
	case b.SleepState == Sleepy && time-b.timeLastSleepy > b.SleepTimeLimit:
		b.Sleep()
	}
}
