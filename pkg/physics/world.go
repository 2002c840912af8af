package physics

import (
	"fmt"
	"math"
)

const (
	// contactSlop 实体接触的容差距离，用于让静止物体保持接触而不抖动
	contactSlop = 0.01
	// correctionFactor 穿透位置修正比例
	correctionFactor = 0.8
	// restitutionThreshold 法向接近速度低于此值时不反弹
	restitutionThreshold = 1.0
)

// ContactMaterial 全局接触材质
type ContactMaterial struct {
	Friction    float64
	Restitution float64
}

// CollisionEvent 一次子步中两个刚体的接触
//
// A、B 按 ID 升序排列。Begin 表示这是该刚体对连续接触的第一步。
type CollisionEvent struct {
	A, B  BodyID
	Begin bool
	// Trigger 表示至少一方是传感器（无物理响应）
	Trigger bool
}

// Other 返回事件中除 id 外的另一方
func (e CollisionEvent) Other(id BodyID) BodyID {
	if e.A == id {
		return e.B
	}
	return e.A
}

type pairKey struct {
	a, b BodyID
}

func makePairKey(a, b BodyID) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a: a, b: b}
}

// World 物理世界
//
// 所有方法都必须在同一个 goroutine 上调用（模拟循环）。
type World struct {
	Gravity    Vec3
	AllowSleep bool
	Material   ContactMaterial

	nextID      BodyID
	bodies      []*Body
	index       map[BodyID]*Body
	time        float64
	accumulator float64

	contacts map[pairKey]struct{}
	events   []CollisionEvent
}

// NewWorld 创建物理世界
func NewWorld(gravity Vec3) *World {
	return &World{
		Gravity:  gravity,
		Material: ContactMaterial{Friction: 0.3, Restitution: 0},
		nextID:   1,
		index:    make(map[BodyID]*Body),
		contacts: make(map[pairKey]struct{}),
	}
}

// AddBody 创建刚体并加入世界
func (w *World) AddBody(opts BodyOptions) (*Body, error) {
	if opts.Shape.Kind == ShapeBox && opts.Mass > 0 {
		return nil, fmt.Errorf("dynamic box bodies are not supported")
	}
	if opts.Shape.Kind == ShapeSphere && opts.Shape.Radius <= 0 {
		return nil, fmt.Errorf("sphere radius must be positive, got %.3f", opts.Shape.Radius)
	}
	b := newBody(opts)
	b.ID = w.nextID
	w.nextID++
	w.bodies = append(w.bodies, b)
	w.index[b.ID] = b
	return b, nil
}

// RemoveBody 从世界移除刚体，未知ID忽略
func (w *World) RemoveBody(id BodyID) {
	if _, ok := w.index[id]; !ok {
		return
	}
	delete(w.index, id)
	for i, b := range w.bodies {
		if b.ID == id {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			break
		}
	}
	for key := range w.contacts {
		if key.a == id || key.b == id {
			delete(w.contacts, key)
		}
	}
}

// Clear 移除所有刚体和待处理事件
func (w *World) Clear() {
	w.bodies = nil
	w.index = make(map[BodyID]*Body)
	w.contacts = make(map[pairKey]struct{})
	w.events = nil
	w.accumulator = 0
}

// Body 根据ID查找刚体
func (w *World) Body(id BodyID) (*Body, bool) {
	b, ok := w.index[id]
	return b, ok
}

// Bodies 返回世界中的刚体（按加入顺序）
func (w *World) Bodies() []*Body {
	return w.bodies
}

// BodyCount 返回刚体数量
func (w *World) BodyCount() int {
	return len(w.bodies)
}

// Time 返回世界累计模拟时间（秒）
func (w *World) Time() float64 {
	return w.time
}

// DrainEvents 返回自上次调用以来记录的碰撞事件并清空缓冲
func (w *World) DrainEvents() []CollisionEvent {
	events := w.events
	w.events = nil
	return events
}

// Step 推进物理世界
//
// 参数:
//   - dt: 固定子步长（秒）
//   - timeSinceLast: 自上次调用以来经过的时间，0 表示只执行一个固定子步
//   - maxSubSteps: 单次调用最多执行的子步数
//
// 返回:
//   - int: 实际执行的子步数
func (w *World) Step(dt, timeSinceLast float64, maxSubSteps int) int {
	if dt <= 0 {
		return 0
	}
	if timeSinceLast == 0 {
		w.internalStep(dt)
		return 1
	}

	w.accumulator += timeSinceLast
	substeps := 0
	for w.accumulator >= dt && substeps < maxSubSteps {
		w.internalStep(dt)
		w.accumulator -= dt
		substeps++
	}
	w.accumulator = math.Mod(w.accumulator, dt)
	return substeps
}

func (w *World) internalStep(dt float64) {
	// 1. 重力积分到速度
	for _, b := range w.bodies {
		if b.Type != BodyDynamic || b.SleepState == Sleeping {
			continue
		}
		b.Velocity = b.Velocity.Add(w.Gravity.Scale(dt))
		if b.LinearDamping > 0 {
			b.Velocity = b.Velocity.Scale(math.Pow(1-b.LinearDamping, dt))
		}
	}

	// 2. 窄相检测与碰撞响应
	current := make(map[pairKey]struct{}, len(w.contacts))
	for i := 0; i < len(w.bodies); i++ {
		bi := w.bodies[i]
		for j := i + 1; j < len(w.bodies); j++ {
			bj := w.bodies[j]
			if !needsCollision(bi, bj) {
				continue
			}
			w.narrowphase(bi, bj, current)
		}
	}

	// 3. 被活动刚体撞到的休眠刚体在窄相之后唤醒
	for _, b := range w.bodies {
		if b.wakeUpAfterNarrowphase {
			b.WakeUp()
		}
	}

	// 4. 位置积分
	for _, b := range w.bodies {
		if b.Type != BodyDynamic || b.SleepState == Sleeping {
			continue
		}
		b.Position = b.Position.Add(b.Velocity.Scale(dt))
	}

	w.contacts = current
	w.time += dt

	// 5. 休眠状态机
	if w.AllowSleep {
		for _, b := range w.bodies {
			b.sleepTick(w.time)
		}
	}
}

// needsCollision 粗筛：静态或休眠的刚体之间无需检测
func needsCollision(a, b *Body) bool {
	inactiveA := a.Type == BodyStatic || a.SleepState == Sleeping
	inactiveB := b.Type == BodyStatic || b.SleepState == Sleeping
	if inactiveA && inactiveB {
		return false
	}
	if a.Shape.Kind == ShapeBox && b.Shape.Kind == ShapeBox {
		return false
	}
	return true
}

// narrowphase 检测一对刚体并在接触时记录事件、解算响应
func (w *World) narrowphase(a, b *Body, current map[pairKey]struct{}) {
	trigger := a.IsTrigger || b.IsTrigger

	normal, penetration, ok := contact(a, b, trigger)
	if !ok {
		return
	}

	key := makePairKey(a.ID, b.ID)
	_, wasTouching := w.contacts[key]
	current[key] = struct{}{}
	w.events = append(w.events, CollisionEvent{
		A:       key.a,
		B:       key.b,
		Begin:   !wasTouching,
		Trigger: trigger,
	})

	if trigger {
		return
	}

	wakeOnContact(a, b)
	wakeOnContact(b, a)
	w.resolve(a, b, normal, penetration)
}

// contact 计算 a、b 的接触法线（由 b 指向 a）与穿透深度
func contact(a, b *Body, exact bool) (Vec3, float64, bool) {
	slop := contactSlop
	if exact {
		slop = 0
	}

	switch {
	case a.Shape.Kind == ShapeSphere && b.Shape.Kind == ShapeSphere:
		delta := a.Position.Sub(b.Position)
		dist := delta.Length()
		radii := a.Shape.Radius + b.Shape.Radius
		if dist >= radii+slop {
			return Vec3{}, 0, false
		}
		n := V3(0, 1, 0)
		if dist > 0 {
			n = delta.Scale(1 / dist)
		}
		return n, radii - dist, true

	case a.Shape.Kind == ShapeSphere && b.Shape.Kind == ShapeBox:
		return sphereBox(a, b, slop)

	case a.Shape.Kind == ShapeBox && b.Shape.Kind == ShapeSphere:
		n, pen, ok := sphereBox(b, a, slop)
		return n.Scale(-1), pen, ok
	}
	return Vec3{}, 0, false
}

// sphereBox 球体与轴对齐长方体，法线由长方体指向球心
func sphereBox(sphere, box *Body, slop float64) (Vec3, float64, bool) {
	h := box.Shape.HalfExtents
	local := sphere.Position.Sub(box.Position)
	closest := Vec3{
		X: clamp(local.X, -h.X, h.X),
		Y: clamp(local.Y, -h.Y, h.Y),
		Z: clamp(local.Z, -h.Z, h.Z),
	}
	delta := local.Sub(closest)
	dist := delta.Length()
	r := sphere.Shape.Radius

	if dist > 0 {
		if dist >= r+slop {
			return Vec3{}, 0, false
		}
		return delta.Scale(1 / dist), r - dist, true
	}

	// 球心在长方体内部：沿最浅的轴推出
	dx := h.X - math.Abs(local.X)
	dy := h.Y - math.Abs(local.Y)
	dz := h.Z - math.Abs(local.Z)
	switch {
	case dx <= dy && dx <= dz:
		return V3(sign(local.X), 0, 0), r + dx, true
	case dy <= dz:
		return V3(0, sign(local.Y), 0), r + dy, true
	default:
		return V3(0, 0, sign(local.Z)), r + dz, true
	}
}

// wakeOnContact 活动刚体撞到休眠刚体时，标记后者在窄相后唤醒
func wakeOnContact(sleeper, other *Body) {
	if !sleeper.AllowSleep || sleeper.SleepState != Sleeping {
		return
	}
	if other.Type != BodyDynamic || other.SleepState != Awake {
		return
	}
	limit := other.SleepSpeedLimit
	if other.Velocity.LengthSquared() >= limit*limit*2 {
		sleeper.wakeUpAfterNarrowphase = true
	}
}

// resolve 位置修正 + 法向冲量（含恢复系数）+ 库仑摩擦
func (w *World) resolve(a, b *Body, n Vec3, penetration float64) {
	invA := a.InvMass()
	invB := b.InvMass()
	// 休眠刚体在本步视为静止
	if a.SleepState == Sleeping && !a.wakeUpAfterNarrowphase {
		invA = 0
	}
	if b.SleepState == Sleeping && !b.wakeUpAfterNarrowphase {
		invB = 0
	}
	invSum := invA + invB
	if invSum == 0 {
		return
	}

	if penetration > contactSlop {
		correction := n.Scale((penetration - contactSlop) * correctionFactor / invSum)
		a.Position = a.Position.Add(correction.Scale(invA))
		b.Position = b.Position.Sub(correction.Scale(invB))
	}

	relVel := a.Velocity.Sub(b.Velocity)
	vn := relVel.Dot(n)
	if vn >= 0 {
		return
	}

	e := w.Material.Restitution
	if -vn < restitutionThreshold {
		e = 0
	}
	jn := -(1 + e) * vn / invSum
	impulse := n.Scale(jn)
	a.Velocity = a.Velocity.Add(impulse.Scale(invA))
	b.Velocity = b.Velocity.Sub(impulse.Scale(invB))

	// 摩擦：切向冲量不超过 μ·jn
	relVel = a.Velocity.Sub(b.Velocity)
	tangent := relVel.Sub(n.Scale(relVel.Dot(n)))
	vt := tangent.Length()
	if vt == 0 || w.Material.Friction == 0 {
		return
	}
	jt := math.Min(vt/invSum, w.Material.Friction*jn)
	frictionImpulse := tangent.Scale(-jt / vt)
	a.Velocity = a.Velocity.Add(frictionImpulse.Scale(invA))
	b.Velocity = b.Velocity.Sub(frictionImpulse.Scale(invB))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
