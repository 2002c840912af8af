package game

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/decker502/galton/pkg/components"
	"github.com/decker502/galton/pkg/config"
	"github.com/decker502/galton/pkg/ecs"
	"github.com/decker502/galton/pkg/entities"
	"github.com/decker502/galton/pkg/physics"
	"github.com/decker502/galton/pkg/systems"
)

// ErrMissingConfig 创建棋盘时缺少配置
var ErrMissingConfig = errors.New("board config is required")

// EventKind 棋盘事件类型
type EventKind int

const (
	// EventBallSpawned 投放了一个新球
	EventBallSpawned EventKind = iota
	// EventBallEnteredBucket 球首次进入某个桶
	EventBallEnteredBucket
	// EventResetCompleted Reset 完成
	EventResetCompleted
)

// String 返回事件类型名称
func (k EventKind) String() string {
	switch k {
	case EventBallSpawned:
		return "ball-spawned"
	case EventBallEnteredBucket:
		return "ball-entered-bucket"
	case EventResetCompleted:
		return "reset-completed"
	default:
		return "unknown"
	}
}

// Event 棋盘通知
//
// 按 Kind 使用不同字段：
//   - EventBallSpawned: Ball, TotalSpawned
//   - EventBallEnteredBucket: Ball, BucketIndex, BucketCount
//   - EventResetCompleted: 无
type Event struct {
	Kind         EventKind
	Ball         ecs.EntityID
	TotalSpawned int
	BucketIndex  int
	BucketCount  int
}

// Board 高尔顿板
//
// 持有配置并负责构建/销毁钉阵、计数桶和球体，对外暴露控制接口与通知。
// 所有方法必须在同一个 goroutine 上调用（ebiten Update 或终端主循环）。
type Board struct {
	cfg      *config.BoardConfig
	rng      *rand.Rand
	stats    *Stats
	em       *ecs.EntityManager
	world    *physics.World
	registry *entities.BodyRegistry

	buckets  *systems.BucketSystem
	dispatch *systems.CollisionDispatchSystem
	life     *systems.BallLifecycleSystem
	sim      *Simulation

	pegs      []ecs.EntityID
	bucketIDs []ecs.EntityID

	// spawned 自上次 Reset/重建以来投放的球数
	spawned int
	// generation 每次重建加一，前端据此重新取景
	generation int
	torn       bool

	listeners map[int]func(Event)
	nextSub   int
}

// NewBoard 创建棋盘并完成首次构建
//
// 开启自动投放时会立即投放第一个球。
//
// 参数:
//   - cfg: 棋盘配置，不能为 nil；棋盘持有其副本
//
// 返回:
//   - *Board: 棋盘实例
//   - error: 缺少配置或构建失败时返回错误
func NewBoard(cfg *config.BoardConfig) (*Board, error) {
	if cfg == nil {
		return nil, ErrMissingConfig
	}
	own := cfg.Clone()
	own.Normalize()
	if err := own.Validate(); err != nil {
		return nil, fmt.Errorf("invalid board config: %w", err)
	}

	seed := own.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	b := &Board{
		cfg:       own,
		rng:       rand.New(rand.NewSource(seed)),
		stats:     NewStats(),
		em:        ecs.NewEntityManager(),
		registry:  entities.NewBodyRegistry(),
		listeners: make(map[int]func(Event)),
	}

	if err := b.build(); err != nil {
		return nil, err
	}
	log.Printf("[Board] Created: rows=%d gravity=%.2f animationSpeed=%.1f seed=%d",
		own.PegRows, own.Gravity, own.AnimationSpeed, seed)
	return b, nil
}

// build 构建物理世界、钉阵、计数桶和各系统
func (b *Board) build() error {
	cfg := b.cfg

	b.world = physics.NewWorld(physics.V3(0, -cfg.Gravity, 0))
	b.world.AllowSleep = true
	b.world.Material = physics.ContactMaterial{
		Friction:    cfg.Physics.Friction,
		Restitution: cfg.Physics.Restitution,
	}

	pegs, err := entities.CreatePegGrid(b.em, b.world, b.registry, cfg.PegRows,
		config.PegSpacingX, config.PegSpacingY, config.PegRadius)
	if err != nil {
		return fmt.Errorf("failed to build peg grid: %w", err)
	}
	b.pegs = pegs

	buckets, err := entities.CreateBuckets(b.em, b.world, b.registry, cfg.PegRows,
		config.PegSpacingX, config.PegSpacingY)
	if err != nil {
		return fmt.Errorf("failed to build buckets: %w", err)
	}
	b.bucketIDs = buckets

	b.buckets = systems.NewBucketSystem(b.em, b.rng)
	b.dispatch = systems.NewCollisionDispatchSystem(b.em, b.registry, cfg, b.rng, b.buckets, b.stats)
	b.life = systems.NewBallLifecycleSystem(b.em, b.world, b.registry, cfg, b.stats)
	b.sim = NewSimulation(b.em, b.world, cfg, b.dispatch, b.life)
	b.sim.onSpawnRequest = b.spawnFromPeg
	b.sim.onBucketEntry = b.bucketEntered

	b.spawned = 0
	b.generation++
	b.torn = false

	if cfg.AutoSpawn {
		if _, err := b.AddBall(); err != nil {
			return err
		}
	}
	return nil
}

// destroyAll 销毁所有实体和刚体
func (b *Board) destroyAll() {
	for _, id := range ecs.GetEntitiesWith1[*components.PhysicsBodyComponent](b.em) {
		entities.DestroyBodies(b.em, b.world, b.registry, id)
	}
	b.em.RemoveMarkedEntities()
	if b.world != nil {
		b.world.Clear()
	}
	b.registry.Clear()
	b.pegs = nil
	b.bucketIDs = nil
}

// rebuild 销毁并按当前配置重新构建
func (b *Board) rebuild() error {
	b.destroyAll()
	if err := b.build(); err != nil {
		return err
	}
	log.Printf("[Board] Rebuilt: rows=%d gravity=%.2f animationSpeed=%.1f",
		b.cfg.PegRows, b.cfg.Gravity, b.cfg.AnimationSpeed)
	return nil
}

// Tick 推进一帧模拟，Teardown 之后不做任何事
func (b *Board) Tick(delta float64) TickResult {
	if b.torn {
		return TickResult{}
	}
	return b.sim.Tick(delta)
}

// AddBall 在投放点投放一个新球
//
// 返回:
//   - ecs.EntityID: 新球实体ID
//   - error: 创建失败时返回错误
func (b *Board) AddBall() (ecs.EntityID, error) {
	if b.torn {
		return 0, errors.New("board has been torn down")
	}

	id, err := entities.NewBallEntity(b.em, b.world, b.registry, entities.BallSpec{
		Serial:   b.spawned,
		Radius:   b.cfg.BallRadius,
		Position: physics.V3(config.SpawnX, config.SpawnY, config.SpawnZ),
		Now:      b.sim.Clock(),
		Tuning:   b.cfg.Physics,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to add ball: %w", err)
	}

	b.spawned++
	b.emit(Event{Kind: EventBallSpawned, Ball: id, TotalSpawned: b.spawned})
	return id, nil
}

func (b *Board) spawnFromPeg() {
	if _, err := b.AddBall(); err != nil {
		log.Printf("[Board] Warning: auto spawn failed: %v", err)
	}
}

func (b *Board) bucketEntered(entry systems.BucketEntry) {
	b.emit(Event{
		Kind:        EventBallEnteredBucket,
		Ball:        entry.Ball,
		BucketIndex: entry.BucketIndex,
		BucketCount: entry.Count,
	})
}

// Reset 移除所有球并清零投放计数，取消未到期的延迟复查
//
// 钉子击中数和桶计数保留（见 ClearCounts）。开启自动投放时随后投放一个新球。
func (b *Board) Reset() {
	if b.torn {
		return
	}
	b.life.ClearDeferredChecks()
	removed := b.life.RemoveAll()
	b.em.RemoveMarkedEntities()
	b.spawned = 0

	log.Printf("[Board] Reset: removed %d balls", removed)
	b.emit(Event{Kind: EventResetCompleted})

	if b.cfg.AutoSpawn {
		b.spawnFromPeg()
	}
}

// ClearCounts 清零所有钉子击中数和桶计数
func (b *Board) ClearCounts() {
	for _, id := range b.pegs {
		if peg, ok := ecs.GetComponent[*components.PegComponent](b.em, id); ok {
			peg.Hits = 0
		}
	}
	if b.buckets != nil {
		b.buckets.ClearCounts()
	}
}

// BallCount 自上次 Reset 或重建以来投放的球数
func (b *Board) BallCount() int {
	return b.spawned
}

// LiveBallCount 当前存活的球数
func (b *Board) LiveBallCount() int {
	return len(ecs.GetEntitiesWith1[*components.BallComponent](b.em))
}

// BucketCounts 按桶序号返回各桶计数
func (b *Board) BucketCounts() []int {
	if b.buckets == nil {
		return nil
	}
	return b.buckets.Counts()
}

// PegHits 按行返回各钉子击中数
func (b *Board) PegHits() [][]int {
	hits := make([][]int, b.cfg.PegRows)
	for row := range hits {
		hits[row] = make([]int, row+1)
	}
	for _, id := range b.pegs {
		peg, ok := ecs.GetComponent[*components.PegComponent](b.em, id)
		if !ok || peg.Row >= len(hits) {
			continue
		}
		hits[peg.Row][peg.Col] = peg.Hits
	}
	return hits
}

// SetRows 修改钉子行数并重建
func (b *Board) SetRows(rows int) error {
	b.cfg.PegRows = config.CoerceRows(rows)
	return b.rebuild()
}

// SetGravity 修改重力并重建
func (b *Board) SetGravity(g float64) error {
	b.cfg.Gravity = config.CoerceGravity(g)
	return b.rebuild()
}

// SetAnimationSpeed 修改动画速度倍率并重建
func (b *Board) SetAnimationSpeed(speed float64) error {
	b.cfg.AnimationSpeed = config.CoerceAnimationSpeed(speed)
	return b.rebuild()
}

// SetBallRadius 修改之后投放的球的半径，不重建
func (b *Board) SetBallRadius(radius float64) {
	b.cfg.BallRadius = config.CoerceBallRadius(radius)
}

// SetAutoSpawn 切换自动投放，从关闭变为开启时立即投放一个球
func (b *Board) SetAutoSpawn(enabled bool) {
	wasEnabled := b.cfg.AutoSpawn
	b.cfg.AutoSpawn = enabled
	if enabled && !wasEnabled && !b.torn {
		b.spawnFromPeg()
	}
}

// SetSleepPolicy 切换防抖策略，立即生效
func (b *Board) SetSleepPolicy(policy config.SleepPolicy) {
	b.cfg.SleepPolicy = policy
	b.cfg.Normalize()
}

// Subscribe 订阅棋盘事件
//
// 返回:
//   - func(): 取消订阅
func (b *Board) Subscribe(fn func(Event)) func() {
	id := b.nextSub
	b.nextSub++
	b.listeners[id] = fn
	return func() { delete(b.listeners, id) }
}

func (b *Board) emit(ev Event) {
	for id := 0; id < b.nextSub; id++ {
		if fn, ok := b.listeners[id]; ok {
			fn(ev)
		}
	}
}

// Teardown 销毁所有实体，之后的 Tick 和 AddBall 均无效
func (b *Board) Teardown() {
	if b.torn {
		return
	}
	b.destroyAll()
	b.torn = true
	log.Printf("[Board] Torn down")
}

// Config 返回当前配置的副本
func (b *Board) Config() *config.BoardConfig {
	return b.cfg.Clone()
}

// Stats 返回生命周期统计
func (b *Board) Stats() *Stats {
	return b.stats
}

// Clock 返回模拟循环时钟（秒）
func (b *Board) Clock() float64 {
	return b.sim.Clock()
}

// Generation 返回重建次数（首次构建为 1）
func (b *Board) Generation() int {
	return b.generation
}

// Height 返回棋盘高度（钉阵部分）
func (b *Board) Height() float64 {
	return config.BoardHeight(b.cfg.PegRows, config.PegSpacingY)
}

// PegView 渲染用的钉子快照
type PegView struct {
	Row, Col int
	X, Y     float64
	Radius   float64
	Hits     int
	// Glow 击中高亮强度 [0, 1]
	Glow float64
}

// Pegs 按行优先顺序返回钉子快照
func (b *Board) Pegs() []PegView {
	pegs := make([]PegView, 0, len(b.pegs))
	for _, id := range b.pegs {
		peg, ok := ecs.GetComponent[*components.PegComponent](b.em, id)
		if !ok {
			continue
		}
		view := PegView{Row: peg.Row, Col: peg.Col, X: peg.X, Y: peg.Y, Radius: peg.Radius, Hits: peg.Hits}
		if flash, ok := ecs.GetComponent[*components.FlashEffectComponent](b.em, id); ok {
			view.Glow = flash.Strength()
		}
		pegs = append(pegs, view)
	}
	return pegs
}

// Buckets 按序号返回桶组件
func (b *Board) Buckets() []*components.BucketComponent {
	if b.buckets == nil {
		return nil
	}
	return b.buckets.Buckets()
}

// BallView 渲染用的球体快照
type BallView struct {
	ID       ecs.EntityID
	Serial   int
	Position physics.Vec3
	Radius   float64
	Color    uint32
	State    physics.SleepState
	InBucket bool
}

// Balls 返回所有存活球体的快照（按实体ID升序）
func (b *Board) Balls() []BallView {
	ids := ecs.GetEntitiesWith2[*components.BallComponent, *components.PhysicsBodyComponent](b.em)
	views := make([]BallView, 0, len(ids))
	for _, id := range ids {
		ball, _ := ecs.GetComponent[*components.BallComponent](b.em, id)
		bodyComp, _ := ecs.GetComponent[*components.PhysicsBodyComponent](b.em, id)
		if ball == nil || bodyComp == nil || bodyComp.Body == nil {
			continue
		}
		views = append(views, BallView{
			ID:       id,
			Serial:   ball.Serial,
			Position: bodyComp.Body.Position,
			Radius:   ball.Radius,
			Color:    ball.Color,
			State:    bodyComp.Body.SleepState,
			InBucket: ball.HasBucket(),
		})
	}
	return views
}
