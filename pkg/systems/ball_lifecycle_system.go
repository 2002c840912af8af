package systems

import (
	"github.com/decker502/galton/pkg/components"
	"github.com/decker502/galton/pkg/config"
	"github.com/decker502/galton/pkg/ecs"
	"github.com/decker502/galton/pkg/entities"
	"github.com/decker502/galton/pkg/physics"
)

// neighbourWakeMargin 销毁球体时唤醒与其接触的休眠球的额外距离
const neighbourWakeMargin = 0.05

// SweepResult 一次清理的结果
type SweepResult struct {
	BelowFloor int
	Static     int
}

// Total 返回清理的球总数
func (r SweepResult) Total() int {
	return r.BelowFloor + r.Static
}

// BallLifecycleSystem 球体生命周期
//
// 负责每帧的位置历史、强制休眠和着色，延迟休眠复查，
// 以及越界球和静态球的清理。
type BallLifecycleSystem struct {
	em       *ecs.EntityManager
	world    *physics.World
	registry *entities.BodyRegistry
	cfg      *config.BoardConfig
	metrics  Metrics
}

// NewBallLifecycleSystem 创建球体生命周期系统
func NewBallLifecycleSystem(em *ecs.EntityManager, world *physics.World, registry *entities.BodyRegistry,
	cfg *config.BoardConfig, metrics Metrics) *BallLifecycleSystem {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &BallLifecycleSystem{
		em:       em,
		world:    world,
		registry: registry,
		cfg:      cfg,
		metrics:  metrics,
	}
}

// Update 更新所有活动球体
//
// 参数:
//   - now: 模拟循环时钟（秒）
func (s *BallLifecycleSystem) Update(now float64) {
	tuning := s.cfg.Physics

	for _, id := range ecs.GetEntitiesWith2[*components.BallComponent, *components.PhysicsBodyComponent](s.em) {
		ball, body, ok := ballParts(s.em, id)
		if !ok || ball.IsStatic {
			continue
		}

		ball.History.Record(body.Position, now)

		// 已入桶且近一秒几乎没动的活动球强制休眠
		if ball.HasBucket() && body.SleepState == physics.Awake &&
			ball.History.Len() >= 2 && ball.History.Displacement() < tuning.ForcedSleepDisplacement {
			body.Sleep()
			s.metrics.ForcedSleep()
		}

		ball.Color = components.SleepColor(body.SleepState)
		ball.LastSleepState = body.SleepState
	}
}

// RunDeferredChecks 推进延迟休眠复查，到期后速度仍低于阈值的球进入休眠
//
// 球在等待期间被销毁时组件随实体消失，复查不会执行。
func (s *BallLifecycleSystem) RunDeferredChecks(dt float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.SleepCheckComponent](s.em) {
		check, ok := ecs.GetComponent[*components.SleepCheckComponent](s.em, id)
		if !ok {
			continue
		}
		check.Remaining -= dt
		if check.Remaining > 0 {
			continue
		}
		ecs.RemoveComponent[*components.SleepCheckComponent](s.em, id)

		ball, body, ok := ballParts(s.em, id)
		if !ok || ball.IsStatic || body.SleepState == physics.Sleeping {
			continue
		}
		if body.Speed() < check.SpeedLimit {
			body.Sleep()
			ball.LastSleepState = physics.Sleeping
			s.metrics.ForcedSleep()
		}
	}
}

// ClearDeferredChecks 取消所有未到期的延迟复查
func (s *BallLifecycleSystem) ClearDeferredChecks() {
	for _, id := range ecs.GetEntitiesWith1[*components.SleepCheckComponent](s.em) {
		ecs.RemoveComponent[*components.SleepCheckComponent](s.em, id)
	}
}

// Sweep 销毁越界球（低于棋盘高度两倍）和已冻结为静态的球
//
// 只标记实体删除，调用方负责 RemoveMarkedEntities。
func (s *BallLifecycleSystem) Sweep() SweepResult {
	var result SweepResult
	floor := config.FloorThreshold(s.cfg.PegRows, config.PegSpacingY)

	for _, id := range ecs.GetEntitiesWith2[*components.BallComponent, *components.PhysicsBodyComponent](s.em) {
		ball, body, ok := ballParts(s.em, id)
		if !ok {
			continue
		}

		switch {
		case body.Position.Y < floor:
			result.BelowFloor++
			s.metrics.RemovedBelowFloor()
		case ball.IsStatic || body.Type == physics.BodyStatic:
			result.Static++
			s.metrics.RemovedStatic()
		default:
			continue
		}

		s.wakeNeighbours(body)
		entities.DestroyBodies(s.em, s.world, s.registry, id)
	}

	return result
}

// RemoveAll 销毁所有球体
func (s *BallLifecycleSystem) RemoveAll() int {
	removed := 0
	for _, id := range ecs.GetEntitiesWith1[*components.BallComponent](s.em) {
		entities.DestroyBodies(s.em, s.world, s.registry, id)
		removed++
	}
	return removed
}

// wakeNeighbours 唤醒与被移除球接触的休眠球，避免它们悬空
func (s *BallLifecycleSystem) wakeNeighbours(removed *physics.Body) {
	for _, b := range s.world.Bodies() {
		if b.ID == removed.ID || b.Type != physics.BodyDynamic || b.SleepState != physics.Sleeping {
			continue
		}
		reach := removed.Shape.Radius + b.Shape.Radius + neighbourWakeMargin
		if b.Position.DistanceTo(removed.Position) < reach {
			b.WakeUp()
		}
	}
}
