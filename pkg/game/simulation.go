package game

import (
	"github.com/decker502/galton/pkg/config"
	"github.com/decker502/galton/pkg/ecs"
	"github.com/decker502/galton/pkg/physics"
	"github.com/decker502/galton/pkg/systems"
)

// TickResult 一帧模拟的汇总
type TickResult struct {
	Substeps int
	Dispatch systems.DispatchResult
	Sweep    systems.SweepResult
	// Removed 本帧实际清理的实体数
	Removed int
}

// Simulation 模拟循环
//
// 每帧依次执行：
//  1. 物理步进（固定子步长，帧时间乘以动画速度，子步数有上限）
//  2. 分发本帧碰撞事件
//  3. 更新所有活动球体（位置历史、强制休眠、着色）
//  4. 执行到期的延迟复查，衰减钉子高亮
//  5. 清理越界球和静态球
//
// 暂停即停止调用 Tick；恢复后帧时间中的空档由子步上限吸收。
type Simulation struct {
	em       *ecs.EntityManager
	world    *physics.World
	cfg      *config.BoardConfig
	dispatch *systems.CollisionDispatchSystem
	life     *systems.BallLifecycleSystem
	flash    *systems.FlashEffectSystem

	// clock 累计的真实时间（秒，不乘动画速度）
	clock float64

	// onSpawnRequest 第二行钉子请求投放新球
	onSpawnRequest func()
	// onBucketEntry 球首次入桶
	onBucketEntry func(systems.BucketEntry)
}

// NewSimulation 创建模拟循环
func NewSimulation(em *ecs.EntityManager, world *physics.World, cfg *config.BoardConfig,
	dispatch *systems.CollisionDispatchSystem, life *systems.BallLifecycleSystem) *Simulation {
	return &Simulation{
		em:       em,
		world:    world,
		cfg:      cfg,
		dispatch: dispatch,
		life:     life,
		flash:    systems.NewFlashEffectSystem(em),
	}
}

// Clock 返回模拟循环时钟（秒）
func (s *Simulation) Clock() float64 {
	return s.clock
}

// Tick 推进一帧
//
// 参数:
//   - delta: 距上一帧的真实时间（秒），负数按 0 处理
func (s *Simulation) Tick(delta float64) TickResult {
	if delta < 0 {
		delta = 0
	}
	s.clock += delta

	var result TickResult
	tuning := s.cfg.Physics
	result.Substeps = s.world.Step(tuning.FixedTimeStep, delta*s.cfg.AnimationSpeed, tuning.MaxSubSteps)

	result.Dispatch = s.dispatch.Dispatch(s.world.DrainEvents(), s.clock)
	if s.onBucketEntry != nil {
		for _, entry := range result.Dispatch.Entries {
			s.onBucketEntry(entry)
		}
	}
	if s.onSpawnRequest != nil {
		for i := 0; i < result.Dispatch.SpawnRequests; i++ {
			s.onSpawnRequest()
		}
	}

	s.life.Update(s.clock)
	s.life.RunDeferredChecks(delta)
	s.flash.Update(delta)

	result.Sweep = s.life.Sweep()
	result.Removed = s.em.RemoveMarkedEntities()
	return result
}
