package systems

import (
	"github.com/decker502/galton/pkg/components"
	"github.com/decker502/galton/pkg/ecs"
)

// PegFlashDuration 钉子被击中后的高亮时长（秒，真实时间）
const PegFlashDuration = 0.25

// FlashEffectSystem 管理击中高亮的生命周期
type FlashEffectSystem struct {
	entityManager *ecs.EntityManager
}

// NewFlashEffectSystem 创建高亮效果系统
func NewFlashEffectSystem(em *ecs.EntityManager) *FlashEffectSystem {
	return &FlashEffectSystem{
		entityManager: em,
	}
}

// TriggerFlash 为实体添加（或重置）高亮
func TriggerFlash(em *ecs.EntityManager, id ecs.EntityID, duration float64) {
	if flash, ok := ecs.GetComponent[*components.FlashEffectComponent](em, id); ok {
		flash.Elapsed = 0
		flash.IsActive = true
		return
	}
	ecs.AddComponent(em, id, &components.FlashEffectComponent{
		Duration:  duration,
		Intensity: 1,
		IsActive:  true,
	})
}

// Update 推进所有高亮效果，到期的组件被移除
//
// 参数：
//   - dt: 时间增量（秒）
func (s *FlashEffectSystem) Update(dt float64) {
	entities := ecs.GetEntitiesWith1[*components.FlashEffectComponent](s.entityManager)

	for _, entity := range entities {
		flashComp, ok := ecs.GetComponent[*components.FlashEffectComponent](s.entityManager, entity)
		if !ok || !flashComp.IsActive {
			continue
		}

		flashComp.Elapsed += dt
		if flashComp.Elapsed >= flashComp.Duration {
			ecs.RemoveComponent[*components.FlashEffectComponent](s.entityManager, entity)
		}
	}
}
