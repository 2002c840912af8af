package entities

import (
	"fmt"

	"github.com/decker502/galton/pkg/components"
	"github.com/decker502/galton/pkg/config"
	"github.com/decker502/galton/pkg/ecs"
	"github.com/decker502/galton/pkg/physics"
)

// BallSpec 创建球体的参数
type BallSpec struct {
	Serial   int
	Radius   float64
	Position physics.Vec3
	// Now 模拟循环时钟（秒）
	Now    float64
	Tuning config.PhysicsTuning
}

// NewBallEntity 创建球体实体
//
// 球体质量为 1，允许休眠，关闭阻尼以免影响弹道。
//
// 返回:
//   - ecs.EntityID: 创建的球体实体ID
//   - error: 如果创建刚体失败返回错误信息
func NewBallEntity(em *ecs.EntityManager, world *physics.World, reg *BodyRegistry, spec BallSpec) (ecs.EntityID, error) {
	body, err := world.AddBody(physics.BodyOptions{
		Mass:            1,
		Shape:           physics.Sphere(spec.Radius),
		Position:        spec.Position,
		AllowSleep:      true,
		SleepSpeedLimit: spec.Tuning.SleepSpeedLimit,
		SleepTimeLimit:  spec.Tuning.SleepTimeLimit,
		LinearDamping:   0,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create ball body: %w", err)
	}

	entityID := em.CreateEntity()
	ecs.AddComponent(em, entityID, components.NewBallComponent(
		spec.Serial, spec.Radius, spec.Position, spec.Now, spec.Tuning.HistoryWindow))
	ecs.AddComponent(em, entityID, &components.PhysicsBodyComponent{Body: body})
	reg.Register(body.ID, entityID)

	return entityID, nil
}

// DestroyBodies 移除实体关联的全部刚体并标记实体待删除
//
// 适用于钉子、球和桶（桶会一并移除实体墙）。
func DestroyBodies(em *ecs.EntityManager, world *physics.World, reg *BodyRegistry, id ecs.EntityID) {
	if bodyComp, ok := ecs.GetComponent[*components.PhysicsBodyComponent](em, id); ok && bodyComp.Body != nil {
		reg.Unregister(bodyComp.Body.ID)
		world.RemoveBody(bodyComp.Body.ID)
	}
	if bucket, ok := ecs.GetComponent[*components.BucketComponent](em, id); ok {
		for _, wall := range bucket.WallBodies {
			world.RemoveBody(wall)
		}
	}
	em.DestroyEntity(id)
}
