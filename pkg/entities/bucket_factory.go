package entities

import (
	"fmt"

	"github.com/decker502/galton/pkg/components"
	"github.com/decker502/galton/pkg/config"
	"github.com/decker502/galton/pkg/ecs"
	"github.com/decker502/galton/pkg/physics"
)

// NewBucketEntity 创建单个计数桶
//
// 桶由底、左、右三面可见墙和前、后两面不可见墙组成，
// 桶口上方有一个传感器盖用来检测球体进入。
//
// 参数:
//   - em: 实体管理器
//   - world: 物理世界
//   - reg: 刚体映射（只登记传感器盖）
//   - index: 桶序号
//   - x, y: 桶中心
//   - width, height, depth: 桶尺寸
//
// 返回:
//   - ecs.EntityID: 创建的桶实体ID
//   - error: 如果创建刚体失败返回错误信息
func NewBucketEntity(em *ecs.EntityManager, world *physics.World, reg *BodyRegistry, index int, x, y, width, height, depth float64) (ecs.EntityID, error) {
	half := config.BucketWallThickness / 2

	walls := []struct {
		name        string
		halfExtents physics.Vec3
		position    physics.Vec3
	}{
		{"bottom", physics.V3(width/2, half, depth/2), physics.V3(x, y-height/2, 0)},
		{"left", physics.V3(half, height/2, depth/2), physics.V3(x-width/2, y, 0)},
		{"right", physics.V3(half, height/2, depth/2), physics.V3(x+width/2, y, 0)},
		{"front", physics.V3(width/2, height/2, half), physics.V3(x, y, depth/2)},
		{"back", physics.V3(width/2, height/2, half), physics.V3(x, y, -depth/2)},
	}

	bucket := &components.BucketComponent{
		Index:      index,
		X:          x,
		Y:          y,
		Width:      width,
		Height:     height,
		Depth:      depth,
		WallBodies: make([]physics.BodyID, 0, len(walls)),
	}

	for _, wall := range walls {
		body, err := world.AddBody(physics.BodyOptions{
			Mass:     0,
			Shape:    physics.Box(wall.halfExtents),
			Position: wall.position,
		})
		if err != nil {
			return 0, fmt.Errorf("failed to create bucket %d %s wall: %w", index, wall.name, err)
		}
		bucket.WallBodies = append(bucket.WallBodies, body.ID)
	}

	lid, err := world.AddBody(physics.BodyOptions{
		Mass:      0,
		Shape:     physics.Box(physics.V3(width/2, config.BucketLidHalfHeight, depth/2)),
		Position:  physics.V3(x, y+height/2, 0),
		IsTrigger: true,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create bucket %d lid: %w", index, err)
	}
	bucket.LidBody = lid.ID

	entityID := em.CreateEntity()
	ecs.AddComponent(em, entityID, bucket)
	ecs.AddComponent(em, entityID, &components.PhysicsBodyComponent{Body: lid})
	reg.Register(lid.ID, entityID)

	return entityID, nil
}

// CreateBuckets 在最后一行钉子下方创建 rows+1 个计数桶
//
// 桶的水平位置与假想的第 rows 行钉子一致，宽度与钉子间距成正比。
func CreateBuckets(em *ecs.EntityManager, world *physics.World, reg *BodyRegistry, rows int, spacingX, spacingY float64) ([]ecs.EntityID, error) {
	width := spacingX * config.BucketWidthFactor
	buckets := make([]ecs.EntityID, 0, rows+1)

	for i := 0; i <= rows; i++ {
		x, y := config.BucketCenter(i, rows, spacingX, spacingY)
		id, err := NewBucketEntity(em, world, reg, i, x, y, width, config.BucketHeight, config.BucketDepth)
		if err != nil {
			return buckets, err
		}
		buckets = append(buckets, id)
	}

	return buckets, nil
}
