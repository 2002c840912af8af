package entities

import (
	"fmt"

	"github.com/decker502/galton/pkg/components"
	"github.com/decker502/galton/pkg/config"
	"github.com/decker502/galton/pkg/ecs"
	"github.com/decker502/galton/pkg/physics"
)

// NewPegEntity 创建单个钉子实体
//
// 钉子是质量为 0 的传感器球体，只报告碰撞而不施加作用力。
//
// 参数:
//   - em: 实体管理器
//   - world: 物理世界
//   - reg: 刚体映射
//   - row, col: 行列索引
//   - x, y: 世界坐标
//   - radius: 钉子半径
//
// 返回:
//   - ecs.EntityID: 创建的钉子实体ID
//   - error: 如果创建刚体失败返回错误信息
func NewPegEntity(em *ecs.EntityManager, world *physics.World, reg *BodyRegistry, row, col int, x, y, radius float64) (ecs.EntityID, error) {
	body, err := world.AddBody(physics.BodyOptions{
		Mass:      0,
		Shape:     physics.Sphere(radius),
		Position:  physics.V3(x, y, 0),
		IsTrigger: true,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create peg body (row=%d, col=%d): %w", row, col, err)
	}

	entityID := em.CreateEntity()
	ecs.AddComponent(em, entityID, &components.PegComponent{
		Row:    row,
		Col:    col,
		X:      x,
		Y:      y,
		Radius: radius,
	})
	ecs.AddComponent(em, entityID, &components.PhysicsBodyComponent{Body: body})
	reg.Register(body.ID, entityID)

	return entityID, nil
}

// CreatePegGrid 创建三角形钉阵
//
// 第 i 行（0..rows-1）有 i+1 个钉子，水平居中：
// x = (j - i/2) * 2 * spacingX, y = -i * spacingY
//
// 返回:
//   - []ecs.EntityID: 按行优先顺序排列的钉子实体
//   - error: 创建失败时返回错误
func CreatePegGrid(em *ecs.EntityManager, world *physics.World, reg *BodyRegistry, rows int, spacingX, spacingY, radius float64) ([]ecs.EntityID, error) {
	pegs := make([]ecs.EntityID, 0, rows*(rows+1)/2)

	for row := 0; row < rows; row++ {
		for col := 0; col <= row; col++ {
			x, y := config.PegPosition(row, col, spacingX, spacingY)
			id, err := NewPegEntity(em, world, reg, row, col, x, y, radius)
			if err != nil {
				return pegs, err
			}
			pegs = append(pegs, id)
		}
	}

	return pegs, nil
}
