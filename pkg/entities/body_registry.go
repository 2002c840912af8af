package entities

import (
	"github.com/decker502/galton/pkg/ecs"
	"github.com/decker502/galton/pkg/physics"
)

// BodyRegistry 刚体ID到实体ID的显式映射
//
// 碰撞事件只携带刚体ID，分发时通过该映射找回钉子/球/桶实体。
// 未登记的刚体（如桶壁）在分发时被忽略。
type BodyRegistry struct {
	entities map[physics.BodyID]ecs.EntityID
}

// NewBodyRegistry 创建空映射
func NewBodyRegistry() *BodyRegistry {
	return &BodyRegistry{entities: make(map[physics.BodyID]ecs.EntityID)}
}

// Register 登记刚体所属实体
func (r *BodyRegistry) Register(body physics.BodyID, entity ecs.EntityID) {
	r.entities[body] = entity
}

// Unregister 移除刚体登记
func (r *BodyRegistry) Unregister(body physics.BodyID) {
	delete(r.entities, body)
}

// Lookup 查找刚体所属实体
func (r *BodyRegistry) Lookup(body physics.BodyID) (ecs.EntityID, bool) {
	id, ok := r.entities[body]
	return id, ok
}

// Len 返回登记数量
func (r *BodyRegistry) Len() int {
	return len(r.entities)
}

// Clear 清空映射
func (r *BodyRegistry) Clear() {
	r.entities = make(map[physics.BodyID]ecs.EntityID)
}
