package components

import "github.com/decker502/galton/pkg/physics"

// PhysicsBodyComponent 将实体与物理世界中的刚体关联
type PhysicsBodyComponent struct {
	Body *physics.Body
}
