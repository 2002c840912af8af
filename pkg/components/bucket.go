package components

import "github.com/decker502/galton/pkg/physics"

// BucketComponent 计数桶组件
//
// 桶由五面实体墙（底、左、右、前、后）和一个桶口传感器盖组成，
// 只有传感器盖会被登记到刚体映射中参与计数。
type BucketComponent struct {
	Index  int     // 从左到右的序号
	X, Y   float64 // 桶中心坐标
	Width  float64
	Height float64
	Depth  float64
	Count  int // 进入该桶的球数，每个球最多计一次

	// LidBody 桶口传感器
	LidBody physics.BodyID
	// WallBodies 实体墙，随桶一起销毁
	WallBodies []physics.BodyID
}
