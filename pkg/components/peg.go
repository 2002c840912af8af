package components

// PegComponent 钉子组件
// 钉子是只报告碰撞、不产生物理响应的传感器球体
type PegComponent struct {
	Row    int     // 所在行（0 为顶行）
	Col    int     // 所在列（0..Row）
	X, Y   float64 // 世界坐标
	Radius float64 // 半径
	Hits   int     // 被球击中的次数，只由碰撞处理修改
}
