package components

// CameraComponent 棋盘摄像机
//
// 把世界坐标映射到屏幕：屏幕中心对准 (CenterX, CenterY)，每个世界单位 Zoom 像素。
// 棋盘重建后从当前取景平滑过渡到新取景。
type CameraComponent struct {
	// 当前取景
	CenterX, CenterY float64
	Zoom             float64

	// 过渡起点与终点
	FromX, FromY, FromZoom float64
	ToX, ToY, ToZoom       float64

	// Elapsed/Duration 过渡进度（秒）
	Elapsed  float64
	Duration float64

	// IsAnimating 是否正在过渡
	IsAnimating bool

	// UserZoom 鼠标滚轮叠加的缩放倍率
	UserZoom float64

	// PanX/PanY 拖动产生的取景偏移（世界单位），重建后清零
	PanX, PanY float64
}
