package components

// SleepCheckComponent 延迟休眠复查
// 球速度暂时过高无法立即休眠时挂载，到期后再检查一次。
// 球被销毁时组件随实体一起消失，复查自然失效。
type SleepCheckComponent struct {
	Remaining  float64 // 剩余等待时间（秒）
	SpeedLimit float64 // 到期时速度低于该值才休眠
}
