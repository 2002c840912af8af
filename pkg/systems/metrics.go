package systems

// Metrics 球体生命周期统计接收器
//
// 由模拟循环注入，系统只负责上报，不持有计数。
type Metrics interface {
	SmartWakeUp()
	PreventedWakeUp()
	ForcedSleep()
	StaticPromotion()
	RemovedBelowFloor()
	RemovedStatic()
}

// NopMetrics 丢弃所有上报
type NopMetrics struct{}

func (NopMetrics) SmartWakeUp()       {}
func (NopMetrics) PreventedWakeUp()   {}
func (NopMetrics) ForcedSleep()       {}
func (NopMetrics) StaticPromotion()   {}
func (NopMetrics) RemovedBelowFloor() {}
func (NopMetrics) RemovedStatic()     {}
