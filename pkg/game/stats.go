package game

// Stats 球体生命周期统计
//
// 由 Board 创建并注入模拟循环，只在模拟所在的 goroutine 上读写。
// 实现 systems.Metrics。
type Stats struct {
	SmartWakeUps      int
	PreventedWakeUps  int
	ForcedSleeps      int
	StaticPromotions  int
	// FloorRemovals 落出棋盘被清理的球数
	FloorRemovals int
	// StaticRemovals 冻结为静态后被清理的球数
	StaticRemovals int
}

// NewStats 创建空统计
func NewStats() *Stats {
	return &Stats{}
}

func (s *Stats) SmartWakeUp()       { s.SmartWakeUps++ }
func (s *Stats) PreventedWakeUp()   { s.PreventedWakeUps++ }
func (s *Stats) ForcedSleep()       { s.ForcedSleeps++ }
func (s *Stats) StaticPromotion()   { s.StaticPromotions++ }
func (s *Stats) RemovedBelowFloor() { s.FloorRemovals++ }
func (s *Stats) RemovedStatic()     { s.StaticRemovals++ }

// Snapshot 返回当前统计的副本
func (s *Stats) Snapshot() Stats {
	return *s
}

// Reset 清零所有统计
func (s *Stats) Reset() {
	*s = Stats{}
}
