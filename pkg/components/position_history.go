package components

import "github.com/decker502/galton/pkg/physics"

// PositionSample 一次位置采样
type PositionSample struct {
	Position physics.Vec3
	Time     float64 // 采样时刻（秒，模拟循环时钟）
}

// PositionHistory 最近一段时间内的位置历史
//
// 样本按时间顺序保存，只保留窗口内的样本。
type PositionHistory struct {
	Window  float64
	Samples []PositionSample
}

// NewPositionHistory 创建指定窗口长度的历史记录
func NewPositionHistory(window float64) *PositionHistory {
	return &PositionHistory{Window: window}
}

// Record 追加一次采样并丢弃早于 now-Window 的样本
func (h *PositionHistory) Record(pos physics.Vec3, now float64) {
	h.Samples = append(h.Samples, PositionSample{Position: pos, Time: now})
	h.Prune(now)
}

// Prune 丢弃窗口外的样本
func (h *PositionHistory) Prune(now float64) {
	cutoff := now - h.Window
	drop := 0
	for drop < len(h.Samples) && h.Samples[drop].Time <= cutoff {
		drop++
	}
	if drop > 0 {
		h.Samples = append(h.Samples[:0], h.Samples[drop:]...)
	}
}

// Displacement 窗口内最早与最新样本的直线距离，样本不足两个时为 0
//
// 用来区分"真在移动"和"原地抖动"。
func (h *PositionHistory) Displacement() float64 {
	if len(h.Samples) < 2 {
		return 0
	}
	oldest := h.Samples[0]
	newest := h.Samples[len(h.Samples)-1]
	return newest.Position.DistanceTo(oldest.Position)
}

// AverageSpeed 窗口内路径长度除以时间跨度
func (h *PositionHistory) AverageSpeed() float64 {
	if len(h.Samples) < 2 {
		return 0
	}
	total := 0.0
	for i := 1; i < len(h.Samples); i++ {
		total += h.Samples[i].Position.DistanceTo(h.Samples[i-1].Position)
	}
	span := h.Samples[len(h.Samples)-1].Time - h.Samples[0].Time
	if span <= 0 {
		return 0
	}
	return total / span
}

// Len 返回样本数
func (h *PositionHistory) Len() int {
	return len(h.Samples)
}
