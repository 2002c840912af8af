package utils

import "math"

// 摄像机取景过渡用到的缓动函数
// 输入为进度 t，超出 [0, 1] 的部分先被钳制

// Clamp01 将 t 钳制到 [0, 1]
func Clamp01(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}

// EaseInOutCubic 三次方缓入缓出：两端慢，中间快
//
//	t < 0.5:  4t³
//	t >= 0.5: 1 - (2 - 2t)³ / 2
func EaseInOutCubic(t float64) float64 {
	t = Clamp01(t)
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(2-2*t, 3)/2
}

// EaseOutCubic 三次方缓出：开始快，结束慢
func EaseOutCubic(t float64) float64 {
	t = Clamp01(t)
	return 1 - math.Pow(1-t, 3)
}

// Lerp 线性插值，t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
