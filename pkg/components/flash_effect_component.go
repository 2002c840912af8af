package components

// FlashEffectComponent 钉子被击中后的短暂高亮
//
// 由碰撞分发在球-钉接触时添加，到期后由 FlashEffectSystem 移除。
// 重复击中会重置计时。
type FlashEffectComponent struct {
	// Duration 高亮持续时间（秒）
	Duration float64

	// Elapsed 已经过的时间（秒）
	Elapsed float64

	// Intensity 初始强度（0.0 - 1.0）
	Intensity float64

	// IsActive 是否激活（用于临时禁用效果）
	IsActive bool
}

// Strength 返回当前高亮强度，随时间线性衰减到 0
func (f *FlashEffectComponent) Strength() float64 {
	if !f.IsActive || f.Duration <= 0 || f.Elapsed >= f.Duration {
		return 0
	}
	return f.Intensity * (1 - f.Elapsed/f.Duration)
}
