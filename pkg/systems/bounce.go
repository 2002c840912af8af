package systems

import (
	"math"

	"github.com/decker502/galton/pkg/physics"
)

// BounceRand 弹跳所需的随机源，*rand.Rand 满足该接口
type BounceRand interface {
	Float64() float64
}

// apexBase 弹跳顶点相对一行间距的最小额外高度
const apexBase = 0.25

// apexSpread 弹跳顶点随机部分占一行间距的比例
const apexSpread = 0.75

// Bounce 计算球撞到钉子后的新速度
//
// 轨迹是一段抛物线：先上升到 yMax，再落到下一行左侧或右侧的钉子。
//
//	yMax   = sy + 0.25 + 0.75·u·sy
//	vy     = sqrt(2·g·(yMax - sy))
//	tTotal = vy/g + sqrt(2·yMax/g)
//	vx     = sx / tTotal
//
// 参数:
//   - u: [0,1) 均匀随机数，决定弹跳高度
//   - dirDraw: [0,1) 均匀随机数，小于 0.5 向左，否则向右
//   - g: 重力加速度大小
//   - spacingX, spacingY: 钉子间距
//
// 返回:
//   - physics.Vec3: 完整覆盖球体当前速度的新速度（Z 分量为 0）
func Bounce(u, dirDraw, g, spacingX, spacingY float64) physics.Vec3 {
	yMax := spacingY + apexBase + apexSpread*u*spacingY
	vy := math.Sqrt(2 * g * (yMax - spacingY))

	tUp := vy / g
	tDown := math.Sqrt(2 * yMax / g)
	vx := spacingX / (tUp + tDown)

	return physics.V3(BounceDirection(dirDraw)*vx, vy, 0)
}

// BounceDirection 将 [0,1) 随机数映射为 -1 或 +1
func BounceDirection(dirDraw float64) float64 {
	if dirDraw < 0.5 {
		return -1
	}
	return 1
}

// RandomBounce 从随机源抽取两次后计算弹跳速度
func RandomBounce(rng BounceRand, g, spacingX, spacingY float64) physics.Vec3 {
	u := rng.Float64()
	dir := rng.Float64()
	return Bounce(u, dir, g, spacingX, spacingY)
}
