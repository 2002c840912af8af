package config

// 布局配置常量
// 本文件定义了棋盘的布局参数：钉子间距、桶尺寸、投放点等
// 所有坐标使用"世界坐标系"：第一行钉子位于原点，Y 轴向上，单位与物理引擎一致

// Peg Grid Configuration (钉阵配置)
const (
	// PegSpacingX 同一行相邻钉子间距的一半
	// 实际相邻钉子的水平距离为 2 * PegSpacingX
	PegSpacingX = 1.2

	// PegSpacingY 相邻两行钉子的垂直距离
	PegSpacingY = 2.0

	// PegRadius 钉子（传感器球体）的半径
	PegRadius = 0.25
)

// Bucket Configuration (计数桶配置)
const (
	// BucketWidthFactor 桶宽度相对 PegSpacingX 的倍数
	BucketWidthFactor = 1.8

	// BucketHeight 桶壁高度
	BucketHeight = 2.5

	// BucketDepth 桶的前后深度（Z 方向）
	BucketDepth = 1.5

	// BucketWallThickness 桶壁厚度
	BucketWallThickness = 0.2

	// BucketLidHalfHeight 桶口传感器盖的半高
	BucketLidHalfHeight = 1.5

	// BucketDropBelowLastRow 桶中心相对最后一行钉子之下的额外距离
	BucketDropBelowLastRow = 2.0
)

// Spawn Configuration (投放点配置)
const (
	// SpawnX 新球投放点 X
	SpawnX = 0.0

	// SpawnY 新球投放点 Y（第一行钉子上方）
	SpawnY = 2.0

	// SpawnZ 新球投放点 Z
	SpawnZ = 0.0
)

// Window Configuration (窗口配置)
const (
	// GameWindowWidth 默认窗口宽度（像素）
	GameWindowWidth = 800

	// GameWindowHeight 默认窗口高度（像素）
	GameWindowHeight = 600
)

// PegPosition 计算第 row 行第 col 列钉子的世界坐标
//
// 每行居中排列：x = (col - row/2) * 2 * spacingX, y = -row * spacingY
//
// 示例:
//
//	PegPosition(0, 0, 1.2, 2) = (0, 0)
//	PegPosition(2, 0, 1.2, 2) = (-2.4, -4)
func PegPosition(row, col int, spacingX, spacingY float64) (float64, float64) {
	x := (float64(col) - float64(row)/2) * 2 * spacingX
	y := -float64(row) * spacingY
	return x, y
}

// BucketCenter 计算第 index 个桶的中心坐标
//
// 桶的水平位置与假想的第 rows 行钉子完全一致（共 rows+1 个）。
func BucketCenter(index, rows int, spacingX, spacingY float64) (float64, float64) {
	x, _ := PegPosition(rows, index, spacingX, spacingY)
	y := -float64(rows)*spacingY - BucketDropBelowLastRow
	return x, y
}

// BoardHeight 返回棋盘总高度（用于越界判定和摄像机取景）
func BoardHeight(rows int, spacingY float64) float64 {
	return float64(rows) * spacingY
}

// FloorThreshold 返回球体越界销毁的 Y 坐标（棋盘高度两倍以下）
func FloorThreshold(rows int, spacingY float64) float64 {
	return -BoardHeight(rows, spacingY) * 2
}
