package main

import (
	"math"

	"github.com/decker502/galton/pkg/config"
)

// sparkLevels 从低到高的柱状字符
var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// projector 将世界坐标映射为终端单元格
type projector struct {
	minX, maxX, minY, maxY float64
	cols, rows             int
}

// newProjector 为 rows 行钉子的棋盘创建投影，cols×lines 为可用绘图区
func newProjector(pegRows, cols, lines int) projector {
	bucketWidth := config.PegSpacingX * config.BucketWidthFactor
	_, bucketY := config.BucketCenter(0, pegRows, config.PegSpacingX, config.PegSpacingY)
	halfWidth := float64(pegRows)*config.PegSpacingX + bucketWidth/2

	return projector{
		minX: -halfWidth,
		maxX: halfWidth,
		minY: bucketY - config.BucketHeight/2,
		maxY: config.SpawnY + config.PegRadius,
		cols: cols,
		rows: lines,
	}
}

// cell 返回世界坐标所在的单元格，超出绘图区时 ok 为 false
func (p projector) cell(x, y float64) (col, row int, ok bool) {
	if p.cols <= 0 || p.rows <= 0 {
		return 0, 0, false
	}
	fx := (x - p.minX) / (p.maxX - p.minX)
	fy := (p.maxY - y) / (p.maxY - p.minY)
	col = int(math.Round(fx * float64(p.cols-1)))
	row = int(math.Round(fy * float64(p.rows-1)))
	if col < 0 || col >= p.cols || row < 0 || row >= p.rows {
		return col, row, false
	}
	return col, row, true
}

// sparkline 将桶计数渲染为一行柱状字符，全零时返回最低档
func sparkline(counts []int) string {
	maxCount := 0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}
	out := make([]rune, len(counts))
	for i, c := range counts {
		level := 0
		if maxCount > 0 {
			level = c * (len(sparkLevels) - 1) / maxCount
		}
		out[i] = sparkLevels[level]
	}
	return string(out)
}
