package main

import "math"

// binomialPMF 返回 B(n, 1/2) 的概率质量函数（长度 n+1）
func binomialPMF(n int) []float64 {
	pmf := make([]float64, n+1)
	coeff := 1.0
	scale := math.Pow(0.5, float64(n))
	for k := 0; k <= n; k++ {
		pmf[k] = coeff * scale
		coeff = coeff * float64(n-k) / float64(k+1)
	}
	return pmf
}

// chiSquare 皮尔逊卡方统计量，期望为 0 的桶被跳过
func chiSquare(observed []int, expected []float64) float64 {
	sum := 0.0
	for i, o := range observed {
		if i >= len(expected) || expected[i] <= 0 {
			continue
		}
		d := float64(o) - expected[i]
		sum += d * d / expected[i]
	}
	return sum
}

// totalVariation 观测频率与理论分布之间的总变差距离 [0, 1]
func totalVariation(observed []int, pmf []float64) float64 {
	total := 0
	for _, o := range observed {
		total += o
	}
	if total == 0 {
		return 1
	}
	dist := 0.0
	for i, p := range pmf {
		o := 0.0
		if i < len(observed) {
			o = float64(observed[i]) / float64(total)
		}
		dist += math.Abs(o - p)
	}
	return dist / 2
}
