package physics

import "math"

// Vec3 三维向量（世界坐标，单位与棋盘布局一致）
type Vec3 struct {
	X, Y, Z float64
}

// V3 创建一个新的 Vec3
func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add 返回 a + b
func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

// Sub 返回 a - b
func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

// Scale 返回 a * s
func (a Vec3) Scale(s float64) Vec3 {
	return Vec3{a.X * s, a.Y * s, a.Z * s}
}

// Dot 返回点积
func (a Vec3) Dot(b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// LengthSquared 返回长度的平方
func (a Vec3) LengthSquared() float64 {
	return a.Dot(a)
}

// Length 返回向量长度
func (a Vec3) Length() float64 {
	return math.Sqrt(a.LengthSquared())
}

// DistanceTo 返回两点间的直线距离
func (a Vec3) DistanceTo(b Vec3) float64 {
	return a.Sub(b).Length()
}

// Normalize 返回单位向量，零向量原样返回
func (a Vec3) Normalize() Vec3 {
	l := a.Length()
	if l == 0 {
		return a
	}
	return a.Scale(1 / l)
}

// IsZero 检查是否为零向量
func (a Vec3) IsZero() bool {
	return a.X == 0 && a.Y == 0 && a.Z == 0
}
