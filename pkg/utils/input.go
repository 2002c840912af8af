// Package utils 提供通用工具函数
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// TapSlop 按下到释放之间移动不超过该像素数时视为点击
const TapSlop = 6

// GestureKind 指针手势类型
type GestureKind int

const (
	// GestureNone 本帧没有手势
	GestureNone GestureKind = iota
	// GestureDrag 拖动中，DX/DY 为本帧位移
	GestureDrag
	// GestureTap 点击（释放时判定）
	GestureTap
)

// Gesture 一帧的指针手势
type Gesture struct {
	Kind   GestureKind
	X, Y   int
	DX, DY int
}

// PointerTracker 区分点击和拖动，统一处理鼠标和触摸
type PointerTracker struct {
	pressed        bool
	dragging       bool
	startX, startY int
	lastX, lastY   int
	touchID        ebiten.TouchID
	touchInput     bool
}

// NewPointerTracker 创建指针跟踪器
func NewPointerTracker() *PointerTracker {
	return &PointerTracker{touchID: -1}
}

// Update 读取本帧的鼠标/触摸状态并返回手势（每帧调用一次）
func (pt *PointerTracker) Update() Gesture {
	if !pt.pressed {
		// 优先检测触摸输入
		if ids := inpututil.AppendJustPressedTouchIDs(nil); len(ids) > 0 {
			pt.touchID = ids[0]
			pt.touchInput = true
			x, y := ebiten.TouchPosition(pt.touchID)
			return pt.Feed(true, x, y)
		}
		pt.touchInput = false
		x, y := ebiten.CursorPosition()
		return pt.Feed(ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft), x, y)
	}

	if pt.touchInput {
		// 触摸释放后 TouchPosition 返回 (0, 0)，沿用最后位置
		if inpututil.IsTouchJustReleased(pt.touchID) {
			return pt.Feed(false, pt.lastX, pt.lastY)
		}
		x, y := ebiten.TouchPosition(pt.touchID)
		return pt.Feed(true, x, y)
	}

	x, y := ebiten.CursorPosition()
	return pt.Feed(ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft), x, y)
}

// Feed 以给定的按下状态和位置推进状态机
func (pt *PointerTracker) Feed(pressed bool, x, y int) Gesture {
	switch {
	case pressed && !pt.pressed:
		pt.pressed = true
		pt.dragging = false
		pt.startX, pt.startY = x, y
		pt.lastX, pt.lastY = x, y
		return Gesture{Kind: GestureNone, X: x, Y: y}

	case pressed:
		if !pt.dragging && (abs(x-pt.startX) > TapSlop || abs(y-pt.startY) > TapSlop) {
			pt.dragging = true
		}
		g := Gesture{Kind: GestureNone, X: x, Y: y}
		if pt.dragging {
			g.Kind = GestureDrag
			g.DX, g.DY = x-pt.lastX, y-pt.lastY
		}
		pt.lastX, pt.lastY = x, y
		return g

	case pt.pressed:
		pt.pressed = false
		if pt.dragging {
			pt.dragging = false
			return Gesture{Kind: GestureNone, X: x, Y: y}
		}
		return Gesture{Kind: GestureTap, X: x, Y: y}
	}
	return Gesture{Kind: GestureNone, X: x, Y: y}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
