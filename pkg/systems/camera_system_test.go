package systems

import (
	"math"
	"testing"

	"github.com/decker502/galton/pkg/ecs"
)

func TestCameraFrameFitsBounds(t *testing.T) {
	cs := NewCameraSystem(ecs.NewEntityManager())
	bounds := Bounds{MinX: -10, MaxX: 10, MinY: -20, MaxY: 2}
	cs.Frame(bounds, 800, 600, false)

	for _, corner := range [][2]float64{{-10, -20}, {10, 2}, {-10, 2}, {10, -20}} {
		sx, sy := cs.WorldToScreen(corner[0], corner[1], 800, 600)
		if sx < 0 || sx > 800 || sy < 0 || sy > 600 {
			t.Errorf("corner %v maps outside the screen: (%.1f, %.1f)", corner, sx, sy)
		}
	}

	// Y 轴向上：世界中更高的点在屏幕上更靠上
	_, top := cs.WorldToScreen(0, 2, 800, 600)
	_, bottom := cs.WorldToScreen(0, -20, 800, 600)
	if top >= bottom {
		t.Errorf("y axis not flipped: top=%.1f bottom=%.1f", top, bottom)
	}
}

func TestCameraTransition(t *testing.T) {
	cs := NewCameraSystem(ecs.NewEntityManager())
	cs.Frame(Bounds{MinX: -1, MaxX: 1, MinY: -1, MaxY: 1}, 800, 600, false)
	startScale := cs.Scale()

	cs.Frame(Bounds{MinX: -20, MaxX: 20, MinY: -40, MaxY: 2}, 800, 600, true)
	if !cs.IsAnimating() {
		t.Fatal("animated framing should start a transition")
	}

	cs.Update(CameraTransitionDuration / 2)
	mid := cs.Scale()
	if !(mid < startScale) {
		t.Errorf("zoom should be moving out, start=%.2f mid=%.2f", startScale, mid)
	}

	cs.Update(CameraTransitionDuration)
	if cs.IsAnimating() {
		t.Error("transition should finish")
	}
	want := math.Min(800/(40+2*cameraMargin), 600/(42+2*cameraMargin))
	if math.Abs(cs.Scale()-want) > 1e-9 {
		t.Errorf("final scale = %.4f, want %.4f", cs.Scale(), want)
	}
}

func TestCameraZoomClamped(t *testing.T) {
	cs := NewCameraSystem(ecs.NewEntityManager())
	cs.Frame(Bounds{MinX: -1, MaxX: 1, MinY: -1, MaxY: 1}, 100, 100, false)
	base := cs.Scale()

	cs.ZoomBy(1000)
	if got := cs.Scale() / base; math.Abs(got-maxUserZoom) > 1e-9 {
		t.Errorf("zoom factor = %v, want clamp at %v", got, maxUserZoom)
	}
	cs.ZoomBy(-1000)
	if got := cs.Scale() / base; math.Abs(got-minUserZoom) > 1e-9 {
		t.Errorf("zoom factor = %v, want clamp at %v", got, minUserZoom)
	}
}

func TestCameraPanFollowsPointer(t *testing.T) {
	cs := NewCameraSystem(ecs.NewEntityManager())
	cs.Frame(Bounds{MinX: -1, MaxX: 1, MinY: -1, MaxY: 1}, 100, 100, false)

	cs.Pan(20, 20)
	x, y := cs.WorldToScreen(0, 0, 100, 100)
	if math.Abs(x-70) > 1e-9 || math.Abs(y-70) > 1e-9 {
		t.Errorf("origin after pan = (%.2f, %.2f), want (70, 70)", x, y)
	}

	// 重建取景从当前位置过渡回中心
	cs.Frame(Bounds{MinX: -1, MaxX: 1, MinY: -1, MaxY: 1}, 100, 100, true)
	x, y = cs.WorldToScreen(0, 0, 100, 100)
	if math.Abs(x-70) > 1e-9 || math.Abs(y-70) > 1e-9 {
		t.Errorf("transition should start from the panned view, got (%.2f, %.2f)", x, y)
	}
	cs.Update(CameraTransitionDuration)
	x, y = cs.WorldToScreen(0, 0, 100, 100)
	if math.Abs(x-50) > 1e-9 || math.Abs(y-50) > 1e-9 {
		t.Errorf("origin after reframe = (%.2f, %.2f), want (50, 50)", x, y)
	}
}
