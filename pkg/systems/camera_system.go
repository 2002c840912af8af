package systems

import (
	"math"

	"github.com/decker502/galton/pkg/components"
	"github.com/decker502/galton/pkg/ecs"
	"github.com/decker502/galton/pkg/utils"
)

const (
	// CameraTransitionDuration 重建后取景过渡时长（秒）
	CameraTransitionDuration = 0.6
	// cameraMargin 取景时四周保留的世界单位
	cameraMargin = 1.5
	// 滚轮缩放范围
	minUserZoom = 0.25
	maxUserZoom = 4.0
)

// Bounds 世界坐标下的矩形范围
type Bounds struct {
	MinX, MaxX, MinY, MaxY float64
}

// CameraSystem 棋盘摄像机
//
// 负责取景（让整个棋盘落在屏幕内）、取景过渡和滚轮缩放。
type CameraSystem struct {
	entityManager *ecs.EntityManager
	cameraEntity  ecs.EntityID
}

// NewCameraSystem 创建摄像机系统并创建摄像机实体
func NewCameraSystem(em *ecs.EntityManager) *CameraSystem {
	cs := &CameraSystem{entityManager: em}
	cs.cameraEntity = em.CreateEntity()
	ecs.AddComponent(em, cs.cameraEntity, &components.CameraComponent{
		Zoom:     1,
		UserZoom: 1,
	})
	return cs
}

func (cs *CameraSystem) camera() *components.CameraComponent {
	cam, _ := ecs.GetComponent[*components.CameraComponent](cs.entityManager, cs.cameraEntity)
	return cam
}

// Frame 让 bounds 完整落在 width x height 的屏幕内
//
// animate 为 false 时立即切换（首次取景、窗口尺寸变化）。
func (cs *CameraSystem) Frame(bounds Bounds, width, height int, animate bool) {
	cam := cs.camera()
	if cam == nil || width <= 0 || height <= 0 {
		return
	}

	spanX := bounds.MaxX - bounds.MinX + 2*cameraMargin
	spanY := bounds.MaxY - bounds.MinY + 2*cameraMargin
	zoom := math.Min(float64(width)/spanX, float64(height)/spanY)
	centerX := (bounds.MinX + bounds.MaxX) / 2
	centerY := (bounds.MinY + bounds.MaxY) / 2

	if !animate {
		cam.CenterX, cam.CenterY, cam.Zoom = centerX, centerY, zoom
		cam.IsAnimating = false
		return
	}

	// 重建后回到棋盘中心
	cam.FromX, cam.FromY, cam.FromZoom = cam.CenterX+cam.PanX, cam.CenterY+cam.PanY, cam.Zoom
	cam.CenterX, cam.CenterY = cam.FromX, cam.FromY
	cam.PanX, cam.PanY = 0, 0
	cam.ToX, cam.ToY, cam.ToZoom = centerX, centerY, zoom
	cam.Elapsed = 0
	cam.Duration = CameraTransitionDuration
	cam.IsAnimating = true
}

// Update 推进取景过渡
func (cs *CameraSystem) Update(dt float64) {
	cam := cs.camera()
	if cam == nil || !cam.IsAnimating {
		return
	}

	cam.Elapsed += dt
	progress := 1.0
	if cam.Duration > 0 {
		progress = cam.Elapsed / cam.Duration
	}
	eased := utils.EaseInOutCubic(progress)

	cam.CenterX = utils.Lerp(cam.FromX, cam.ToX, eased)
	cam.CenterY = utils.Lerp(cam.FromY, cam.ToY, eased)
	cam.Zoom = utils.Lerp(cam.FromZoom, cam.ToZoom, eased)

	if progress >= 1 {
		cam.IsAnimating = false
	}
}

// ZoomBy 按滚轮增量缩放，向上滚放大
func (cs *CameraSystem) ZoomBy(wheel float64) {
	cam := cs.camera()
	if cam == nil || wheel == 0 {
		return
	}
	cam.UserZoom = math.Max(minUserZoom, math.Min(maxUserZoom, cam.UserZoom*math.Pow(1.1, wheel)))
}

// Pan 按屏幕像素拖动视图，拖动方向与内容移动方向一致
func (cs *CameraSystem) Pan(dx, dy float64) {
	cam := cs.camera()
	if cam == nil || (dx == 0 && dy == 0) {
		return
	}
	scale := cam.Zoom * cam.UserZoom
	if scale <= 0 {
		return
	}
	cam.PanX -= dx / scale
	cam.PanY += dy / scale
}

// WorldToScreen 世界坐标转屏幕坐标（Y 轴翻转）
func (cs *CameraSystem) WorldToScreen(x, y float64, width, height int) (float64, float64) {
	cam := cs.camera()
	if cam == nil {
		return x, y
	}
	scale := cam.Zoom * cam.UserZoom
	sx := float64(width)/2 + (x-cam.CenterX-cam.PanX)*scale
	sy := float64(height)/2 - (y-cam.CenterY-cam.PanY)*scale
	return sx, sy
}

// Scale 返回每个世界单位对应的像素数
func (cs *CameraSystem) Scale() float64 {
	cam := cs.camera()
	if cam == nil {
		return 1
	}
	return cam.Zoom * cam.UserZoom
}

// IsAnimating 是否正在过渡
func (cs *CameraSystem) IsAnimating() bool {
	cam := cs.camera()
	return cam != nil && cam.IsAnimating
}
