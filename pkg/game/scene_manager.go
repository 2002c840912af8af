package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// SceneManager 管理当前活动场景，同一时刻只有一个场景的 Update/Draw 被调用
type SceneManager struct {
	currentScene Scene
	width        int
	height       int
}

// NewSceneManager 创建场景管理器，初始没有活动场景
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SwitchTo 切换活动场景，新场景会立即收到当前窗口尺寸
func (sm *SceneManager) SwitchTo(scene Scene) {
	sm.currentScene = scene
	if r, ok := scene.(Resizable); ok && sm.width > 0 && sm.height > 0 {
		r.Resize(sm.width, sm.height)
	}
}

// GetCurrentScene 返回当前活动的场景，没有时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// Resize 记录窗口尺寸并通知当前场景
func (sm *SceneManager) Resize(width, height int) {
	if width == sm.width && height == sm.height {
		return
	}
	sm.width, sm.height = width, height
	if r, ok := sm.currentScene.(Resizable); ok {
		r.Resize(width, height)
	}
}

// SaveOnExit 让当前场景保存状态
func (sm *SceneManager) SaveOnExit() bool {
	if s, ok := sm.currentScene.(Saveable); ok {
		return s.SaveOnExit()
	}
	return true
}

// Update 更新当前场景
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw 绘制当前场景
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
