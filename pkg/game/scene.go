package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene 一个可切换的画面（棋盘、暂停等）
type Scene interface {
	// Update 按帧时间（秒）推进场景
	Update(deltaTime float64)

	// Draw 将场景绘制到 screen
	Draw(screen *ebiten.Image)
}

// Saveable 可选接口：场景在窗口关闭时保存用户设置
type Saveable interface {
	// SaveOnExit 返回 false 表示保存失败（程序仍正常退出）
	SaveOnExit() bool
}

// Resizable 可选接口：场景根据窗口尺寸调整布局
type Resizable interface {
	Resize(width, height int)
}
