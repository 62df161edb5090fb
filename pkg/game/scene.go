package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents a page scene.
// Each scene has its own update and rendering logic.
type Scene interface {
	// Update updates the scene logic based on the elapsed time.
	// deltaTime is the time elapsed since the last update in seconds.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	Draw(screen *ebiten.Image)
}

// Unloadable 是一个可选接口，场景被替换时释放自己持有的资源
//
// 实现此接口的场景在 SceneManager.SwitchTo 切换到其他场景前被调用 Unload()，
// 例如卸载跑马灯（停止帧时钟、断开尺寸观察、取消可见性订阅）。
type Unloadable interface {
	Unload()
}

// Saveable 是一个可选接口，用于支持场景在退出时保存状态
//
// 实现此接口的场景会在以下时机被调用 SaveOnExit()：
//   - 窗口关闭
//   - 用户通过 OS 命令关闭程序
type Saveable interface {
	// SaveOnExit 在场景退出时保存状态
	// 返回 true 表示保存成功或无需保存
	// 返回 false 表示保存失败（但程序仍会正常退出）
	SaveOnExit() bool
}
