package components

import "github.com/gonewx/marquee/pkg/ecs"

// CloneComponent 克隆标记
//
// 带有此组件的子元素是装饰性的重复内容：不可交互、对辅助技术隐藏，
// 并且不被内容测量观察，避免克隆反过来影响内容长度。
type CloneComponent struct {
	// Owner 所属容器实体
	Owner ecs.EntityID

	// Source 被复制的原始子元素
	Source ecs.EntityID

	// SetIndex 第几组克隆（从 0 开始）
	SetIndex int

	// AriaHidden 始终为 true
	AriaHidden bool
}
