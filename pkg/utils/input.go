// Package utils 提供通用工具函数
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// DragState 拖拽状态
type DragState int

const (
	// DragStateNone 无拖拽
	DragStateNone DragState = iota
	// DragStateStarted 拖拽开始（刚按下）
	DragStateStarted
	// DragStateDragging 拖拽中（按住移动）
	DragStateDragging
	// DragStateEnded 拖拽结束（释放），只持续一帧
	DragStateEnded
)

// PointerSample 一帧的指针采样
type PointerSample struct {
	Pressed bool
	X, Y    int
	Touch   bool // 来自触摸而不是鼠标
}

// DragScroller 把触摸或鼠标拖拽转换成页面滚动量
//
// 每帧调用一次 Update（或在测试中调用 Advance），
// 然后用 ScrollDelta 读取本帧应滚动的像素数。
type DragScroller struct {
	state        DragState
	startY       int
	lastY        int
	delta        int
	isTouchInput bool
	touchID      ebiten.TouchID
}

// NewDragScroller 创建拖拽滚动器
func NewDragScroller() *DragScroller {
	return &DragScroller{touchID: -1}
}

// Update 采样 ebiten 的触摸/鼠标输入并推进状态（每帧调用一次）
func (d *DragScroller) Update() {
	d.Advance(d.sample())
}

// sample 优先跟踪触摸，其次鼠标左键
func (d *DragScroller) sample() PointerSample {
	if d.state == DragStateNone || d.state == DragStateEnded {
		if ids := inpututil.AppendJustPressedTouchIDs(nil); len(ids) > 0 {
			d.touchID = ids[0]
		}
	}
	if d.touchID >= 0 {
		for _, id := range ebiten.AppendTouchIDs(nil) {
			if id == d.touchID {
				x, y := ebiten.TouchPosition(id)
				return PointerSample{Pressed: true, X: x, Y: y, Touch: true}
			}
		}
		d.touchID = -1
		return PointerSample{Touch: true}
	}

	x, y := ebiten.CursorPosition()
	return PointerSample{Pressed: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft), X: x, Y: y}
}

// Advance 用一帧采样推进状态机
func (d *DragScroller) Advance(p PointerSample) {
	d.delta = 0

	switch d.state {
	case DragStateNone, DragStateEnded:
		if !p.Pressed {
			d.state = DragStateNone
			return
		}
		d.state = DragStateStarted
		d.startY, d.lastY = p.Y, p.Y
		d.isTouchInput = p.Touch

	case DragStateStarted, DragStateDragging:
		if !p.Pressed {
			d.state = DragStateEnded
			return
		}
		d.state = DragStateDragging
		d.delta = p.Y - d.lastY
		d.lastY = p.Y
	}
}

// reset 重置拖拽状态
func (d *DragScroller) reset() {
	*d = DragScroller{touchID: -1}
}

// currentState 当前拖拽状态
func (d *DragScroller) currentState() DragState {
	return d.state
}

// isDragging 是否正在拖拽
func (d *DragScroller) isDragging() bool {
	return d.state == DragStateStarted || d.state == DragStateDragging
}

// isTouchDrag 是否为触摸拖拽
func (d *DragScroller) isTouchDrag() bool {
	return d.isTouchInput
}

// dragDistance 从按下位置到当前位置的纵向距离
func (d *DragScroller) dragDistance() int {
	return d.lastY - d.startY
}

// ScrollDelta 本帧的页面滚动量：手指向上拖动，页面向下滚动
func (d *DragScroller) ScrollDelta() float64 {
	return float64(-d.delta)
}
