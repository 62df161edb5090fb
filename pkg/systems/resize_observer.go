package systems

import (
	"slices"

	"github.com/gonewx/marquee/pkg/components"
	"github.com/gonewx/marquee/pkg/ecs"
)

// ResizeCallback 尺寸变化回调，changed 按实体 ID 升序
type ResizeCallback func(changed []ecs.EntityID)

type observedSize struct {
	width, height float64
}

// ResizeObserver 观察一组子元素的布局尺寸
//
// 每个宿主帧调用一次 Poll：与上次记录的尺寸比较，有变化时把所有变化的实体
// 一次性交给回调。Observe 只记录基准尺寸，不触发初始回调。
// Disconnect 之后回调永远不会再被调用。
type ResizeObserver struct {
	entityManager *ecs.EntityManager
	callback      ResizeCallback
	observed      map[ecs.EntityID]observedSize
	disconnected  bool
}

// NewResizeObserver 创建尺寸观察器
func NewResizeObserver(em *ecs.EntityManager, callback ResizeCallback) *ResizeObserver {
	return &ResizeObserver{
		entityManager: em,
		callback:      callback,
		observed:      make(map[ecs.EntityID]observedSize),
	}
}

// Observe 开始观察实体，已观察的实体会重新记录基准尺寸
func (o *ResizeObserver) Observe(id ecs.EntityID) {
	if o.disconnected {
		return
	}
	item, ok := ecs.GetComponent[*components.ContentItemComponent](o.entityManager, id)
	if !ok {
		return
	}
	o.observed[id] = observedSize{item.Width, item.Height}
}

// Disconnect 停止观察所有实体并丢弃回调
func (o *ResizeObserver) Disconnect() {
	clear(o.observed)
	o.callback = nil
	o.disconnected = true
}

// observedCount 当前观察的实体数量
func (o *ResizeObserver) observedCount() int {
	return len(o.observed)
}

// Poll 检查尺寸变化
//
// 已被删除（或失去内容组件）的实体视为尺寸变为零：移出观察集并交给回调。
func (o *ResizeObserver) Poll() {
	if o.disconnected || len(o.observed) == 0 {
		return
	}

	var changed []ecs.EntityID
	for id, last := range o.observed {
		item, ok := ecs.GetComponent[*components.ContentItemComponent](o.entityManager, id)
		if !ok {
			delete(o.observed, id)
			changed = append(changed, id)
			continue
		}
		if item.Width != last.width || item.Height != last.height {
			o.observed[id] = observedSize{item.Width, item.Height}
			changed = append(changed, id)
		}
	}

	if len(changed) == 0 || o.callback == nil {
		return
	}
	slices.Sort(changed)
	o.callback(changed)
}
