package systems

import (
	"log"

	"github.com/gonewx/marquee/pkg/components"
	"github.com/gonewx/marquee/pkg/ecs"
	"github.com/gonewx/marquee/pkg/marquee"
)

// VisibilityCallback 可见性回调
type VisibilityCallback func(isIntersecting bool)

type visibilitySubscription struct {
	target      ecs.EntityID
	callback    VisibilityCallback
	last        bool
	initialized bool
	active      bool
}

// VisibilitySystem 可见性传感器
//
// 持续判断每个订阅的容器是否与视口相交，只在首次判定和状态翻转时推送。
// 视口随页面滚动和窗口尺寸变化通过 SetViewport 更新。
type VisibilitySystem struct {
	entityManager *ecs.EntityManager
	viewport      marquee.Rect
	subscriptions []*visibilitySubscription
}

// NewVisibilitySystem 创建可见性系统
func NewVisibilitySystem(em *ecs.EntityManager, viewport marquee.Rect) *VisibilitySystem {
	return &VisibilitySystem{
		entityManager: em,
		viewport:      viewport,
	}
}

// SetViewport 设置视口矩形（页面坐标）
func (s *VisibilitySystem) SetViewport(viewport marquee.Rect) {
	s.viewport = viewport
}

// Viewport 当前视口
func (s *VisibilitySystem) Viewport() marquee.Rect {
	return s.viewport
}

// Subscribe 订阅容器的可见性
//
// 回调在下一次 Update 时收到当前状态，之后只在状态变化时收到通知。
// 返回的取消函数可重复调用；取消后回调不再触发。
func (s *VisibilitySystem) Subscribe(target ecs.EntityID, callback VisibilityCallback) (unsubscribe func()) {
	sub := &visibilitySubscription{
		target:   target,
		callback: callback,
		active:   true,
	}
	s.subscriptions = append(s.subscriptions, sub)

	return func() {
		if !sub.active {
			return
		}
		sub.active = false
		sub.callback = nil
		s.removeSubscription(sub)
	}
}

// subscriptionCount 当前有效订阅数量
func (s *VisibilitySystem) subscriptionCount() int {
	return len(s.subscriptions)
}

// IsVisible 立即计算容器是否与视口相交
func (s *VisibilitySystem) IsVisible(target ecs.EntityID) bool {
	comp, ok := ecs.GetComponent[*components.MarqueeComponent](s.entityManager, target)
	if !ok {
		return false
	}
	return comp.Rect().Intersects(s.viewport)
}

// Update 重新评估所有订阅
func (s *VisibilitySystem) Update() {
	// 回调中可能取消订阅，遍历快照
	subs := append([]*visibilitySubscription(nil), s.subscriptions...)
	for _, sub := range subs {
		if !sub.active {
			continue
		}
		visible := s.IsVisible(sub.target)
		if sub.initialized && visible == sub.last {
			continue
		}
		sub.initialized = true
		sub.last = visible
		log.Printf("[VisibilitySystem] Entity %d intersecting=%v", sub.target, visible)
		if sub.callback != nil {
			sub.callback(visible)
		}
	}
}

func (s *VisibilitySystem) removeSubscription(target *visibilitySubscription) {
	for i, sub := range s.subscriptions {
		if sub == target {
			s.subscriptions = append(s.subscriptions[:i], s.subscriptions[i+1:]...)
			return
		}
	}
}
