package systems

import (
	"fmt"
	"log"
	"slices"

	"github.com/gonewx/marquee/pkg/components"
	"github.com/gonewx/marquee/pkg/ecs"
	"github.com/gonewx/marquee/pkg/marquee"
)

// marqueeRuntime 每个已挂载容器的运行时资源
//
// 挂载时获取，卸载时全部释放：帧时钟、尺寸观察器、可见性订阅、待执行的测量。
type marqueeRuntime struct {
	id                    ecs.EntityID
	ticker                *marquee.Ticker
	observer              *ResizeObserver
	unsubscribeVisibility func()
	resizePending         bool
}

// MarqueeSystem 跑马灯驱动系统
//
// 每帧顺序：
//  1. 各容器的帧时钟投递 tick（tick 开头先执行被推迟的测量）
//  2. 尺寸观察器检查子元素尺寸；时钟运行中则推迟到下一个 tick，否则立即测量
//
// 可见性由 VisibilitySystem 推送，与暂停请求一起决定帧时钟的启停。
type MarqueeSystem struct {
	entityManager *ecs.EntityManager
	visibility    *VisibilitySystem
	measurer      *ContentMeasurer
	clones        *CloneSystem
	clock         marquee.Clock

	// defaultPerUnit 未设置时长时每单位内容长度的毫秒数
	defaultPerUnit float64

	runtimes map[ecs.EntityID]*marqueeRuntime

	// publishers 各容器额外的样式变量消费者（组件自身的 Style 总会收到）
	publishers map[ecs.EntityID][]marquee.Publisher
}

// NewMarqueeSystem 创建跑马灯系统
//
// 参数：
//   - em: 实体管理器
//   - visibility: 可见性系统
//   - clock: 帧时钟的时间源，nil 使用系统时间
func NewMarqueeSystem(em *ecs.EntityManager, visibility *VisibilitySystem, clock marquee.Clock) *MarqueeSystem {
	if clock == nil {
		clock = marquee.SystemClock()
	}
	measurer := NewContentMeasurer(em)
	return &MarqueeSystem{
		entityManager:  em,
		visibility:     visibility,
		measurer:       measurer,
		clones:         NewCloneSystem(em, measurer),
		clock:          clock,
		defaultPerUnit: marquee.DefaultDurationPerUnit,
		runtimes:       make(map[ecs.EntityID]*marqueeRuntime),
		publishers:     make(map[ecs.EntityID][]marquee.Publisher),
	}
}

// Measurer 内容测量器
func (s *MarqueeSystem) Measurer() *ContentMeasurer {
	return s.measurer
}

// Clones 克隆系统
func (s *MarqueeSystem) Clones() *CloneSystem {
	return s.clones
}

// SetDefaultDurationPerUnit 覆盖默认的每单位时长，<= 0 恢复 DefaultDurationPerUnit
func (s *MarqueeSystem) SetDefaultDurationPerUnit(perUnit float64) {
	if perUnit <= 0 {
		perUnit = marquee.DefaultDurationPerUnit
	}
	s.defaultPerUnit = perUnit
}

// AddPublisher 为容器 id 增加一个样式变量消费者，只接收该容器的变量
//
// 可以在 Attach 之前调用；Detach 时一并移除。已挂载的容器会立即收到当前的变量值。
func (s *MarqueeSystem) AddPublisher(id ecs.EntityID, p marquee.Publisher) {
	if p == nil {
		return
	}
	s.publishers[id] = append(s.publishers[id], p)

	if _, attached := s.runtimes[id]; !attached {
		return
	}
	if comp, ok := ecs.GetComponent[*components.MarqueeComponent](s.entityManager, id); ok && comp.Style != nil {
		for _, name := range []string{marquee.PropProgress, marquee.PropContentLength} {
			if v, ok := comp.Style.Get(name); ok {
				marquee.PublishAll(name, v, p)
			}
		}
	}
}

// Attach 挂载容器：建立帧时钟、尺寸观察、可见性订阅，并立即测量一次
func (s *MarqueeSystem) Attach(id ecs.EntityID) (err error) {
	if _, ok := ecs.GetComponent[*components.MarqueeComponent](s.entityManager, id); !ok {
		return fmt.Errorf("entity %d has no MarqueeComponent", id)
	}
	if _, attached := s.runtimes[id]; attached {
		return fmt.Errorf("entity %d is already attached", id)
	}

	rt := &marqueeRuntime{id: id}
	defer func() {
		if err != nil {
			s.release(rt)
		}
	}()

	rt.ticker = marquee.NewTicker(s.clock, func(timestamp, delta float64) {
		s.tick(rt, delta)
	})
	if err := s.observeContent(rt); err != nil {
		return fmt.Errorf("failed to attach entity %d: %w", id, err)
	}

	if s.visibility != nil {
		rt.unsubscribeVisibility = s.visibility.Subscribe(id, func(isIntersecting bool) {
			s.onVisibilityChange(rt, isIntersecting)
		})
	}

	if len(s.measurer.ContentItems(id)) == 0 {
		log.Printf("[MarqueeSystem] 警告: 实体 %d 挂载时没有内容", id)
	}

	s.runtimes[id] = rt
	s.syncClock(rt)

	log.Printf("[MarqueeSystem] 已挂载实体 %d", id)
	return nil
}

// Detach 卸载容器并释放全部资源；未挂载时不做任何事
func (s *MarqueeSystem) Detach(id ecs.EntityID) {
	rt, ok := s.runtimes[id]
	if !ok {
		return
	}
	delete(s.runtimes, id)
	delete(s.publishers, id)
	s.release(rt)
	s.clones.Clear(id)
	log.Printf("[MarqueeSystem] 已卸载实体 %d", id)
}

// DetachAll 卸载全部容器
func (s *MarqueeSystem) DetachAll() {
	for _, id := range s.attachedIDs() {
		s.Detach(id)
	}
}

// IsAttached 容器是否已挂载
func (s *MarqueeSystem) IsAttached(id ecs.EntityID) bool {
	_, ok := s.runtimes[id]
	return ok
}

// IsRunning 容器的帧时钟是否在运行
func (s *MarqueeSystem) IsRunning(id ecs.EntityID) bool {
	rt, ok := s.runtimes[id]
	return ok && !rt.ticker.Paused()
}

// isResizePending 是否有被推迟的测量
func (s *MarqueeSystem) isResizePending(id ecs.EntityID) bool {
	rt, ok := s.runtimes[id]
	return ok && rt.resizePending
}

// SetPaused 设置显式暂停请求
func (s *MarqueeSystem) SetPaused(id ecs.EntityID, paused bool) {
	comp, ok := ecs.GetComponent[*components.MarqueeComponent](s.entityManager, id)
	if !ok {
		return
	}
	comp.Paused = paused
	if rt, attached := s.runtimes[id]; attached {
		s.syncClock(rt)
	}
}

// SetDirection 修改方向；轴可能改变，因此重建观察并重新测量
func (s *MarqueeSystem) SetDirection(id ecs.EntityID, direction marquee.Direction) {
	comp, ok := ecs.GetComponent[*components.MarqueeComponent](s.entityManager, id)
	if !ok || comp.Direction == direction {
		return
	}
	comp.Direction = direction
	s.RefreshContent(id)
}

// RefreshContent 子元素集合变化后调用：重建观察集、丢弃待执行测量并立即测量
func (s *MarqueeSystem) RefreshContent(id ecs.EntityID) {
	rt, ok := s.runtimes[id]
	if !ok {
		return
	}
	if rt.observer != nil {
		rt.observer.Disconnect()
	}
	rt.resizePending = false
	if err := s.observeContent(rt); err != nil {
		log.Printf("[MarqueeSystem] Warning: refresh entity %d: %v", id, err)
	}
}

// Update 驱动一帧：先投递 tick，再检查尺寸变化
func (s *MarqueeSystem) Update() {
	ids := s.attachedIDs()
	for _, id := range ids {
		if rt, ok := s.runtimes[id]; ok {
			rt.ticker.Frame()
		}
	}
	for _, id := range ids {
		if rt, ok := s.runtimes[id]; ok && rt.observer != nil {
			rt.observer.Poll()
		}
	}
}

// observeContent 观察原始子元素并立即测量一次
func (s *MarqueeSystem) observeContent(rt *marqueeRuntime) error {
	rt.observer = NewResizeObserver(s.entityManager, func(changed []ecs.EntityID) {
		s.onResize(rt)
	})
	for _, item := range s.measurer.ContentItems(rt.id) {
		rt.observer.Observe(item)
	}
	if !s.measure(rt) {
		return fmt.Errorf("container %d cannot be measured", rt.id)
	}
	return nil
}

// onResize 时钟运行中推迟到下一个 tick，否则立即测量
func (s *MarqueeSystem) onResize(rt *marqueeRuntime) {
	if rt.ticker.Paused() {
		s.measure(rt)
		return
	}
	rt.resizePending = true
}

func (s *MarqueeSystem) onVisibilityChange(rt *marqueeRuntime, isIntersecting bool) {
	comp, ok := ecs.GetComponent[*components.MarqueeComponent](s.entityManager, rt.id)
	if !ok {
		return
	}
	comp.IsIntersecting = isIntersecting
	s.syncClock(rt)
}

// syncClock 时钟运行当且仅当 未暂停 且 与视口相交
func (s *MarqueeSystem) syncClock(rt *marqueeRuntime) {
	comp, ok := ecs.GetComponent[*components.MarqueeComponent](s.entityManager, rt.id)
	if !ok || !comp.ShouldRun() {
		rt.ticker.Stop()
		return
	}
	rt.ticker.Start()
}

// tick 帧回调
func (s *MarqueeSystem) tick(rt *marqueeRuntime, delta float64) {
	if rt.resizePending {
		rt.resizePending = false
		s.measure(rt)
	}

	comp, ok := ecs.GetComponent[*components.MarqueeComponent](s.entityManager, rt.id)
	if !ok {
		return
	}

	duration := comp.Duration.Resolve(comp.ContentLength, s.defaultPerUnit)
	comp.Progress = marquee.Advance(comp.Progress, delta, duration)
	s.publish(rt.id, comp, marquee.PropProgress, comp.Progress)
}

// measure 测量内容、更新克隆数量并发布内容长度；容器不存在时返回 false
func (s *MarqueeSystem) measure(rt *marqueeRuntime) bool {
	comp, ok := ecs.GetComponent[*components.MarqueeComponent](s.entityManager, rt.id)
	if !ok {
		return false
	}
	result, ok := s.measurer.Measure(rt.id)
	if !ok {
		return false
	}

	comp.ContentLength = result.ContentLength
	comp.ContainerExtent = result.ContainerExtent
	comp.GapLength = result.GapLength
	comp.CloneCount = marquee.CloneCount(result.ContainerExtent, result.ContentLength, comp.CloneCount)
	comp.MeasureCount++

	s.clones.Sync(rt.id)
	s.publish(rt.id, comp, marquee.PropContentLength, result.PublishedLength())

	log.Printf("[MarqueeSystem] Measured entity %d: content=%.1f container=%.1f gap=%.1f clones=%d",
		rt.id, result.ContentLength, result.ContainerExtent, result.GapLength, comp.CloneCount)
	return true
}

func (s *MarqueeSystem) publish(id ecs.EntityID, comp *components.MarqueeComponent, name string, value float64) {
	extra := s.publishers[id]
	targets := make([]marquee.Publisher, 0, len(extra)+1)
	if comp.Style != nil {
		targets = append(targets, comp.Style)
	}
	targets = append(targets, extra...)
	marquee.PublishAll(name, value, targets...)
}

// release 释放运行时资源，可在部分初始化的运行时上调用
func (s *MarqueeSystem) release(rt *marqueeRuntime) {
	if rt.ticker != nil {
		rt.ticker.Stop()
	}
	if rt.observer != nil {
		rt.observer.Disconnect()
	}
	if rt.unsubscribeVisibility != nil {
		rt.unsubscribeVisibility()
	}
	rt.resizePending = false
}

func (s *MarqueeSystem) attachedIDs() []ecs.EntityID {
	ids := make([]ecs.EntityID, 0, len(s.runtimes))
	for id := range s.runtimes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
