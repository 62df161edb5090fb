package systems

import (
	"math"
	"slices"

	"github.com/gonewx/marquee/pkg/components"
	"github.com/gonewx/marquee/pkg/ecs"
)

// MeasureResult 一次测量的结果
type MeasureResult struct {
	// ContentLength 原始内容沿轴的长度之和
	ContentLength float64
	// ContainerExtent 容器沿轴的长度
	ContainerExtent float64
	// GapLength 间隔 × 原始内容数量
	GapLength float64
	// ItemCount 原始内容数量
	ItemCount int
}

// PublishedLength 发布为 --content-length 的值
func (r MeasureResult) PublishedLength() float64 {
	return r.ContentLength + r.GapLength
}

// ContentMeasurer 内容测量
//
// 只统计容器的非克隆子元素；克隆不参与测量，否则克隆数量会反过来放大内容长度。
type ContentMeasurer struct {
	entityManager *ecs.EntityManager
}

// NewContentMeasurer 创建内容测量器
func NewContentMeasurer(em *ecs.EntityManager) *ContentMeasurer {
	return &ContentMeasurer{entityManager: em}
}

// ContentItems 返回容器的原始子元素，按 Index 排序
func (m *ContentMeasurer) ContentItems(owner ecs.EntityID) []ecs.EntityID {
	var items []ecs.EntityID
	for _, id := range ecs.GetEntitiesWith1[*components.ContentItemComponent](m.entityManager) {
		if ecs.HasComponent[*components.CloneComponent](m.entityManager, id) {
			continue
		}
		item, _ := ecs.GetComponent[*components.ContentItemComponent](m.entityManager, id)
		if item.Owner == owner {
			items = append(items, id)
		}
	}

	slices.SortStableFunc(items, func(a, b ecs.EntityID) int {
		ia, _ := ecs.GetComponent[*components.ContentItemComponent](m.entityManager, a)
		ib, _ := ecs.GetComponent[*components.ContentItemComponent](m.entityManager, b)
		return ia.Index - ib.Index
	})
	return items
}

// Measure 测量容器
//
// 容器实体不存在时返回 false。
func (m *ContentMeasurer) Measure(owner ecs.EntityID) (MeasureResult, bool) {
	comp, ok := ecs.GetComponent[*components.MarqueeComponent](m.entityManager, owner)
	if !ok {
		return MeasureResult{}, false
	}

	axis := comp.Axis()
	items := m.ContentItems(owner)

	result := MeasureResult{
		ContainerExtent: comp.Extent(),
		ItemCount:       len(items),
	}
	for _, id := range items {
		item, _ := ecs.GetComponent[*components.ContentItemComponent](m.entityManager, id)
		result.ContentLength += item.Extent(axis)
	}
	result.GapLength = NormalizeGap(comp.Gap) * float64(len(items))

	return result, true
}

// NormalizeGap 无法解析的间隔（NaN、无穷、负数）按 0 处理
func NormalizeGap(gap float64) float64 {
	if math.IsNaN(gap) || math.IsInf(gap, 0) || gap < 0 {
		return 0
	}
	return gap
}
