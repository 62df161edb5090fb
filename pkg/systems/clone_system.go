package systems

import (
	"log"
	"maps"
	"slices"

	"github.com/gonewx/marquee/pkg/components"
	"github.com/gonewx/marquee/pkg/ecs"
)

type cloneKey struct {
	set    int
	source ecs.EntityID
}

// CloneSystem 克隆管理
//
// 根据 MarqueeComponent.CloneCount 维护 N 组原始内容的重复实体。
// 克隆是声明式的：每次同步都让“现有克隆”与“应有克隆”一致，
// 可复用的实体原地更新，多余的立即摘掉组件并标记删除。
type CloneSystem struct {
	entityManager *ecs.EntityManager
	measurer      *ContentMeasurer
}

// NewCloneSystem 创建克隆系统
func NewCloneSystem(em *ecs.EntityManager, measurer *ContentMeasurer) *CloneSystem {
	return &CloneSystem{
		entityManager: em,
		measurer:      measurer,
	}
}

// Clones 返回容器的全部克隆，按 (组, 原始顺序) 排序
func (s *CloneSystem) Clones(owner ecs.EntityID) []ecs.EntityID {
	var clones []ecs.EntityID
	for _, id := range ecs.GetEntitiesWith2[*components.CloneComponent, *components.ContentItemComponent](s.entityManager) {
		clone, _ := ecs.GetComponent[*components.CloneComponent](s.entityManager, id)
		if clone.Owner == owner {
			clones = append(clones, id)
		}
	}

	slices.SortStableFunc(clones, func(a, b ecs.EntityID) int {
		ca, _ := ecs.GetComponent[*components.CloneComponent](s.entityManager, a)
		cb, _ := ecs.GetComponent[*components.CloneComponent](s.entityManager, b)
		if ca.SetIndex != cb.SetIndex {
			return ca.SetIndex - cb.SetIndex
		}
		ia, _ := ecs.GetComponent[*components.ContentItemComponent](s.entityManager, a)
		ib, _ := ecs.GetComponent[*components.ContentItemComponent](s.entityManager, b)
		if ia == nil || ib == nil {
			return 0
		}
		return ia.Index - ib.Index
	})
	return clones
}

// Track 返回完整的铺排序列：原始内容一次，随后 CloneCount 组克隆
func (s *CloneSystem) Track(owner ecs.EntityID) []ecs.EntityID {
	return append(s.measurer.ContentItems(owner), s.Clones(owner)...)
}

// Sync 使克隆实体与 CloneCount 和当前原始内容一致
func (s *CloneSystem) Sync(owner ecs.EntityID) {
	comp, ok := ecs.GetComponent[*components.MarqueeComponent](s.entityManager, owner)
	if !ok {
		s.Clear(owner)
		return
	}

	existing := make(map[cloneKey]ecs.EntityID)
	for _, id := range s.Clones(owner) {
		clone, _ := ecs.GetComponent[*components.CloneComponent](s.entityManager, id)
		existing[cloneKey{clone.SetIndex, clone.Source}] = id
	}

	sources := s.measurer.ContentItems(owner)
	created := 0
	for set := 0; set < comp.CloneCount; set++ {
		for _, source := range sources {
			key := cloneKey{set, source}
			id, found := existing[key]
			if found {
				delete(existing, key)
			} else {
				id = s.entityManager.CreateEntity()
				created++
			}
			s.copyInto(id, owner, source, set)
		}
	}

	// 剩余的是多出来的克隆
	stale := slices.Sorted(maps.Values(existing))
	for _, id := range stale {
		s.remove(id)
	}

	if created > 0 || len(stale) > 0 {
		log.Printf("[CloneSystem] 实体 %d: %d 组 × %d 项（新建 %d，移除 %d）",
			owner, comp.CloneCount, len(sources), created, len(stale))
	}
}

// Clear 删除容器的全部克隆
func (s *CloneSystem) Clear(owner ecs.EntityID) {
	for _, id := range s.Clones(owner) {
		s.remove(id)
	}
}

func (s *CloneSystem) copyInto(id, owner, source ecs.EntityID, set int) {
	src, ok := ecs.GetComponent[*components.ContentItemComponent](s.entityManager, source)
	if !ok {
		return
	}

	dup := *src
	dup.Owner = owner
	dup.Translations = nil
	ecs.AddComponent(s.entityManager, id, &dup)
	ecs.AddComponent(s.entityManager, id, &components.CloneComponent{
		Owner:      owner,
		Source:     source,
		SetIndex:   set,
		AriaHidden: true,
	})
}

// remove 立即摘掉组件使查询看不到它，实体本身在帧末清理
func (s *CloneSystem) remove(id ecs.EntityID) {
	ecs.RemoveComponent[*components.CloneComponent](s.entityManager, id)
	ecs.RemoveComponent[*components.ContentItemComponent](s.entityManager, id)
	s.entityManager.DestroyEntity(id)
}
