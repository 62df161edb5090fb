package systems

import (
	"slices"
	"testing"

	"github.com/gonewx/marquee/pkg/components"
	"github.com/gonewx/marquee/pkg/ecs"
)

func newObservedItem(em *ecs.EntityManager, width, height float64) ecs.EntityID {
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.ContentItemComponent{Width: width, Height: height})
	return id
}

func TestResizeObserver_NoInitialCallback(t *testing.T) {
	em := ecs.NewEntityManager()
	calls := 0
	obs := NewResizeObserver(em, func([]ecs.EntityID) { calls++ })

	obs.Observe(newObservedItem(em, 10, 10))
	obs.Poll()

	if calls != 0 {
		t.Errorf("calls = %d, want 0 (Observe records a baseline only)", calls)
	}
	if obs.observedCount() != 1 {
		t.Errorf("observedCount = %d, want 1", obs.observedCount())
	}
}

func TestResizeObserver_BatchesChanges(t *testing.T) {
	em := ecs.NewEntityManager()
	var got [][]ecs.EntityID
	obs := NewResizeObserver(em, func(changed []ecs.EntityID) { got = append(got, changed) })

	a := newObservedItem(em, 10, 10)
	b := newObservedItem(em, 20, 10)
	c := newObservedItem(em, 30, 10)
	for _, id := range []ecs.EntityID{c, a, b} {
		obs.Observe(id)
	}

	itemA, _ := ecs.GetComponent[*components.ContentItemComponent](em, a)
	itemC, _ := ecs.GetComponent[*components.ContentItemComponent](em, c)
	itemA.Width = 11
	itemC.Height = 12

	obs.Poll()
	if len(got) != 1 {
		t.Fatalf("callbacks = %d, want 1", len(got))
	}
	if want := []ecs.EntityID{a, c}; !slices.Equal(got[0], want) {
		t.Errorf("changed = %v, want %v", got[0], want)
	}

	// 没有新变化时不回调
	obs.Poll()
	if len(got) != 1 {
		t.Errorf("callbacks = %d after idle poll, want 1", len(got))
	}
}

func TestResizeObserver_RemovedEntityReported(t *testing.T) {
	em := ecs.NewEntityManager()
	calls := 0
	obs := NewResizeObserver(em, func([]ecs.EntityID) { calls++ })

	id := newObservedItem(em, 10, 10)
	obs.Observe(id)
	em.DestroyEntity(id)
	em.RemoveMarkedEntities()

	obs.Poll()
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (removal counts as a size change)", calls)
	}
	if obs.observedCount() != 0 {
		t.Errorf("observedCount = %d, want 0", obs.observedCount())
	}

	// 已移出观察集，不会重复回调
	obs.Poll()
	if calls != 1 {
		t.Errorf("calls = %d after second poll, want 1", calls)
	}
}

func TestResizeObserver_Disconnect(t *testing.T) {
	em := ecs.NewEntityManager()
	calls := 0
	obs := NewResizeObserver(em, func([]ecs.EntityID) { calls++ })

	id := newObservedItem(em, 10, 10)
	obs.Observe(id)
	obs.Disconnect()

	item, _ := ecs.GetComponent[*components.ContentItemComponent](em, id)
	item.Width = 99
	obs.Observe(id)
	obs.Poll()

	if calls != 0 {
		t.Errorf("calls = %d after Disconnect, want 0", calls)
	}
	if obs.observedCount() != 0 {
		t.Errorf("observedCount = %d after Disconnect, want 0", obs.observedCount())
	}
}
