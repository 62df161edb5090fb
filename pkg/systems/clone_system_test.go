package systems

import (
	"testing"

	"github.com/gonewx/marquee/pkg/components"
	"github.com/gonewx/marquee/pkg/ecs"
	"github.com/gonewx/marquee/pkg/marquee"
)

func TestCloneSystem_SyncGrowsAndShrinks(t *testing.T) {
	w := newTestWorld(t)
	owner, items := w.addMarquee(marquee.Rect{X: 0, Y: 0, W: 500, H: 40}, marquee.DirectionLeft, 0, 100, 150)
	comp := w.marquee(t, owner)
	clones := w.marquees.Clones()

	comp.CloneCount = 3
	clones.Sync(owner)
	if got := len(clones.Clones(owner)); got != 6 {
		t.Fatalf("clones = %d, want 6", got)
	}
	firstSet := clones.Clones(owner)[:2]

	comp.CloneCount = 1
	clones.Sync(owner)
	remaining := clones.Clones(owner)
	if len(remaining) != 2 {
		t.Fatalf("clones = %d after shrink, want 2", len(remaining))
	}
	// 复用第一组实体
	for i := range remaining {
		if remaining[i] != firstSet[i] {
			t.Errorf("clone %d = %d, want reused %d", i, remaining[i], firstSet[i])
		}
	}

	for i, id := range remaining {
		clone, _ := ecs.GetComponent[*components.CloneComponent](w.em, id)
		if clone.Source != items[i] {
			t.Errorf("clone %d source = %d, want %d", i, clone.Source, items[i])
		}
		if !clone.AriaHidden {
			t.Errorf("clone %d should be aria-hidden", i)
		}
	}
}

// TestCloneSystem_ClonesExcludedFromMeasurement 克隆不会放大内容长度
func TestCloneSystem_ClonesExcludedFromMeasurement(t *testing.T) {
	w := newTestWorld(t)
	owner, _ := w.addMarquee(marquee.Rect{X: 0, Y: 0, W: 1000, H: 40}, marquee.DirectionLeft, 0, 100, 200)
	comp := w.marquee(t, owner)

	comp.CloneCount = 4
	w.marquees.Clones().Sync(owner)

	result, ok := w.marquees.Measurer().Measure(owner)
	if !ok {
		t.Fatal("Measure returned false")
	}
	if result.ContentLength != 300 {
		t.Errorf("ContentLength = %v, want 300", result.ContentLength)
	}
	if result.ItemCount != 2 {
		t.Errorf("ItemCount = %d, want 2", result.ItemCount)
	}
}

func TestCloneSystem_TrackOrder(t *testing.T) {
	w := newTestWorld(t)
	owner, items := w.addMarquee(marquee.Rect{X: 0, Y: 0, W: 500, H: 40}, marquee.DirectionLeft, 0, 100, 150)
	comp := w.marquee(t, owner)
	comp.CloneCount = 2
	w.marquees.Clones().Sync(owner)

	track := w.marquees.Clones().Track(owner)
	if len(track) != 6 {
		t.Fatalf("track length = %d, want 6", len(track))
	}
	if track[0] != items[0] || track[1] != items[1] {
		t.Errorf("track should start with originals %v, got %v", items, track[:2])
	}
	for i, id := range track[2:] {
		clone, ok := ecs.GetComponent[*components.CloneComponent](w.em, id)
		if !ok {
			t.Fatalf("track[%d] is not a clone", i+2)
		}
		if wantSet := i / 2; clone.SetIndex != wantSet {
			t.Errorf("track[%d] set = %d, want %d", i+2, clone.SetIndex, wantSet)
		}
		if clone.Source != items[i%2] {
			t.Errorf("track[%d] source = %d, want %d", i+2, clone.Source, items[i%2])
		}
	}
}

// TestCloneSystem_SyncFollowsSourceChanges 原始内容变化后克隆同步更新
func TestCloneSystem_SyncFollowsSourceChanges(t *testing.T) {
	w := newTestWorld(t)
	owner, items := w.addMarquee(marquee.Rect{X: 0, Y: 0, W: 500, H: 40}, marquee.DirectionLeft, 0, 100)
	comp := w.marquee(t, owner)
	comp.CloneCount = 1
	w.marquees.Clones().Sync(owner)

	w.item(t, items[0]).Text = "changed"
	w.item(t, items[0]).Width = 120
	w.marquees.Clones().Sync(owner)

	clones := w.marquees.Clones().Clones(owner)
	dup := w.item(t, clones[0])
	if dup.Text != "changed" || dup.Width != 120 {
		t.Errorf("clone = (%q, %v), want (changed, 120)", dup.Text, dup.Width)
	}
}

func TestCloneSystem_Clear(t *testing.T) {
	w := newTestWorld(t)
	owner, _ := w.addMarquee(marquee.Rect{X: 0, Y: 0, W: 500, H: 40}, marquee.DirectionLeft, 0, 100)
	comp := w.marquee(t, owner)
	comp.CloneCount = 5
	w.marquees.Clones().Sync(owner)

	w.marquees.Clones().Clear(owner)
	if got := len(w.marquees.Clones().Clones(owner)); got != 0 {
		t.Errorf("clones = %d after Clear, want 0", got)
	}
	before := w.em.EntityCount()
	w.em.RemoveMarkedEntities()
	if got := w.em.EntityCount(); got != before-5 {
		t.Errorf("EntityCount = %d, want %d", got, before-5)
	}
}
