package systems

import (
	"testing"
	"time"

	"github.com/gonewx/marquee/pkg/components"
	"github.com/gonewx/marquee/pkg/ecs"
	"github.com/gonewx/marquee/pkg/marquee"
)

// testWorld 测试用的最小运行环境
type testWorld struct {
	em         *ecs.EntityManager
	clock      *marquee.FakeClock
	visibility *VisibilitySystem
	marquees   *MarqueeSystem
}

var testViewport = marquee.Rect{X: 0, Y: 0, W: 800, H: 600}

func newTestWorld(t *testing.T) *testWorld {
	t.Helper()
	em := ecs.NewEntityManager()
	clock := marquee.NewFakeClock(time.Unix(1700000000, 0))
	vis := NewVisibilitySystem(em, testViewport)
	return &testWorld{
		em:         em,
		clock:      clock,
		visibility: vis,
		marquees:   NewMarqueeSystem(em, vis, clock),
	}
}

// addMarquee 创建容器和宽度为 widths、高度为 20 的子元素
func (w *testWorld) addMarquee(rect marquee.Rect, direction marquee.Direction, gap float64, widths ...float64) (ecs.EntityID, []ecs.EntityID) {
	owner := w.em.CreateEntity()
	comp := components.NewMarqueeComponent(rect, direction)
	comp.Gap = gap
	ecs.AddComponent(w.em, owner, comp)

	items := make([]ecs.EntityID, 0, len(widths))
	for i, width := range widths {
		id := w.em.CreateEntity()
		ecs.AddComponent(w.em, id, &components.ContentItemComponent{
			Owner:  owner,
			Index:  i,
			Kind:   components.ContentText,
			Text:   "item",
			Width:  width,
			Height: 20,
		})
		items = append(items, id)
	}
	return owner, items
}

// frame 推进时钟 ms 毫秒并驱动一帧（含可见性检查）
func (w *testWorld) frame(ms float64) {
	w.clock.AdvanceMillis(ms)
	w.marquees.Update()
	w.visibility.Update()
	w.em.RemoveMarkedEntities()
}

func (w *testWorld) marquee(t *testing.T, id ecs.EntityID) *components.MarqueeComponent {
	t.Helper()
	comp, ok := ecs.GetComponent[*components.MarqueeComponent](w.em, id)
	if !ok {
		t.Fatalf("entity %d has no MarqueeComponent", id)
	}
	return comp
}

func (w *testWorld) item(t *testing.T, id ecs.EntityID) *components.ContentItemComponent {
	t.Helper()
	item, ok := ecs.GetComponent[*components.ContentItemComponent](w.em, id)
	if !ok {
		t.Fatalf("entity %d has no ContentItemComponent", id)
	}
	return item
}

func approxEqual(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}
