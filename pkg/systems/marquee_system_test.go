package systems

import (
	"testing"

	"github.com/gonewx/marquee/pkg/components"
	"github.com/gonewx/marquee/pkg/ecs"
	"github.com/gonewx/marquee/pkg/marquee"
)

// TestMarqueeSystem_EndToEnd 容器 500、子元素 100/150、间隔 10 的完整流程
func TestMarqueeSystem_EndToEnd(t *testing.T) {
	w := newTestWorld(t)
	owner, _ := w.addMarquee(marquee.Rect{X: 0, Y: 100, W: 500, H: 40}, marquee.DirectionLeft, 10, 100, 150)

	if err := w.marquees.Attach(owner); err != nil {
		t.Fatalf("Attach: %v", err)
	}

	comp := w.marquee(t, owner)
	if comp.ContentLength != 250 {
		t.Errorf("ContentLength = %v, want 250", comp.ContentLength)
	}
	if got := comp.Style.Value(marquee.PropContentLength); got != 270 {
		t.Errorf("published content-length = %v, want 270", got)
	}
	if got := comp.Style.CSSValue(marquee.PropContentLength); got != "270px" {
		t.Errorf("content-length css = %q, want 270px", got)
	}
	if comp.CloneCount != 2 {
		t.Errorf("CloneCount = %d, want 2", comp.CloneCount)
	}
	if got := len(w.marquees.Clones().Clones(owner)); got != 4 {
		t.Errorf("clone entities = %d, want 4 (2 sets × 2 items)", got)
	}

	// 可见性首次推送之前时钟不运行
	if w.marquees.IsRunning(owner) {
		t.Fatal("clock should not run before visibility is known")
	}
	w.visibility.Update()
	if !w.marquees.IsRunning(owner) {
		t.Fatal("clock should run once the container is visible")
	}

	w.frame(125)
	if !approxEqual(comp.Progress, 0.01) {
		t.Errorf("Progress = %v, want 0.01", comp.Progress)
	}
	if !approxEqual(comp.Style.Value(marquee.PropProgress), 0.01) {
		t.Errorf("published progress = %v, want 0.01", comp.Style.Value(marquee.PropProgress))
	}
}

// TestMarqueeSystem_DeferredResizeAppliedOnce 运行中的尺寸变化推迟到下一个 tick，且只执行一次
func TestMarqueeSystem_DeferredResizeAppliedOnce(t *testing.T) {
	w := newTestWorld(t)
	owner, items := w.addMarquee(marquee.Rect{X: 0, Y: 0, W: 500, H: 40}, marquee.DirectionLeft, 0, 100, 150)
	if err := w.marquees.Attach(owner); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	w.visibility.Update()
	comp := w.marquee(t, owner)

	w.frame(125) // progress 0.01
	measured := comp.MeasureCount

	// 运行中改变尺寸：本帧 tick 用旧长度，观察器只记下待执行
	w.item(t, items[0]).Width = 350
	w.frame(125) // progress 0.02（旧长度 250）
	if !w.marquees.isResizePending(owner) {
		t.Fatal("resize should be pending while the clock runs")
	}
	if comp.ContentLength != 250 {
		t.Errorf("ContentLength changed mid-run: %v", comp.ContentLength)
	}
	if comp.MeasureCount != measured {
		t.Errorf("MeasureCount = %d, want %d before next tick", comp.MeasureCount, measured)
	}

	// 下一个 tick：先测量（500），再用新长度推进 125/25000
	w.frame(125)
	if w.marquees.isResizePending(owner) {
		t.Error("pending resize should be cleared")
	}
	if comp.ContentLength != 500 {
		t.Errorf("ContentLength = %v, want 500", comp.ContentLength)
	}
	if comp.MeasureCount != measured+1 {
		t.Errorf("MeasureCount = %d, want %d", comp.MeasureCount, measured+1)
	}
	if !approxEqual(comp.Progress, 0.025) {
		t.Errorf("Progress = %v, want 0.025 (0.02 + 125/25000)", comp.Progress)
	}
	if comp.CloneCount != 1 {
		t.Errorf("CloneCount = %d, want 1", comp.CloneCount)
	}

	// 没有新的尺寸变化就不再测量
	w.frame(16)
	if comp.MeasureCount != measured+1 {
		t.Errorf("MeasureCount = %d, want %d (no double apply)", comp.MeasureCount, measured+1)
	}
}

// TestMarqueeSystem_ResizeWhileStoppedIsImmediate 时钟停止时尺寸变化立即测量
func TestMarqueeSystem_ResizeWhileStoppedIsImmediate(t *testing.T) {
	w := newTestWorld(t)
	owner, items := w.addMarquee(marquee.Rect{X: 0, Y: 0, W: 500, H: 40}, marquee.DirectionLeft, 0, 100)
	if err := w.marquees.Attach(owner); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	w.marquees.SetPaused(owner, true)
	w.visibility.Update()

	w.item(t, items[0]).Width = 200
	w.frame(16)

	comp := w.marquee(t, owner)
	if w.marquees.isResizePending(owner) {
		t.Error("resize should not be deferred while paused")
	}
	if comp.ContentLength != 200 {
		t.Errorf("ContentLength = %v, want 200", comp.ContentLength)
	}
	if comp.CloneCount != 3 {
		t.Errorf("CloneCount = %d, want 3", comp.CloneCount)
	}
	if comp.Progress != 0 {
		t.Errorf("Progress = %v, want 0 while paused", comp.Progress)
	}
}

// TestMarqueeSystem_VisibilityGatesClock 可见性与暂停请求共同决定时钟启停
func TestMarqueeSystem_VisibilityGatesClock(t *testing.T) {
	w := newTestWorld(t)
	owner, _ := w.addMarquee(marquee.Rect{X: 0, Y: 100, W: 500, H: 40}, marquee.DirectionLeft, 0, 100)
	if err := w.marquees.Attach(owner); err != nil {
		t.Fatalf("Attach: %v", err)
	}

	offscreen := marquee.Rect{X: 0, Y: 2000, W: 800, H: 600}

	steps := []struct {
		name    string
		apply   func()
		wantRun bool
	}{
		{"可见", func() { w.visibility.Update() }, true},
		{"离开视口", func() { w.visibility.SetViewport(offscreen); w.visibility.Update() }, false},
		{"离开视口时暂停", func() { w.marquees.SetPaused(owner, true) }, false},
		{"重复暂停", func() { w.marquees.SetPaused(owner, true) }, false},
		{"回到视口但仍暂停", func() { w.visibility.SetViewport(testViewport); w.visibility.Update() }, false},
		{"取消暂停", func() { w.marquees.SetPaused(owner, false) }, true},
		{"重复取消暂停", func() { w.marquees.SetPaused(owner, false) }, true},
		{"再次离开", func() { w.visibility.SetViewport(offscreen); w.visibility.Update() }, false},
		{"再次回来", func() { w.visibility.SetViewport(testViewport); w.visibility.Update() }, true},
	}

	for _, step := range steps {
		step.apply()
		if got := w.marquees.IsRunning(owner); got != step.wantRun {
			t.Fatalf("%s: running = %v, want %v", step.name, got, step.wantRun)
		}
	}
}

// TestMarqueeSystem_StoppedClockFreezesProgress 停止后进度不再推进，恢复后不补偿停止期间的时间
func TestMarqueeSystem_StoppedClockFreezesProgress(t *testing.T) {
	w := newTestWorld(t)
	owner, _ := w.addMarquee(marquee.Rect{X: 0, Y: 0, W: 500, H: 40}, marquee.DirectionLeft, 0, 100)
	if err := w.marquees.Attach(owner); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	w.visibility.Update()
	comp := w.marquee(t, owner)

	w.frame(500) // 500 / 5000 = 0.1
	w.marquees.SetPaused(owner, true)
	w.frame(3000)
	if !approxEqual(comp.Progress, 0.1) {
		t.Fatalf("Progress = %v, want 0.1 while paused", comp.Progress)
	}

	w.marquees.SetPaused(owner, false)
	w.frame(500)
	if !approxEqual(comp.Progress, 0.2) {
		t.Errorf("Progress = %v, want 0.2 after resume", comp.Progress)
	}
}

func TestMarqueeSystem_CustomDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration marquee.Duration
		perUnit  float64
		want     float64
	}{
		{"固定时长", marquee.FixedDuration(1000), 0, 0.1},
		{"函数时长", marquee.DurationFunc(func(l float64) float64 { return l * 4 }), 0, 0.25},
		{"覆盖默认每单位时长", marquee.Duration{}, 10, 0.1},
		{"零时长回退为 0", marquee.FixedDuration(0), 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(t)
			if tt.perUnit > 0 {
				w.marquees.SetDefaultDurationPerUnit(tt.perUnit)
			}
			owner, _ := w.addMarquee(marquee.Rect{X: 0, Y: 0, W: 500, H: 40}, marquee.DirectionLeft, 0, 100)
			comp := w.marquee(t, owner)
			comp.Duration = tt.duration
			if err := w.marquees.Attach(owner); err != nil {
				t.Fatalf("Attach: %v", err)
			}
			w.visibility.Update()
			w.frame(100)
			if !approxEqual(comp.Progress, tt.want) {
				t.Errorf("Progress = %v, want %v", comp.Progress, tt.want)
			}
		})
	}
}

// TestMarqueeSystem_SetDirectionRemeasures 换到竖直方向后按高度测量
func TestMarqueeSystem_SetDirectionRemeasures(t *testing.T) {
	w := newTestWorld(t)
	owner, _ := w.addMarquee(marquee.Rect{X: 0, Y: 0, W: 500, H: 90}, marquee.DirectionLeft, 5, 100, 150)
	if err := w.marquees.Attach(owner); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	w.visibility.Update()
	w.frame(16)

	w.marquees.SetDirection(owner, marquee.DirectionDown)
	comp := w.marquee(t, owner)
	if comp.ContentLength != 40 {
		t.Errorf("ContentLength = %v, want 40 (two items of height 20)", comp.ContentLength)
	}
	if comp.ContainerExtent != 90 {
		t.Errorf("ContainerExtent = %v, want 90", comp.ContainerExtent)
	}
	if comp.CloneCount != 3 {
		t.Errorf("CloneCount = %d, want ceil(90/40) = 3", comp.CloneCount)
	}
	if got := comp.Style.Value(marquee.PropContentLength); got != 50 {
		t.Errorf("content-length = %v, want 50", got)
	}
}

// TestMarqueeSystem_DetachReleasesEverything 卸载后不再有任何回调
func TestMarqueeSystem_DetachReleasesEverything(t *testing.T) {
	w := newTestWorld(t)
	owner, items := w.addMarquee(marquee.Rect{X: 0, Y: 0, W: 500, H: 40}, marquee.DirectionLeft, 0, 100)
	if err := w.marquees.Attach(owner); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	w.visibility.Update()
	w.frame(100)

	comp := w.marquee(t, owner)
	w.item(t, items[0]).Width = 400
	w.frame(16) // 记下待执行测量
	measured := comp.MeasureCount
	progress := comp.Progress

	w.marquees.Detach(owner)

	if w.marquees.IsAttached(owner) {
		t.Error("entity should not be attached after Detach")
	}
	if w.visibility.subscriptionCount() != 0 {
		t.Errorf("visibility subscriptions = %d, want 0", w.visibility.subscriptionCount())
	}
	if got := len(w.marquees.Clones().Clones(owner)); got != 0 {
		t.Errorf("clones = %d after Detach, want 0", got)
	}

	w.item(t, items[0]).Width = 50
	w.visibility.SetViewport(marquee.Rect{X: 0, Y: 5000, W: 800, H: 600})
	w.frame(100)
	w.frame(100)

	if comp.MeasureCount != measured {
		t.Errorf("MeasureCount = %d, want %d (no measurement after Detach)", comp.MeasureCount, measured)
	}
	if comp.Progress != progress {
		t.Errorf("Progress = %v, want %v (no ticks after Detach)", comp.Progress, progress)
	}

	// 重复卸载无副作用
	w.marquees.Detach(owner)
}

func TestMarqueeSystem_AttachErrors(t *testing.T) {
	w := newTestWorld(t)

	plain := w.em.CreateEntity()
	if err := w.marquees.Attach(plain); err == nil {
		t.Error("Attach should fail for entity without MarqueeComponent")
	}

	owner, _ := w.addMarquee(marquee.Rect{X: 0, Y: 0, W: 100, H: 20}, marquee.DirectionLeft, 0, 50)
	if err := w.marquees.Attach(owner); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if err := w.marquees.Attach(owner); err == nil {
		t.Error("second Attach should fail")
	}
	if w.visibility.subscriptionCount() != 1 {
		t.Errorf("subscriptions = %d, want 1", w.visibility.subscriptionCount())
	}
}

// TestMarqueeSystem_MissingContainerTickIsNoop 容器被删除后 tick 不出错
func TestMarqueeSystem_MissingContainerTickIsNoop(t *testing.T) {
	w := newTestWorld(t)
	owner, _ := w.addMarquee(marquee.Rect{X: 0, Y: 0, W: 500, H: 40}, marquee.DirectionLeft, 0, 100)
	if err := w.marquees.Attach(owner); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	w.visibility.Update()
	w.frame(16)

	w.em.DestroyEntity(owner)
	w.em.RemoveMarkedEntities()

	// 只需不 panic
	w.marquees.Update()
	w.frame(16)
}

// TestMarqueeSystem_EmptyContent 没有内容时进度保持 0，克隆数保持 1
func TestMarqueeSystem_EmptyContent(t *testing.T) {
	w := newTestWorld(t)
	owner, _ := w.addMarquee(marquee.Rect{X: 0, Y: 0, W: 500, H: 40}, marquee.DirectionLeft, 10)
	if err := w.marquees.Attach(owner); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	w.visibility.Update()
	w.frame(16)

	comp := w.marquee(t, owner)
	if comp.Progress != 0 {
		t.Errorf("Progress = %v, want 0", comp.Progress)
	}
	if comp.CloneCount != 1 {
		t.Errorf("CloneCount = %d, want 1", comp.CloneCount)
	}
}

// TestMarqueeSystem_PublisherPerContainer 额外的消费者只收到自己容器的变量
func TestMarqueeSystem_PublisherPerContainer(t *testing.T) {
	w := newTestWorld(t)
	a, _ := w.addMarquee(marquee.Rect{X: 0, Y: 0, W: 500, H: 40}, marquee.DirectionLeft, 10, 100, 150)
	b, _ := w.addMarquee(marquee.Rect{X: 0, Y: 100, W: 500, H: 40}, marquee.DirectionLeft, 10, 30)

	sinkA := marquee.NewStyleVars()
	w.marquees.AddPublisher(a, sinkA) // 挂载前注册
	for _, id := range []ecs.EntityID{a, b} {
		if err := w.marquees.Attach(id); err != nil {
			t.Fatalf("Attach(%d): %v", id, err)
		}
	}
	sinkB := marquee.NewStyleVars()
	w.marquees.AddPublisher(b, sinkB) // 挂载后注册，立即收到当前值

	if got := sinkB.Value(marquee.PropContentLength); got != 40 {
		t.Errorf("sinkB content-length after late AddPublisher = %v, want 40", got)
	}

	w.visibility.Update()
	w.frame(125)

	if got := sinkA.Value(marquee.PropContentLength); got != 270 {
		t.Errorf("sinkA content-length = %v, want 270", got)
	}
	if !approxEqual(sinkA.Value(marquee.PropProgress), 0.01) {
		t.Errorf("sinkA progress = %v, want 0.01", sinkA.Value(marquee.PropProgress))
	}
	if got := sinkB.Value(marquee.PropContentLength); got != 40 {
		t.Errorf("sinkB content-length = %v, want 40", got)
	}
	// b 的时长 30 × 50 = 1500ms
	if !approxEqual(sinkB.Value(marquee.PropProgress), 125.0/1500) {
		t.Errorf("sinkB progress = %v, want %v", sinkB.Value(marquee.PropProgress), 125.0/1500)
	}

	// 卸载后不再收到
	w.marquees.Detach(a)
	sinkA.Reset()
	w.frame(125)
	if _, ok := sinkA.Get(marquee.PropProgress); ok {
		t.Error("sinkA received a value after Detach")
	}
}

// TestMarqueeSystem_RemovedItemRemeasures 删除子元素后重新测量，克隆随之收缩
func TestMarqueeSystem_RemovedItemRemeasures(t *testing.T) {
	w := newTestWorld(t)
	owner, items := w.addMarquee(marquee.Rect{X: 0, Y: 0, W: 500, H: 40}, marquee.DirectionLeft, 0, 100, 150)
	if err := w.marquees.Attach(owner); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	w.visibility.Update()
	comp := w.marquee(t, owner)
	measured := comp.MeasureCount

	w.em.DestroyEntity(items[1])
	// 第一帧末实体被清理，第二帧观察到并推迟，第三帧 tick 开头测量
	w.frame(16)
	w.frame(16)
	w.frame(16)

	if comp.ContentLength != 100 {
		t.Errorf("ContentLength = %v, want 100", comp.ContentLength)
	}
	if comp.MeasureCount != measured+1 {
		t.Errorf("MeasureCount = %d, want %d", comp.MeasureCount, measured+1)
	}
	if comp.CloneCount != 5 {
		t.Errorf("CloneCount = %d, want 5", comp.CloneCount)
	}
	if got := comp.Style.Value(marquee.PropContentLength); got != 100 {
		t.Errorf("published content-length = %v, want 100", got)
	}

	clones := w.marquees.Clones().Clones(owner)
	if len(clones) != 5 {
		t.Errorf("clone entities = %d, want 5 (5 sets × 1 item)", len(clones))
	}
	for _, id := range clones {
		clone, _ := ecs.GetComponent[*components.CloneComponent](w.em, id)
		if clone.Source == items[1] {
			t.Errorf("clone %d still copies the removed item", id)
		}
	}
}
