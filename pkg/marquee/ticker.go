package marquee

import "time"

// TickFunc 帧回调
//   - timestamp: 自时钟创建以来的毫秒数
//   - delta: 距上一帧（或 Start）的毫秒数，永不为负
type TickFunc func(timestamp, delta float64)

// Ticker 帧时钟
//
// 宿主每个显示帧调用一次 Frame；只有在 Start 之后、Stop 之前才会把帧转交给回调。
// Start/Stop 都是幂等的。
type Ticker struct {
	clock   Clock
	fn      TickFunc
	origin  time.Time
	last    time.Time
	running bool
}

// NewTicker 创建一个处于停止状态的帧时钟
func NewTicker(clock Clock, fn TickFunc) *Ticker {
	if clock == nil {
		clock = SystemClock()
	}
	return &Ticker{
		clock:  clock,
		fn:     fn,
		origin: clock.Now(),
	}
}

// Start 开始投递帧回调，已运行时不做任何事
func (t *Ticker) Start() {
	if t.running {
		return
	}
	t.running = true
	t.last = t.clock.Now()
}

// Stop 停止投递帧回调，已停止时不做任何事
func (t *Ticker) Stop() {
	t.running = false
}

// Paused 时钟当前是否处于停止状态
func (t *Ticker) Paused() bool {
	return !t.running
}

// Frame 由宿主在每个显示帧调用
func (t *Ticker) Frame() {
	if !t.running || t.fn == nil {
		return
	}

	now := t.clock.Now()
	delta := millis(now.Sub(t.last))
	if delta < 0 {
		delta = 0
	}
	t.last = now

	t.fn(millis(now.Sub(t.origin)), delta)
}
