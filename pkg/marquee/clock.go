package marquee

import "time"

// Clock 提供当前时间，测试中可替换为 FakeClock 获得确定的时间戳
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// SystemClock 返回使用真实时间的时钟
func SystemClock() Clock {
	return systemClock{}
}

// FakeClock 手动推进的时钟
type FakeClock struct {
	now time.Time
}

// NewFakeClock 创建从 start 开始的手动时钟
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

// Now 返回当前（手动设置的）时间
func (c *FakeClock) Now() time.Time {
	return c.now
}

// Advance 向前推进 d
func (c *FakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// AdvanceMillis 向前推进 ms 毫秒（可为小数）
func (c *FakeClock) AdvanceMillis(ms float64) {
	c.Advance(time.Duration(ms * float64(time.Millisecond)))
}

// millis 把时间间隔换算为毫秒
func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
