package utils

import "math"

// EaseOutCubic 三次方缓出，开始快结束慢
// 公式：f(t) = 1 - (1-t)³，t 限制在 [0, 1]
func EaseOutCubic(t float64) float64 {
	t = math.Max(0, math.Min(1, t))
	return 1 - math.Pow(1-t, 3)
}

// Lerp 线性插值
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// ScrollAnimation 把页面滚动位置从 from 缓动到 to
//
// 用于翻页键：跳转一整屏时跑马灯的可见性沿途逐帧变化，而不是一次跳变。
type ScrollAnimation struct {
	from, to float64
	elapsed  float64
	duration float64
	active   bool
}

// Start 开始一段动画；duration <= 0 时下一次 Step 直接到达终点
func (a *ScrollAnimation) Start(from, to, duration float64) {
	*a = ScrollAnimation{from: from, to: to, duration: duration, active: true}
}

// Step 推进 dt 秒并返回当前位置；动画结束后保持在终点
func (a *ScrollAnimation) Step(dt float64) float64 {
	if !a.active {
		return a.to
	}
	a.elapsed += dt
	if a.duration <= 0 || a.elapsed >= a.duration {
		a.active = false
		return a.to
	}
	return Lerp(a.from, a.to, EaseOutCubic(a.elapsed/a.duration))
}

// Active 动画是否进行中
func (a *ScrollAnimation) Active() bool {
	return a.active
}

// Target 动画终点
func (a *ScrollAnimation) Target() float64 {
	return a.to
}

// Cancel 停止动画，位置停在当前值
func (a *ScrollAnimation) Cancel() {
	a.active = false
}
