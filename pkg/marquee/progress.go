package marquee

import "math"

// Advance 推进进度：progress ← (progress + delta/duration) mod 1
//
// 结果总在 [0,1) 内。duration <= 0、NaN 或任何非有限的中间结果都回退为 0，
// 避免把 NaN/Inf 传给渲染层。
func Advance(progress, delta, duration float64) float64 {
	if !(duration > 0) {
		return 0
	}

	next := math.Mod(progress+delta/duration, 1)
	if math.IsNaN(next) || math.IsInf(next, 0) {
		return 0
	}
	if next < 0 {
		next++
	}
	// -1e-18 + 1 在浮点下等于 1
	if next >= 1 {
		return 0
	}
	return next
}

// Offset 子元素沿轴的平移量
//
//	forward: -progress × contentLength
//	reverse: (progress − 1) × contentLength
//
// reverse 从完全偏移开始、随进度减小偏移，视觉上方向相反
func Offset(sign Sign, progress, contentLength float64) float64 {
	if sign == SignReverse {
		return (progress - 1) * contentLength
	}
	return -progress * contentLength
}
