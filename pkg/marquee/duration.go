package marquee

// DefaultDurationPerUnit 未配置时长时，每单位内容长度对应的滚动时间（毫秒/像素）
//
// 这是视觉调校值，可通过 MarqueeSystem.SetDefaultDurationPerUnit 覆盖
const DefaultDurationPerUnit = 50.0

type durationKind int

const (
	durationUnset durationKind = iota
	durationFixed
	durationFunc
)

// Duration 一次完整滚动（progress 从 0 到 1）所需的时间
//
// 零值表示未设置，解析时按 内容长度 × 每单位时长 计算
type Duration struct {
	kind  durationKind
	fixed float64
	fn    func(contentLength float64) float64
}

// FixedDuration 固定时长（毫秒）
func FixedDuration(ms float64) Duration {
	return Duration{kind: durationFixed, fixed: ms}
}

// DurationFunc 由内容长度决定的时长
func DurationFunc(fn func(contentLength float64) float64) Duration {
	if fn == nil {
		return Duration{}
	}
	return Duration{kind: durationFunc, fn: fn}
}

// PerUnitDuration 每单位内容长度 perUnit 毫秒
func PerUnitDuration(perUnit float64) Duration {
	return DurationFunc(func(contentLength float64) float64 {
		return contentLength * perUnit
	})
}

// IsSet 是否显式设置了时长
func (d Duration) IsSet() bool {
	return d.kind != durationUnset
}

// Resolve 解析本帧使用的时长
//
// 参数：
//   - contentLength: 当前内容长度
//   - defaultPerUnit: 未设置时长时的每单位时长，<= 0 时使用 DefaultDurationPerUnit
func (d Duration) Resolve(contentLength, defaultPerUnit float64) float64 {
	switch d.kind {
	case durationFixed:
		return d.fixed
	case durationFunc:
		return d.fn(contentLength)
	}
	if defaultPerUnit <= 0 {
		defaultPerUnit = DefaultDurationPerUnit
	}
	return contentLength * defaultPerUnit
}
