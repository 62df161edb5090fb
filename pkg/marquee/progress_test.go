package marquee

import (
	"math"
	"testing"
)

// TestAdvanceWrapAround 增量之和恰好等于 duration 时进度回到起点
func TestAdvanceWrapAround(t *testing.T) {
	tests := []struct {
		name     string
		start    float64
		duration float64
		deltas   []float64
	}{
		{"四等分", 0.3, 1000, []float64{250, 250, 250, 250}},
		{"单帧整圈", 0, 12500, []float64{12500}},
		{"不均匀帧", 0.75, 600, []float64{16, 17, 16.5, 200, 350.5}},
		{"含零增量", 0.5, 100, []float64{0, 50, 0, 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.start
			for _, d := range tt.deltas {
				p = Advance(p, d, tt.duration)
				if p < 0 || p >= 1 {
					t.Fatalf("progress %v escaped [0,1)", p)
				}
			}
			// 浮点误差：允许 1e-9，同时考虑 0.999999… 与 0 的等价
			diff := math.Abs(p - tt.start)
			if diff > 1e-9 && math.Abs(diff-1) > 1e-9 {
				t.Errorf("progress = %v, want %v", p, tt.start)
			}
		})
	}
}

// TestAdvanceFallback duration 非正或非有限时进度保持有限且在 [0,1)
func TestAdvanceFallback(t *testing.T) {
	tests := []struct {
		name     string
		progress float64
		delta    float64
		duration float64
		want     float64
	}{
		{"零时长", 0.4, 16, 0, 0},
		{"负时长", 0.4, 16, -100, 0},
		{"NaN时长", 0.4, 16, math.NaN(), 0},
		{"NaN增量", 0.4, math.NaN(), 100, 0},
		{"无穷增量", 0.4, math.Inf(1), 100, 0},
		{"无穷时长", 0.4, 16, math.Inf(1), 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Advance(tt.progress, tt.delta, tt.duration)
			if math.IsNaN(got) || math.IsInf(got, 0) {
				t.Fatalf("Advance returned non-finite %v", got)
			}
			if got < 0 || got >= 1 {
				t.Fatalf("Advance returned %v outside [0,1)", got)
			}
			if got != tt.want {
				t.Errorf("Advance(%v, %v, %v) = %v, want %v", tt.progress, tt.delta, tt.duration, got, tt.want)
			}
		})
	}
}

func TestAdvanceNegativeDeltaWraps(t *testing.T) {
	got := Advance(0.1, -30, 100)
	if math.Abs(got-0.8) > 1e-12 {
		t.Errorf("Advance(0.1, -30, 100) = %v, want 0.8", got)
	}
}

// TestAdvanceDefaultDurationStep 默认时长 250×50 下 125ms 推进 0.01
func TestAdvanceDefaultDurationStep(t *testing.T) {
	duration := Duration{}.Resolve(250, 0)
	if duration != 12500 {
		t.Fatalf("default duration = %v, want 12500", duration)
	}
	got := Advance(0, 125, duration)
	if math.Abs(got-0.01) > 1e-12 {
		t.Errorf("progress = %v, want 0.01", got)
	}
}

func TestOffset(t *testing.T) {
	tests := []struct {
		name     string
		sign     Sign
		progress float64
		length   float64
		want     float64
	}{
		{"forward 起点", SignForward, 0, 270, 0},
		{"forward 中点", SignForward, 0.5, 270, -135},
		{"reverse 起点", SignReverse, 0, 270, -270},
		{"reverse 中点", SignReverse, 0.5, 270, -135},
		{"reverse 接近终点", SignReverse, 0.9, 100, -10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Offset(tt.sign, tt.progress, tt.length)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Offset = %v, want %v", got, tt.want)
			}
		})
	}
}
