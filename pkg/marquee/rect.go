package marquee

// Rect 轴对齐矩形（页面坐标，像素）
type Rect struct {
	X, Y, W, H float64
}

// Empty 宽或高不为正
func (r Rect) Empty() bool {
	return !(r.W > 0) || !(r.H > 0)
}

// Intersects 两个矩形是否有正面积的重叠；空矩形永远不相交
func (r Rect) Intersects(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.X+o.W && o.X < r.X+r.W &&
		r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Translate 平移
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}
