package marquee

import "fmt"

// Direction 滚动方向
type Direction string

const (
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
)

// DefaultDirection 未指定方向时的默认值
const DefaultDirection = DirectionLeft

// Axis 滚动轴
type Axis int

const (
	AxisHorizontal Axis = iota
	AxisVertical
)

func (a Axis) String() string {
	if a == AxisVertical {
		return "vertical"
	}
	return "horizontal"
}

// Cross 垂直于当前轴的另一条轴
func (a Axis) Cross() Axis {
	if a == AxisVertical {
		return AxisHorizontal
	}
	return AxisVertical
}

// Sign 平移方向符号
//   - SignForward: 内容向轴的负方向移动（left/up）
//   - SignReverse: 内容向轴的正方向移动（right/down）
type Sign int

const (
	SignForward Sign = iota
	SignReverse
)

func (s Sign) String() string {
	if s == SignReverse {
		return "reverse"
	}
	return "forward"
}

// ParseDirection 解析方向字符串，空字符串返回默认方向
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case "":
		return DefaultDirection, nil
	case DirectionLeft, DirectionRight, DirectionUp, DirectionDown:
		return d, nil
	default:
		return "", fmt.Errorf("unknown marquee direction %q", s)
	}
}

// Axis 返回方向所在的轴
func (d Direction) Axis() Axis {
	if d == DirectionUp || d == DirectionDown {
		return AxisVertical
	}
	return AxisHorizontal
}

// Sign 返回方向对应的平移符号
func (d Direction) Sign() Sign {
	if d == DirectionRight || d == DirectionDown {
		return SignReverse
	}
	return SignForward
}

// Next 按 left → up → right → down 的顺序循环切换方向
func (d Direction) Next() Direction {
	switch d {
	case DirectionLeft:
		return DirectionUp
	case DirectionUp:
		return DirectionRight
	case DirectionRight:
		return DirectionDown
	default:
		return DirectionLeft
	}
}

// Extent 取 (width, height) 在指定轴上的长度
func Extent(axis Axis, width, height float64) float64 {
	if axis == AxisVertical {
		return height
	}
	return width
}
