package components

import "github.com/gonewx/marquee/pkg/marquee"

// 容器的无障碍属性（live region 最小集）
const (
	MarqueeRole       = "marquee"
	MarqueeAriaLive   = "off"
	MarqueeAriaAtomic = "false"
)

// MarqueeComponent 跑马灯容器组件
//
// 持有配置（方向、暂停、时长、间隔）和测量快照（内容长度、容器长度、克隆数）。
// 测量快照只由 MarqueeSystem 的测量流程写入：时钟停止时立即写，运行时推迟到下一帧开头。
// Progress 只由帧回调写入，其他模块通过 Style 中发布的变量读取。
type MarqueeComponent struct {
	// X, Y, Width, Height 容器在页面坐标系中的矩形（像素）
	X, Y, Width, Height float64

	// Direction 滚动方向，决定轴和平移符号
	Direction marquee.Direction

	// Paused 显式暂停请求
	Paused bool

	// Duration 一圈的时长；未设置时为 内容长度 × 每单位时长
	Duration marquee.Duration

	// Gap 子元素之间的间隔（像素），非有限或负值按 0 处理
	Gap float64

	// Progress 归一化进度 [0,1)
	Progress float64

	// ContentLength 原始（非克隆）内容沿轴的总长度
	ContentLength float64

	// ContainerExtent 容器沿轴的长度
	ContainerExtent float64

	// GapLength Gap × 原始内容数量，只参与 --content-length 的发布
	GapLength float64

	// CloneCount 追加在原始内容之后的完整克隆组数量，>= 1
	CloneCount int

	// IsIntersecting 容器当前是否与视口相交
	IsIntersecting bool

	// MeasureCount 已执行的测量次数
	MeasureCount int

	// Style 发布给布局层的样式变量
	Style *marquee.StyleVars

	// Role, AriaLive, AriaAtomic 无障碍属性
	Role       string
	AriaLive   string
	AriaAtomic string

	// Attributes 透传给渲染层的额外属性（如 class、背景色）
	Attributes map[string]string
}

// NewMarqueeComponent 创建容器组件，克隆数初始为 1
func NewMarqueeComponent(rect marquee.Rect, direction marquee.Direction) *MarqueeComponent {
	if direction == "" {
		direction = marquee.DefaultDirection
	}
	return &MarqueeComponent{
		X:          rect.X,
		Y:          rect.Y,
		Width:      rect.W,
		Height:     rect.H,
		Direction:  direction,
		CloneCount: 1,
		Style:      marquee.NewStyleVars(),
		Role:       MarqueeRole,
		AriaLive:   MarqueeAriaLive,
		AriaAtomic: MarqueeAriaAtomic,
		Attributes: make(map[string]string),
	}
}

// Axis 当前方向所在的轴
func (c *MarqueeComponent) Axis() marquee.Axis {
	return c.Direction.Axis()
}

// Sign 当前方向的平移符号
func (c *MarqueeComponent) Sign() marquee.Sign {
	return c.Direction.Sign()
}

// Rect 容器矩形
func (c *MarqueeComponent) Rect() marquee.Rect {
	return marquee.Rect{X: c.X, Y: c.Y, W: c.Width, H: c.Height}
}

// Extent 容器沿轴的长度
func (c *MarqueeComponent) Extent() float64 {
	return marquee.Extent(c.Axis(), c.Width, c.Height)
}

// ShouldRun 帧时钟是否应该运行
func (c *MarqueeComponent) ShouldRun() bool {
	return !c.Paused && c.IsIntersecting
}
