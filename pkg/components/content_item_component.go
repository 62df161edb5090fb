package components

import (
	"image"

	"github.com/gonewx/marquee/pkg/ecs"
	"github.com/gonewx/marquee/pkg/marquee"
)

// ContentKind 内容类型
type ContentKind int

const (
	// ContentText 文本（标量内容会被包装成行内文本块）
	ContentText ContentKind = iota
	// ContentImage 图片
	ContentImage
	// ContentQRCode 二维码（渲染为图片）
	ContentQRCode
)

func (k ContentKind) String() string {
	switch k {
	case ContentImage:
		return "image"
	case ContentQRCode:
		return "qrcode"
	default:
		return "text"
	}
}

// ContentItemComponent 跑马灯中的一个子元素
//
// 原始内容和克隆共用此组件；克隆额外带有 CloneComponent。
type ContentItemComponent struct {
	// Owner 所属容器实体
	Owner ecs.EntityID

	// Index 在原始内容中的顺序
	Index int

	Kind ContentKind

	// Text 文本内容（Kind == ContentText）
	Text string

	// Translations 语言代码 -> 文本，切换语言时替换 Text
	Translations map[string]string

	// Image 图片内容（ContentImage / ContentQRCode）
	Image image.Image

	// Width, Height 当前布局尺寸（像素）
	Width, Height float64
}

// Extent 沿指定轴的长度
func (c *ContentItemComponent) Extent(axis marquee.Axis) float64 {
	return marquee.Extent(axis, c.Width, c.Height)
}

// FallbackLanguage Translations 中保存原始文本的键
const FallbackLanguage = ""

// TextFor 返回指定语言的文本：优先翻译，其次原始文本，最后当前 Text
func (c *ContentItemComponent) TextFor(language string) string {
	if s, ok := c.Translations[language]; ok {
		return s
	}
	if s, ok := c.Translations[FallbackLanguage]; ok {
		return s
	}
	return c.Text
}
