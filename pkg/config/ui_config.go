package config

import "image/color"

// 落地页窗口与交互相关的常量配置

const (
	// WindowWidth 默认窗口宽度（像素），页面配置未指定视口时使用
	WindowWidth = 960
	// WindowHeight 默认窗口高度（像素）
	WindowHeight = 540

	// ScrollStep 鼠标滚轮每格滚动的页面距离（像素）
	ScrollStep = 48.0
	// KeyScrollStep 方向键每帧滚动的页面距离（像素）
	KeyScrollStep = 8.0
	// PageScrollDuration PageUp/PageDown 翻页动画时长（秒）
	PageScrollDuration = 0.25

	// DefaultFontSize 未配置字体大小时使用的字号
	DefaultFontSize = 20.0

	// DefaultQRSize 二维码内容的默认边长（像素）
	DefaultQRSize = 96

	// DefaultLanguage 默认语言
	DefaultLanguage = "en"
)

// PageBackgroundColor 页面背景色
var PageBackgroundColor = color.RGBA{R: 0x12, G: 0x14, B: 0x1c, A: 0xff}

// MarqueeTextColor 跑马灯文本颜色
var MarqueeTextColor = color.RGBA{R: 0xf5, G: 0xf5, B: 0xf5, A: 0xff}

// HintTextColor 底部提示文字颜色
var HintTextColor = color.RGBA{R: 0x9a, G: 0xa0, B: 0xb0, A: 0xff}

// ClampScroll 把页面滚动位置限制在 [0, pageHeight - viewportHeight]
//
// 页面比视口短时始终返回 0。
func ClampScroll(scrollY, pageHeight, viewportHeight float64) float64 {
	maxScroll := pageHeight - viewportHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	if scrollY < 0 {
		return 0
	}
	if scrollY > maxScroll {
		return maxScroll
	}
	return scrollY
}
