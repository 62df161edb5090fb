package utils

import (
	"container/list"
	"strings"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// DefaultTextCacheSize 文本测量缓存的默认容量
const DefaultTextCacheSize = 1024

// textSize 一次测量的结果
type textSize struct {
	key           string
	width, height float64
}

// textMeasureCache 文本尺寸的 LRU 缓存
type textMeasureCache struct {
	maxSize int
	entries map[string]*list.Element
	lru     *list.List // Front = 最近使用
}

func newTextMeasureCache(maxSize int) *textMeasureCache {
	if maxSize <= 0 {
		maxSize = DefaultTextCacheSize
	}
	return &textMeasureCache{
		maxSize: maxSize,
		entries: make(map[string]*list.Element),
		lru:     list.New(),
	}
}

func (c *textMeasureCache) get(key string) (textSize, bool) {
	if elem, ok := c.entries[key]; ok {
		c.lru.MoveToFront(elem)
		return *elem.Value.(*textSize), true
	}
	return textSize{}, false
}

func (c *textMeasureCache) put(key string, width, height float64) {
	if elem, ok := c.entries[key]; ok {
		c.lru.MoveToFront(elem)
		entry := elem.Value.(*textSize)
		entry.width, entry.height = width, height
		return
	}

	for c.lru.Len() >= c.maxSize {
		oldest := c.lru.Back()
		c.lru.Remove(oldest)
		delete(c.entries, oldest.Value.(*textSize).key)
	}

	c.entries[key] = c.lru.PushFront(&textSize{key: key, width: width, height: height})
}

func (c *textMeasureCache) len() int {
	return c.lru.Len()
}

// TextMeasurer 用指定字体测量文本块尺寸，结果按字符串缓存
//
// 切换语言时同一批字符串会被反复测量，缓存避免重复排版。
// 仅在 ebiten 主循环中使用，不加锁。
type TextMeasurer struct {
	face  text.Face
	cache *textMeasureCache
}

// NewTextMeasurer 创建文本测量器
//
// 参数：
//   - face: 字体
//   - cacheSize: 缓存容量，<= 0 使用 DefaultTextCacheSize
func NewTextMeasurer(face text.Face, cacheSize int) *TextMeasurer {
	return &TextMeasurer{
		face:  face,
		cache: newTextMeasureCache(cacheSize),
	}
}

// cacheLen 缓存中的条目数
func (m *TextMeasurer) cacheLen() int {
	return m.cache.len()
}

// MeasureText 测量文本块的宽高（像素）
//
// 空字符串宽度为 0，高度为一行的高度，使空文本块仍占据交叉轴空间。
func (m *TextMeasurer) MeasureText(s string) (width, height float64) {
	if m.face == nil {
		return 0, 0
	}
	if size, ok := m.cache.get(s); ok {
		return size.width, size.height
	}

	lineSpacing := LineHeight(m.face)
	if s == "" {
		width, height = 0, lineSpacing
	} else {
		width, height = text.Measure(s, m.face, lineSpacing)
	}
	m.cache.put(s, width, height)
	return width, height
}

// LineHeight 字体的行高
func LineHeight(face text.Face) float64 {
	if face == nil {
		return 0
	}
	metrics := face.Metrics()
	return metrics.HAscent + metrics.HDescent + metrics.HLineGap
}

// WrapText 将文本按指定宽度自动换行
// 参数:
//   - textStr: 要换行的文本
//   - font: 字体
//   - maxWidth: 最大宽度（像素）
//
// 返回:
//   - []string: 换行后的文本数组（每个元素为一行）
//
// 换行规则:
//   - 超过最大宽度时在当前字符前断行
//   - 单个字符超宽时独占一行
//   - 支持中文和英文混合文本
func WrapText(textStr string, font text.Face, maxWidth float64) []string {
	if textStr == "" || font == nil || maxWidth <= 0 {
		return []string{textStr}
	}

	if measureTextWidth(textStr, font) <= maxWidth {
		return []string{textStr}
	}

	var lines []string
	currentLine := ""

	for len(textStr) > 0 {
		r, size := utf8.DecodeRuneInString(textStr)
		char := string(r)

		testLine := currentLine + char
		if measureTextWidth(testLine, font) > maxWidth {
			if currentLine == "" {
				lines = append(lines, char)
				textStr = textStr[size:]
				continue
			}
			lines = append(lines, strings.TrimSpace(currentLine))
			currentLine = char
		} else {
			currentLine = testLine
		}

		textStr = textStr[size:]
	}

	if currentLine != "" {
		lines = append(lines, strings.TrimSpace(currentLine))
	}
	return lines
}

// measureTextWidth 测量单行文本宽度
func measureTextWidth(textStr string, font text.Face) float64 {
	if textStr == "" || font == nil {
		return 0
	}
	width, _ := text.Measure(textStr, font, 0)
	return width
}
