package main

import (
	"fmt"
	"image"
	"math"

	"github.com/mattn/go-runewidth"
	"github.com/skip2/go-qrcode"
)

// placeholderCells 终端中图片占位块的默认尺寸（单元格）
const (
	placeholderCols = 8
	placeholderRows = 1
)

// cellMetrics 页面像素与终端单元格的换算
type cellMetrics struct {
	width  float64 // 一个单元格的像素宽度
	height float64 // 一个单元格的像素高度
}

// col 像素 x 坐标所在的列
func (m cellMetrics) col(x float64) int {
	return int(math.Floor(x / m.width))
}

// row 像素 y 坐标所在的行
func (m cellMetrics) row(y float64) int {
	return int(math.Floor(y / m.height))
}

// runeWidthMeasurer 按终端显示宽度测量文本：东亚宽字符占两列
type runeWidthMeasurer struct {
	metrics cellMetrics
}

// MeasureText 文本的像素尺寸，高度恒为一行
func (m runeWidthMeasurer) MeasureText(s string) (width, height float64) {
	return float64(runewidth.StringWidth(s)) * m.metrics.width, m.metrics.height
}

// qrBitmap 二维码模块矩阵，true 为深色
type qrBitmap [][]bool

// termLoader 终端宿主的内容来源
//
// 二维码用半高方块字符绘制：一个模块占一列、半行。
// 图片无法在单元格中显示，用固定尺寸的占位块代替。
type termLoader struct {
	metrics cellMetrics
	qrcodes map[string]qrBitmap
}

func newTermLoader(metrics cellMetrics) *termLoader {
	return &termLoader{
		metrics: metrics,
		qrcodes: make(map[string]qrBitmap),
	}
}

// GetImage 返回占位图片
func (l *termLoader) GetImage(path string) (image.Image, bool) {
	w := int(placeholderCols * l.metrics.width)
	h := int(placeholderRows * l.metrics.height)
	return image.NewGray(image.Rect(0, 0, w, h)), true
}

// GetQRCode 生成二维码，返回的图片尺寸即它在终端中占据的像素范围
//
// size 在终端中没有意义，模块数由内容决定。
func (l *termLoader) GetQRCode(content string, size int) (image.Image, bool) {
	bitmap, err := l.bitmap(content)
	if err != nil {
		return nil, false
	}
	cols, rows := bitmap.cells()
	w := int(float64(cols) * l.metrics.width)
	h := int(float64(rows) * l.metrics.height)
	return image.NewGray(image.Rect(0, 0, w, h)), true
}

// bitmap 生成并缓存二维码模块矩阵
func (l *termLoader) bitmap(content string) (qrBitmap, error) {
	if b, ok := l.qrcodes[content]; ok {
		return b, nil
	}
	qr, err := qrcode.New(content, qrcode.Low)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code %q: %w", content, err)
	}
	qr.DisableBorder = true
	b := qrBitmap(qr.Bitmap())
	l.qrcodes[content] = b
	return b, nil
}

// cells 二维码占据的列数和行数（每行容纳两排模块）
func (b qrBitmap) cells() (cols, rows int) {
	if len(b) == 0 {
		return 0, 0
	}
	return len(b[0]), (len(b) + 1) / 2
}

// glyph 第 row 行第 col 列的字符，合并上下两个模块
func (b qrBitmap) glyph(col, row int) rune {
	top := b.dark(col, row*2)
	bottom := b.dark(col, row*2+1)
	switch {
	case top && bottom:
		return '█'
	case top:
		return '▀'
	case bottom:
		return '▄'
	}
	return ' '
}

func (b qrBitmap) dark(x, y int) bool {
	return y >= 0 && y < len(b) && x >= 0 && x < len(b[y]) && b[y][x]
}
