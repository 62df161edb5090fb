package marquee

import (
	"math"
	"strconv"
)

// 发布给布局层的样式变量名
const (
	// PropProgress 归一化进度，每帧更新
	PropProgress = "--progress"
	// PropContentLength 内容总长度（含间隔），每次尺寸重算时更新
	PropContentLength = "--content-length"
)

// Publisher 接收命名数值属性的外部样式/布局消费者
type Publisher interface {
	Publish(name string, value float64)
}

// StyleVars 内存中的样式变量表，实现 Publisher
type StyleVars struct {
	values map[string]float64
}

// NewStyleVars 创建空的样式变量表
func NewStyleVars() *StyleVars {
	return &StyleVars{values: make(map[string]float64)}
}

// Publish 设置变量值
func (s *StyleVars) Publish(name string, value float64) {
	s.values[name] = value
}

// Get 读取变量值
func (s *StyleVars) Get(name string) (float64, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Value 读取变量值，未发布时为 0（对应 var(--x, 0)）
func (s *StyleVars) Value(name string) float64 {
	return s.values[name]
}

// CSSValue 把变量格式化为 CSS 文本：进度为无单位数字，长度带 px
func (s *StyleVars) CSSValue(name string) string {
	v, ok := s.values[name]
	if !ok {
		return ""
	}
	out := strconv.FormatFloat(v, 'f', -1, 64)
	if name == PropContentLength {
		out += "px"
	}
	return out
}

// Reset 清空所有变量
func (s *StyleVars) Reset() {
	clear(s.values)
}

// PublishAll 把同一个变量发布给多个消费者，跳过 nil 和非有限值
func PublishAll(name string, value float64, publishers ...Publisher) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return
	}
	for _, p := range publishers {
		if p != nil {
			p.Publish(name, value)
		}
	}
}
