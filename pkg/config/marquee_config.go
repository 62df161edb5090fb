package config

import (
	"fmt"
	"maps"
	"math"
	"os"
	"slices"

	"github.com/gonewx/marquee/pkg/marquee"
	"gopkg.in/yaml.v3"
)

// PageConfig 落地页配置
// 描述视口、字体和页面上的所有跑马灯
type PageConfig struct {
	Title      string         `yaml:"title"`      // 窗口标题
	Viewport   ViewportConfig `yaml:"viewport"`   // 视口（窗口）尺寸
	PageHeight float64        `yaml:"pageHeight"` // 页面总高度，大于视口高度时可滚动，默认等于视口高度
	Font       FontConfig     `yaml:"font"`       // 文本字体
	Language   string         `yaml:"language"`   // 初始语言，默认 "en"

	// DefaultDurationPerUnit 未设置时长的跑马灯每单位内容长度的毫秒数，默认 50
	DefaultDurationPerUnit float64 `yaml:"defaultDurationPerUnit"`

	Marquees []MarqueeConfig `yaml:"marquees"`
}

// ViewportConfig 视口尺寸
type ViewportConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// FontConfig 字体配置
type FontConfig struct {
	Path string  `yaml:"path"` // TTF/OTF 路径，为空时使用内置的 Go Regular 字体
	Size float64 `yaml:"size"` // 字号，默认 20
}

// MarqueeConfig 单个跑马灯容器
type MarqueeConfig struct {
	ID        string  `yaml:"id"`
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"` // 页面坐标
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	Direction string  `yaml:"direction"` // left/right/up/down，默认 left
	Paused    bool    `yaml:"paused"`
	Gap       float64 `yaml:"gap"` // 子元素间隔（像素）

	// Duration 一圈的固定时长（毫秒），与 DurationPerUnit 互斥
	Duration *float64 `yaml:"duration"`
	// DurationPerUnit 每单位内容长度的毫秒数
	DurationPerUnit float64 `yaml:"durationPerUnit"`

	// Attributes 透传属性，如 background: "#202433"
	Attributes map[string]string `yaml:"attributes"`

	Items []ItemConfig `yaml:"items"`

	// AltItems 可选的备用内容（如年付价格），运行时可与 Items 互换
	AltItems []ItemConfig `yaml:"altItems"`
}

// ItemConfig 跑马灯的一个子元素
//
// YAML 中可以直接写标量（字符串或数字），会被包装成文本；
// 也可以写映射，指定 text / image / qrcode 之一。
type ItemConfig struct {
	Text   string `yaml:"text"`
	Image  string `yaml:"image"`  // 图片路径
	QRCode string `yaml:"qrcode"` // 二维码内容
	QRSize int    `yaml:"qrSize"` // 二维码边长，默认 DefaultQRSize

	// Width, Height 图片显示尺寸，0 表示使用图片原始尺寸
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`

	// I18n 语言代码 -> 文本
	I18n map[string]string `yaml:"i18n"`

	// Scalar 该元素在 YAML 中是否为标量
	Scalar bool `yaml:"-"`
}

// UnmarshalYAML 支持标量和映射两种写法
func (c *ItemConfig) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*c = ItemConfig{Text: value.Value, Scalar: true}
		return nil
	}

	type plain ItemConfig
	var out plain
	if err := value.Decode(&out); err != nil {
		return err
	}
	*c = ItemConfig(out)
	return nil
}

// ItemKind 子元素类型
type ItemKind string

const (
	ItemText   ItemKind = "text"
	ItemImage  ItemKind = "image"
	ItemQRCode ItemKind = "qrcode"
)

// Kind 返回子元素类型
func (c ItemConfig) Kind() ItemKind {
	switch {
	case c.Image != "":
		return ItemImage
	case c.QRCode != "":
		return ItemQRCode
	default:
		return ItemText
	}
}

// TextFor 返回指定语言的文本，没有翻译时返回 Text
func (c ItemConfig) TextFor(language string) string {
	if s, ok := c.I18n[language]; ok {
		return s
	}
	return c.Text
}

// DurationSpec 把配置转换为时长
func (c MarqueeConfig) DurationSpec() marquee.Duration {
	if c.Duration != nil {
		return marquee.FixedDuration(*c.Duration)
	}
	if c.DurationPerUnit > 0 {
		return marquee.PerUnitDuration(c.DurationPerUnit)
	}
	return marquee.Duration{}
}

// Rect 容器矩形
func (c MarqueeConfig) Rect() marquee.Rect {
	return marquee.Rect{X: c.X, Y: c.Y, W: c.Width, H: c.Height}
}

// LoadPageConfig 从YAML文件加载页面配置
// 参数：
//
//	filepath - 配置文件路径
//
// 返回：
//
//	*PageConfig - 解析并填充默认值后的配置
//	error - 读取、解析或验证失败
func LoadPageConfig(filepath string) (*PageConfig, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read page config file %s: %w", filepath, err)
	}

	cfg, err := ParsePageConfig(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load page config from %s: %w", filepath, err)
	}
	return cfg, nil
}

// ParsePageConfig 解析页面配置
func ParsePageConfig(data []byte) (*PageConfig, error) {
	var cfg PageConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse page config YAML: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid page config: %w", err)
	}
	return &cfg, nil
}

// Languages 页面支持的语言：页面默认语言加上所有翻译出现过的语言，按字典序排列
func (c *PageConfig) Languages() []string {
	set := map[string]bool{c.Language: true}
	for _, m := range c.Marquees {
		for _, items := range [][]ItemConfig{m.Items, m.AltItems} {
			for _, item := range items {
				for lang := range item.I18n {
					set[lang] = true
				}
			}
		}
	}
	return slices.Sorted(maps.Keys(set))
}

// Texts 页面在指定语言下要显示的全部文本（含备用内容），按配置顺序
func (c *PageConfig) Texts(language string) []string {
	var texts []string
	for _, m := range c.Marquees {
		for _, items := range [][]ItemConfig{m.Items, m.AltItems} {
			for _, item := range items {
				if item.Kind() == ItemText {
					texts = append(texts, item.TextFor(language))
				}
			}
		}
	}
	return texts
}

// applyDefaults 为缺失的可选字段设置默认值
func (c *PageConfig) applyDefaults() {
	if c.Title == "" {
		c.Title = "Marquee"
	}
	if c.Viewport.Width == 0 {
		c.Viewport.Width = WindowWidth
	}
	if c.Viewport.Height == 0 {
		c.Viewport.Height = WindowHeight
	}
	if c.PageHeight < float64(c.Viewport.Height) {
		c.PageHeight = float64(c.Viewport.Height)
	}
	if c.Font.Size == 0 {
		c.Font.Size = DefaultFontSize
	}
	if c.Language == "" {
		c.Language = DefaultLanguage
	}
	if c.DefaultDurationPerUnit == 0 {
		c.DefaultDurationPerUnit = marquee.DefaultDurationPerUnit
	}
	for i := range c.Marquees {
		m := &c.Marquees[i]
		if m.Direction == "" {
			m.Direction = string(marquee.DefaultDirection)
		}
		for _, items := range [][]ItemConfig{m.Items, m.AltItems} {
			for j := range items {
				if items[j].Kind() == ItemQRCode && items[j].QRSize == 0 {
					items[j].QRSize = DefaultQRSize
				}
			}
		}
	}
}

// Validate 验证页面配置的完整性和合法性
func (c *PageConfig) Validate() error {
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("viewport must be positive, got %dx%d", c.Viewport.Width, c.Viewport.Height)
	}
	if c.Font.Size <= 0 {
		return fmt.Errorf("font size must be positive, got %v", c.Font.Size)
	}
	if c.DefaultDurationPerUnit < 0 {
		return fmt.Errorf("defaultDurationPerUnit cannot be negative, got %v", c.DefaultDurationPerUnit)
	}

	seen := make(map[string]bool)
	for i, m := range c.Marquees {
		if m.ID == "" {
			return fmt.Errorf("marquee %d: id is required", i)
		}
		if seen[m.ID] {
			return fmt.Errorf("marquee %d: duplicate id %q", i, m.ID)
		}
		seen[m.ID] = true

		if err := m.validate(); err != nil {
			return fmt.Errorf("marquee %q: %w", m.ID, err)
		}
	}
	return nil
}

func (m MarqueeConfig) validate() error {
	if _, err := marquee.ParseDirection(m.Direction); err != nil {
		return err
	}
	if !(m.Width > 0) || !(m.Height > 0) {
		return fmt.Errorf("size must be positive, got %vx%v", m.Width, m.Height)
	}
	if m.Duration != nil && m.DurationPerUnit != 0 {
		return fmt.Errorf("duration and durationPerUnit are mutually exclusive")
	}
	if m.Duration != nil && (math.IsNaN(*m.Duration) || *m.Duration < 0) {
		return fmt.Errorf("duration cannot be negative, got %v", *m.Duration)
	}
	if m.DurationPerUnit < 0 {
		return fmt.Errorf("durationPerUnit cannot be negative, got %v", m.DurationPerUnit)
	}

	if err := validateItems(m.Items); err != nil {
		return err
	}
	if err := validateItems(m.AltItems); err != nil {
		return fmt.Errorf("altItems: %w", err)
	}
	return nil
}

func validateItems(items []ItemConfig) error {
	for j, item := range items {
		set := 0
		if item.Image != "" {
			set++
		}
		if item.QRCode != "" {
			set++
		}
		if item.Text != "" || len(item.I18n) > 0 {
			set++
		}
		if set != 1 {
			return fmt.Errorf("item %d: exactly one of text, image, qrcode is required", j)
		}
		if item.Width < 0 || item.Height < 0 {
			return fmt.Errorf("item %d: size cannot be negative", j)
		}
	}
	return nil
}
