package main

import (
	"fmt"
	"log"
	"math"
	"slices"

	"github.com/gdamore/tcell/v2"
	"github.com/gonewx/marquee/pkg/components"
	"github.com/gonewx/marquee/pkg/config"
	"github.com/gonewx/marquee/pkg/ecs"
	"github.com/gonewx/marquee/pkg/entities"
	"github.com/gonewx/marquee/pkg/marquee"
	"github.com/gonewx/marquee/pkg/systems"
	"github.com/mattn/go-runewidth"
)

// cellScreen 绘制所需的屏幕能力，tcell.Screen 满足此接口
type cellScreen interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
}

// termMarquee 终端中一个跑马灯的状态
type termMarquee struct {
	cfg    config.MarqueeConfig
	entity ecs.EntityID
}

// termHost 在终端单元格中运行跑马灯引擎
//
// 与桌面端使用相同的 ECS 系统，每帧顺序一致：
// 帧时钟 tick → 尺寸观察 → 可见性 → 清理实体。
type termHost struct {
	page    *config.PageConfig
	metrics cellMetrics

	entityManager *ecs.EntityManager
	visibility    *systems.VisibilitySystem
	marquees      *systems.MarqueeSystem
	measurer      runeWidthMeasurer
	loader        *termLoader

	items        []*termMarquee
	languages    []string
	language     string
	reduceMotion bool

	// status 第一个跑马灯的样式变量，s 键在最后一行显示
	status     *marquee.StyleVars
	showStatus bool

	scrollY    float64
	cols, rows int
}

// newTermHost 按页面配置创建跑马灯
//
// 参数：
//   - page: 页面配置（像素坐标）
//   - metrics: 单元格像素尺寸
//   - clock: 帧时钟时间源，nil 使用系统时间
func newTermHost(page *config.PageConfig, metrics cellMetrics, clock marquee.Clock) (*termHost, error) {
	em := ecs.NewEntityManager()
	visibility := systems.NewVisibilitySystem(em, marquee.Rect{})
	marquees := systems.NewMarqueeSystem(em, visibility, clock)
	marquees.SetDefaultDurationPerUnit(page.DefaultDurationPerUnit)

	h := &termHost{
		page:          page,
		metrics:       metrics,
		entityManager: em,
		visibility:    visibility,
		marquees:      marquees,
		measurer:      runeWidthMeasurer{metrics: metrics},
		loader:        newTermLoader(metrics),
		languages:     page.Languages(),
		language:      page.Language,
	}

	for _, mc := range page.Marquees {
		id, err := entities.NewMarqueeEntity(em, mc, h.language, h.measurer, h.loader)
		if err != nil {
			h.close()
			return nil, err
		}
		h.items = append(h.items, &termMarquee{cfg: mc, entity: id})
		if err := marquees.Attach(id); err != nil {
			h.close()
			return nil, fmt.Errorf("failed to attach marquee %q: %w", mc.ID, err)
		}
	}

	if len(h.items) > 0 {
		h.status = marquee.NewStyleVars()
		marquees.AddPublisher(h.items[0].entity, h.status)
	}

	log.Printf("[TermHost] 创建了 %d 个跑马灯", len(h.items))
	return h, nil
}

// resize 终端尺寸变化
func (h *termHost) resize(cols, rows int) {
	h.cols, h.rows = cols, rows
	h.scroll(0)
}

func (h *termHost) viewport() marquee.Rect {
	return marquee.Rect{
		Y: h.scrollY,
		W: float64(h.cols) * h.metrics.width,
		H: float64(h.rows) * h.metrics.height,
	}
}

// step 驱动一帧
func (h *termHost) step() {
	h.visibility.SetViewport(h.viewport())
	h.marquees.Update()
	h.visibility.Update()
	h.entityManager.RemoveMarkedEntities()
}

// scroll 按行滚动页面
func (h *termHost) scroll(rows int) {
	h.scrollY = config.ClampScroll(h.scrollY+float64(rows)*h.metrics.height, h.page.PageHeight, h.viewport().H)
}

// toggleReduceMotion 暂停/恢复全部跑马灯
func (h *termHost) toggleReduceMotion() {
	h.reduceMotion = !h.reduceMotion
	for _, tm := range h.items {
		h.marquees.SetPaused(tm.entity, tm.cfg.Paused || h.reduceMotion)
	}
}

// nextLanguage 切换到下一种语言；文本尺寸变化由尺寸观察器发现
func (h *termHost) nextLanguage() {
	if len(h.languages) < 2 {
		return
	}
	i := slices.Index(h.languages, h.language)
	h.language = h.languages[(i+1)%len(h.languages)]
	for _, tm := range h.items {
		entities.ApplyLanguage(h.entityManager, tm.entity, h.language, h.measurer)
		h.marquees.Clones().Sync(tm.entity)
	}
	log.Printf("[TermHost] 切换语言: %s", h.language)
}

// cycleDirection 切换第一个跑马灯的方向
func (h *termHost) cycleDirection() {
	if len(h.items) == 0 {
		return
	}
	id := h.items[0].entity
	if comp, ok := ecs.GetComponent[*components.MarqueeComponent](h.entityManager, id); ok {
		h.marquees.SetDirection(id, comp.Direction.Next())
	}
}

// handleKey 处理按键，返回 false 表示退出
func (h *termHost) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		h.scroll(-1)
	case tcell.KeyDown:
		h.scroll(1)
	case tcell.KeyPgUp:
		h.scroll(-h.rows)
	case tcell.KeyPgDn:
		h.scroll(h.rows)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 'p':
			h.toggleReduceMotion()
		case 'l':
			h.nextLanguage()
		case 'd':
			h.cycleDirection()
		case 's':
			h.showStatus = !h.showStatus
		}
	}
	return true
}

// close 卸载全部跑马灯
func (h *termHost) close() {
	h.marquees.DetachAll()
}

// draw 绘制全部可见容器
func (h *termHost) draw(screen cellScreen) {
	for _, id := range ecs.GetEntitiesWith1[*components.MarqueeComponent](h.entityManager) {
		comp, _ := ecs.GetComponent[*components.MarqueeComponent](h.entityManager, id)
		h.drawMarquee(screen, id, comp)
	}
	if h.showStatus {
		h.drawStatus(screen)
	}
}

// statusLine 状态栏文本
func (h *termHost) statusLine() string {
	if h.status == nil {
		return ""
	}
	return fmt.Sprintf("%s %s=%s %s=%s", h.items[0].cfg.ID,
		marquee.PropProgress, h.status.CSSValue(marquee.PropProgress),
		marquee.PropContentLength, h.status.CSSValue(marquee.PropContentLength))
}

// drawStatus 在最后一行反色显示状态栏
func (h *termHost) drawStatus(screen cellScreen) {
	if h.rows <= 0 {
		return
	}
	style := tcell.StyleDefault.Reverse(true)
	line := []rune(h.statusLine())
	for x := 0; x < h.cols; x++ {
		r := ' '
		if x < len(line) {
			r = line[x]
		}
		screen.SetContent(x, h.rows-1, r, nil, style)
	}
}

// cellClip 容器在屏幕上占据的单元格范围 [x0,x1)×[y0,y1)
type cellClip struct {
	x0, y0, x1, y1 int
}

func (c cellClip) contains(x, y int) bool {
	return x >= c.x0 && x < c.x1 && y >= c.y0 && y < c.y1
}

func (c cellClip) empty() bool {
	return c.x0 >= c.x1 || c.y0 >= c.y1
}

func (h *termHost) drawMarquee(screen cellScreen, id ecs.EntityID, comp *components.MarqueeComponent) {
	bounds := comp.Rect().Translate(0, -h.scrollY)
	clip := cellClip{
		x0: max(h.metrics.col(bounds.X), 0),
		y0: max(h.metrics.row(bounds.Y), 0),
		x1: min(h.metrics.col(bounds.X+bounds.W-1)+1, h.cols),
		y1: min(h.metrics.row(bounds.Y+bounds.H-1)+1, h.rows),
	}
	if clip.empty() {
		return
	}

	style := tcell.StyleDefault
	if bg, ok := config.ParseColor(comp.Attributes["background"]); ok {
		style = style.Background(tcell.NewRGBColor(int32(bg.R), int32(bg.G), int32(bg.B)))
	}
	for y := clip.y0; y < clip.y1; y++ {
		for x := clip.x0; x < clip.x1; x++ {
			screen.SetContent(x, y, ' ', nil, style)
		}
	}

	axis := comp.Axis()
	gap := systems.NormalizeGap(comp.Gap)
	progress := comp.Style.Value(marquee.PropProgress)
	contentLength := comp.Style.Value(marquee.PropContentLength)
	cursor := marquee.Offset(comp.Sign(), progress, contentLength)
	crossExtent := marquee.Extent(axis.Cross(), bounds.W, bounds.H)

	for _, itemID := range h.marquees.Clones().Track(id) {
		item, ok := ecs.GetComponent[*components.ContentItemComponent](h.entityManager, itemID)
		if !ok {
			continue
		}
		cross := (crossExtent - item.Extent(axis.Cross())) / 2
		x, y := bounds.X+cursor, bounds.Y+cross
		if axis == marquee.AxisVertical {
			x, y = bounds.X+cross, bounds.Y+cursor
		}
		h.drawItem(screen, clip, style, item, h.metrics.col(math.Round(x)), h.metrics.row(math.Round(y)))
		cursor += item.Extent(axis) + gap
	}
}

func (h *termHost) drawItem(screen cellScreen, clip cellClip, style tcell.Style, item *components.ContentItemComponent, col, row int) {
	switch item.Kind {
	case components.ContentQRCode:
		bitmap, err := h.loader.bitmap(item.Text)
		if err != nil {
			return
		}
		cols, rows := bitmap.cells()
		qrStyle := style.Foreground(tcell.ColorWhite)
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				if clip.contains(col+c, row+r) {
					screen.SetContent(col+c, row+r, bitmap.glyph(c, r), nil, qrStyle)
				}
			}
		}
	case components.ContentImage:
		w := int(math.Round(item.Width / h.metrics.width))
		rows := max(int(math.Round(item.Height/h.metrics.height)), 1)
		for r := 0; r < rows; r++ {
			for c := 0; c < w; c++ {
				if clip.contains(col+c, row+r) {
					screen.SetContent(col+c, row+r, '▒', nil, style)
				}
			}
		}
	default:
		x := col
		for _, r := range item.Text {
			if clip.contains(x, row) {
				screen.SetContent(x, row, r, nil, style)
			}
			x += runewidth.RuneWidth(r)
		}
	}
}
