package scenes

import (
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/gonewx/marquee/pkg/config"
	"github.com/gonewx/marquee/pkg/ecs"
	"github.com/gonewx/marquee/pkg/entities"
	"github.com/gonewx/marquee/pkg/game"
	"github.com/gonewx/marquee/pkg/marquee"
	"github.com/gonewx/marquee/pkg/systems"
	"github.com/gonewx/marquee/pkg/systems/render"
	"github.com/gonewx/marquee/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// pageMarquee 页面上一个跑马灯的运行状态
type pageMarquee struct {
	cfg        config.MarqueeConfig
	entity     ecs.EntityID
	showingAlt bool
}

// LandingScene 落地页场景
//
// 按页面配置创建跑马灯，驱动顺序为：
//  1. 跑马灯帧时钟 tick（含被推迟的测量）
//  2. 尺寸观察
//  3. 可见性（视口随页面滚动变化）
//  4. 清理标记删除的实体
type LandingScene struct {
	page      *config.PageConfig
	resources *game.ResourceManager
	settings  *game.SettingsManager

	entityManager *ecs.EntityManager
	visibility    *systems.VisibilitySystem
	marquees      *systems.MarqueeSystem
	renderer      *render.MarqueeRenderSystem
	measurer      *utils.TextMeasurer
	hintFace      text.Face

	items      []*pageMarquee
	languages  []string
	scrollY    float64
	scrollAnim utils.ScrollAnimation
	drag       *utils.DragScroller
}

// NewLandingScene 创建落地页场景
//
// 参数：
//   - rm: 资源管理器，页面引用的图片和二维码应已预加载
//   - settings: 用户设置（减少动态效果、语言）
//   - page: 页面配置
//   - clock: 帧时钟时间源，nil 使用系统时间
//
// 返回：
//   - *LandingScene: 场景实例
//   - error: 任一跑马灯创建或挂载失败
func NewLandingScene(rm *game.ResourceManager, settings *game.SettingsManager, page *config.PageConfig, clock marquee.Clock) (*LandingScene, error) {
	face := rm.LoadFontOrDefault(page.Font.Path, page.Font.Size)

	em := ecs.NewEntityManager()
	viewport := marquee.Rect{W: float64(page.Viewport.Width), H: float64(page.Viewport.Height)}
	visibility := systems.NewVisibilitySystem(em, viewport)
	marquees := systems.NewMarqueeSystem(em, visibility, clock)
	marquees.SetDefaultDurationPerUnit(page.DefaultDurationPerUnit)

	renderer := render.NewMarqueeRenderSystem(em, marquees.Clones(), face)
	renderer.SetTextColor(config.MarqueeTextColor)

	s := &LandingScene{
		page:          page,
		resources:     rm,
		settings:      settings,
		entityManager: em,
		visibility:    visibility,
		marquees:      marquees,
		renderer:      renderer,
		measurer:      utils.NewTextMeasurer(face, utils.DefaultTextCacheSize),
		hintFace:      rm.LoadFontOrDefault(page.Font.Path, page.Font.Size*0.7),
		languages:     renderableLanguages(rm, page),
		drag:          utils.NewDragScroller(),
	}

	language := s.Language()
	for _, mc := range page.Marquees {
		id, err := entities.NewMarqueeEntity(em, mc, language, s.measurer, rm)
		if err != nil {
			s.Unload()
			return nil, err
		}
		pm := &pageMarquee{cfg: mc, entity: id}
		s.items = append(s.items, pm)
		s.applyPause(pm)

		if err := marquees.Attach(id); err != nil {
			s.Unload()
			return nil, fmt.Errorf("failed to attach marquee %q: %w", mc.ID, err)
		}
	}

	log.Printf("[LandingScene] 创建了 %d 个跑马灯，共 %d 个实体（语言=%s，减少动态效果=%v）",
		len(s.items), em.EntityCount(), language, s.settings.GetSettings().ReduceMotion)
	return s, nil
}

// renderableLanguages 页面语言中字体能够显示的部分；页面默认语言总是保留
func renderableLanguages(rm *game.ResourceManager, page *config.PageConfig) []string {
	var languages []string
	for _, lang := range page.Languages() {
		if lang == page.Language || rm.FontCovers(page.Font.Path, strings.Join(page.Texts(lang), "")) {
			languages = append(languages, lang)
			continue
		}
		log.Printf("[LandingScene] 字体缺少语言 %s 所需的字形，已跳过（可在 font.path 配置 CJK 字体）", lang)
	}
	return languages
}

// Language 当前语言
func (s *LandingScene) Language() string {
	if lang := s.settings.GetSettings().Language; slices.Contains(s.languages, lang) {
		return lang
	}
	return s.page.Language
}

// ScrollY 页面滚动位置
func (s *LandingScene) ScrollY() float64 {
	return s.scrollY
}

// MarqueeEntity 按配置 id 查找跑马灯实体
func (s *LandingScene) MarqueeEntity(id string) (ecs.EntityID, bool) {
	for _, pm := range s.items {
		if pm.cfg.ID == id {
			return pm.entity, true
		}
	}
	return 0, false
}

// Marquees 跑马灯系统
func (s *LandingScene) Marquees() *systems.MarqueeSystem {
	return s.marquees
}

// EntityManager 实体管理器
func (s *LandingScene) EntityManager() *ecs.EntityManager {
	return s.entityManager
}

// Update 更新场景
func (s *LandingScene) Update(deltaTime float64) {
	s.handleInput()
	s.advanceScroll(deltaTime)
	s.step()
}

// step 驱动一帧（不读取输入）
func (s *LandingScene) step() {
	s.visibility.SetViewport(s.viewport())
	s.marquees.Update()
	s.visibility.Update()
	s.entityManager.RemoveMarkedEntities()
}

// Draw 绘制场景
func (s *LandingScene) Draw(screen *ebiten.Image) {
	screen.Fill(config.PageBackgroundColor)
	s.renderer.Draw(screen, s.scrollY)
	s.drawHint(screen)
}

// Unload 卸载全部跑马灯并释放 GPU 图片
func (s *LandingScene) Unload() {
	s.marquees.DetachAll()
	s.renderer.ReleaseImages()
	log.Printf("[LandingScene] 场景已卸载")
}

// SaveOnExit 退出时保存用户设置
func (s *LandingScene) SaveOnExit() bool {
	if err := s.settings.Save(); err != nil {
		log.Printf("[LandingScene] Warning: failed to save settings: %v", err)
		return false
	}
	return true
}

func (s *LandingScene) viewport() marquee.Rect {
	return marquee.Rect{
		X: 0,
		Y: s.scrollY,
		W: float64(s.page.Viewport.Width),
		H: float64(s.page.Viewport.Height),
	}
}

// applyPause 暂停 = 配置中的暂停 或 减少动态效果
func (s *LandingScene) applyPause(pm *pageMarquee) {
	s.marquees.SetPaused(pm.entity, pm.cfg.Paused || s.settings.GetSettings().ReduceMotion)
}
