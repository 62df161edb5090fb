package scenes

import (
	"fmt"
	"log"
	"slices"

	"github.com/gonewx/marquee/pkg/components"
	"github.com/gonewx/marquee/pkg/config"
	"github.com/gonewx/marquee/pkg/ecs"
	"github.com/gonewx/marquee/pkg/entities"
	"github.com/gonewx/marquee/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// handleInput 处理键盘、鼠标滚轮和拖拽
//
//   - 滚轮 / 拖拽 / ↑↓ / PageUp PageDown: 滚动页面
//   - P: 切换减少动态效果（持久化）
//   - L: 切换语言
//   - D: 切换第一个跑马灯的方向
//   - Y: 在主内容和备用内容之间切换
func (s *LandingScene) handleInput() {
	if _, wy := ebiten.Wheel(); wy != 0 {
		s.Scroll(-wy * config.ScrollStep)
	}
	s.drag.Update()
	if dy := s.drag.ScrollDelta(); dy != 0 {
		s.Scroll(dy)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		s.Scroll(config.KeyScrollStep)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		s.Scroll(-config.KeyScrollStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPageDown) {
		s.ScrollPage(1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPageUp) {
		s.ScrollPage(-1)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		s.ToggleReduceMotion()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		s.NextLanguage()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		s.CycleDirection()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyY) {
		s.ToggleAltItems()
	}
}

// Scroll 滚动页面，位置限制在页面范围内；会打断翻页动画
func (s *LandingScene) Scroll(dy float64) {
	s.scrollAnim.Cancel()
	s.scrollY = s.clampScroll(s.scrollY + dy)
}

// ScrollPage 以动画翻过 pages 屏，连续翻页从上一次的目标位置累加
func (s *LandingScene) ScrollPage(pages int) {
	base := s.scrollY
	if s.scrollAnim.Active() {
		base = s.scrollAnim.Target()
	}
	target := s.clampScroll(base + float64(pages*s.page.Viewport.Height))
	s.scrollAnim.Start(s.scrollY, target, config.PageScrollDuration)
}

// advanceScroll 推进翻页动画
func (s *LandingScene) advanceScroll(deltaTime float64) {
	if s.scrollAnim.Active() {
		s.scrollY = s.scrollAnim.Step(deltaTime)
	}
}

func (s *LandingScene) clampScroll(y float64) float64 {
	return config.ClampScroll(y, s.page.PageHeight, float64(s.page.Viewport.Height))
}

// ToggleReduceMotion 切换减少动态效果，立即作用于全部跑马灯并保存设置
func (s *LandingScene) ToggleReduceMotion() bool {
	enabled := s.settings.ToggleReduceMotion()
	for _, pm := range s.items {
		s.applyPause(pm)
	}
	if err := s.settings.Save(); err != nil {
		log.Printf("[LandingScene] Warning: failed to save settings: %v", err)
	}
	log.Printf("[LandingScene] 减少动态效果: %v", enabled)
	return enabled
}

// NextLanguage 切换到下一种语言
//
// 文本宽度变化由尺寸观察器发现，跑马灯运行时在下一个 tick 重新测量。
func (s *LandingScene) NextLanguage() string {
	if len(s.languages) < 2 {
		return s.Language()
	}
	i := slices.Index(s.languages, s.Language())
	next := s.languages[(i+1)%len(s.languages)]
	s.settings.SetLanguage(next)

	for _, pm := range s.items {
		if entities.ApplyLanguage(s.entityManager, pm.entity, next, s.measurer) > 0 {
			// 尺寸可能不变，克隆的文本需要立即跟上
			s.marquees.Clones().Sync(pm.entity)
		}
	}
	if err := s.settings.Save(); err != nil {
		log.Printf("[LandingScene] Warning: failed to save settings: %v", err)
	}
	log.Printf("[LandingScene] 切换语言: %s", next)
	return next
}

// CycleDirection 把第一个跑马灯切换到下一个方向
func (s *LandingScene) CycleDirection() {
	if len(s.items) == 0 {
		return
	}
	pm := s.items[0]
	comp, ok := ecs.GetComponent[*components.MarqueeComponent](s.entityManager, pm.entity)
	if !ok {
		return
	}
	s.marquees.SetDirection(pm.entity, comp.Direction.Next())
	log.Printf("[LandingScene] 跑马灯 %q 方向: %s", pm.cfg.ID, comp.Direction)
}

// ToggleAltItems 有备用内容的跑马灯在两组内容之间切换
func (s *LandingScene) ToggleAltItems() {
	for _, pm := range s.items {
		if len(pm.cfg.AltItems) == 0 {
			continue
		}
		items := pm.cfg.AltItems
		if pm.showingAlt {
			items = pm.cfg.Items
		}
		if err := entities.ReplaceContentItems(s.entityManager, pm.entity, items, s.Language(), s.measurer, s.resources); err != nil {
			log.Printf("[LandingScene] Warning: marquee %q: %v", pm.cfg.ID, err)
			continue
		}
		pm.showingAlt = !pm.showingAlt
		s.marquees.RefreshContent(pm.entity)
	}
}

// drawHint 在屏幕底部绘制快捷键提示
func (s *LandingScene) drawHint(screen *ebiten.Image) {
	motion := "on"
	if s.settings.GetSettings().ReduceMotion {
		motion = "off"
	}
	hint := fmt.Sprintf("wheel: scroll   P: motion %s   L: %s   D: direction   Y: plans   R: reload", motion, s.Language())
	if utils.IsMobile() {
		hint = fmt.Sprintf("drag: scroll   motion %s   %s", motion, s.Language())
	}

	lines := utils.WrapText(hint, s.hintFace, float64(s.page.Viewport.Width)-16)
	lineHeight := utils.LineHeight(s.hintFace)
	y := float64(s.page.Viewport.Height) - 8 - lineHeight*float64(len(lines))
	for _, line := range lines {
		op := &text.DrawOptions{}
		op.GeoM.Translate(8, y)
		op.ColorScale.ScaleWithColor(config.HintTextColor)
		text.Draw(screen, line, s.hintFace, op)
		y += lineHeight
	}
}
