// Package render 跑马灯的 Ebitengine 渲染
//
// 与 systems 分开放置，终端宿主（cmd/marquee-term）只依赖引擎和 ECS，不引入 ebiten。
package render

import (
	"image"
	"image/color"
	"log"

	"github.com/gonewx/marquee/pkg/components"
	"github.com/gonewx/marquee/pkg/config"
	"github.com/gonewx/marquee/pkg/ecs"
	"github.com/gonewx/marquee/pkg/marquee"
	"github.com/gonewx/marquee/pkg/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// MarqueeRenderSystem 绘制所有跑马灯容器
//
// 渲染只读取已发布的样式变量（--progress、--content-length），
// 不直接读 MarqueeComponent.Progress。
// 每个容器裁剪到自身矩形：先原始内容，再依次是各组克隆，
// 整条轨道沿轴平移 marquee.Offset。
type MarqueeRenderSystem struct {
	entityManager *ecs.EntityManager
	clones        *systems.CloneSystem
	face          text.Face
	textColor     color.Color

	// images content image -> GPU 图片，避免每帧上传
	images map[image.Image]*ebiten.Image
}

// NewMarqueeRenderSystem 创建渲染系统
//
// 参数：
//   - em: 实体管理器
//   - clones: 克隆系统，提供完整轨道顺序
//   - face: 文本字体
func NewMarqueeRenderSystem(em *ecs.EntityManager, clones *systems.CloneSystem, face text.Face) *MarqueeRenderSystem {
	return &MarqueeRenderSystem{
		entityManager: em,
		clones:        clones,
		face:          face,
		textColor:     color.White,
		images:        make(map[image.Image]*ebiten.Image),
	}
}

// SetTextColor 设置文本颜色
func (s *MarqueeRenderSystem) SetTextColor(c color.Color) {
	s.textColor = c
}

// Draw 绘制全部容器
//
// 参数：
//   - screen: 绘制目标
//   - scrollY: 页面滚动位置，页面坐标减去它得到屏幕坐标
func (s *MarqueeRenderSystem) Draw(screen *ebiten.Image, scrollY float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.MarqueeComponent](s.entityManager) {
		comp, _ := ecs.GetComponent[*components.MarqueeComponent](s.entityManager, id)
		s.drawMarquee(screen, id, comp, scrollY)
	}
}

func (s *MarqueeRenderSystem) drawMarquee(screen *ebiten.Image, id ecs.EntityID, comp *components.MarqueeComponent, scrollY float64) {
	bounds := comp.Rect().Translate(0, -scrollY)
	clip := image.Rect(int(bounds.X), int(bounds.Y), int(bounds.X+bounds.W), int(bounds.Y+bounds.H)).
		Intersect(screen.Bounds())
	if clip.Empty() {
		return
	}
	dst := screen.SubImage(clip).(*ebiten.Image)

	if bg, ok := config.ParseColor(comp.Attributes["background"]); ok {
		dst.Fill(bg)
	}

	axis := comp.Axis()
	gap := systems.NormalizeGap(comp.Gap)
	progress := comp.Style.Value(marquee.PropProgress)
	contentLength := comp.Style.Value(marquee.PropContentLength)
	cursor := marquee.Offset(comp.Sign(), progress, contentLength)
	crossExtent := marquee.Extent(axis.Cross(), bounds.W, bounds.H)

	for _, itemID := range s.clones.Track(id) {
		item, ok := ecs.GetComponent[*components.ContentItemComponent](s.entityManager, itemID)
		if !ok {
			continue
		}
		// 沿轴放在 cursor，交叉轴居中
		cross := (crossExtent - item.Extent(axis.Cross())) / 2
		x, y := bounds.X+cursor, bounds.Y+cross
		if axis == marquee.AxisVertical {
			x, y = bounds.X+cross, bounds.Y+cursor
		}
		s.drawItem(dst, item, x, y)
		cursor += item.Extent(axis) + gap
	}
}

func (s *MarqueeRenderSystem) drawItem(dst *ebiten.Image, item *components.ContentItemComponent, x, y float64) {
	switch item.Kind {
	case components.ContentImage, components.ContentQRCode:
		img := s.ebitenImage(item.Image)
		if img == nil {
			return
		}
		op := &ebiten.DrawImageOptions{}
		if w, h := img.Bounds().Dx(), img.Bounds().Dy(); w > 0 && h > 0 {
			op.GeoM.Scale(item.Width/float64(w), item.Height/float64(h))
		}
		op.GeoM.Translate(x, y)
		dst.DrawImage(img, op)
	default:
		if s.face == nil || item.Text == "" {
			return
		}
		op := &text.DrawOptions{}
		op.GeoM.Translate(x, y)
		op.ColorScale.ScaleWithColor(s.textColor)
		text.Draw(dst, item.Text, s.face, op)
	}
}

func (s *MarqueeRenderSystem) ebitenImage(src image.Image) *ebiten.Image {
	if src == nil {
		return nil
	}
	if img, ok := src.(*ebiten.Image); ok {
		return img
	}
	if img, ok := s.images[src]; ok {
		return img
	}
	img := ebiten.NewImageFromImage(src)
	s.images[src] = img
	log.Printf("[MarqueeRenderSystem] Uploaded image %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	return img
}

// ReleaseImages 释放缓存的 GPU 图片（场景卸载时调用）
func (s *MarqueeRenderSystem) ReleaseImages() {
	for key, img := range s.images {
		img.Deallocate()
		delete(s.images, key)
	}
}
