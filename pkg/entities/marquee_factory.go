package entities

import (
	"fmt"
	"image"
	"log"
	"maps"

	"github.com/gonewx/marquee/pkg/components"
	"github.com/gonewx/marquee/pkg/config"
	"github.com/gonewx/marquee/pkg/ecs"
	"github.com/gonewx/marquee/pkg/marquee"
)

// TextMeasurer 测量文本块的布局尺寸
type TextMeasurer interface {
	MeasureText(s string) (width, height float64)
}

// ContentLoader 提供已加载的图片和二维码
type ContentLoader interface {
	GetImage(path string) (image.Image, bool)
	GetQRCode(content string, size int) (image.Image, bool)
}

// NewMarqueeEntity 根据配置创建跑马灯容器和它的原始子元素
//
// 参数:
//   - em: 实体管理器
//   - cfg: 容器配置
//   - language: 当前语言，决定文本子元素的初始文本
//   - tm: 文本测量器
//   - loader: 图片/二维码来源，可为 nil（此时配置中不能有图片和二维码）
//
// 返回:
//   - ecs.EntityID: 容器实体ID
//   - error: 方向非法或图片缺失时返回错误，已创建的实体会被清理
func NewMarqueeEntity(em *ecs.EntityManager, cfg config.MarqueeConfig, language string, tm TextMeasurer, loader ContentLoader) (ecs.EntityID, error) {
	direction, err := marquee.ParseDirection(cfg.Direction)
	if err != nil {
		return 0, fmt.Errorf("failed to create marquee %q: %w", cfg.ID, err)
	}

	id := em.CreateEntity()
	comp := components.NewMarqueeComponent(cfg.Rect(), direction)
	comp.Paused = cfg.Paused
	comp.Gap = cfg.Gap
	comp.Duration = cfg.DurationSpec()
	maps.Copy(comp.Attributes, cfg.Attributes)
	comp.Attributes["id"] = cfg.ID
	ecs.AddComponent(em, id, comp)

	if err := CreateContentItems(em, id, cfg.Items, language, tm, loader); err != nil {
		ecs.RemoveComponent[*components.MarqueeComponent](em, id)
		em.DestroyEntity(id)
		return 0, fmt.Errorf("failed to create marquee %q: %w", cfg.ID, err)
	}

	log.Printf("[MarqueeFactory] 创建跑马灯 %q（实体 %d，%s，%d 项）", cfg.ID, id, direction, len(cfg.Items))
	return id, nil
}

// CreateContentItems 为容器创建原始子元素
//
// 任一子元素创建失败时，本次已创建的子元素全部标记删除。
func CreateContentItems(em *ecs.EntityManager, owner ecs.EntityID, items []config.ItemConfig, language string, tm TextMeasurer, loader ContentLoader) error {
	created := make([]ecs.EntityID, 0, len(items))
	for i, item := range items {
		comp, err := newContentItem(item, language, tm, loader)
		if err != nil {
			for _, id := range created {
				ecs.RemoveComponent[*components.ContentItemComponent](em, id)
				em.DestroyEntity(id)
			}
			return fmt.Errorf("item %d: %w", i, err)
		}
		comp.Owner = owner
		comp.Index = i

		id := em.CreateEntity()
		ecs.AddComponent(em, id, comp)
		created = append(created, id)
	}
	return nil
}

// ReplaceContentItems 用新的子元素替换容器的全部原始子元素
//
// 旧子元素立即摘除内容组件，调用方随后应调用 MarqueeSystem.RefreshContent。
func ReplaceContentItems(em *ecs.EntityManager, owner ecs.EntityID, items []config.ItemConfig, language string, tm TextMeasurer, loader ContentLoader) error {
	var old []ecs.EntityID
	for _, id := range ecs.GetEntitiesWith1[*components.ContentItemComponent](em) {
		if ecs.HasComponent[*components.CloneComponent](em, id) {
			continue
		}
		if item, _ := ecs.GetComponent[*components.ContentItemComponent](em, id); item.Owner == owner {
			old = append(old, id)
		}
	}

	if err := CreateContentItems(em, owner, items, language, tm, loader); err != nil {
		return err
	}
	for _, id := range old {
		ecs.RemoveComponent[*components.ContentItemComponent](em, id)
		em.DestroyEntity(id)
	}
	return nil
}

func newContentItem(item config.ItemConfig, language string, tm TextMeasurer, loader ContentLoader) (*components.ContentItemComponent, error) {
	switch item.Kind() {
	case config.ItemImage:
		if loader == nil {
			return nil, fmt.Errorf("no loader for image %s", item.Image)
		}
		img, ok := loader.GetImage(item.Image)
		if !ok {
			return nil, fmt.Errorf("image %s not loaded", item.Image)
		}
		w, h := imageSize(img, item.Width, item.Height)
		return &components.ContentItemComponent{
			Kind:   components.ContentImage,
			Image:  img,
			Width:  w,
			Height: h,
		}, nil

	case config.ItemQRCode:
		if loader == nil {
			return nil, fmt.Errorf("no loader for qrcode %q", item.QRCode)
		}
		img, ok := loader.GetQRCode(item.QRCode, item.QRSize)
		if !ok {
			return nil, fmt.Errorf("qrcode %q not generated", item.QRCode)
		}
		w, h := imageSize(img, item.Width, item.Height)
		return &components.ContentItemComponent{
			Kind:   components.ContentQRCode,
			Text:   item.QRCode,
			Image:  img,
			Width:  w,
			Height: h,
		}, nil
	}

	// 标量和文本都包装成行内文本块
	translations := make(map[string]string, len(item.I18n)+1)
	maps.Copy(translations, item.I18n)
	translations[components.FallbackLanguage] = item.Text

	comp := &components.ContentItemComponent{
		Kind:         components.ContentText,
		Translations: translations,
	}
	setText(comp, comp.TextFor(language), tm)
	return comp, nil
}

// imageSize 配置尺寸优先，缺失的一边按图片宽高比补齐
func imageSize(img image.Image, width, height float64) (float64, float64) {
	b := img.Bounds()
	iw, ih := float64(b.Dx()), float64(b.Dy())
	switch {
	case width > 0 && height > 0:
		return width, height
	case width > 0 && iw > 0:
		return width, width * ih / iw
	case height > 0 && ih > 0:
		return height * iw / ih, height
	}
	return iw, ih
}

// SetItemText 替换文本子元素的内容并按新文本更新布局尺寸
//
// 尺寸变化由尺寸观察器在下一帧发现。返回文本是否改变。
func SetItemText(em *ecs.EntityManager, id ecs.EntityID, s string, tm TextMeasurer) bool {
	item, ok := ecs.GetComponent[*components.ContentItemComponent](em, id)
	if !ok || item.Kind != components.ContentText || item.Text == s {
		return false
	}
	setText(item, s, tm)
	return true
}

// ApplyLanguage 把容器的全部原始文本子元素切换到指定语言
//
// 返回文本改变的子元素数量。
func ApplyLanguage(em *ecs.EntityManager, owner ecs.EntityID, language string, tm TextMeasurer) int {
	changed := 0
	for _, id := range ecs.GetEntitiesWith1[*components.ContentItemComponent](em) {
		if ecs.HasComponent[*components.CloneComponent](em, id) {
			continue
		}
		item, _ := ecs.GetComponent[*components.ContentItemComponent](em, id)
		if item.Owner != owner {
			continue
		}
		if SetItemText(em, id, item.TextFor(language), tm) {
			changed++
		}
	}
	return changed
}

func setText(item *components.ContentItemComponent, s string, tm TextMeasurer) {
	item.Text = s
	if tm != nil {
		item.Width, item.Height = tm.MeasureText(s)
	}
}
