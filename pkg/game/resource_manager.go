package game

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"unicode"

	"github.com/gonewx/marquee/pkg/config"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/skip2/go-qrcode"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/sync/errgroup"
)

// ResourceManager is responsible for centralized management of page resources.
// It provides loading and caching for content images, generated QR codes and
// font faces, so every resource is decoded only once.
//
// Images are kept as decoded image.Image values; the ebiten render system
// uploads them to the GPU lazily. This keeps the terminal host free of ebiten.
//
// Thread Safety Note:
// The caches are plain maps. PreloadPage decodes in parallel but writes the
// caches only after all workers finish, on the calling goroutine. All other
// methods must be called from the game loop.
//
// Usage:
//
//	rm := NewResourceManager(filepath.Dir(configPath))
//	if err := rm.PreloadPage(ctx, pageConfig); err != nil {
//	    return err
//	}
//	img, ok := rm.GetImage("assets/logo.png")
type ResourceManager struct {
	baseDir       string                 // Relative resource paths are resolved against this directory
	fsys          fs.FS                  // When set, resources are read from here instead of the OS
	imageCache    map[string]image.Image // path -> decoded image
	qrCache       map[qrKey]image.Image  // (content, size) -> QR code image
	fontFaceCache map[string]text.Face   // "path:size" -> face
	fontSources   map[string]*text.GoTextFaceSource
	fontOutlines  map[string]*sfnt.Font // path -> parsed font, for glyph coverage checks
}

type qrKey struct {
	content string
	size    int
}

// NewResourceManager creates a ResourceManager with empty caches.
//
// Parameters:
//   - baseDir: directory that relative resource paths are resolved against
//     (usually the directory of the page config). Empty means the working directory.
func NewResourceManager(baseDir string) *ResourceManager {
	return &ResourceManager{
		baseDir:       baseDir,
		imageCache:    make(map[string]image.Image),
		qrCache:       make(map[qrKey]image.Image),
		fontFaceCache: make(map[string]text.Face),
		fontSources:   make(map[string]*text.GoTextFaceSource),
		fontOutlines:  make(map[string]*sfnt.Font),
	}
}

// NewResourceManagerFS creates a ResourceManager that reads every resource from fsys,
// for example the embedded data directory.
func NewResourceManagerFS(fsys fs.FS) *ResourceManager {
	rm := NewResourceManager("")
	rm.fsys = fsys
	return rm
}

// resolvePath 把相对路径解析到 baseDir 下
func (rm *ResourceManager) resolvePath(path string) string {
	if rm.baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(rm.baseDir, path)
}

// LoadImage loads and caches an image file.
//
// Returns an error if the file cannot be opened or decoded.
func (rm *ResourceManager) LoadImage(path string) (image.Image, error) {
	if img, ok := rm.imageCache[path]; ok {
		return img, nil
	}
	img, err := rm.decodeImage(path)
	if err != nil {
		return nil, err
	}
	rm.imageCache[path] = img
	return img, nil
}

// GetImage returns a loaded image. Images that PreloadPage did not cover are
// loaded on first use; a failure is logged and reported as not found.
func (rm *ResourceManager) GetImage(path string) (image.Image, bool) {
	if img, ok := rm.imageCache[path]; ok {
		return img, true
	}
	img, err := rm.LoadImage(path)
	if err != nil {
		log.Printf("[ResourceManager] 图片加载失败: %v", err)
		return nil, false
	}
	return img, true
}

// LoadQRCode generates and caches a QR code image of size×size pixels.
func (rm *ResourceManager) LoadQRCode(content string, size int) (image.Image, error) {
	key := qrKey{content, size}
	if img, ok := rm.qrCache[key]; ok {
		return img, nil
	}
	img, err := generateQRCode(content, size)
	if err != nil {
		return nil, err
	}
	rm.qrCache[key] = img
	return img, nil
}

// GetQRCode returns a generated QR code, generating it on first use.
func (rm *ResourceManager) GetQRCode(content string, size int) (image.Image, bool) {
	img, err := rm.LoadQRCode(content, size)
	if err != nil {
		log.Printf("[ResourceManager] 二维码生成失败: %v", err)
		return nil, false
	}
	return img, true
}

// preloadJob 一个待解码的图片或二维码
type preloadJob struct {
	path string
	qr   qrKey
}

// PreloadPage decodes every image and generates every QR code referenced by the
// page config in parallel. Already cached resources are skipped.
//
// Returns the first decode error; nothing is cached from a failed preload.
func (rm *ResourceManager) PreloadPage(ctx context.Context, cfg *config.PageConfig) error {
	var jobs []preloadJob
	seenImages := make(map[string]bool)
	seenQR := make(map[qrKey]bool)

	for _, m := range cfg.Marquees {
		for _, items := range [][]config.ItemConfig{m.Items, m.AltItems} {
			for _, item := range items {
				switch item.Kind() {
				case config.ItemImage:
					if _, cached := rm.imageCache[item.Image]; cached || seenImages[item.Image] {
						continue
					}
					seenImages[item.Image] = true
					jobs = append(jobs, preloadJob{path: item.Image})
				case config.ItemQRCode:
					key := qrKey{item.QRCode, item.QRSize}
					if _, cached := rm.qrCache[key]; cached || seenQR[key] {
						continue
					}
					seenQR[key] = true
					jobs = append(jobs, preloadJob{qr: key})
				}
			}
		}
	}
	if len(jobs) == 0 {
		return nil
	}

	results := make([]image.Image, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var (
				img image.Image
				err error
			)
			if job.path != "" {
				img, err = rm.decodeImage(job.path)
			} else {
				img, err = generateQRCode(job.qr.content, job.qr.size)
			}
			if err != nil {
				return err
			}
			results[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to preload page resources: %w", err)
	}

	for i, job := range jobs {
		if job.path != "" {
			rm.imageCache[job.path] = results[i]
		} else {
			rm.qrCache[job.qr] = results[i]
		}
	}
	log.Printf("[ResourceManager] 预加载了 %d 张图片和 %d 个二维码", len(seenImages), len(seenQR))
	return nil
}

// LoadFont loads a TrueType/OpenType font and caches the face for the given size.
// An empty path selects the bundled Go Regular font.
func (rm *ResourceManager) LoadFont(path string, size float64) (text.Face, error) {
	cacheKey := fmt.Sprintf("%s:%.1f", path, size)
	if face, ok := rm.fontFaceCache[cacheKey]; ok {
		return face, nil
	}

	source, ok := rm.fontSources[path]
	if !ok {
		fontData, err := rm.fontData(path)
		if err != nil {
			return nil, err
		}
		source, err = text.NewGoTextFaceSource(bytes.NewReader(fontData))
		if err != nil {
			return nil, fmt.Errorf("failed to create font source for %q: %w", path, err)
		}
		rm.fontSources[path] = source
	}

	face := &text.GoTextFace{
		Source:    source,
		Size:      size,
		Direction: text.DirectionLeftToRight,
	}
	rm.fontFaceCache[cacheKey] = face
	return face, nil
}

// LoadFontOrDefault 加载配置的字体，失败时记录警告并退回内置字体
func (rm *ResourceManager) LoadFontOrDefault(path string, size float64) text.Face {
	face, err := rm.LoadFont(path, size)
	if err == nil {
		return face
	}
	log.Printf("[ResourceManager] Warning: %v (using bundled font)", err)
	face, err = rm.LoadFont("", size)
	if err != nil {
		// goregular 是内置数据，解析失败说明构建损坏
		panic(fmt.Sprintf("bundled font is unusable: %v", err))
	}
	return face
}

// FontCovers reports whether the font at path has a glyph for every visible rune of s.
// Whitespace and control characters are ignored. A path that cannot be loaded is
// checked against the bundled font, matching LoadFontOrDefault.
func (rm *ResourceManager) FontCovers(path, s string) bool {
	f, err := rm.fontOutline(path)
	if err != nil {
		log.Printf("[ResourceManager] 无法解析字体 %q，按内置字体检查字形: %v", path, err)
		if f, err = rm.fontOutline(""); err != nil {
			return false
		}
	}

	var buf sfnt.Buffer
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			continue
		}
		idx, err := f.GlyphIndex(&buf, r)
		if err != nil || idx == 0 {
			return false
		}
	}
	return true
}

func (rm *ResourceManager) fontOutline(path string) (*sfnt.Font, error) {
	if f, ok := rm.fontOutlines[path]; ok {
		return f, nil
	}
	data, err := rm.fontData(path)
	if err != nil {
		return nil, err
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %q: %w", path, err)
	}
	rm.fontOutlines[path] = f
	return f, nil
}

// fontData 字体文件内容，空路径为内置的 Go Regular
func (rm *ResourceManager) fontData(path string) ([]byte, error) {
	if path == "" {
		return goregular.TTF, nil
	}
	data, err := rm.readFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file %s: %w", path, err)
	}
	return data, nil
}

// readFile 读取资源文件，设置了 fsys 时从 fsys 读取
func (rm *ResourceManager) readFile(path string) ([]byte, error) {
	if rm.fsys != nil {
		return fs.ReadFile(rm.fsys, filepath.ToSlash(filepath.Clean(path)))
	}
	return os.ReadFile(rm.resolvePath(path))
}

func (rm *ResourceManager) decodeImage(path string) (image.Image, error) {
	data, err := rm.readFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file %s: %w", path, err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

func generateQRCode(content string, size int) (image.Image, error) {
	if size <= 0 {
		size = config.DefaultQRSize
	}
	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code %q: %w", content, err)
	}
	return qr.Image(size), nil
}
