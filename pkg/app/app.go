// Package app 提供落地页应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"log"
	"path/filepath"

	"github.com/gonewx/marquee/pkg/config"
	"github.com/gonewx/marquee/pkg/embedded"
	"github.com/gonewx/marquee/pkg/game"
	"github.com/gonewx/marquee/pkg/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// StorageName gdata 存储的应用名
const StorageName = "marquee"

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 页面配置文件路径，为空则使用内置的默认页面（需先调用 embedded.Init）
	ConfigPath string
}

// App 是落地页应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	cfg                      Config
	page                     *config.PageConfig
	resources                *game.ResourceManager
	settings                 *game.SettingsManager
	sceneManager             *game.SceneManager
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化应用
//
// 加载页面配置、并行预加载页面引用的图片和二维码、打开用户设置，
// 然后创建落地页场景。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	a := &App{cfg: cfg}

	page, resources, err := a.loadPage()
	if err != nil {
		return nil, err
	}
	a.page = page
	a.resources = resources

	settings, err := game.NewSettingsManager(game.OpenStorage(StorageName))
	if err != nil {
		return nil, fmt.Errorf("failed to create settings manager: %w", err)
	}
	a.settings = settings

	a.sceneManager = game.NewSceneManager()
	a.sceneManager.SetSceneFactory(a.createScene)
	if !a.sceneManager.LoadScene(scenes.LandingSceneName) {
		return nil, fmt.Errorf("failed to load scene %q", scenes.LandingSceneName)
	}

	if settings.GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}

	log.Printf("[App] Started page %q (%d marquees, persistent settings: %v)",
		page.Title, len(page.Marquees), settings.IsPersistent())
	return a, nil
}

// loadPage 读取页面配置并预加载它引用的资源
func (a *App) loadPage() (*config.PageConfig, *game.ResourceManager, error) {
	var (
		page      *config.PageConfig
		resources *game.ResourceManager
		err       error
	)

	if a.cfg.ConfigPath != "" {
		page, err = config.LoadPageConfig(a.cfg.ConfigPath)
		if err != nil {
			return nil, nil, err
		}
		resources = game.NewResourceManager(filepath.Dir(a.cfg.ConfigPath))
	} else {
		if !embedded.IsInitialized() {
			return nil, nil, fmt.Errorf("no page config: pass --config or call embedded.Init first")
		}
		if !embedded.Exists(embedded.DefaultPagePath) {
			return nil, nil, fmt.Errorf("embedded data has no %s", embedded.DefaultPagePath)
		}
		data, err := embedded.ReadFile(embedded.DefaultPagePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read embedded page: %w", err)
		}
		page, err = config.ParsePageConfig(data)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse embedded page: %w", err)
		}
		fsys, err := embedded.Sub(filepath.Dir(embedded.DefaultPagePath))
		if err != nil {
			return nil, nil, err
		}
		resources = game.NewResourceManagerFS(fsys)
	}

	if err := resources.PreloadPage(context.Background(), page); err != nil {
		return nil, nil, err
	}
	return page, resources, nil
}

// createScene 场景工厂
func (a *App) createScene(name string) (game.Scene, error) {
	switch name {
	case scenes.LandingSceneName:
		return scenes.NewLandingScene(a.resources, a.settings, a.page, nil)
	default:
		return nil, fmt.Errorf("unknown scene %q", name)
	}
}

// Reload 重新读取页面配置并重建场景；失败时保留当前页面
func (a *App) Reload() error {
	page, resources, err := a.loadPage()
	if err != nil {
		return fmt.Errorf("failed to reload page: %w", err)
	}
	oldPage, oldResources := a.page, a.resources
	a.page, a.resources = page, resources
	if !a.sceneManager.LoadScene(scenes.LandingSceneName) {
		a.page, a.resources = oldPage, oldResources
		return fmt.Errorf("failed to rebuild scene %q", scenes.LandingSceneName)
	}
	log.Printf("[App] 已重新加载页面 %q", page.Title)
	return nil
}

// Update 更新应用逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 窗口关闭前保存设置（需要 main 调用 ebiten.SetWindowClosingHandled(true)）
	if ebiten.IsWindowBeingClosed() {
		a.SaveOnExit()
		return ebiten.Termination
	}

	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(a.page.Viewport.Width, a.page.Viewport.Height)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", a.page.Viewport.Width, a.page.Viewport.Height)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	// R 重新加载页面配置
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := a.Reload(); err != nil {
			log.Printf("[App] Warning: %v", err)
		}
	}

	deltaTime := 1.0 / float64(ebiten.TPS())
	a.sceneManager.Update(deltaTime)
	return nil
}

func (a *App) toggleFullscreen() {
	if ebiten.IsFullscreen() {
		// 退出全屏
		ebiten.SetFullscreen(false)
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		log.Printf("[App] 退出全屏，3 帧后重置窗口大小")
	} else {
		ebiten.SetFullscreen(true)
	}
	a.settings.SetFullscreen(ebiten.IsFullscreen())
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] 警告: 保存设置失败: %v", err)
	}
}

// Draw 绘制页面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	// 先填充黑色背景（全屏时左右两边为黑色）
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回页面视口的逻辑尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.page.Viewport.Width, a.page.Viewport.Height
}

// Page 当前页面配置
func (a *App) Page() *config.PageConfig {
	return a.page
}

// SaveOnExit 窗口关闭时调用当前场景的 SaveOnExit
func (a *App) SaveOnExit() {
	if saveable, ok := a.sceneManager.GetCurrentScene().(game.Saveable); ok {
		saveable.SaveOnExit()
	}
}
