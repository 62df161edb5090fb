package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/gonewx/marquee/pkg/app"
	"github.com/gonewx/marquee/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	configPath  = flag.String("config", "", "页面配置文件路径（为空使用内置的 data/page.yaml）")
	verboseFlag = flag.Bool("verbose", false, "显示详细日志")
)

func main() {
	flag.Parse()

	embedded.Init(dataFS)

	landing, err := app.NewApp(app.Config{
		Verbose:    *verboseFlag,
		ConfigPath: *configPath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化失败: %v\n", err)
		os.Exit(1)
	}

	page := landing.Page()
	ebiten.SetWindowSize(page.Viewport.Width, page.Viewport.Height)
	ebiten.SetWindowTitle(page.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)

	if err := ebiten.RunGame(landing); err != nil && !errors.Is(err, ebiten.Termination) {
		fmt.Fprintf(os.Stderr, "运行失败: %v\n", err)
		os.Exit(1)
	}
}
