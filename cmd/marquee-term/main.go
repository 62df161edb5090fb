// marquee-term 在终端中运行落地页跑马灯
//
// 使用与桌面端相同的页面配置和引擎，像素坐标按单元格尺寸换算成行列。
//
// 用法：
//
//	go run ./cmd/marquee-term --config data/page.yaml
//
// 按键：↑/↓/PgUp/PgDn 滚动页面，p 暂停全部，l 切换语言，d 切换首个跑马灯方向，
// s 显示首个跑马灯的样式变量，q/Esc 退出。
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gonewx/marquee/pkg/config"
)

var (
	configPath = flag.String("config", "data/page.yaml", "页面配置文件路径")
	cellWidth  = flag.Float64("cell-width", 8, "一个单元格对应的像素宽度")
	cellHeight = flag.Float64("cell-height", 16, "一个单元格对应的像素高度")
	logPath    = flag.String("log", "", "日志文件路径（终端被占用，日志不能写到 stderr）")
)

// frameInterval 帧间隔，约 60 FPS
const frameInterval = 16 * time.Millisecond

func main() {
	flag.Parse()

	if err := setupLog(*logPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
		os.Exit(1)
	}

	page, err := config.LoadPageConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load page: %v\n", err)
		os.Exit(1)
	}
	if *cellWidth <= 0 || *cellHeight <= 0 {
		fmt.Fprintln(os.Stderr, "cell size must be positive")
		os.Exit(1)
	}

	host, err := newTermHost(page, cellMetrics{width: *cellWidth, height: *cellHeight}, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer host.close()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize screen: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	run(screen, host)
}

func setupLog(path string) error {
	if path == "" {
		log.SetOutput(io.Discard)
		return nil
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	log.SetOutput(file)
	return nil
}

func run(screen tcell.Screen, host *termHost) {
	host.resize(screen.Size())

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- screen.PollEvent()
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !host.handleKey(ev) {
					return
				}
			case *tcell.EventResize:
				host.resize(screen.Size())
				screen.Sync()
			}

		case <-ticker.C:
			host.step()
			screen.Clear()
			host.draw(screen)
			screen.Show()
		}
	}
}
