// Package embedded 提供嵌入资源的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// embed.FS 变量必须声明在项目根目录（embed.go）或 mobile 包中。
// 本包保存该文件系统，让 app 在没有 --config 时使用内置的默认页面。
//
// 使用前必须调用 Init() 初始化。
package embedded

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
)

// DefaultPagePath 内置默认页面配置的路径
const DefaultPagePath = "data/page.yaml"

var errNotInitialized = errors.New("embedded package not initialized, call Init() first")

var (
	dataFS      fs.FS
	initialized bool
)

// Init 设置嵌入的 data 文件系统
// 必须在 main() 开始时、任何资源加载之前调用
func Init(data fs.FS) {
	dataFS = data
	initialized = data != nil
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	return initialized
}

// cleanPath 标准化路径：正斜杠、去掉 "./" 前缀，且必须位于 data/ 下
func cleanPath(p string) (string, error) {
	p = path.Clean(strings.TrimPrefix(filepath.ToSlash(p), "./"))
	if p != "data" && !strings.HasPrefix(p, "data/") {
		return "", fmt.Errorf("unknown resource path prefix: %s (must start with 'data/')", p)
	}
	return p, nil
}

// ReadFile 读取嵌入文件的内容，路径必须以 "data/" 开头
func ReadFile(name string) ([]byte, error) {
	if !initialized {
		return nil, errNotInitialized
	}
	p, err := cleanPath(name)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(dataFS, p)
}

// Exists 检查文件是否存在于嵌入文件系统中
func Exists(name string) bool {
	if !initialized {
		return false
	}
	p, err := cleanPath(name)
	if err != nil {
		return false
	}
	_, err = fs.Stat(dataFS, p)
	return err == nil
}

// Sub 返回指定目录的子文件系统，路径必须以 "data" 开头
func Sub(dir string) (fs.FS, error) {
	if !initialized {
		return nil, errNotInitialized
	}
	p, err := cleanPath(dir)
	if err != nil {
		return nil, err
	}
	return fs.Sub(dataFS, p)
}
