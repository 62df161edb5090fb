//go:build !mobile

// Package mobile 的桌面端占位：真正的入口在 mobile.go，只在 -tags mobile 时编译。
package mobile

// Dummy 让 ./... 在桌面端构建时也能找到可编译的文件
func Dummy() {}
