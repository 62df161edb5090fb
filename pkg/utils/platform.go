//go:build !mobile

package utils

import "os"

// IsMobile 是否按移动端方式运行（决定落地页的操作提示）
// 桌面端编译时默认 false，设置 MARQUEE_MOBILE_EMULATE=1 可在桌面上预览移动端提示
func IsMobile() bool {
	return os.Getenv("MARQUEE_MOBILE_EMULATE") == "1"
}
