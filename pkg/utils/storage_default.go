//go:build !android

package utils

// EnsureStorageDir 非 Android 平台由 gdata 自行创建存储目录
func EnsureStorageDir(appName string) error {
	return nil
}

// StoragePath 非 Android 平台返回空字符串（路径由 gdata 决定）
func StoragePath(appName string) string {
	return ""
}
