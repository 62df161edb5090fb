//go:build android

package utils

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// EnsureStorageDir 在打开 gdata 之前创建 Android 上的设置目录并检查可写
//
// gdata 使用 /data/data/{package}/ 作为根目录，但不会预先创建子目录。
func EnsureStorageDir(appName string) error {
	dir, err := androidStorageDir(appName)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create storage directory %s: %w", dir, err)
	}

	probe := filepath.Join(dir, ".write_test")
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		return fmt.Errorf("storage directory %s is not writable: %w", dir, err)
	}
	return os.Remove(probe)
}

// StoragePath 设置目录路径，无法识别包名时返回空字符串
func StoragePath(appName string) string {
	dir, err := androidStorageDir(appName)
	if err != nil {
		return ""
	}
	return dir
}

func androidStorageDir(appName string) (string, error) {
	pkg, err := androidPackage()
	if err != nil {
		return "", fmt.Errorf("failed to detect Android package: %w", err)
	}
	return filepath.Join("/data/data", pkg, appName), nil
}

// androidPackage 从 /proc/self/cmdline 读取包名（以 NUL 结尾）
func androidPackage() (string, error) {
	data, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return "", err
	}
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	name := string(bytes.TrimSpace(data))
	if name == "" {
		return "", fmt.Errorf("empty /proc/self/cmdline")
	}
	return name, nil
}
