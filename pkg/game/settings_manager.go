package game

import (
	"fmt"
	"log"

	"github.com/gonewx/marquee/pkg/config"
	"github.com/gonewx/marquee/pkg/utils"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// PageSettings 用户设置
// 与页面配置无关，跨会话保留
type PageSettings struct {
	// ReduceMotion 减少动态效果：为 true 时所有跑马灯保持暂停
	ReduceMotion bool `yaml:"reduceMotion"`

	// Language 界面语言，如 "en"、"zh"
	Language string `yaml:"language"`

	// Fullscreen 启动时是否全屏
	Fullscreen bool `yaml:"fullscreen"`
}

// DefaultSettings 返回默认设置
func DefaultSettings() *PageSettings {
	return &PageSettings{
		ReduceMotion: false,
		Language:     config.DefaultLanguage,
		Fullscreen:   false,
	}
}

// SettingsManager 设置管理器
// 负责用户设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *PageSettings  // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "user"
)

// OpenStorage 打开应用的 gdata 存储
//
// 失败时记录警告并返回 nil，调用方进入降级模式（设置只保存在内存中）。
func OpenStorage(appName string) *gdata.Manager {
	if err := utils.EnsureStorageDir(appName); err != nil {
		log.Printf("[SettingsManager] Warning: %v", err)
	}
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[SettingsManager] Warning: Failed to open storage for %s: %v (settings will not persist)", appName, err)
		return nil
	}
	if dir := utils.StoragePath(appName); dir != "" {
		log.Printf("[SettingsManager] 设置目录: %s", dir)
	}
	return manager
}

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
//   - error: 保留给调用方检查，加载失败不会返回错误（使用默认设置）
func NewSettingsManager(gdataManager *gdata.Manager) (*SettingsManager, error) {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	if err := sm.Load(); err != nil {
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm, nil
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或文件不存在，使用默认设置
//
// 返回：
//   - error: 如果反序列化失败返回错误
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	if loaded.Language == "" {
		loaded.Language = config.DefaultLanguage
	}

	sm.settings = loaded
	log.Printf("[SettingsManager] 设置加载成功")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] 设置保存成功")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *PageSettings {
	return sm.settings
}

// IsPersistent 设置是否会被持久化
func (sm *SettingsManager) IsPersistent() bool {
	return sm.gdataManager != nil
}

// SetReduceMotion 设置减少动态效果
//
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetReduceMotion(enabled bool) {
	sm.settings.ReduceMotion = enabled
}

// ToggleReduceMotion 切换减少动态效果并返回新值
func (sm *SettingsManager) ToggleReduceMotion() bool {
	sm.SetReduceMotion(!sm.settings.ReduceMotion)
	return sm.settings.ReduceMotion
}

// SetLanguage 设置语言，空字符串恢复默认语言
//
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetLanguage(language string) {
	if language == "" {
		language = config.DefaultLanguage
	}
	sm.settings.Language = language
}

// SetFullscreen 设置全屏模式
//
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}
