package game

import (
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// MockScene is a mock implementation of the Scene interface for testing.
type MockScene struct {
	updateCalled bool
	drawCalled   bool
	unloaded     int
	deltaTime    float64
}

func (m *MockScene) Update(deltaTime float64) {
	m.updateCalled = true
	m.deltaTime = deltaTime
}

func (m *MockScene) Draw(screen *ebiten.Image) {
	m.drawCalled = true
}

func (m *MockScene) Unload() {
	m.unloaded++
}

// TestNewSceneManager verifies that NewSceneManager creates a valid instance.
func TestNewSceneManager(t *testing.T) {
	sm := NewSceneManager()
	if sm.GetCurrentScene() != nil {
		t.Error("Expected current scene to be nil initially")
	}

	// 没有场景时 Update/Draw 不做任何事
	sm.Update(0.016)
	sm.Draw(nil)
}

// TestSceneManagerSwitchTo 切换场景时卸载旧场景
func TestSceneManagerSwitchTo(t *testing.T) {
	sm := NewSceneManager()
	first := &MockScene{}
	second := &MockScene{}

	sm.SwitchTo(first)
	sm.SwitchTo(first) // 同一场景不卸载
	if first.unloaded != 0 {
		t.Errorf("first unloaded %d times, want 0", first.unloaded)
	}

	sm.SwitchTo(second)
	if first.unloaded != 1 {
		t.Errorf("first unloaded %d times, want 1", first.unloaded)
	}
	if sm.GetCurrentScene() != second {
		t.Error("SwitchTo did not set the current scene correctly")
	}
}

// TestSceneManagerUpdate verifies that Update calls the current scene's Update method.
func TestSceneManagerUpdate(t *testing.T) {
	sm := NewSceneManager()
	mockScene := &MockScene{}
	sm.SwitchTo(mockScene)

	sm.Update(0.016)
	if !mockScene.updateCalled {
		t.Error("Scene's Update method was not called")
	}
	if mockScene.deltaTime != 0.016 {
		t.Errorf("deltaTime = %v, want 0.016", mockScene.deltaTime)
	}

	sm.Draw(nil)
	if !mockScene.drawCalled {
		t.Error("Scene's Draw method was not called")
	}
}

func TestSceneManagerLoadScene(t *testing.T) {
	sm := NewSceneManager()
	if sm.LoadScene("landing") {
		t.Error("LoadScene without factory should fail")
	}

	created := &MockScene{}
	sm.SetSceneFactory(func(name string) (Scene, error) {
		if name != "landing" {
			return nil, errors.New("unknown scene")
		}
		return created, nil
	})

	if !sm.LoadScene("landing") {
		t.Fatal("LoadScene(landing) failed")
	}
	if sm.GetCurrentScene() != created {
		t.Error("LoadScene did not switch to the created scene")
	}

	// 创建失败时保留当前场景
	if sm.LoadScene("pricing") {
		t.Error("LoadScene(pricing) should fail")
	}
	if sm.GetCurrentScene() != created || created.unloaded != 0 {
		t.Error("failed LoadScene should keep the current scene")
	}
}
