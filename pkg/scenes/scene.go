package scenes

import (
	"github.com/gonewx/marquee/pkg/game"
)

// Scene is a type alias for game.Scene.
// All scene implementations should implement the game.Scene interface.
type Scene = game.Scene

// LandingSceneName 落地页场景名，用于 SceneManager.LoadScene
const LandingSceneName = "landing"
