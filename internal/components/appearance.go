package components

import (
	"ballista/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Appearance is the draw color of an object in the range view.
type Appearance struct {
	engine.BaseComponent
	Color rl.Color
}

func NewAppearance(c rl.Color) *Appearance {
	return &Appearance{Color: c}
}
