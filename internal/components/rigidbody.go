package components

import (
	"ballista/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Rigidbody carries the linear velocity of a moving object. Aiming reads it to
// lead moving targets; Update integrates it unless the body is kinematic, in
// which case something else drives the transform and keeps Velocity current.
type Rigidbody struct {
	engine.BaseComponent
	Velocity    rl.Vector3
	IsKinematic bool
}

func NewRigidbody() *Rigidbody {
	return &Rigidbody{}
}

func (r *Rigidbody) Update(deltaTime float32) {
	if r.IsKinematic {
		return
	}
	g := r.GetGameObject()
	g.Transform.Position = rl.Vector3Add(g.Transform.Position, rl.Vector3Scale(r.Velocity, deltaTime))
}

// Reset implements engine.Resettable
func (r *Rigidbody) Reset() {
	r.Velocity = rl.Vector3{}
}
