package components

import (
	"math"

	"ballista/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Patrol swings its object back and forth along Axis around Origin. When the
// object carries a Rigidbody the analytic velocity is written to it so aiming
// can lead the motion; the body should be kinematic.
type Patrol struct {
	engine.BaseComponent
	Origin    rl.Vector3
	Axis      rl.Vector3
	Amplitude float32
	Speed     float32 // radians per second
	Phase     float32
	time      float32
}

func NewPatrol(origin, axis rl.Vector3, amplitude, speed float32) *Patrol {
	return &Patrol{
		Origin:    origin,
		Axis:      rl.Vector3Normalize(axis),
		Amplitude: amplitude,
		Speed:     speed,
	}
}

func (p *Patrol) Update(deltaTime float32) {
	g := p.GetGameObject()
	if g == nil {
		return
	}

	p.time += deltaTime
	s := float64(p.time*p.Speed + p.Phase)

	g.Transform.Position = rl.Vector3Add(p.Origin, rl.Vector3Scale(p.Axis, p.Amplitude*float32(math.Sin(s))))
	if rb := engine.GetComponent[*Rigidbody](g); rb != nil {
		rb.Velocity = rl.Vector3Scale(p.Axis, p.Amplitude*p.Speed*float32(math.Cos(s)))
	}
}

// Reset implements engine.Resettable
func (p *Patrol) Reset() {
	p.time = 0
}
