package trajectory

import (
	"ballista/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Gravity is the default downward acceleration in units/s².
const Gravity float32 = 9.8

type Sample struct {
	Position rl.Vector3 `msgpack:"pos"`
	Elapsed  float32    `msgpack:"t"`
}

// ImpactResult is the outcome of one simulation. Hit=false means the path ran
// out of time without touching anything.
type ImpactResult struct {
	Hit       bool                 `msgpack:"hit"`
	Position  rl.Vector3           `msgpack:"pos"`
	Normal    rl.Vector3           `msgpack:"normal"`
	HitObject engine.GameObjectRef `msgpack:"obj"`
}

// Params are the per-call tunables of a simulation.
type Params struct {
	Start         rl.Vector3   `msgpack:"start"`
	ForwardOffset float32      `msgpack:"fwd"`
	Velocity      rl.Vector3   `msgpack:"vel"`
	ProbeRadius   float32      `msgpack:"probe"`
	Interval      float32      `msgpack:"dt"`
	MaxTime       float32      `msgpack:"max"`
	Mask          engine.Layer `msgpack:"mask"`
}

type Path struct {
	Samples []Sample
	Impact  ImpactResult
}

// End is where the path stops: the impact point on a hit, otherwise the last
// sample, or Start for a path with no samples.
func (p Path) End(start rl.Vector3) rl.Vector3 {
	if p.Impact.Hit {
		return p.Impact.Position
	}
	if n := len(p.Samples); n > 0 {
		return p.Samples[n-1].Position
	}
	return start
}

// Duration is the elapsed time of the final sample.
func (p Path) Duration() float32 {
	if n := len(p.Samples); n > 0 {
		return p.Samples[n-1].Elapsed
	}
	return 0
}

// PositionAt evaluates the ballistic arc at time t.
func PositionAt(start, velocity rl.Vector3, gravity, t float32) rl.Vector3 {
	return rl.Vector3{
		X: start.X + velocity.X*t,
		Y: start.Y + velocity.Y*t - 0.5*gravity*t*t,
		Z: start.Z + velocity.Z*t,
	}
}

// VelocityAt is the derivative of PositionAt.
func VelocityAt(velocity rl.Vector3, gravity, t float32) rl.Vector3 {
	return rl.Vector3{X: velocity.X, Y: velocity.Y - gravity*t, Z: velocity.Z}
}

func horizontal(v rl.Vector3) rl.Vector3 {
	return rl.Vector3{X: v.X, Z: v.Z}
}
