package projectile

import (
	"errors"
	"fmt"

	"ballista/internal/engine"
	"ballista/internal/trajectory"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var ErrBadTransition = errors.New("illegal projectile transition")

type State int

const (
	Dormant State = iota
	Armed
	InFlight
	Impacted
)

func (s State) String() string {
	switch s {
	case Dormant:
		return "Dormant"
	case Armed:
		return "Armed"
	case InFlight:
		return "InFlight"
	case Impacted:
		return "Impacted"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Payload is what an impact delivers.
type Payload struct {
	Damage      float32
	BlastRadius float32
	Effect      string
}

// Projectile is a pooled shot. One instance serves many logical shots; every
// field is rewritten on Arm and cleared on Reset.
type Projectile struct {
	State         State
	Position      rl.Vector3
	Velocity      rl.Vector3
	Payload       Payload
	SpawnTime     float32 // launcher clock at launch
	LifetimeLimit float32
	Elapsed       float32
	ProbeRadius   float32
	Mask          engine.Layer
	Impact        trajectory.ImpactResult
	Owner         engine.GameObjectRef

	launchPos rl.Vector3
	launchVel rl.Vector3
	grace     float32
	shots     int
	arms      int // uses of this slot, so stale handles can be told apart
}

func New() *Projectile {
	return &Projectile{}
}

// Arm places a dormant projectile, wiping everything left from its previous shot.
func (p *Projectile) Arm(pos rl.Vector3, payload Payload, lifetime, probeRadius float32, mask engine.Layer) error {
	if p.State != Dormant {
		return fmt.Errorf("%w: arm from %s", ErrBadTransition, p.State)
	}
	p.Reset()
	p.arms++
	p.State = Armed
	p.Position = pos
	p.launchPos = pos
	p.Payload = payload
	p.LifetimeLimit = lifetime
	p.ProbeRadius = probeRadius
	p.Mask = mask
	return nil
}

// Launch applies the launch velocity and restarts the flight clock.
func (p *Projectile) Launch(velocity rl.Vector3, now float32) error {
	if p.State != Armed {
		return fmt.Errorf("%w: launch from %s", ErrBadTransition, p.State)
	}
	p.State = InFlight
	p.Velocity = velocity
	p.launchVel = velocity
	p.launchPos = p.Position
	p.SpawnTime = now
	p.Elapsed = 0
	p.grace = 0
	p.Impact = trajectory.ImpactResult{}
	p.shots++
	return nil
}

// Step advances an in-flight projectile by dt along its arc and checks the swept
// segment with the same obstacle test the simulator uses. Returns true on the
// step that moves it to Impacted, either by a hit or by reaching LifetimeLimit.
func (p *Projectile) Step(dt, gravity float32, q engine.SpatialQuery) bool {
	if p.State != InFlight || dt <= 0 {
		return false
	}

	t := p.Elapsed + dt
	expired := t >= p.LifetimeLimit
	if expired {
		t = p.LifetimeLimit
	}

	next := trajectory.PositionAt(p.launchPos, p.launchVel, gravity, t)
	if impact, frac, hit := trajectory.DetectStep(q, p.Position, next, p.ProbeRadius, p.Mask); hit {
		p.Elapsed += (t - p.Elapsed) * frac
		p.Position = impact.Position
		p.Velocity = trajectory.VelocityAt(p.launchVel, gravity, p.Elapsed)
		p.Impact = impact
		p.State = Impacted
		return true
	}

	p.Elapsed = t
	p.Position = next
	p.Velocity = trajectory.VelocityAt(p.launchVel, gravity, t)
	if expired {
		p.Impact = trajectory.ImpactResult{Position: next}
		p.State = Impacted
		return true
	}
	return false
}

// ForceImpact ends the flight where the projectile stands, as a miss.
func (p *Projectile) ForceImpact() error {
	if p.State != InFlight && p.State != Armed {
		return fmt.Errorf("%w: force impact from %s", ErrBadTransition, p.State)
	}
	p.Impact = trajectory.ImpactResult{Position: p.Position}
	p.State = Impacted
	return nil
}

// Reset returns the projectile to a clean Dormant state.
func (p *Projectile) Reset() {
	shots, arms := p.shots, p.arms
	*p = Projectile{}
	p.shots, p.arms = shots, arms
}

// Shots counts launches over the lifetime of this pooled slot.
func (p *Projectile) Shots() int { return p.shots }

// LaunchOrigin is where the current flight started.
func (p *Projectile) LaunchOrigin() rl.Vector3 { return p.launchPos }
