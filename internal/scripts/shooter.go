// Package scripts holds gameplay behaviours built on the ballistics core.
package scripts

import (
	"errors"

	"ballista/internal/components"
	"ballista/internal/curve"
	"ballista/internal/engine"
	"ballista/internal/projectile"
	"ballista/internal/trajectory"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	ErrCoolingDown = errors.New("shooter cooling down")
	ErrNoTarget    = errors.New("no live target")
)

// Aim is the outcome of one aiming pass.
type Aim struct {
	Solution  trajectory.LaunchSolution
	Predicted rl.Vector3
	Velocity  rl.Vector3 // what Fire will launch with
	Fallback  bool       // lead was infeasible, Velocity is a straight shot
	Path      trajectory.Path
}

// Shooter aims at Target every frame, keeps one trajectory preview current and
// fires projectiles through the Launcher on request.
type Shooter struct {
	engine.BaseComponent
	Preview  *curve.Preview
	Launcher *projectile.Launcher

	Target        engine.GameObjectRef
	LaunchSpeed   float32
	Muzzle        rl.Vector3 // offset from the object's position
	ForwardOffset float32
	ProbeRadius   float32
	Interval      float32
	MaxTime       float32
	Mask          engine.Layer
	Payload       projectile.Payload
	Cooldown      float32
	AutoFire      bool

	aim      Aim
	aimed    bool
	cooldown float32
	shots    int
}

func NewShooter(preview *curve.Preview, launcher *projectile.Launcher) *Shooter {
	return &Shooter{
		Preview:     preview,
		Launcher:    launcher,
		LaunchSpeed: 15,
		ProbeRadius: 0.1,
		Interval:    0.1,
		MaxTime:     6,
		Mask:        engine.LayerObstacles,
		Payload:     projectile.Payload{Damage: 1},
		Cooldown:    0.15,
	}
}

func (s *Shooter) MuzzlePosition() rl.Vector3 {
	return rl.Vector3Add(s.GetGameObject().WorldPosition(), s.Muzzle)
}

// Aim resolves the target, solves the lead and refreshes the preview. A stale
// or missing target cancels the preview and reports an infeasible solution.
// An infeasible lead falls back to a straight shot at the target's current
// position.
func (s *Shooter) Aim() Aim {
	g := s.GetGameObject()
	target := s.Target.Get(g.Scene)
	if target == nil || !target.Active {
		s.Target.Clear()
		s.clearAim()
		return s.aim
	}

	muzzle := s.MuzzlePosition()
	var shooterVel, targetVel rl.Vector3
	if rb := engine.GetComponent[*components.Rigidbody](g); rb != nil {
		shooterVel = rb.Velocity
	}
	if rb := engine.GetComponent[*components.Rigidbody](target); rb != nil {
		targetVel = rb.Velocity
	}

	aimPoint := targetCenter(target)
	sol, predicted := s.Preview.Sim.Lead().Solve(muzzle, aimPoint, shooterVel, targetVel, s.LaunchSpeed)
	a := Aim{Solution: sol, Predicted: predicted, Velocity: sol.Velocity}
	if !sol.Feasible {
		a.Fallback = true
		a.Velocity = rl.Vector3Scale(rl.Vector3Normalize(rl.Vector3Subtract(aimPoint, muzzle)), s.LaunchSpeed)
	}

	path, err := s.Preview.Update(s.params(muzzle, a.Velocity))
	if err != nil {
		s.clearAim()
		return s.aim
	}
	a.Path = path
	s.aim = a
	s.aimed = true
	return a
}

// Fire launches a projectile along the last aim. It does not re-aim.
func (s *Shooter) Fire() (*projectile.Projectile, error) {
	if s.cooldown > 0 {
		return nil, ErrCoolingDown
	}
	if !s.aimed {
		return nil, ErrNoTarget
	}

	start := trajectory.EffectiveStart(s.MuzzlePosition(), s.aim.Velocity, s.ForwardOffset)
	p, err := s.Launcher.Fire(start, s.aim.Velocity, s.Payload)
	if err != nil {
		return nil, err
	}
	p.Owner = engine.RefTo(s.GetGameObject())
	s.cooldown = s.Cooldown
	s.shots++
	return p, nil
}

func (s *Shooter) Update(deltaTime float32) {
	if s.cooldown > 0 {
		s.cooldown -= deltaTime
	}
	s.Aim()
	if s.AutoFire && s.aimed && s.cooldown <= 0 {
		_, _ = s.Fire()
	}
}

// LastAim is the result of the most recent Aim call.
func (s *Shooter) LastAim() Aim { return s.aim }

func (s *Shooter) Shots() int { return s.shots }

// Reset implements engine.Resettable
func (s *Shooter) Reset() {
	s.clearAim()
	s.cooldown = 0
	s.shots = 0
}

func (s *Shooter) clearAim() {
	s.aim = Aim{}
	s.aimed = false
	s.Preview.Cancel()
}

func (s *Shooter) params(muzzle, velocity rl.Vector3) trajectory.Params {
	return trajectory.Params{
		Start:         muzzle,
		ForwardOffset: s.ForwardOffset,
		Velocity:      velocity,
		ProbeRadius:   s.ProbeRadius,
		Interval:      s.Interval,
		MaxTime:       s.MaxTime,
		Mask:          s.Mask,
	}
}

func targetCenter(g *engine.GameObject) rl.Vector3 {
	if box := engine.GetComponent[*components.BoxCollider](g); box != nil {
		return box.GetCenter()
	}
	if sphere := engine.GetComponent[*components.SphereCollider](g); sphere != nil {
		return sphere.GetCenter()
	}
	return g.WorldPosition()
}
