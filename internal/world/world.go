package world

import (
	"log"

	"ballista/internal/components"
	"ballista/internal/config"
	"ballista/internal/curve"
	"ballista/internal/effects"
	"ballista/internal/engine"
	"ballista/internal/physics"
	"ballista/internal/projectile"
	"ballista/internal/scripts"
	"ballista/internal/trajectory"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// World wires the ballistics core together and advances it with one explicit
// tick. Everything is owned here and handed down; there are no singletons.
type World struct {
	Scene     *engine.Scene
	Collision *physics.CollisionWorld
	Simulator *trajectory.Simulator
	Registry  *Registry
	Launcher  *projectile.Launcher
	Effects   *effects.System
	Tuning    config.Tuning

	OnTargetDestroyed engine.EventWithArg[*engine.GameObject]

	started bool
}

func New(t config.Tuning) (*World, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	reg, err := NewRegistry(t)
	if err != nil {
		return nil, err
	}

	cw := physics.NewCollisionWorld()
	sim := trajectory.NewSimulator(cw)
	sim.Gravity = t.Gravity

	launcher := projectile.NewLauncher(reg.Projectiles, cw, projectile.Config{
		Gravity:       t.Gravity,
		LifetimeLimit: t.LifetimeLimit,
		GraceDelay:    t.GraceDelay,
		ProbeRadius:   t.ProbeRadius,
		Mask:          engine.LayerObstacles,
	})

	burst := effects.DefaultBurst()
	burst.Gravity = t.Gravity

	w := &World{
		Scene:     engine.NewScene("Range"),
		Collision: cw,
		Simulator: sim,
		Registry:  reg,
		Launcher:  launcher,
		Effects:   effects.NewSystem(reg.Particles, burst),
		Tuning:    t,
	}
	launcher.OnImpact.AddListener(w.handleImpact)
	return w, nil
}

// Spawn adds g to the scene and, if it has a collider, to the collision world.
// Objects spawned after Start are started immediately.
func (w *World) Spawn(g *engine.GameObject) {
	w.Scene.AddGameObject(g)
	w.Collision.AddObject(g)
	if w.started {
		g.Start()
	}
}

// Destroy removes g from the scene and the collision world. References to it
// resolve to nil from now on. Pooled targets go back to the target pool.
func (w *World) Destroy(g *engine.GameObject) {
	w.remove(g)
	w.recycle(g)
}

func (w *World) remove(g *engine.GameObject) {
	w.Collision.RemoveObject(g)
	w.Scene.RemoveGameObject(g)
}

func (w *World) recycle(g *engine.GameObject) {
	if !w.Registry.Targets.IsActive(g) {
		return
	}
	if err := w.Registry.Targets.Release(g); err != nil {
		log.Printf("World: %v", err)
	}
}

// NewShooter spawns a shooter at pos configured from the world tuning.
func (w *World) NewShooter(name string, pos rl.Vector3) *scripts.Shooter {
	g := engine.NewGameObject(name)
	g.Transform.Position = pos
	s := w.ConfigureShooter(scripts.NewShooter(nil, w.Launcher))
	g.AddComponent(s)
	w.Spawn(g)
	return s
}

// ConfigureShooter gives s its own preview and applies the world tuning.
func (w *World) ConfigureShooter(s *scripts.Shooter) *scripts.Shooter {
	s.Preview = curve.NewPreview(w.Simulator, w.Tuning.CurvePoints)
	s.Launcher = w.Launcher
	s.LaunchSpeed = w.Tuning.LaunchSpeed
	s.ForwardOffset = w.Tuning.ForwardOffset
	s.ProbeRadius = w.Tuning.ProbeRadius
	s.Interval = w.Tuning.Interval
	s.MaxTime = w.Tuning.MaxTime
	return s
}

// TargetSpec describes a target taken from the target pool. A zero Amplitude
// keeps it still and a zero Color leaves it to the layer colour.
type TargetSpec struct {
	Name      string
	Position  rl.Vector3
	Size      rl.Vector3
	Health    float32
	Color     rl.Color
	Axis      rl.Vector3
	Amplitude float32
	Speed     float32 // radians per second
}

// NewTarget spawns a still box target of the given size and health.
func (w *World) NewTarget(name string, pos, size rl.Vector3, health float32) *engine.GameObject {
	return w.SpawnTarget(TargetSpec{Name: name, Position: pos, Size: size, Health: health})
}

// SpawnTarget reuses an idle pooled target, or creates one, and configures it
// from spec. Destroying it returns it to the pool.
func (w *World) SpawnTarget(spec TargetSpec) *engine.GameObject {
	g := w.Registry.Targets.Acquire()
	g.Name = spec.Name
	g.Tags = []string{"target"}
	g.Transform.Position = spec.Position

	engine.GetComponent[*components.BoxCollider](g).Size = spec.Size
	tg := engine.GetComponent[*components.Target](g)
	tg.MaxHealth = spec.Health
	tg.Health = spec.Health

	configureAppearance(g, spec.Color)
	configurePatrol(g, spec)
	w.Spawn(g)
	return g
}

func configureAppearance(g *engine.GameObject, color rl.Color) {
	a := engine.GetComponent[*components.Appearance](g)
	if color.A == 0 {
		if a != nil {
			g.RemoveComponent(a)
		}
		return
	}
	if a == nil {
		g.AddComponent(components.NewAppearance(color))
		return
	}
	a.Color = color
}

// configurePatrol attaches, updates or strips the patrol and the kinematic body
// it drives, so a reused target moves only if spec asks it to.
func configurePatrol(g *engine.GameObject, spec TargetSpec) {
	p := engine.GetComponent[*components.Patrol](g)
	rb := engine.GetComponent[*components.Rigidbody](g)
	if spec.Amplitude == 0 {
		if p != nil {
			g.RemoveComponent(p)
		}
		if rb != nil {
			g.RemoveComponent(rb)
		}
		return
	}

	if rb == nil {
		rb = components.NewRigidbody()
		rb.IsKinematic = true
		g.AddComponent(rb)
	}
	if p == nil {
		g.AddComponent(components.NewPatrol(spec.Position, spec.Axis, spec.Amplitude, spec.Speed))
		return
	}
	p.Origin = spec.Position
	p.Axis = rl.Vector3Normalize(spec.Axis)
	p.Amplitude = spec.Amplitude
	p.Speed = spec.Speed
	p.Phase = 0
}

func (w *World) Start() {
	w.Scene.Start()
	w.started = true
}

// Advance runs one frame: scene behaviours first, so shooters aim at this
// frame's target positions, then projectiles, then particles.
func (w *World) Advance(dt float32) {
	if dt <= 0 {
		return
	}
	if !w.started {
		w.Start()
	}
	w.Scene.Update(dt)
	w.Launcher.Advance(dt)
	w.Effects.Advance(dt)
}

func (w *World) handleImpact(imp projectile.Impact) {
	if !imp.Result.Hit {
		return
	}
	w.Effects.Emit(imp.Result.Position, imp.Result.Normal)

	hit := imp.Result.HitObject.Get(w.Scene)
	if hit == nil {
		return
	}
	target := engine.GetComponent[*components.Target](hit)
	if target == nil {
		return
	}
	if target.TakeHit(imp.Payload.Damage) {
		log.Printf("World: %s destroyed after %d hits", hit.Name, target.Hits)
		w.remove(hit)
		w.OnTargetDestroyed.Invoke(hit)
		w.recycle(hit)
	}
}

// ResetRange cancels every shot and particle and resets the objects still in
// the scene: targets heal, patrols restart, shooters drop aim and cooldown.
func (w *World) ResetRange() {
	w.Launcher.CancelAll()
	w.Effects.Clear()
	for _, g := range w.Scene.GameObjects {
		g.ResetComponents()
	}
}

// Close cancels everything in flight and tears the pools down.
func (w *World) Close() {
	w.Launcher.CancelAll()
	w.Effects.Clear()
	w.Registry.Close()
}
