package projectile

import (
	"fmt"
	"log"

	"ballista/internal/engine"
	"ballista/internal/pool"
	"ballista/internal/trajectory"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type Config struct {
	Gravity       float32
	LifetimeLimit float32
	GraceDelay    float32 // time an Impacted projectile lingers before release
	ProbeRadius   float32
	Mask          engine.Layer
}

func DefaultConfig() Config {
	return Config{
		Gravity:       trajectory.Gravity,
		LifetimeLimit: 8,
		GraceDelay:    0.1,
		ProbeRadius:   0.1,
		Mask:          engine.LayerAll,
	}
}

// Impact is published once per shot when it leaves InFlight.
type Impact struct {
	Projectile *Projectile
	Result     trajectory.ImpactResult
	Payload    Payload
	Elapsed    float32
}

// Hooks wires Projectile into a pool. Released projectiles are reset so nothing
// from a finished shot survives into the next.
func Hooks() pool.Hooks[*Projectile] {
	return pool.Hooks[*Projectile]{
		Create:    New,
		OnRelease: func(p *Projectile) { p.Reset() },
		OnEvict:   func(p *Projectile) { p.Reset() },
	}
}

// Launcher owns the live projectiles of one pool and ticks them.
type Launcher struct {
	OnImpact engine.EventWithArg[Impact]

	pool  *pool.Pool[*Projectile]
	query engine.SpatialQuery
	cfg   Config
	live  []*Projectile
	clock float32

	advancing bool
	spawned   []*Projectile
	deferred  []deferredCancel
}

// deferredCancel pins a cancel to the use of the slot it was requested for.
type deferredCancel struct {
	p    *Projectile
	arms int
}

func NewLauncher(p *pool.Pool[*Projectile], q engine.SpatialQuery, cfg Config) *Launcher {
	return &Launcher{pool: p, query: q, cfg: cfg}
}

// Arm takes a projectile from the pool and places it at pos.
func (l *Launcher) Arm(pos rl.Vector3, payload Payload) (*Projectile, error) {
	p := l.pool.Acquire()
	if err := p.Arm(pos, payload, l.cfg.LifetimeLimit, l.cfg.ProbeRadius, l.cfg.Mask); err != nil {
		_ = l.pool.Release(p)
		return nil, err
	}
	if l.advancing {
		l.spawned = append(l.spawned, p)
	} else {
		l.live = append(l.live, p)
	}
	return p, nil
}

// Launch sends an armed projectile on its way.
func (l *Launcher) Launch(p *Projectile, velocity rl.Vector3) error {
	return p.Launch(velocity, l.clock)
}

// Fire arms and launches in one call.
func (l *Launcher) Fire(pos, velocity rl.Vector3, payload Payload) (*Projectile, error) {
	p, err := l.Arm(pos, payload)
	if err != nil {
		return nil, err
	}
	if err := l.Launch(p, velocity); err != nil {
		_ = l.Cancel(p)
		return nil, err
	}
	return p, nil
}

// Advance ticks every live projectile once. In-flight shots move and collide;
// impacted shots count down their grace delay and go back to the pool.
func (l *Launcher) Advance(dt float32) {
	if dt <= 0 {
		return
	}
	l.clock += dt
	l.advancing = true

	keep := l.live[:0]
	for _, p := range l.live {
		switch p.State {
		case InFlight:
			if p.Step(dt, l.cfg.Gravity, l.query) {
				p.grace = l.cfg.GraceDelay
				l.OnImpact.Invoke(Impact{Projectile: p, Result: p.Impact, Payload: p.Payload, Elapsed: p.Elapsed})
			}
		case Impacted:
			p.grace -= dt
			if p.grace <= 0 {
				l.release(p)
				continue
			}
		}
		keep = append(keep, p)
	}
	for i := len(keep); i < len(l.live); i++ {
		l.live[i] = nil
	}
	l.live = append(keep, l.spawned...)
	l.spawned = l.spawned[:0]
	l.advancing = false

	for _, d := range l.deferred {
		if d.p.arms != d.arms {
			continue
		}
		if err := l.Cancel(d.p); err != nil {
			log.Printf("Launcher: %v", err)
		}
	}
	l.deferred = l.deferred[:0]
}

// Cancel forces p back to the pool from any live state. Cancelling something
// that is not live is a no-op. Calls made from an OnImpact listener take effect
// at the end of the current Advance, and only if p has not been re-armed for
// another shot in the meantime.
func (l *Launcher) Cancel(p *Projectile) error {
	if l.advancing {
		l.deferred = append(l.deferred, deferredCancel{p: p, arms: p.arms})
		return nil
	}
	for i, lp := range l.live {
		if lp == p {
			l.live = append(l.live[:i], l.live[i+1:]...)
			if err := l.pool.Release(p); err != nil {
				return fmt.Errorf("cancel projectile: %w", err)
			}
			return nil
		}
	}
	return nil
}

// CancelAll releases every live projectile.
func (l *Launcher) CancelAll() {
	for len(l.live) > 0 {
		_ = l.Cancel(l.live[len(l.live)-1])
	}
}

func (l *Launcher) release(p *Projectile) {
	if err := l.pool.Release(p); err != nil {
		log.Printf("Launcher: %v", err)
	}
}

// Live returns the projectiles currently out of the pool. The slice is reused
// between ticks.
func (l *Launcher) Live() []*Projectile { return l.live }

func (l *Launcher) Clock() float32 { return l.clock }

func (l *Launcher) Config() Config { return l.cfg }

func (l *Launcher) Pool() *pool.Pool[*Projectile] { return l.pool }
