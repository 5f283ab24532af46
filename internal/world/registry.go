package world

import (
	"fmt"

	"ballista/internal/components"
	"ballista/internal/config"
	"ballista/internal/effects"
	"ballista/internal/engine"
	"ballista/internal/pool"
	"ballista/internal/projectile"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Registry holds one pool per pooled type. Pools are created here and passed to
// their consumers; nothing looks them up globally.
type Registry struct {
	Projectiles *pool.Pool[*projectile.Projectile]
	Particles   *pool.Pool[*effects.Particle]
	Targets     *pool.Pool[*engine.GameObject]
}

func NewRegistry(t config.Tuning) (*Registry, error) {
	projectiles, err := pool.New(pool.Config{
		Name:            "projectile",
		DefaultCapacity: t.Pools.Projectile.DefaultCapacity,
		MaxSize:         t.Pools.Projectile.MaxSize,
		Strict:          t.StrictPools,
	}, projectile.Hooks())
	if err != nil {
		return nil, fmt.Errorf("projectile pool: %w", err)
	}

	particles, err := pool.New(pool.Config{
		Name:            "particle",
		DefaultCapacity: t.Pools.Particle.DefaultCapacity,
		MaxSize:         t.Pools.Particle.MaxSize,
		Strict:          t.StrictPools,
	}, effects.Hooks())
	if err != nil {
		return nil, fmt.Errorf("particle pool: %w", err)
	}

	targets, err := pool.New(pool.Config{
		Name:            "target",
		DefaultCapacity: t.Pools.Target.DefaultCapacity,
		MaxSize:         t.Pools.Target.MaxSize,
		Strict:          t.StrictPools,
	}, targetHooks())
	if err != nil {
		return nil, fmt.Errorf("target pool: %w", err)
	}

	return &Registry{Projectiles: projectiles, Particles: particles, Targets: targets}, nil
}

// targetHooks build bare box targets. A released target keeps the behaviours
// it was spawned with, reset, and drops its destruction listeners.
func targetHooks() pool.Hooks[*engine.GameObject] {
	return pool.Hooks[*engine.GameObject]{
		Create: func() *engine.GameObject {
			g := engine.NewGameObject("target")
			box := components.NewBoxCollider(rl.Vector3{X: 1, Y: 1, Z: 1})
			box.Layer = engine.LayerTarget
			g.AddComponent(box)
			g.AddComponent(components.NewTarget(1))
			return g
		},
		OnRelease: func(g *engine.GameObject) {
			if tg := engine.GetComponent[*components.Target](g); tg != nil {
				tg.OnDestroyed.RemoveAllListeners()
			}
			g.Reset()
		},
	}
}

// Stats returns a snapshot of every pool keyed by pool name.
func (r *Registry) Stats() map[string]pool.Stats {
	return map[string]pool.Stats{
		r.Projectiles.Name(): r.Projectiles.Stats(),
		r.Particles.Name():   r.Particles.Stats(),
		r.Targets.Name():     r.Targets.Stats(),
	}
}

func (r *Registry) Close() {
	r.Projectiles.Close()
	r.Particles.Close()
	r.Targets.Close()
}
