// Stress test for the soft-capped pools: fires salvos through a full world and
// reports frame cost and pool behaviour, then churns a Locked pool from many
// goroutines.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"ballista/internal/components"
	"ballista/internal/config"
	"ballista/internal/effects"
	"ballista/internal/engine"
	"ballista/internal/pool"
	"ballista/internal/projectile"
	"ballista/internal/world"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func main() {
	frames := flag.Int("frames", 600, "frames per salvo size")
	workers := flag.Int("workers", 8, "goroutines for the concurrent churn")
	flag.Parse()

	// Test various salvo sizes
	salvos := []int{1, 10, 50, 100, 500}
	for _, n := range salvos {
		runSalvo(n, *frames)
	}
	fmt.Println()
	runConcurrent(*workers, 100000)
}

func runSalvo(perSecond, frames int) {
	t := config.Default()
	t.StrictPools = true
	w, err := world.New(t)
	if err != nil {
		panic(err)
	}
	defer w.Close()

	ground := engine.NewGameObject("Ground")
	ground.Transform.Position = rl.Vector3{Y: -0.5}
	box := components.NewBoxCollider(rl.Vector3{X: 200, Y: 1, Z: 200})
	box.Layer = engine.LayerTerrain
	ground.AddComponent(box)
	w.Spawn(ground)

	rng := rand.New(rand.NewSource(42)) // Consistent results
	const dt = float32(1.0 / 60)
	var carry float64
	fired := 0

	start := time.Now()
	for f := 0; f < frames; f++ {
		carry += float64(perSecond) * float64(dt)
		for ; carry >= 1; carry-- {
			vel := rl.Vector3{
				X: rng.Float32()*20 - 10,
				Y: 5 + rng.Float32()*10,
				Z: rng.Float32()*20 - 10,
			}
			if _, err := w.Launcher.Fire(rl.Vector3{Y: 1}, vel, projectile.Payload{Damage: 1}); err != nil {
				panic(err)
			}
			fired++
		}
		w.Advance(dt)
	}
	// drain
	for f := 0; f < 600 && (len(w.Launcher.Live()) > 0 || len(w.Effects.Live()) > 0); f++ {
		w.Advance(dt)
	}
	elapsed := time.Since(start)

	ps := w.Registry.Projectiles.Stats()
	fs := w.Registry.Particles.Stats()
	fmt.Printf("%4d shots/s: %5d fired | %8v/frame | projectiles peak %4d created %4d evicted %4d idle %3d | particles peak %5d created %5d evicted %5d idle %3d\n",
		perSecond, fired, (elapsed / time.Duration(frames)).Round(time.Microsecond),
		ps.HighWater, ps.Created, ps.Evicted, ps.Idle,
		fs.HighWater, fs.Created, fs.Evicted, fs.Idle)

	if ps.Active != 0 || fs.Active != 0 || ps.Created-ps.Evicted != ps.Idle || fs.Created-fs.Evicted != fs.Idle {
		fmt.Println("    LEAK: pool accounting does not balance")
	}
}

func runConcurrent(workers, ops int) {
	p := pool.NewLocked(pool.MustNew(pool.Config{
		Name:            "particle-shared",
		DefaultCapacity: 64,
		MaxSize:         256,
		Strict:          true,
	}, effects.Hooks()))

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			held := make([]*effects.Particle, 0, 64)
			for op := 0; op < ops/workers; op++ {
				if len(held) == 0 || (len(held) < 64 && rng.Intn(2) == 0) {
					held = append(held, p.Acquire())
					continue
				}
				last := held[len(held)-1]
				held = held[:len(held)-1]
				if err := p.Release(last); err != nil {
					panic(err)
				}
			}
			for _, h := range held {
				if err := p.Release(h); err != nil {
					panic(err)
				}
			}
		}(int64(i))
	}
	wg.Wait()

	st := p.Stats()
	fmt.Printf("%d workers, %d ops in %v | created %d evicted %d idle %d peak %d\n",
		workers, ops, time.Since(start).Round(time.Microsecond), st.Created, st.Evicted, st.Idle, st.HighWater)
}
