// trajview plots a ballistic path and its displayed curve in the terminal.
//
// Shots fly along +X from a fixed muzzle over a flat ground with an optional
// wall. Every simulation can be recorded to a msgpack file and replayed later
// to check that the same inputs still give bit-identical paths.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"ballista/internal/components"
	"ballista/internal/curve"
	"ballista/internal/engine"
	"ballista/internal/physics"
	"ballista/internal/trajectory"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type options struct {
	speed    float64
	angle    float64
	height   float64
	wallX    float64
	wallH    float64
	probe    float64
	interval float64
	maxTime  float64
	points   int
	record   string
	replay   string
}

func main() {
	var o options
	flag.Float64Var(&o.speed, "speed", 15, "launch speed")
	flag.Float64Var(&o.angle, "angle", 35, "launch elevation in degrees")
	flag.Float64Var(&o.height, "height", 1, "muzzle height")
	flag.Float64Var(&o.wallX, "wall", 0, "distance of a wall (0 for none)")
	flag.Float64Var(&o.wallH, "wallh", 3, "wall height")
	flag.Float64Var(&o.probe, "probe", 0.1, "probe radius")
	flag.Float64Var(&o.interval, "interval", 0.1, "sample interval")
	flag.Float64Var(&o.maxTime, "max", 6, "max simulated time")
	flag.IntVar(&o.points, "points", curve.DefaultResolution, "curve display points")
	flag.StringVar(&o.record, "record", "", "write every simulation to this msgpack file on exit")
	flag.StringVar(&o.replay, "replay", "", "replay a recording headlessly and exit")
	flag.Parse()

	if o.replay != "" {
		if err := replay(o); err != nil {
			fmt.Fprintln(os.Stderr, err)
			if errors.Is(err, trajectory.ErrDiverged) {
				os.Exit(2)
			}
			os.Exit(1)
		}
		return
	}

	v, err := newViewer(o)
	if err != nil {
		log.Fatalf("trajview: %v", err)
	}
	v.run()

	if o.record != "" {
		if err := writeRecording(o.record, &v.rec.Rec, o); err != nil {
			log.Fatalf("trajview: %v", err)
		}
		fmt.Printf("recorded %d runs to %s\n", len(v.rec.Rec.Runs), o.record)
	}
}

func (o options) params() trajectory.Params {
	a := o.angle * math.Pi / 180
	return trajectory.Params{
		Start:       rl.Vector3{Y: float32(o.height)},
		Velocity:    rl.Vector3{X: float32(o.speed * math.Cos(a)), Y: float32(o.speed * math.Sin(a))},
		ProbeRadius: float32(o.probe),
		Interval:    float32(o.interval),
		MaxTime:     float32(o.maxTime),
		Mask:        engine.LayerAll,
	}
}

// env is the part of o that shapes the range, stored with a recording.
func (o options) env() map[string]float32 {
	return map[string]float32{"wallX": float32(o.wallX), "wallH": float32(o.wallH)}
}

// withEnv returns o with the range taken from a recording. Recordings without
// an environment keep the flags.
func (o options) withEnv(env map[string]float32) options {
	if x, ok := env["wallX"]; ok {
		o.wallX = float64(x)
	}
	if h, ok := env["wallH"]; ok {
		o.wallH = float64(h)
	}
	return o
}

// Fixed UIDs keep hit objects comparable between a recording and its replay.
const (
	groundUID uint64 = 1
	wallUID   uint64 = 2
)

func buildRange(o options) *physics.CollisionWorld {
	cw := physics.NewCollisionWorld()

	ground := engine.NewGameObject("Ground")
	ground.UID = groundUID
	ground.Transform.Position = rl.Vector3{X: 100, Y: -0.5}
	gb := components.NewBoxCollider(rl.Vector3{X: 400, Y: 1, Z: 400})
	gb.Layer = engine.LayerTerrain
	ground.AddComponent(gb)
	cw.AddObject(ground)

	if o.wallX > 0 {
		wall := engine.NewGameObject("Wall")
		wall.UID = wallUID
		wall.Transform.Position = rl.Vector3{X: float32(o.wallX), Y: float32(o.wallH / 2)}
		wb := components.NewBoxCollider(rl.Vector3{X: 0.5, Y: float32(o.wallH), Z: 4})
		wb.Layer = engine.LayerTerrain
		wall.AddComponent(wb)
		cw.AddObject(wall)
	}
	return cw
}

func replay(o options) error {
	f, err := os.Open(o.replay)
	if err != nil {
		return err
	}
	defer f.Close()

	rec, err := trajectory.DecodeRecording(f)
	if err != nil {
		return err
	}
	sim := trajectory.NewSimulator(buildRange(o.withEnv(rec.Env)))
	sim.Gravity = rec.Gravity
	if err := trajectory.Replay(sim, rec); err != nil {
		return err
	}
	fmt.Printf("replayed %d runs: identical\n", len(rec.Runs))
	return nil
}

func writeRecording(path string, rec *trajectory.Recording, o options) error {
	rec.Env = o.env()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := rec.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
