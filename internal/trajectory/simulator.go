package trajectory

import (
	"errors"
	"fmt"
	"math"

	"ballista/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var ErrInvalidParams = errors.New("invalid simulation params")

// Simulator steps a ballistic arc through a SpatialQuery environment.
// It holds no per-call state, so one Simulator can serve any number of shooters.
type Simulator struct {
	Query   engine.SpatialQuery
	Gravity float32
}

func NewSimulator(q engine.SpatialQuery) *Simulator {
	return &Simulator{Query: q, Gravity: Gravity}
}

// Lead returns a lead solver sharing this simulator's gravity.
func (s *Simulator) Lead() LeadSolver {
	return LeadSolver{Gravity: s.Gravity}
}

// EffectiveStart shifts start along the horizontal launch direction by forwardOffset.
func EffectiveStart(start, velocity rl.Vector3, forwardOffset float32) rl.Vector3 {
	h := horizontal(velocity)
	if forwardOffset == 0 || rl.Vector3Length(h) == 0 {
		return start
	}
	return rl.Vector3Add(start, rl.Vector3Scale(rl.Vector3Normalize(h), forwardOffset))
}

// Simulate samples the arc every Interval seconds up to MaxTime, checking each
// segment for obstacles. The first sample is the effective start at t=0. Samples
// are spaced by Interval except the last, which is either the impact point or a
// final sample clamped to MaxTime. An unobstructed path therefore holds
// ceil(MaxTime/Interval)+1 samples, the extra one being the start.
func (s *Simulator) Simulate(p Params) (Path, error) {
	if !(p.Interval > 0) || math.IsInf(float64(p.Interval), 0) {
		return Path{}, fmt.Errorf("%w: interval %v", ErrInvalidParams, p.Interval)
	}
	if math.IsNaN(float64(p.MaxTime)) || math.IsInf(float64(p.MaxTime), 0) {
		return Path{}, fmt.Errorf("%w: max time %v", ErrInvalidParams, p.MaxTime)
	}

	start := EffectiveStart(p.Start, p.Velocity, p.ForwardOffset)
	path := Path{Samples: []Sample{{Position: start}}}
	if p.MaxTime <= 0 {
		return path, nil
	}

	steps := int(math.Floor(float64(p.MaxTime)/float64(p.Interval) + 1e-4))
	prev := path.Samples[0]

	step := func(t float32) bool {
		if t > p.MaxTime {
			t = p.MaxTime
		}
		cur := Sample{Position: PositionAt(start, p.Velocity, s.Gravity, t), Elapsed: t}
		if impact, frac, hit := DetectStep(s.Query, prev.Position, cur.Position, p.ProbeRadius, p.Mask); hit {
			path.Impact = impact
			path.Samples = append(path.Samples, Sample{
				Position: impact.Position,
				Elapsed:  prev.Elapsed + (cur.Elapsed-prev.Elapsed)*frac,
			})
			return true
		}
		path.Samples = append(path.Samples, cur)
		prev = cur
		return false
	}

	for i := 1; i <= steps; i++ {
		if step(float32(i) * p.Interval) {
			return path, nil
		}
	}
	if prev.Elapsed < p.MaxTime-1e-6 {
		step(p.MaxTime)
	}
	return path, nil
}
