package effects

import (
	"math"

	"ballista/internal/pool"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// goldenAngle spreads burst directions evenly without a random source, so the
// same impact always produces the same burst.
const goldenAngle = math.Pi * (3 - 2.2360679775) // π(3 − √5)

type Particle struct {
	Position rl.Vector3
	Velocity rl.Vector3
	Life     float32 // seconds remaining
	MaxLife  float32
	Size     float32
}

// Alpha fades from 1 to 0 over the particle's life.
func (p *Particle) Alpha() float32 {
	if p.MaxLife <= 0 {
		return 0
	}
	return p.Life / p.MaxLife
}

func Hooks() pool.Hooks[*Particle] {
	return pool.Hooks[*Particle]{
		Create:    func() *Particle { return &Particle{} },
		OnRelease: func(p *Particle) { *p = Particle{} },
	}
}

type BurstConfig struct {
	Count   int
	Speed   float32
	Life    float32
	Size    float32
	Gravity float32
}

func DefaultBurst() BurstConfig {
	return BurstConfig{Count: 12, Speed: 3, Life: 0.6, Size: 0.08, Gravity: 9.8}
}

// System ticks pooled impact particles.
type System struct {
	Burst BurstConfig

	pool *pool.Pool[*Particle]
	live []*Particle
}

func NewSystem(p *pool.Pool[*Particle], burst BurstConfig) *System {
	return &System{Burst: burst, pool: p}
}

// Emit spawns a hemisphere of particles around normal at pos.
func (s *System) Emit(pos, normal rl.Vector3) {
	n := normal
	if rl.Vector3Length(n) < 1e-6 {
		n = rl.Vector3{Y: 1}
	}
	n = rl.Vector3Normalize(n)
	t, b := basis(n)

	count := s.Burst.Count
	for i := 0; i < count; i++ {
		// points on the unit hemisphere, z along the normal
		z := 1 - (float64(i)+0.5)/float64(count)
		r := math.Sqrt(1 - z*z)
		phi := float64(i) * goldenAngle
		dir := rl.Vector3Add(
			rl.Vector3Add(rl.Vector3Scale(t, float32(r*math.Cos(phi))), rl.Vector3Scale(b, float32(r*math.Sin(phi)))),
			rl.Vector3Scale(n, float32(z)),
		)

		p := s.pool.Acquire()
		p.Position = pos
		p.Velocity = rl.Vector3Scale(dir, s.Burst.Speed)
		p.Life = s.Burst.Life
		p.MaxLife = s.Burst.Life
		p.Size = s.Burst.Size
		s.live = append(s.live, p)
	}
}

// Advance moves particles and returns expired ones to the pool.
func (s *System) Advance(dt float32) {
	keep := s.live[:0]
	for _, p := range s.live {
		p.Life -= dt
		if p.Life <= 0 {
			_ = s.pool.Release(p)
			continue
		}
		p.Velocity.Y -= s.Burst.Gravity * dt
		p.Position = rl.Vector3Add(p.Position, rl.Vector3Scale(p.Velocity, dt))
		keep = append(keep, p)
	}
	for i := len(keep); i < len(s.live); i++ {
		s.live[i] = nil
	}
	s.live = keep
}

// Clear releases every live particle.
func (s *System) Clear() {
	for _, p := range s.live {
		_ = s.pool.Release(p)
	}
	s.live = s.live[:0]
}

func (s *System) Live() []*Particle { return s.live }

func (s *System) Pool() *pool.Pool[*Particle] { return s.pool }

// basis returns two unit vectors perpendicular to n and to each other.
func basis(n rl.Vector3) (rl.Vector3, rl.Vector3) {
	ref := rl.Vector3{Y: 1}
	if math.Abs(float64(n.Y)) > 0.9 {
		ref = rl.Vector3{X: 1}
	}
	t := rl.Vector3Normalize(rl.Vector3CrossProduct(ref, n))
	return t, rl.Vector3CrossProduct(n, t)
}
