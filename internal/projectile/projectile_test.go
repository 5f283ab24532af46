package projectile

import (
	"errors"
	"math"
	"testing"

	"ballista/internal/components"
	"ballista/internal/engine"
	"ballista/internal/physics"
	"ballista/internal/pool"
	"ballista/internal/trajectory"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func near(a, b, eps float32) bool {
	return float32(math.Abs(float64(a-b))) <= eps
}

func rangeWorld() (*physics.CollisionWorld, *engine.GameObject) {
	w := physics.NewCollisionWorld()
	floor := engine.NewGameObject("Floor")
	floor.Transform.Position = rl.Vector3{Y: -0.5}
	box := components.NewBoxCollider(rl.Vector3{X: 400, Y: 1, Z: 400})
	box.Layer = engine.LayerTerrain
	floor.AddComponent(box)
	w.AddObject(floor)
	return w, floor
}

func newLauncher(t *testing.T, q engine.SpatialQuery, cfg Config) *Launcher {
	t.Helper()
	p, err := pool.New(pool.Config{Name: "projectile", DefaultCapacity: 2, MaxSize: 4, Strict: true}, Hooks())
	if err != nil {
		t.Fatal(err)
	}
	return NewLauncher(p, q, cfg)
}

func TestStateString(t *testing.T) {
	want := map[State]string{Dormant: "Dormant", Armed: "Armed", InFlight: "InFlight", Impacted: "Impacted", State(9): "State(9)"}
	for s, name := range want {
		if s.String() != name {
			t.Errorf("Expected %q, got %q", name, s.String())
		}
	}
}

func TestIllegalTransitions(t *testing.T) {
	p := New()

	if err := p.Launch(rl.Vector3{X: 1}, 0); !errors.Is(err, ErrBadTransition) {
		t.Errorf("Launch from Dormant: expected ErrBadTransition, got %v", err)
	}
	if err := p.ForceImpact(); !errors.Is(err, ErrBadTransition) {
		t.Errorf("ForceImpact from Dormant: expected ErrBadTransition, got %v", err)
	}
	if p.State != Dormant {
		t.Errorf("Failed transitions must not change state, got %s", p.State)
	}

	if err := p.Arm(rl.Vector3{}, Payload{}, 5, 0.1, engine.LayerAll); err != nil {
		t.Fatal(err)
	}
	if err := p.Arm(rl.Vector3{}, Payload{}, 5, 0.1, engine.LayerAll); !errors.Is(err, ErrBadTransition) {
		t.Errorf("Arm from Armed: expected ErrBadTransition, got %v", err)
	}
	if p.Step(0.1, trajectory.Gravity, nil) {
		t.Error("Step should do nothing before launch")
	}
}

func TestLifecycleHitAndReturnToPool(t *testing.T) {
	world, floor := rangeWorld()
	cfg := DefaultConfig()
	cfg.GraceDelay = 0.1
	l := newLauncher(t, world, cfg)

	var impacts []Impact
	l.OnImpact.AddListener(func(i Impact) { impacts = append(impacts, i) })

	p, err := l.Arm(rl.Vector3{Y: 1}, Payload{Damage: 25})
	if err != nil {
		t.Fatal(err)
	}
	if p.State != Armed {
		t.Fatalf("Expected Armed, got %s", p.State)
	}
	if err := l.Launch(p, rl.Vector3{Y: 10, Z: 10}); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 300 && p.State == InFlight; i++ {
		l.Advance(1.0 / 60)
	}

	if p.State != Impacted {
		t.Fatalf("Expected Impacted, got %s", p.State)
	}
	if len(impacts) != 1 {
		t.Fatalf("Expected exactly 1 impact event, got %d", len(impacts))
	}
	imp := impacts[0]
	if !imp.Result.Hit || imp.Result.HitObject.UID != floor.UID {
		t.Errorf("Expected a hit on the floor, got %+v", imp.Result)
	}
	if imp.Payload.Damage != 25 {
		t.Errorf("Impact should carry the payload, got %+v", imp.Payload)
	}
	if !near(imp.Elapsed, 2.1363, 0.02) {
		t.Errorf("Expected impact near t=2.136, got %f", imp.Elapsed)
	}
	if !near(p.Position.Y, 0, 1e-3) {
		t.Errorf("Final position should be on the floor, got %v", p.Position)
	}

	// grace delay: stays live for 0.1s, then back to the pool
	l.Advance(0.05)
	if p.State != Impacted || len(l.Live()) != 1 {
		t.Fatal("Projectile should linger during the grace delay")
	}
	l.Advance(0.05)
	l.Advance(0.01)
	if len(l.Live()) != 0 {
		t.Fatalf("Expected no live projectiles after grace, got %d", len(l.Live()))
	}
	if p.State != Dormant {
		t.Errorf("Released projectile should be Dormant, got %s", p.State)
	}
	if s := l.Pool().Stats(); s.Active != 0 || s.Idle != 2 {
		t.Errorf("Projectile should be idle in the pool, got %+v", s)
	}
}

func TestLifetimeExpiryIsMiss(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LifetimeLimit = 0.5
	l := newLauncher(t, nil, cfg)

	var impacts []Impact
	l.OnImpact.AddListener(func(i Impact) { impacts = append(impacts, i) })

	p, err := l.Fire(rl.Vector3{Y: 100}, rl.Vector3{X: 20}, Payload{})
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 10; i++ {
		l.Advance(0.1)
		if p.Elapsed > p.LifetimeLimit && p.State != Dormant {
			t.Fatalf("Elapsed %f exceeded lifetime %f", p.Elapsed, p.LifetimeLimit)
		}
	}

	if len(impacts) != 1 {
		t.Fatalf("Expected 1 expiry event, got %d", len(impacts))
	}
	if impacts[0].Result.Hit {
		t.Error("Lifetime expiry should report hit=false")
	}
	if !near(impacts[0].Elapsed, 0.5, 1e-5) {
		t.Errorf("Expected expiry at 0.5s, got %f", impacts[0].Elapsed)
	}
	if !near(impacts[0].Result.Position.X, 10, 1e-4) {
		t.Errorf("Expected miss point at x=10, got %v", impacts[0].Result.Position)
	}
}

func TestRearmResetsState(t *testing.T) {
	world, _ := rangeWorld()
	p0, err := pool.New(pool.Config{Name: "projectile", DefaultCapacity: 1, MaxSize: 1, Strict: true}, Hooks())
	if err != nil {
		t.Fatal(err)
	}
	l := NewLauncher(p0, world, DefaultConfig())

	first, _ := l.Fire(rl.Vector3{Y: 1}, rl.Vector3{X: 3, Y: 2}, Payload{Damage: 9, Effect: "fire"})
	for i := 0; i < 200 && len(l.Live()) > 0; i++ {
		l.Advance(1.0 / 30)
	}
	if len(l.Live()) != 0 {
		t.Fatal("First shot should have finished")
	}

	second, err := l.Arm(rl.Vector3{X: 50, Y: 5}, Payload{Damage: 1})
	if err != nil {
		t.Fatal(err)
	}
	if second != first {
		t.Fatal("Expected the pooled instance to be reused")
	}
	if second.Velocity != (rl.Vector3{}) || second.Elapsed != 0 || second.Impact.Hit || second.Impact.HitObject.IsValid() {
		t.Errorf("Residual state leaked into new shot: %+v", second)
	}
	if second.Payload.Effect != "" || second.Position != (rl.Vector3{X: 50, Y: 5}) {
		t.Errorf("Arm should fully replace placement and payload, got %+v", second)
	}
	if second.Shots() != 1 {
		t.Errorf("Shot counter should survive resets, got %d", second.Shots())
	}
}

func TestLaunchResetsTimers(t *testing.T) {
	p := New()
	_ = p.Arm(rl.Vector3{}, Payload{}, 5, 0, engine.LayerAll)
	if err := p.Launch(rl.Vector3{X: 1}, 3.5); err != nil {
		t.Fatal(err)
	}
	if p.SpawnTime != 3.5 || p.Elapsed != 0 || p.State != InFlight {
		t.Errorf("Unexpected state after launch: %+v", p)
	}
}

func TestCancelIdempotent(t *testing.T) {
	l := newLauncher(t, nil, DefaultConfig())

	p, err := l.Fire(rl.Vector3{}, rl.Vector3{X: 1}, Payload{})
	if err != nil {
		t.Fatal(err)
	}

	if err := l.Cancel(p); err != nil {
		t.Fatal(err)
	}
	if err := l.Cancel(p); err != nil {
		t.Errorf("Second cancel should be a no-op, got %v", err)
	}
	if p.State != Dormant || len(l.Live()) != 0 {
		t.Error("Cancelled projectile should be dormant and gone")
	}
	if s := l.Pool().Stats(); s.Releases != 1 {
		t.Errorf("Expected exactly one release, got %d", s.Releases)
	}
}

func TestCancelAndFireFromImpactListener(t *testing.T) {
	world, _ := rangeWorld()
	cfg := DefaultConfig()
	cfg.GraceDelay = 1
	l := newLauncher(t, world, cfg)

	var followUp *Projectile
	l.OnImpact.AddListener(func(i Impact) {
		_ = l.Cancel(i.Projectile)
		followUp, _ = l.Fire(rl.Vector3{Y: 50}, rl.Vector3{X: 1}, Payload{})
	})

	p, _ := l.Fire(rl.Vector3{Y: 0.5}, rl.Vector3{X: 1}, Payload{})
	for i := 0; i < 60 && p.State == InFlight; i++ {
		l.Advance(1.0 / 30)
	}

	live := l.Live()
	if len(live) != 1 || live[0] != followUp {
		t.Fatalf("Expected only the follow-up shot to be live, got %d", len(live))
	}
	if followUp.State != InFlight {
		t.Errorf("Follow-up should be in flight, got %s", followUp.State)
	}
}

func TestStaleCancelSparesReusedSlot(t *testing.T) {
	world, _ := rangeWorld()
	cfg := DefaultConfig()
	cfg.GraceDelay = 0
	l := newLauncher(t, world, cfg)

	spent, _ := l.Fire(rl.Vector3{Y: 0.05}, rl.Vector3{Y: -10}, Payload{})
	l.Advance(1.0 / 30)
	if spent.State != Impacted {
		t.Fatalf("Expected the first shot to land at once, got %s", spent.State)
	}

	// spent goes back to the pool early in the next tick; the listener then
	// cancels it by its old handle and fires again, which reuses the slot
	second, _ := l.Fire(rl.Vector3{X: 5, Y: 0.05}, rl.Vector3{Y: -10}, Payload{})
	var followUp *Projectile
	l.OnImpact.AddListener(func(i Impact) {
		if i.Projectile != second {
			return
		}
		_ = l.Cancel(spent)
		followUp, _ = l.Fire(rl.Vector3{Y: 50}, rl.Vector3{X: 1}, Payload{})
	})
	l.Advance(1.0 / 30)

	if followUp != spent {
		t.Fatal("Expected the follow-up to reuse the spent slot")
	}
	if followUp.State != InFlight || !l.Pool().IsActive(followUp) {
		t.Errorf("Follow-up should survive the stale cancel, got %s", followUp.State)
	}
	found := false
	for _, p := range l.Live() {
		if p == followUp {
			found = true
		}
	}
	if !found {
		t.Error("Follow-up should be live")
	}
}

func TestCancelAll(t *testing.T) {
	l := newLauncher(t, nil, DefaultConfig())
	for i := 0; i < 5; i++ {
		if _, err := l.Fire(rl.Vector3{}, rl.Vector3{X: 1}, Payload{}); err != nil {
			t.Fatal(err)
		}
	}

	l.CancelAll()

	s := l.Pool().Stats()
	if len(l.Live()) != 0 || s.Active != 0 {
		t.Errorf("Expected nothing live, got %+v", s)
	}
	if s.Evicted != 1 {
		t.Errorf("Five shots on a max-4 pool should evict one, got %d", s.Evicted)
	}
}
