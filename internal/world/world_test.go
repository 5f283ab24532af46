package world

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"ballista/internal/components"
	"ballista/internal/config"
	"ballista/internal/engine"
	"ballista/internal/projectile"
	"ballista/internal/scripts"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func newTestWorld(t *testing.T) *World {
	t.Helper()
	tu := config.Default()
	tu.Pools.Projectile = config.PoolSize{DefaultCapacity: 2, MaxSize: 4}
	tu.Pools.Particle = config.PoolSize{DefaultCapacity: 8, MaxSize: 32}
	w, err := New(tu)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func addGround(w *World) *engine.GameObject {
	g := engine.NewGameObject("Ground")
	g.Transform.Position = rl.Vector3{Y: -0.5}
	box := components.NewBoxCollider(rl.Vector3{X: 100, Y: 1, Z: 100})
	box.Layer = engine.LayerTerrain
	g.AddComponent(box)
	w.Spawn(g)
	return g
}

func TestNewRejectsInvalidTuning(t *testing.T) {
	tu := config.Default()
	tu.Interval = 0
	if _, err := New(tu); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("Expected config.ErrInvalid, got %v", err)
	}
}

func TestSpawnAndDestroy(t *testing.T) {
	w := newTestWorld(t)
	target := w.NewTarget("T", rl.Vector3{X: 5}, rl.Vector3{X: 1, Y: 1, Z: 1}, 1)
	marker := engine.NewGameObject("Marker")
	w.Spawn(marker)

	if w.Collision.Len() != 1 || len(w.Scene.GameObjects) != 2 {
		t.Fatalf("Expected 1 collider and 2 objects, got %d and %d", w.Collision.Len(), len(w.Scene.GameObjects))
	}

	ref := engine.RefTo(target)
	w.Destroy(target)
	if ref.Get(w.Scene) != nil {
		t.Error("Destroyed target should no longer resolve")
	}
	if w.Collision.Len() != 0 {
		t.Error("Destroyed target should leave the collision world")
	}
}

func TestEndToEndDestroysTarget(t *testing.T) {
	w := newTestWorld(t)
	addGround(w)
	target := w.NewTarget("Dummy", rl.Vector3{X: 12, Y: 1}, rl.Vector3{X: 1, Y: 1, Z: 1}, 2)
	shooter := w.NewShooter("Turret", rl.Vector3{Y: 1})
	shooter.Target = engine.RefTo(target)
	shooter.AutoFire = true

	var destroyed []*engine.GameObject
	hitsAtDestruction := 0
	w.OnTargetDestroyed.AddListener(func(g *engine.GameObject) {
		destroyed = append(destroyed, g)
		hitsAtDestruction = engine.GetComponent[*components.Target](g).Hits
	})
	impacts := 0
	w.Launcher.OnImpact.AddListener(func(_ projectile.Impact) { impacts++ })

	for i := 0; i < 600 && len(destroyed) == 0; i++ {
		w.Advance(1.0 / 60)
	}

	if len(destroyed) != 1 || destroyed[0] != target {
		t.Fatalf("Expected the dummy destroyed once, got %d", len(destroyed))
	}
	if hitsAtDestruction != 2 {
		t.Errorf("Expected 2 hits to destroy, got %d", hitsAtDestruction)
	}
	if st := w.Registry.Targets.Stats(); st.Active != 0 || st.Idle != 1 {
		t.Errorf("Expected the destroyed dummy parked in the target pool, got %+v", st)
	}
	if len(w.Effects.Live()) == 0 {
		t.Error("Impacts should have produced particles")
	}

	// with the target gone the shooter stops aiming and everything drains
	for i := 0; i < 600; i++ {
		w.Advance(1.0 / 60)
	}
	if shooter.Preview.Active() {
		t.Error("Preview should be cancelled once the target is gone")
	}
	if len(w.Launcher.Live()) != 0 || len(w.Effects.Live()) != 0 {
		t.Errorf("Expected everything drained, got %d projectiles and %d particles", len(w.Launcher.Live()), len(w.Effects.Live()))
	}
	for name, st := range w.Registry.Stats() {
		if st.Active != 0 {
			t.Errorf("Pool %s still has %d active", name, st.Active)
		}
		if st.Idle > w.registryMax(name) {
			t.Errorf("Pool %s idle %d over cap", name, st.Idle)
		}
		if st.Created-st.Evicted != st.Idle {
			t.Errorf("Pool %s leaked: created %d, evicted %d, idle %d", name, st.Created, st.Evicted, st.Idle)
		}
	}
	if impacts < 2 {
		t.Errorf("Expected at least 2 impacts, got %d", impacts)
	}
}

func (w *World) registryMax(name string) int {
	switch name {
	case w.Registry.Projectiles.Name():
		return w.Registry.Projectiles.MaxSize()
	case w.Registry.Targets.Name():
		return w.Registry.Targets.MaxSize()
	}
	return w.Registry.Particles.MaxSize()
}

func TestDestroyedTargetIsReusedReset(t *testing.T) {
	w := newTestWorld(t)
	spec := TargetSpec{
		Name:      "Runner",
		Position:  rl.Vector3{X: 10, Y: 1},
		Size:      rl.Vector3{X: 1, Y: 1, Z: 1},
		Health:    3,
		Color:     rl.SkyBlue,
		Axis:      rl.Vector3{Z: 1},
		Amplitude: 4,
		Speed:     1,
	}
	first := w.SpawnTarget(spec)
	oldRef := engine.RefTo(first)
	w.Advance(0.5)

	rb := engine.GetComponent[*components.Rigidbody](first)
	if rb == nil || rb.Velocity == (rl.Vector3{}) {
		t.Fatal("Patrol should be driving the runner's rigidbody")
	}
	engine.GetComponent[*components.Target](first).TakeHit(1)

	w.Destroy(first)
	if st := w.Registry.Targets.Stats(); st.Idle != 1 || st.Active != 0 {
		t.Fatalf("Expected the runner parked in the pool, got %+v", st)
	}

	second := w.SpawnTarget(spec)
	if second != first {
		t.Fatal("Expected the destroyed runner to be reused")
	}
	tg := engine.GetComponent[*components.Target](second)
	if tg.Health != 3 || tg.Hits != 0 {
		t.Errorf("Expected full health and no hits, got %v / %d", tg.Health, tg.Hits)
	}
	if rb.Velocity != (rl.Vector3{}) {
		t.Errorf("Expected velocity cleared on reuse, got %v", rb.Velocity)
	}
	if oldRef.Get(w.Scene) != nil {
		t.Error("Reference from the runner's previous life should not resolve")
	}
	if n := len(second.Components()); n != 5 {
		t.Errorf("Expected box, target, appearance, body and patrol only, got %d components", n)
	}

	w.Advance(0.25)
	want := float32(4 * math.Sin(0.25))
	if math.Abs(float64(second.Transform.Position.Z-want)) > 1e-4 {
		t.Errorf("Expected patrol restarted at phase 0 (Z=%.4f), got %.4f", want, second.Transform.Position.Z)
	}
}

func TestReusedTargetDropsPatrol(t *testing.T) {
	w := newTestWorld(t)
	moving := w.SpawnTarget(TargetSpec{
		Name: "Runner", Position: rl.Vector3{X: 10}, Size: rl.Vector3{X: 1, Y: 1, Z: 1},
		Health: 2, Color: rl.Red, Axis: rl.Vector3{Z: 1}, Amplitude: 3, Speed: 1,
	})
	w.Destroy(moving)

	still := w.NewTarget("Dummy", rl.Vector3{X: 6, Y: 1}, rl.Vector3{X: 2, Y: 2, Z: 2}, 5)
	if still != moving {
		t.Fatal("Expected the pooled target to be reused")
	}
	if engine.GetComponent[*components.Patrol](still) != nil || engine.GetComponent[*components.Rigidbody](still) != nil {
		t.Error("A still target should not keep the previous patrol")
	}
	if engine.GetComponent[*components.Appearance](still) != nil {
		t.Error("A target without a color should fall back to the layer color")
	}
	if box := engine.GetComponent[*components.BoxCollider](still); box.Size.X != 2 {
		t.Errorf("Expected size 2, got %v", box.Size)
	}

	w.Advance(0.5)
	if still.Transform.Position != (rl.Vector3{X: 6, Y: 1}) {
		t.Errorf("Still target moved to %v", still.Transform.Position)
	}
}

func TestDestroyTwiceReleasesOnce(t *testing.T) {
	w := newTestWorld(t)
	target := w.NewTarget("T", rl.Vector3{X: 5}, rl.Vector3{X: 1, Y: 1, Z: 1}, 1)
	w.Destroy(target)
	w.Destroy(target)

	if st := w.Registry.Targets.Stats(); st.Releases != 1 || st.Idle != 1 {
		t.Errorf("Expected a single release, got %+v", st)
	}
}

func TestResetRange(t *testing.T) {
	w := newTestWorld(t)
	addGround(w)
	target := w.NewTarget("Dummy", rl.Vector3{X: 12, Y: 1}, rl.Vector3{X: 1, Y: 1, Z: 1}, 100)
	shooter := w.NewShooter("Turret", rl.Vector3{Y: 1})
	shooter.Target = engine.RefTo(target)
	shooter.AutoFire = true

	for i := 0; i < 120; i++ {
		w.Advance(1.0 / 60)
	}
	tg := engine.GetComponent[*components.Target](target)
	if shooter.Shots() == 0 || tg.Hits == 0 {
		t.Fatalf("Expected shots and hits before the reset, got %d / %d", shooter.Shots(), tg.Hits)
	}

	uid := target.UID
	w.ResetRange()

	if shooter.Shots() != 0 || shooter.Preview.Active() {
		t.Errorf("Expected the shooter cleared, got %d shots", shooter.Shots())
	}
	if tg.Health != 100 || tg.Hits != 0 {
		t.Errorf("Expected the dummy healed, got %v / %d", tg.Health, tg.Hits)
	}
	if len(w.Launcher.Live()) != 0 || len(w.Effects.Live()) != 0 {
		t.Error("Expected nothing in flight after a reset")
	}
	if target.UID != uid || shooter.Target.Get(w.Scene) != target {
		t.Error("Objects in the scene should keep their identity across a reset")
	}
}

func TestCloseTearsDownPools(t *testing.T) {
	w := newTestWorld(t)
	addGround(w)
	if _, err := w.Launcher.Fire(rl.Vector3{Y: 5}, rl.Vector3{X: 1}, projectile.Payload{Damage: 1}); err != nil {
		t.Fatal(err)
	}
	w.Effects.Emit(rl.Vector3{}, rl.Vector3{Y: 1})

	w.Close()

	for name, st := range w.Registry.Stats() {
		if st.Active != 0 || st.Idle != 0 {
			t.Errorf("Pool %s should be empty after Close, got %+v", name, st)
		}
	}
}

const testRange = `{
  "objects": [
    {"name": "Ground", "position": [0, -0.5, 0], "scale": [1, 1, 1], "components": [
      {"type": "BoxCollider", "size": [60, 1, 60], "layer": "terrain"},
      {"type": "Appearance", "color": "LightGray"}
    ]},
    {"name": "Turret", "position": [0, 1, 0], "components": [
      {"type": "Shooter", "target": "Runner", "launchSpeed": 18, "damage": 2, "autoFire": true}
    ]},
    {"name": "Runner", "tags": ["target"], "position": [15, 1, 0], "components": [
      {"type": "BoxCollider", "size": [1, 1, 1], "layer": "target"},
      {"type": "Rigidbody", "isKinematic": true},
      {"type": "Patrol", "axis": [0, 0, 1], "amplitude": 4, "speed": 0.5},
      {"type": "Target", "health": 3},
      {"type": "Appearance", "color": "Red"},
      {"type": "Unknown"}
    ]}
  ]
}`

func TestLoadRange(t *testing.T) {
	w := newTestWorld(t)
	if err := w.LoadRangeData([]byte(testRange)); err != nil {
		t.Fatal(err)
	}

	if len(w.Scene.GameObjects) != 3 || w.Collision.Len() != 2 {
		t.Fatalf("Expected 3 objects and 2 colliders, got %d and %d", len(w.Scene.GameObjects), w.Collision.Len())
	}

	turret := w.Scene.FindByName("Turret")
	s := engine.GetComponent[*scripts.Shooter](turret)
	if s == nil {
		t.Fatal("Turret should have a shooter")
	}
	runner := w.Scene.FindByName("Runner")
	if s.Target.UID != runner.UID {
		t.Errorf("Expected shooter to target Runner, got UID %d", s.Target.UID)
	}
	if s.LaunchSpeed != 18 || s.Payload.Damage != 2 || !s.AutoFire || s.Launcher != w.Launcher {
		t.Errorf("Shooter not configured from the file: %+v", s)
	}
	if s.Interval != w.Tuning.Interval || s.Preview == nil {
		t.Error("Shooter should inherit tuning and get its own preview")
	}

	box := engine.GetComponent[*components.BoxCollider](runner)
	if box.Layer != engine.LayerTarget {
		t.Errorf("Expected target layer, got %v", box.Layer)
	}
	if a := engine.GetComponent[*components.Appearance](runner); a == nil || a.Color != rl.Red {
		t.Error("Expected a red runner")
	}
	if runner.Transform.Scale != (rl.Vector3{X: 1, Y: 1, Z: 1}) {
		t.Errorf("Missing scale should default to 1, got %v", runner.Transform.Scale)
	}
}

func TestSaveRangeRoundTrip(t *testing.T) {
	w := newTestWorld(t)
	if err := w.LoadRangeData([]byte(testRange)); err != nil {
		t.Fatal(err)
	}
	// move the patroller so saving has to use its origin
	w.Advance(0.5)

	path := filepath.Join(t.TempDir(), "range.json")
	if err := w.SaveRange(path); err != nil {
		t.Fatal(err)
	}

	w2 := newTestWorld(t)
	if err := w2.LoadRange(path); err != nil {
		t.Fatal(err)
	}
	runner := w2.Scene.FindByName("Runner")
	if runner.Transform.Position != (rl.Vector3{X: 15, Y: 1}) {
		t.Errorf("Expected runner saved at its origin, got %v", runner.Transform.Position)
	}
	s := engine.GetComponent[*scripts.Shooter](w2.Scene.FindByName("Turret"))
	if s.Target.Get(w2.Scene) != runner {
		t.Error("Shooter target should survive a round trip")
	}
	if tg := engine.GetComponent[*components.Target](runner); tg == nil || tg.MaxHealth != 3 {
		t.Error("Target health should survive a round trip")
	}
	if p := engine.GetComponent[*components.Patrol](runner); p == nil || p.Amplitude != 4 {
		t.Error("Patrol should survive a round trip")
	}
}

func TestLoadRangeErrors(t *testing.T) {
	w := newTestWorld(t)
	if err := w.LoadRange(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected an error for a missing file")
	}
	if err := w.LoadRangeData([]byte("{")); err == nil {
		t.Error("Expected a parse error")
	}
}
