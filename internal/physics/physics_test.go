package physics

import (
	"math"
	"testing"

	"ballista/internal/components"
	"ballista/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func near(a, b, eps float32) bool {
	return float32(math.Abs(float64(a-b))) <= eps
}

func newBox(name string, center, size rl.Vector3, layer engine.Layer) *engine.GameObject {
	g := engine.NewGameObject(name)
	g.Transform.Position = center
	box := components.NewBoxCollider(size)
	box.Layer = layer
	g.AddComponent(box)
	return g
}

func newSphere(name string, center rl.Vector3, radius float32, layer engine.Layer) *engine.GameObject {
	g := engine.NewGameObject(name)
	g.Transform.Position = center
	s := components.NewSphereCollider(radius)
	s.Layer = layer
	g.AddComponent(s)
	return g
}

func TestAddObjectRequiresCollider(t *testing.T) {
	w := NewCollisionWorld()

	if w.AddObject(engine.NewGameObject("Empty")) {
		t.Error("Object without collider should be rejected")
	}

	wall := newBox("Wall", rl.Vector3{}, rl.Vector3{X: 1, Y: 1, Z: 1}, engine.LayerTerrain)
	w.AddObject(wall)
	w.AddObject(wall)
	if w.Len() != 1 {
		t.Errorf("Expected 1 object, got %d", w.Len())
	}

	w.RemoveObject(wall)
	if w.Len() != 0 {
		t.Errorf("Expected 0 objects after removal, got %d", w.Len())
	}
}

func TestRaycastBoxFace(t *testing.T) {
	w := NewCollisionWorld()
	wall := newBox("Wall", rl.Vector3{X: 10, Y: 0, Z: 0}, rl.Vector3{X: 2, Y: 4, Z: 4}, engine.LayerTerrain)
	w.AddObject(wall)

	hit, ok := w.Raycast(rl.Vector3{}, rl.Vector3{X: 1}, 100, engine.LayerAll)
	if !ok {
		t.Fatal("Expected a hit")
	}
	if hit.GameObject != wall {
		t.Error("Wrong object hit")
	}
	if !near(hit.Point.X, 9, 1e-4) || !near(hit.Distance, 9, 1e-4) {
		t.Errorf("Expected hit at x=9, got %v (distance %f)", hit.Point, hit.Distance)
	}
	if hit.Normal.X != -1 {
		t.Errorf("Expected normal -X, got %v", hit.Normal)
	}
}

func TestRaycastRespectsMaxDistance(t *testing.T) {
	w := NewCollisionWorld()
	w.AddObject(newBox("Wall", rl.Vector3{X: 10}, rl.Vector3{X: 2, Y: 2, Z: 2}, engine.LayerTerrain))

	if _, ok := w.Raycast(rl.Vector3{}, rl.Vector3{X: 1}, 5, engine.LayerAll); ok {
		t.Error("Hit beyond maxDistance should be ignored")
	}
	if _, ok := w.Raycast(rl.Vector3{}, rl.Vector3{}, 50, engine.LayerAll); ok {
		t.Error("Zero direction should never hit")
	}
}

func TestRaycastClosestWins(t *testing.T) {
	w := NewCollisionWorld()
	far := newBox("Far", rl.Vector3{X: 20}, rl.Vector3{X: 2, Y: 2, Z: 2}, engine.LayerTerrain)
	ball := newSphere("Ball", rl.Vector3{X: 8}, 1, engine.LayerTarget)
	w.AddObject(far)
	w.AddObject(ball)

	hit, ok := w.Raycast(rl.Vector3{}, rl.Vector3{X: 1}, 100, engine.LayerAll)
	if !ok || hit.GameObject != ball {
		t.Fatalf("Expected sphere hit, got %v %v", ok, hit.GameObject)
	}
	if !near(hit.Point.X, 7, 1e-4) {
		t.Errorf("Expected sphere surface at x=7, got %f", hit.Point.X)
	}
	if !near(hit.Normal.X, -1, 1e-4) {
		t.Errorf("Expected normal pointing back at ray, got %v", hit.Normal)
	}
}

func TestRaycastLayerMask(t *testing.T) {
	w := NewCollisionWorld()
	w.AddObject(newSphere("Ball", rl.Vector3{X: 8}, 1, engine.LayerTarget))

	if _, ok := w.Raycast(rl.Vector3{}, rl.Vector3{X: 1}, 100, engine.LayerTerrain); ok {
		t.Error("Masked-out layer should not be hit")
	}
}

func TestRaycastSkipsInactive(t *testing.T) {
	w := NewCollisionWorld()
	ball := newSphere("Ball", rl.Vector3{X: 8}, 1, engine.LayerTarget)
	ball.Active = false
	w.AddObject(ball)

	if _, ok := w.Raycast(rl.Vector3{}, rl.Vector3{X: 1}, 100, engine.LayerAll); ok {
		t.Error("Inactive object should not be hit")
	}
}

func TestOverlapSphereClosestPoint(t *testing.T) {
	w := NewCollisionWorld()
	floor := newBox("Floor", rl.Vector3{Y: -0.5}, rl.Vector3{X: 100, Y: 1, Z: 100}, engine.LayerTerrain)
	w.AddObject(floor)

	overlaps := w.OverlapSphere(rl.Vector3{X: 3, Y: 0.05, Z: 2}, 0.1, engine.LayerAll)
	if len(overlaps) != 1 {
		t.Fatalf("Expected 1 overlap, got %d", len(overlaps))
	}
	p := overlaps[0].ClosestPoint
	if !near(p.Y, 0, 1e-5) || !near(p.X, 3, 1e-5) || !near(p.Z, 2, 1e-5) {
		t.Errorf("Expected closest point (3,0,2), got %v", p)
	}

	if len(w.OverlapSphere(rl.Vector3{Y: 1}, 0.1, engine.LayerAll)) != 0 {
		t.Error("Sphere above the floor should not overlap")
	}
}

func TestOverlapSphereAgainstSphere(t *testing.T) {
	w := NewCollisionWorld()
	w.AddObject(newSphere("Ball", rl.Vector3{}, 1, engine.LayerTarget))

	overlaps := w.OverlapSphere(rl.Vector3{X: 1.5}, 0.6, engine.LayerTarget)
	if len(overlaps) != 1 {
		t.Fatalf("Expected 1 overlap, got %d", len(overlaps))
	}
	if !near(overlaps[0].ClosestPoint.X, 1, 1e-5) {
		t.Errorf("Expected closest point on surface x=1, got %v", overlaps[0].ClosestPoint)
	}

	if len(w.OverlapSphere(rl.Vector3{X: 1.5}, 0.6, engine.LayerTerrain)) != 0 {
		t.Error("Masked-out sphere should not overlap")
	}
}

func TestAABBClosestPointInside(t *testing.T) {
	box := NewAABBFromCenter(rl.Vector3{}, rl.Vector3{X: 2, Y: 2, Z: 2})
	p := rl.Vector3{X: 0.5, Y: -0.5, Z: 0}
	if box.ClosestPoint(p) != p {
		t.Error("Point inside box should be its own closest point")
	}
	if !box.Contains(p) {
		t.Error("Contains should report interior point")
	}
}
