package physics

import (
	"ballista/internal/components"
	"ballista/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlapSphere returns every active collider on the masked layers touching the
// sphere, in registration order. An object with both collider kinds is reported once.
func (w *CollisionWorld) OverlapSphere(center rl.Vector3, radius float32, mask engine.Layer) []engine.Overlap {
	var result []engine.Overlap
	r2 := radius * radius

	for _, obj := range w.Objects {
		if !obj.Active {
			continue
		}
		if box := engine.GetComponent[*components.BoxCollider](obj); box != nil && box.Layer.Matches(mask) {
			p := boxBounds(box).ClosestPoint(center)
			if d := rl.Vector3Subtract(p, center); rl.Vector3DotProduct(d, d) <= r2 {
				result = append(result, engine.Overlap{GameObject: obj, ClosestPoint: p})
				continue
			}
		}
		if sphere := engine.GetComponent[*components.SphereCollider](obj); sphere != nil && sphere.Layer.Matches(mask) {
			c := sphere.GetCenter()
			sr := sphereRadius(sphere)
			if rl.Vector3Distance(c, center) <= sr+radius {
				result = append(result, engine.Overlap{GameObject: obj, ClosestPoint: closestOnSphere(c, sr, center)})
			}
		}
	}

	return result
}
