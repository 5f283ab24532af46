package physics

import (
	"ballista/internal/components"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// clamp restricts a value to a range
func clamp(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func boxBounds(box *components.BoxCollider) AABB {
	return NewAABBFromCenter(box.GetCenter(), box.GetWorldSize())
}

// sphereRadius scales the collider radius by the largest axis of the object's scale.
func sphereRadius(sphere *components.SphereCollider) float32 {
	s := sphere.GetGameObject().WorldScale()
	m := abs(s.X)
	if abs(s.Y) > m {
		m = abs(s.Y)
	}
	if abs(s.Z) > m {
		m = abs(s.Z)
	}
	return sphere.Radius * m
}

func closestOnSphere(center rl.Vector3, radius float32, p rl.Vector3) rl.Vector3 {
	d := rl.Vector3Subtract(p, center)
	l := rl.Vector3Length(d)
	if l <= radius {
		return p
	}
	return rl.Vector3Add(center, rl.Vector3Scale(d, radius/l))
}
