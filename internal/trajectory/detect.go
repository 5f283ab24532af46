package trajectory

import (
	"ballista/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// DetectStep runs the obstacle check for one segment of a path.
//
// A ray is cast from `from` toward `to`, limited to the segment length. If it
// misses, a sphere of probeRadius around `to` catches thin or fast intercepts
// the ray slipped past; that impact uses the closest surface point and a normal
// pointing back at the probe center.
//
// fraction is how far along the segment the impact lies, in [0,1].
func DetectStep(q engine.SpatialQuery, from, to rl.Vector3, probeRadius float32, mask engine.Layer) (impact ImpactResult, fraction float32, ok bool) {
	if q == nil {
		return ImpactResult{}, 0, false
	}

	delta := rl.Vector3Subtract(to, from)
	length := rl.Vector3Length(delta)
	if length > 0 {
		if hit, found := q.Raycast(from, delta, length, mask); found {
			return ImpactResult{
				Hit:       true,
				Position:  hit.Point,
				Normal:    hit.Normal,
				HitObject: engine.RefTo(hit.GameObject),
			}, hit.Distance / length, true
		}
	}

	if probeRadius <= 0 {
		return ImpactResult{}, 0, false
	}
	overlaps := q.OverlapSphere(to, probeRadius, mask)
	if len(overlaps) == 0 {
		return ImpactResult{}, 0, false
	}

	// Nearest surface wins; ties keep query order.
	best := overlaps[0]
	bestDist := distSqr(best.ClosestPoint, to)
	for _, o := range overlaps[1:] {
		if d := distSqr(o.ClosestPoint, to); d < bestDist {
			best, bestDist = o, d
		}
	}

	return ImpactResult{
		Hit:       true,
		Position:  best.ClosestPoint,
		Normal:    probeNormal(best.ClosestPoint, to, delta),
		HitObject: engine.RefTo(best.GameObject),
	}, 1, true
}

// probeNormal points from the surface back to the probe center. When the
// center sits on the surface the reversed travel direction stands in.
func probeNormal(surface, center, travel rl.Vector3) rl.Vector3 {
	n := rl.Vector3Subtract(center, surface)
	if rl.Vector3Length(n) > 1e-6 {
		return rl.Vector3Normalize(n)
	}
	if rl.Vector3Length(travel) > 1e-6 {
		return rl.Vector3Normalize(rl.Vector3Negate(travel))
	}
	return rl.Vector3{Y: 1}
}

func distSqr(a, b rl.Vector3) float32 {
	d := rl.Vector3Subtract(a, b)
	return rl.Vector3DotProduct(d, d)
}
