package engine

import rl "github.com/gen2brain/raylib-go/raylib"

// Layer is a collision layer bitmask. Queries take a mask and only consider
// colliders whose layer intersects it.
type Layer uint32

const (
	LayerDefault Layer = 1 << iota
	LayerTerrain
	LayerTarget
	LayerProjectile
	LayerShooter

	LayerNone Layer = 0
	LayerAll  Layer = ^Layer(0)

	// LayerObstacles is what a shot can hit: everything but other shots and shooters.
	LayerObstacles = LayerAll &^ (LayerProjectile | LayerShooter)
)

// Matches reports whether l shares any bit with mask.
func (l Layer) Matches(mask Layer) bool {
	return l&mask != 0
}

// RaycastResult holds information about a raycast hit.
// Defined here to avoid circular imports with physics package.
type RaycastResult struct {
	GameObject *GameObject
	Point      rl.Vector3
	Normal     rl.Vector3
	Distance   float32
}

// Overlap is one collider returned by a sphere query. ClosestPoint is the point
// on the collider's surface nearest to the query center.
type Overlap struct {
	GameObject   *GameObject
	ClosestPoint rl.Vector3
}

// SpatialQuery is the environment capability the trajectory code depends on.
// Implementations must be deterministic: identical calls against an unchanged
// environment return identical answers.
type SpatialQuery interface {
	Raycast(origin, direction rl.Vector3, maxDistance float32, mask Layer) (RaycastResult, bool)
	OverlapSphere(center rl.Vector3, radius float32, mask Layer) []Overlap
}
