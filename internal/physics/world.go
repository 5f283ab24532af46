package physics

import (
	"ballista/internal/components"
	"ballista/internal/engine"
)

// CollisionWorld is the queryable environment: every registered object with a
// BoxCollider or SphereCollider takes part in raycasts and overlap queries.
// Objects are scanned in registration order, which keeps results deterministic.
type CollisionWorld struct {
	Objects []*engine.GameObject
}

var _ engine.SpatialQuery = (*CollisionWorld)(nil)

func NewCollisionWorld() *CollisionWorld {
	return &CollisionWorld{
		Objects: make([]*engine.GameObject, 0),
	}
}

// AddObject registers g if it carries at least one collider. Returns false otherwise.
func (w *CollisionWorld) AddObject(g *engine.GameObject) bool {
	if engine.GetComponent[*components.BoxCollider](g) == nil &&
		engine.GetComponent[*components.SphereCollider](g) == nil {
		return false
	}
	for _, obj := range w.Objects {
		if obj == g {
			return true
		}
	}
	w.Objects = append(w.Objects, g)
	return true
}

func (w *CollisionWorld) RemoveObject(g *engine.GameObject) {
	for i, obj := range w.Objects {
		if obj == g {
			w.Objects = append(w.Objects[:i], w.Objects[i+1:]...)
			return
		}
	}
}

func (w *CollisionWorld) Len() int {
	return len(w.Objects)
}
