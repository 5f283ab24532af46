package engine

import (
	"sync/atomic"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var nextUID atomic.Uint64

type Transform struct {
	Position rl.Vector3
	Rotation rl.Vector3 // Euler angles in degrees
	Scale    rl.Vector3
}

type GameObject struct {
	UID        uint64
	Name       string
	Tags       []string
	Transform  Transform
	Active     bool
	Scene      *Scene
	components []Component
	started    bool
}

func NewGameObject(name string) *GameObject {
	return &GameObject{
		UID:    nextUID.Add(1),
		Name:   name,
		Active: true,
		Transform: Transform{
			Scale: rl.Vector3{X: 1, Y: 1, Z: 1},
		},
		components: make([]Component, 0),
	}
}

func (g *GameObject) AddComponent(c Component) {
	c.SetGameObject(g)
	g.components = append(g.components, c)
}

// GetComponent returns the first component of type T, or the zero value.
func GetComponent[T Component](g *GameObject) T {
	var zero T
	if g == nil {
		return zero
	}
	for _, c := range g.components {
		if typed, ok := c.(T); ok {
			return typed
		}
	}
	return zero
}

func (g *GameObject) Start() {
	if g.started {
		return
	}
	for _, c := range g.components {
		c.Start()
	}
	g.started = true
}

func (g *GameObject) Update(deltaTime float32) {
	if !g.Active {
		return
	}
	for _, c := range g.components {
		c.Update(deltaTime)
	}
}

// Reset clears per-use component state so the object can be reused from a pool.
// The object takes a fresh UID, so references from its previous use resolve to
// nil. It must not be in a scene.
func (g *GameObject) Reset() {
	g.UID = nextUID.Add(1)
	g.Active = true
	g.started = false
	g.ResetComponents()
}

// ResetComponents resets every Resettable component in place. Unlike Reset it
// keeps the UID, so it is safe on objects that are in a scene.
func (g *GameObject) ResetComponents() {
	for _, c := range g.components {
		if r, ok := c.(Resettable); ok {
			r.Reset()
		}
	}
}

// RemoveComponent detaches c. It reports false if c was not attached to g.
func (g *GameObject) RemoveComponent(c Component) bool {
	for i, existing := range g.components {
		if existing == c {
			g.components = append(g.components[:i], g.components[i+1:]...)
			c.SetGameObject(nil)
			return true
		}
	}
	return false
}

func (g *GameObject) Components() []Component {
	return g.components
}

func (g *GameObject) HasTag(tag string) bool {
	for _, t := range g.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// WorldPosition returns the object's position. Hierarchies are not modelled, so
// this is the transform position; colliders go through it so offsets stay in one place.
func (g *GameObject) WorldPosition() rl.Vector3 {
	return g.Transform.Position
}

func (g *GameObject) WorldScale() rl.Vector3 {
	return g.Transform.Scale
}
