package components

import (
	"ballista/internal/engine"
)

// Target absorbs impact damage. It does not remove its GameObject when health
// runs out; whoever owns the scene listens to OnDestroyed and decides.
type Target struct {
	engine.BaseComponent
	MaxHealth float32
	Health    float32
	Hits      int

	OnDestroyed engine.Event
}

func NewTarget(health float32) *Target {
	return &Target{MaxHealth: health, Health: health}
}

// TakeHit applies damage and reports whether this hit destroyed the target.
// Hits on an already destroyed target, or on one without a health pool, are
// counted but change nothing else.
func (t *Target) TakeHit(damage float32) bool {
	t.Hits++
	if t.MaxHealth <= 0 || !t.Alive() {
		return false
	}
	t.Health -= damage
	if t.Health > 0 {
		return false
	}
	t.Health = 0
	t.OnDestroyed.Invoke()
	return true
}

func (t *Target) Alive() bool {
	return t.MaxHealth <= 0 || t.Health > 0
}

// Reset implements engine.Resettable
func (t *Target) Reset() {
	t.Health = t.MaxHealth
	t.Hits = 0
}
