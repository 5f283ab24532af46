// Package pool provides a soft-capped object pool for per-frame churn.
//
// Acquire never blocks or fails: when no idle instance exists a new one is
// created. The cap is enforced on the release path instead, where instances
// that would grow the idle set past MaxSize are evicted.
//
// A Pool is not safe for concurrent use. Wrap it in a Locked when ticks run
// on more than one goroutine.
package pool

import (
	"errors"
	"fmt"
	"log"
)

var (
	ErrNotOwned      = errors.New("instance not owned by pool")
	ErrDoubleRelease = errors.New("instance already released")
	ErrInvalidConfig = errors.New("invalid pool config")
	ErrDuplicate     = errors.New("Create returned an instance the pool already owns")
)

// Hooks are the per-type seams. Create is required; the rest are optional.
// OnAcquire and OnRelease must reset every mutable field the instance carries.
//
// Instances are tracked by value, so Create must return a distinct value on
// every call. In practice T is a pointer.
type Hooks[T any] struct {
	Create    func() T
	OnAcquire func(T)
	OnRelease func(T)
	OnEvict   func(T)
}

type Config struct {
	Name            string
	DefaultCapacity int // instances created up front
	MaxSize         int // idle-set cap enforced on release
	Strict          bool
}

type Stats struct {
	Idle      int
	Active    int
	Created   int
	Evicted   int
	HighWater int // most instances active at once
	Acquires  int
	Releases  int
}

type Pool[T comparable] struct {
	name    string
	hooks   Hooks[T]
	maxSize int
	strict  bool

	idle   []T
	active map[T]struct{}
	owned  map[T]struct{}
	closed bool

	stats      Stats
	loggedOver int
}

// New builds a pool and pre-warms it with DefaultCapacity idle instances.
func New[T comparable](cfg Config, hooks Hooks[T]) (*Pool[T], error) {
	if hooks.Create == nil {
		return nil, fmt.Errorf("pool %q: %w: Create hook is required", cfg.Name, ErrInvalidConfig)
	}
	if cfg.DefaultCapacity < 0 || cfg.MaxSize < cfg.DefaultCapacity {
		return nil, fmt.Errorf("pool %q: %w: capacity %d, max size %d", cfg.Name, ErrInvalidConfig, cfg.DefaultCapacity, cfg.MaxSize)
	}

	p := &Pool[T]{
		name:    cfg.Name,
		hooks:   hooks,
		maxSize: cfg.MaxSize,
		strict:  cfg.Strict,
		idle:    make([]T, 0, cfg.MaxSize),
		active:  make(map[T]struct{}, cfg.DefaultCapacity),
		owned:   make(map[T]struct{}, cfg.MaxSize),
	}
	for i := 0; i < cfg.DefaultCapacity; i++ {
		t, err := p.create()
		if err != nil {
			return nil, err
		}
		p.idle = append(p.idle, t)
	}
	log.Printf("Pool[%s]: pre-warmed %d instances (max %d)", p.name, cfg.DefaultCapacity, cfg.MaxSize)
	return p, nil
}

// MustNew is New for static configurations known to be valid.
func MustNew[T comparable](cfg Config, hooks Hooks[T]) *Pool[T] {
	p, err := New(cfg, hooks)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Pool[T]) create() (T, error) {
	t := p.hooks.Create()
	if _, dup := p.owned[t]; dup {
		var zero T
		return zero, fmt.Errorf("pool %q: %w: %v", p.name, ErrDuplicate, t)
	}
	p.owned[t] = struct{}{}
	p.stats.Created++
	return t, nil
}

// Acquire pops an idle instance, or creates one when none is idle.
// It panics if Create hands back an instance the pool already tracks.
func (p *Pool[T]) Acquire() T {
	var t T
	if n := len(p.idle); n > 0 {
		t = p.idle[n-1]
		var zero T
		p.idle[n-1] = zero
		p.idle = p.idle[:n-1]
	} else {
		var err error
		if t, err = p.create(); err != nil {
			panic(err)
		}
	}

	p.active[t] = struct{}{}
	p.stats.Acquires++
	if len(p.active) > p.stats.HighWater {
		p.stats.HighWater = len(p.active)
		if p.stats.HighWater > p.maxSize && p.stats.HighWater > p.loggedOver {
			p.loggedOver = p.stats.HighWater
			log.Printf("Pool[%s]: %d active, over soft cap %d", p.name, p.stats.HighWater, p.maxSize)
		}
	}

	if p.hooks.OnAcquire != nil {
		p.hooks.OnAcquire(t)
	}
	return t
}

// Release hands an active instance back. Instances that would push the idle set
// past MaxSize are evicted instead of parked.
//
// Releasing something the pool does not own, or releasing twice, returns an
// error in strict mode and is logged and ignored otherwise.
func (p *Pool[T]) Release(t T) error {
	if _, ok := p.active[t]; !ok {
		err := ErrNotOwned
		if _, owned := p.owned[t]; owned {
			err = ErrDoubleRelease
		}
		return p.reject(err)
	}

	delete(p.active, t)
	p.stats.Releases++
	if p.hooks.OnRelease != nil {
		p.hooks.OnRelease(t)
	}

	if p.closed || len(p.idle) >= p.maxSize {
		p.evict(t)
		return nil
	}
	p.idle = append(p.idle, t)
	return nil
}

func (p *Pool[T]) reject(err error) error {
	if p.strict {
		return fmt.Errorf("pool %q: %w", p.name, err)
	}
	log.Printf("Pool[%s]: ignored release: %v", p.name, err)
	return nil
}

func (p *Pool[T]) evict(t T) {
	delete(p.owned, t)
	p.stats.Evicted++
	if p.hooks.OnEvict != nil {
		p.hooks.OnEvict(t)
	}
}

// Shrink lowers the soft cap and evicts idle instances above it.
// Active instances are untouched and follow the new cap when released.
func (p *Pool[T]) Shrink(maxSize int) int {
	if maxSize < 0 {
		maxSize = 0
	}
	p.maxSize = maxSize
	evicted := 0
	for len(p.idle) > maxSize {
		n := len(p.idle)
		t := p.idle[n-1]
		var zero T
		p.idle[n-1] = zero
		p.idle = p.idle[:n-1]
		p.evict(t)
		evicted++
	}
	if evicted > 0 {
		log.Printf("Pool[%s]: shrunk to %d, evicted %d idle", p.name, maxSize, evicted)
	}
	return evicted
}

// Close evicts every idle instance. Instances still active are evicted when
// released. Acquire keeps working on a closed pool but never parks anything.
func (p *Pool[T]) Close() {
	if p.closed {
		return
	}
	p.closed = true
	n := p.Shrink(0)
	log.Printf("Pool[%s]: closed, evicted %d, %d still active", p.name, n, len(p.active))
}

// Owns reports whether t was created by this pool and has not been evicted.
func (p *Pool[T]) Owns(t T) bool {
	_, ok := p.owned[t]
	return ok
}

// IsActive reports whether t is currently acquired.
func (p *Pool[T]) IsActive(t T) bool {
	_, ok := p.active[t]
	return ok
}

func (p *Pool[T]) Name() string { return p.name }

func (p *Pool[T]) MaxSize() int { return p.maxSize }

func (p *Pool[T]) Closed() bool { return p.closed }

func (p *Pool[T]) Stats() Stats {
	s := p.stats
	s.Idle = len(p.idle)
	s.Active = len(p.active)
	return s
}
