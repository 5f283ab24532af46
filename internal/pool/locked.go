package pool

import "sync"

// Locked serializes access to a Pool for callers that tick on several goroutines.
type Locked[T comparable] struct {
	mu sync.Mutex
	p  *Pool[T]
}

func NewLocked[T comparable](p *Pool[T]) *Locked[T] {
	return &Locked[T]{p: p}
}

func (l *Locked[T]) Acquire() T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.p.Acquire()
}

func (l *Locked[T]) Release(t T) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.p.Release(t)
}

func (l *Locked[T]) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.p.Stats()
}
