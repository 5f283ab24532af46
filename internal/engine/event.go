package engine

// Listener identifies one subscription. The zero value is never handed out.
type Listener uint64

type subscription[T any] struct {
	id Listener
	fn func(T)
}

// EventWithArg is a multi-cast event carrying one value. Listeners run in
// subscription order. Listeners added or removed while the event is being
// invoked take effect from the next Invoke.
type EventWithArg[T any] struct {
	subs []subscription[T]
	next Listener
}

// AddListener subscribes callback and returns the handle that removes it.
// A nil callback is ignored and yields the zero Listener.
func (e *EventWithArg[T]) AddListener(callback func(T)) Listener {
	if callback == nil {
		return 0
	}
	e.next++
	e.subs = append(e.subs, subscription[T]{id: e.next, fn: callback})
	return e.next
}

// RemoveListener drops the subscription behind id. It reports false when id is
// unknown or already removed.
func (e *EventWithArg[T]) RemoveListener(id Listener) bool {
	for i, s := range e.subs {
		if s.id != id {
			continue
		}
		kept := make([]subscription[T], 0, len(e.subs)-1)
		kept = append(kept, e.subs[:i]...)
		e.subs = append(kept, e.subs[i+1:]...)
		return true
	}
	return false
}

func (e *EventWithArg[T]) RemoveAllListeners() {
	e.subs = nil
}

func (e *EventWithArg[T]) Invoke(arg T) {
	subs := e.subs[:len(e.subs):len(e.subs)]
	for _, s := range subs {
		s.fn(arg)
	}
}

func (e *EventWithArg[T]) GetListenerCount() int {
	return len(e.subs)
}

// Event is an EventWithArg without a payload.
type Event struct {
	inner EventWithArg[struct{}]
}

func (e *Event) AddListener(callback func()) Listener {
	if callback == nil {
		return 0
	}
	return e.inner.AddListener(func(struct{}) { callback() })
}

func (e *Event) RemoveListener(id Listener) bool {
	return e.inner.RemoveListener(id)
}

func (e *Event) RemoveAllListeners() {
	e.inner.RemoveAllListeners()
}

func (e *Event) Invoke() {
	e.inner.Invoke(struct{}{})
}

func (e *Event) GetListenerCount() int {
	return e.inner.GetListenerCount()
}
