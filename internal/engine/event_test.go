package engine

import "testing"

func TestEventInvokeOrder(t *testing.T) {
	var e Event
	var order []int
	e.AddListener(func() { order = append(order, 1) })
	e.AddListener(nil)
	e.AddListener(func() { order = append(order, 2) })

	e.Invoke()

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("Expected [1 2], got %v", order)
	}
	if e.GetListenerCount() != 2 {
		t.Errorf("Expected 2 listeners, got %d", e.GetListenerCount())
	}
}

func TestEventWithArg(t *testing.T) {
	var e EventWithArg[int]
	sum := 0
	e.AddListener(func(v int) { sum += v })
	e.AddListener(func(v int) { sum += v * 10 })

	e.Invoke(2)
	if sum != 22 {
		t.Errorf("Expected 22, got %d", sum)
	}

	e.RemoveAllListeners()
	e.Invoke(5)
	if sum != 22 {
		t.Errorf("Listeners should be cleared, got sum %d", sum)
	}
}

func TestEventRemoveListener(t *testing.T) {
	var e Event
	calls := 0
	first := e.AddListener(func() { calls++ })
	e.AddListener(func() { calls += 10 })

	if first == 0 {
		t.Fatal("Expected a non-zero listener handle")
	}
	if !e.RemoveListener(first) {
		t.Error("Expected the first listener to be removed")
	}
	if e.RemoveListener(first) {
		t.Error("Removing twice should report false")
	}
	if e.AddListener(nil) != 0 {
		t.Error("Nil callback should yield the zero handle")
	}

	e.Invoke()
	if calls != 10 {
		t.Errorf("Expected only the second listener to run, got %d", calls)
	}
}

func TestEventRemoveDuringInvoke(t *testing.T) {
	var e EventWithArg[string]
	var seen []string
	var once Listener
	once = e.AddListener(func(s string) {
		seen = append(seen, "once:"+s)
		e.RemoveListener(once)
	})
	e.AddListener(func(s string) { seen = append(seen, "always:"+s) })

	e.Invoke("a")
	e.Invoke("b")

	want := []string{"once:a", "always:a", "always:b"}
	if len(seen) != len(want) {
		t.Fatalf("Expected %v, got %v", want, seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, seen)
			break
		}
	}
}

func TestLayerMatches(t *testing.T) {
	tests := []struct {
		layer Layer
		mask  Layer
		want  bool
	}{
		{LayerTerrain, LayerAll, true},
		{LayerTerrain, LayerTerrain | LayerTarget, true},
		{LayerTarget, LayerTerrain, false},
		{LayerDefault, LayerNone, false},
	}
	for _, tt := range tests {
		if got := tt.layer.Matches(tt.mask); got != tt.want {
			t.Errorf("Layer(%b).Matches(%b) = %v, want %v", tt.layer, tt.mask, got, tt.want)
		}
	}
}
