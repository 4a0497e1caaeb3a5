package cache

import (
	"testing"
	"time"
)

func TestGetEmpty(t *testing.T) {
	c := New[[]string](5 * time.Minute)

	got, ok := c.Get()
	if ok {
		t.Error("Get() on empty cache reported a hit")
	}
	if got != nil {
		t.Errorf("Get() on empty cache = %v, want nil", got)
	}
}

func TestSetGet(t *testing.T) {
	c := New[[]string](5 * time.Minute)
	c.Set([]string{"a", "b"})

	got, ok := c.Get()
	if !ok {
		t.Fatal("Get() missed after Set")
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Get() = %v, want [a b]", got)
	}
}

func TestInvalidate(t *testing.T) {
	c := New[int](5 * time.Minute)
	c.Set(42)
	c.Invalidate()

	if _, ok := c.Get(); ok {
		t.Error("Get() hit after Invalidate")
	}
}

func TestTTLExpiry(t *testing.T) {
	c := New[int](5 * time.Minute)

	current := time.Unix(1700000000, 0)
	c.now = func() time.Time { return current }

	c.Set(7)
	if _, ok := c.Get(); !ok {
		t.Fatal("Get() missed immediately after Set")
	}

	// Just inside the window
	current = current.Add(5*time.Minute - time.Second)
	if _, ok := c.Get(); !ok {
		t.Error("Get() missed inside the TTL window")
	}

	// Past the window
	current = current.Add(2 * time.Second)
	if _, ok := c.Get(); ok {
		t.Error("Get() hit past the TTL window")
	}
}

func TestSetRestartsWindow(t *testing.T) {
	c := New[int](time.Minute)

	current := time.Unix(1700000000, 0)
	c.now = func() time.Time { return current }

	c.Set(1)
	current = current.Add(50 * time.Second)
	c.Set(2)
	current = current.Add(50 * time.Second)

	got, ok := c.Get()
	if !ok {
		t.Fatal("Get() missed although the window was restarted by the second Set")
	}
	if got != 2 {
		t.Errorf("Get() = %d, want 2", got)
	}
}

func TestZeroTTLNeverExpires(t *testing.T) {
	c := New[int](0)

	current := time.Unix(1700000000, 0)
	c.now = func() time.Time { return current }

	c.Set(9)
	current = current.Add(1000 * time.Hour)

	if _, ok := c.Get(); !ok {
		t.Error("Get() missed with zero TTL")
	}
}
