package positions

import (
	"context"
	"testing"
	"time"
)

func TestCacheGetSet(t *testing.T) {
	c := NewCache()
	if _, ok := c.Get("a"); ok {
		t.Fatal("empty cache should miss")
	}
	c.Set("a", Position{X: 1, Y: 2})
	p, ok := c.Get("a")
	if !ok || p.X != 1 || p.Y != 2 {
		t.Errorf("Get(a) = %+v, %v", p, ok)
	}
	c.Set("a", Position{X: 3})
	if p, _ := c.Get("a"); p.X != 3 {
		t.Errorf("Set should overwrite, got %+v", p)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len after Clear = %d", c.Len())
	}
}

func TestHitRatio(t *testing.T) {
	c := NewCache()
	for _, id := range []string{"a", "b", "c", "d"} {
		c.Set(id, Position{})
	}

	tests := []struct {
		name string
		ids  []string
		want float64
	}{
		{"empty", nil, 0},
		{"all cached", []string{"a", "b"}, 1},
		{"none cached", []string{"x", "y"}, 0},
		{"four of five", []string{"a", "b", "c", "d", "e"}, 0.8},
		{"half", []string{"a", "x"}, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.HitRatio(tt.ids); got != tt.want {
				t.Errorf("HitRatio = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	c := NewCache()
	c.Set("a", Position{X: 1})
	snap := c.Snapshot()
	snap["a"] = Position{X: 99}
	if p, _ := c.Get("a"); p.X != 1 {
		t.Error("Snapshot should return a copy")
	}

	other := NewCache()
	other.Restore(c.Snapshot())
	if p, ok := other.Get("a"); !ok || p.X != 1 {
		t.Errorf("Restore = %+v, %v", p, ok)
	}
}

func TestInstancesAreIsolated(t *testing.T) {
	a, b := NewCache(), NewCache()
	a.Set("shared-id", Position{X: 5})
	if _, ok := b.Get("shared-id"); ok {
		t.Error("caches must not share entries")
	}
}

func TestKey(t *testing.T) {
	k1 := Key("letters-1520")
	k2 := Key("letters-1520")
	k3 := Key("letters-1521")
	if k1 != k2 {
		t.Error("Key should be deterministic")
	}
	if k1 == k3 {
		t.Error("different datasets should have different keys")
	}
	if len(k1) != len("positions:")+64 {
		t.Errorf("unexpected key length %d", len(k1))
	}
}

func TestNullStore(t *testing.T) {
	ctx := context.Background()
	s := NewNullStore()
	defer s.Close()

	if err := s.Save(ctx, "k", map[string]Position{"a": {}}, time.Hour); err != nil {
		t.Fatalf("Save: %v", err)
	}
	snap, hit, err := s.Load(ctx, "k")
	if err != nil || hit || snap != nil {
		t.Errorf("Load = %v, %v, %v; want miss", snap, hit, err)
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Errorf("Clear: %v", err)
	}
}
