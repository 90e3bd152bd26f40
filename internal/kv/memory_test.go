package kv

import (
	"context"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, found, err := m.Get(ctx, "missing"); err != nil || found {
		t.Fatalf("Get(missing) = found=%v err=%v, want absent", found, err)
	}

	if err := m.Set(ctx, "k", "v1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, found, _ := m.Get(ctx, "k"); !found || v != "v1" {
		t.Fatalf("Get(k) = %q found=%v, want v1", v, found)
	}

	// Overwrite
	if err := m.Set(ctx, "k", "v2"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, _, _ := m.Get(ctx, "k"); v != "v2" {
		t.Fatalf("Get(k) after overwrite = %q, want v2", v)
	}

	if err := m.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found, _ := m.Get(ctx, "k"); found {
		t.Fatalf("key still present after delete")
	}
}
