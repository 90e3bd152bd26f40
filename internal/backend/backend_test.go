package backend

import (
	"context"
	"testing"
)

func TestTypeIsValid(t *testing.T) {
	tests := []struct {
		typ   Type
		valid bool
	}{
		{SQLiteBackend, true},
		{RedisBackend, true},
		{MemoryBackend, true},
		{Type("sheets"), false},
		{Type(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			if got := tt.typ.IsValid(); got != tt.valid {
				t.Errorf("IsValid(%q) = %v, want %v", tt.typ, got, tt.valid)
			}
		})
	}
}

func TestCreateMemoryBackend(t *testing.T) {
	factory := NewFactory(nil)

	result, err := factory.CreateBackend(context.Background(), Config{Type: MemoryBackend})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	if result.KV == nil {
		t.Fatal("memory backend returned nil store")
	}
	if result.Cleanup != nil {
		t.Fatal("memory backend needs no cleanup")
	}

	ctx := context.Background()
	if err := result.KV.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, ok, err := result.KV.Get(ctx, "k"); err != nil || !ok || v != "v" {
		t.Fatalf("get = %q, %v, %v", v, ok, err)
	}
}

func TestCreateBackendRejectsUnknownType(t *testing.T) {
	factory := NewFactory(nil)

	if _, err := factory.CreateBackend(context.Background(), Config{Type: "csv"}); err == nil {
		t.Fatal("expected error for unknown backend type")
	}
}

func TestCreateSQLiteBackend(t *testing.T) {
	factory := NewFactory(nil)

	result, err := factory.CreateBackend(context.Background(), Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: t.TempDir() + "/test.db",
	})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	defer result.Cleanup()

	ctx := context.Background()
	if err := result.KV.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, ok, err := result.KV.Get(ctx, "k"); err != nil || !ok || v != "v" {
		t.Fatalf("get = %q, %v, %v", v, ok, err)
	}
}
