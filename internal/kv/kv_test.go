package kv

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		kind    string
		wantErr bool
	}{
		{KindSQLite, false},
		{"", false},
		{KindFile, false},
		{KindMemory, false},
		{"redis", true},
	}
	for _, tt := range tests {
		name := tt.kind
		if name == "" {
			name = "default"
		}
		t.Run(name, func(t *testing.T) {
			b, err := Open(tt.kind, t.TempDir())
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Open(%q) error = nil, want error", tt.kind)
				}
				return
			}
			if err != nil {
				t.Fatalf("Open(%q) error = %v", tt.kind, err)
			}
			defer b.Close()

			ctx := context.Background()
			if err := b.Set(ctx, "k", "v"); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			value, ok, err := b.Get(ctx, "k")
			if err != nil || !ok || value != "v" {
				t.Errorf("Get() = %q, ok=%v, err=%v; want v", value, ok, err)
			}
		})
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if _, ok, err := m.Get(ctx, "k"); err != nil || ok {
		t.Fatalf("Get(missing) = ok=%v, err=%v; want absent", ok, err)
	}
	if err := m.Set(ctx, "k", "v1"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := m.Set(ctx, "k", "v2"); err != nil {
		t.Fatalf("Set(replace) error = %v", err)
	}
	value, ok, _ := m.Get(ctx, "k")
	if !ok || value != "v2" {
		t.Errorf("Get() = %q, ok=%v; want v2", value, ok)
	}
	if err := m.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Error("key still present after delete")
	}
}

func TestMemoryContextCanceled(t *testing.T) {
	m := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := m.Set(ctx, "k", "v"); err == nil {
		t.Error("Set() with canceled context error = nil, want error")
	}
}

func TestExportsDir(t *testing.T) {
	if got := ExportsDir("/data/.padfav"); got != filepath.Join("/data/.padfav", "exports") {
		t.Errorf("ExportsDir() = %q", got)
	}
}
