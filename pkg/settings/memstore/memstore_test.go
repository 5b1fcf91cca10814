package memstore

import (
	"context"
	"errors"
	"testing"

	"quantwp/pkg/settings"
)

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New()

	got, err := s.Get(ctx, settings.DefaultKey)
	if err != nil || len(got) != 0 {
		t.Fatalf("missing option should read empty, got %v, %v", got, err)
	}

	rec := settings.Default()
	rec.APIToken = "abc123"
	if err := settings.Save(ctx, s, settings.DefaultKey, rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if s.Writes() != 1 {
		t.Errorf("Writes() = %d, want 1", s.Writes())
	}

	loaded, err := settings.Load(ctx, s, settings.DefaultKey)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.APIToken != "abc123" {
		t.Errorf("APIToken = %q, want abc123", loaded.APIToken)
	}
}

func TestStoreIsolatesCallerMaps(t *testing.T) {
	ctx := context.Background()
	s := New()
	value := map[string]interface{}{"api_token": "a"}
	if err := s.Put(ctx, "k", value); err != nil {
		t.Fatal(err)
	}
	value["api_token"] = "mutated"

	got, _ := s.Get(ctx, "k")
	if got["api_token"] != "a" {
		t.Errorf("stored value changed through caller map: %v", got)
	}
}

func TestStoreClosed(t *testing.T) {
	s := New()
	_ = s.Close()
	if _, err := s.Get(context.Background(), "k"); !errors.Is(err, settings.ErrStoreClosed) {
		t.Errorf("Get after Close error = %v, want ErrStoreClosed", err)
	}
	if err := s.Put(context.Background(), "k", nil); !errors.Is(err, settings.ErrStoreClosed) {
		t.Errorf("Put after Close error = %v, want ErrStoreClosed", err)
	}
}
