package sqlstore

import (
	"context"
	"path/filepath"
	"testing"

	"quantwp/pkg/settings"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "options.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGetMissingOption(t *testing.T) {
	s := openTestStore(t)
	values, err := s.Get(context.Background(), settings.DefaultKey)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(values) != 0 {
		t.Errorf("expected empty map, got %v", values)
	}
}

func TestPutUpserts(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if err := s.Put(ctx, settings.DefaultKey, map[string]interface{}{"api_token": "old", "enabled": 0}); err != nil {
		t.Fatalf("first Put() error = %v", err)
	}
	if err := s.Put(ctx, settings.DefaultKey, map[string]interface{}{"api_token": "new", "enabled": 1}); err != nil {
		t.Fatalf("second Put() error = %v", err)
	}

	rec, err := settings.Load(ctx, s, settings.DefaultKey)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if rec.APIToken != "new" || rec.Enabled != 1 {
		t.Errorf("got token=%q enabled=%d, want new/1", rec.APIToken, rec.Enabled)
	}

	var count int64
	s.db.Table("options").Where("name = ?", settings.DefaultKey).Count(&count)
	if count != 1 {
		t.Errorf("expected a single option row, got %d", count)
	}
}

func TestPutRejectsEmptyName(t *testing.T) {
	s := openTestStore(t)
	if err := s.Put(context.Background(), "", nil); err == nil {
		t.Error("expected error for empty option name")
	}
}
