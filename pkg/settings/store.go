package settings

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrDecodeRecord    = errors.New("failed to decode settings record")
	ErrStoreClosed     = errors.New("settings store is closed")
	ErrUnknownDriver   = errors.New("unknown settings store driver")
	ErrOptionNameEmpty = errors.New("option name is empty")
)

// Store persists named option values as whole mappings. A missing option
// reads as an empty map, never as an error.
type Store interface {
	Get(ctx context.Context, name string) (map[string]interface{}, error)
	// Put replaces the whole value in a single write.
	Put(ctx context.Context, name string, value map[string]interface{}) error
	Close() error
}

// Load reads and decodes the record stored under name.
func Load(ctx context.Context, store Store, name string) (*Record, error) {
	values, err := store.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	rec, err := FromMap(values)
	if err != nil {
		return nil, fmt.Errorf("option %s: %w", name, err)
	}
	return rec, nil
}

// Save writes rec under name in one operation.
func Save(ctx context.Context, store Store, name string, rec *Record) error {
	return store.Put(ctx, name, rec.ToMap())
}

// SaveKeys writes the value rec was loaded from with only keys updated, in
// one operation.
func SaveKeys(ctx context.Context, store Store, name string, rec *Record, keys ...string) error {
	return store.Put(ctx, name, rec.Patch(keys...))
}
