// Package badgerstore keeps option documents in an embedded BadgerDB.
package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"

	"quantwp/pkg/settings"
)

const keyPrefix = "option:"

var ErrOpen = errors.New("failed to open badger database")

type Store struct {
	db *badger.DB
}

// Open opens (or creates) the database in dir. An empty dir runs in memory.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpen, err)
	}
	return &Store{db: db}, nil
}

func optionKey(name string) []byte {
	return []byte(keyPrefix + name)
}

func (s *Store) Get(_ context.Context, name string) (map[string]interface{}, error) {
	values := map[string]interface{}{}
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(optionKey(name))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &values)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return map[string]interface{}{}, nil
	}
	if errors.Is(err, badger.ErrDBClosed) {
		return nil, settings.ErrStoreClosed
	}
	if err != nil {
		return nil, fmt.Errorf("read option %s: %w", name, err)
	}
	return values, nil
}

func (s *Store) Put(_ context.Context, name string, value map[string]interface{}) error {
	if name == "" {
		return settings.ErrOptionNameEmpty
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode option %s: %w", name, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(optionKey(name), raw)
	})
	if errors.Is(err, badger.ErrDBClosed) {
		return settings.ErrStoreClosed
	}
	if err != nil {
		return fmt.Errorf("write option %s: %w", name, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
