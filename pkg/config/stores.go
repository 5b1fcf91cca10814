package config

import (
	"fmt"

	"quantwp/pkg/settings"
	"quantwp/pkg/settings/badgerstore"
	"quantwp/pkg/settings/memstore"
	"quantwp/pkg/settings/sqlstore"
)

// OpenStore creates the option store selected by cfg.Driver
func OpenStore(cfg *StoreConfig) (settings.Store, error) {
	switch cfg.Driver {
	case "sqlite", "":
		s, err := sqlstore.Open(cfg.DSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "badger":
		s, err := badgerstore.Open(cfg.DSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "memory":
		return memstore.New(), nil
	default:
		return nil, fmt.Errorf("%w: %q", settings.ErrUnknownDriver, cfg.Driver)
	}
}
