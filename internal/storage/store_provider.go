package storage

import (
	"ecotrack/internal/providers"
	"ecotrack/internal/storage/interfaces"
	"ecotrack/internal/structures"
	"fmt"
)

// NewStoreProvider opens the backend selected by store.driver.
func NewStoreProvider(conf *structures.Config, logger providers.Logger) (interfaces.KeyValueStore, error) {
	switch conf.Store.Driver {
	case "memory":
		logger.Infof(providers.TypeApp, "Using in-memory store, data is lost on exit")
		return NewMemoryStore(), nil
	case "none":
		logger.Warnf(providers.TypeApp, "Store disabled, every mutation is a no-op")
		return UnavailableStore{}, nil
	case "file":
		var compressor interfaces.CompressorInterface
		if conf.Store.Compress {
			c, err := NewZstdCompressor()
			if err != nil {
				return nil, err
			}
			compressor = c
		}
		store, err := NewFileStore(conf.Store.Path, compressor, logger)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		logger.Infof(providers.TypeApp, "Using file store %s", conf.Store.Path)
		return store, nil
	case "sqlite":
		store, err := OpenSQLiteStore(conf.Store.Path)
		if err != nil {
			return nil, err
		}
		logger.Infof(providers.TypeApp, "Using sqlite store %s", conf.Store.Path)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", conf.Store.Driver)
	}
}
