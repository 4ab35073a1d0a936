package configstore

import (
	"fmt"
	"io"

	"github.com/nhle/exchange-connect/internal/credential"
	"github.com/nhle/exchange-connect/internal/model"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open builds the store selected by cfg.Backend. The returned Closer
// releases backend resources and is always non-nil on success.
func Open(cfg model.StoreConfig, kr model.KeyringConfig) (WritableStore, io.Closer, error) {
	switch cfg.Backend {
	case "", "file":
		return NewFileStore(cfg.Root), nopCloser{}, nil
	case "sqlite":
		s, err := NewSQLiteStore(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case "keyring":
		ring, err := credential.Open(kr)
		if err != nil {
			return nil, nil, err
		}
		return NewKeyringStore(ring), nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
