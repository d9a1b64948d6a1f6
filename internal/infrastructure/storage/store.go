package storage

import (
	"context"
	"fmt"
	"strings"

	"NewsRelay/internal/config"
	"NewsRelay/internal/ports"
)

// Store is a dedup store that can also enumerate its records and be closed.
type Store interface {
	ports.DedupStore
	List(ctx context.Context) ([]string, error)
	Close() error
}

// Open builds the backend selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "file":
		path := cfg.Path
		if path == "" {
			path = config.DefaultStatePath()
		}
		return NewFileStore(path), nil
	case "sqlite":
		path := cfg.Path
		if path == "" {
			path = strings.TrimSuffix(config.DefaultStatePath(), ".txt") + ".db"
		}
		return OpenSQLite(ctx, path)
	case "postgres":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("postgres storage requires a dsn")
		}
		return OpenPostgres(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown storage driver %q (valid: file, sqlite, postgres)", cfg.Driver)
	}
}
