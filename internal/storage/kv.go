// Package storage provides the durable string key-value store the profile and
// analysis-cache documents are written to. Documents are read and written
// whole; there are no transactions.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/vladimiradmaev/fitscan-coach/internal/config"
	"github.com/vladimiradmaev/fitscan-coach/internal/database"
)

// ErrNotFound is returned by Get for absent keys.
var ErrNotFound = errors.New("storage: key not found")

// KV is a string-keyed store that survives restarts (except the memory driver).
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Open builds the store selected by cfg.Storage.Driver.
func Open(ctx context.Context, cfg *config.Config) (KV, error) {
	switch cfg.Storage.Driver {
	case DriverMemory:
		return NewMemoryStore(cfg.Storage.MemorySizeMB), nil
	case DriverFile:
		return OpenFileStore(cfg.Storage.FilePath)
	case DriverRedis:
		return NewRedisStore(ctx, cfg.Redis)
	case DriverPostgres:
		db, err := database.NewPostgresDB(cfg.DB)
		if err != nil {
			return nil, err
		}
		return NewPostgresStore(db), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
