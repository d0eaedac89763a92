// Package backend creates record store backends from configuration.
package backend

import (
	"context"
	"fmt"

	"fintrack/internal/store"
	"fintrack/internal/store/memory"
	"fintrack/internal/store/mongo"
	"fintrack/internal/store/sqlite"
)

// Result contains the store instance and its cleanup function.
type Result struct {
	Store   store.RecordStore
	Cleanup func(ctx context.Context) error
}

// New creates a record store for the configured backend type.
func New(ctx context.Context, cfg Config) (*Result, error) {
	switch cfg.Type {
	case Memory:
		s := memory.New()
		return &Result{Store: s, Cleanup: s.Close}, nil

	case SQLite:
		if cfg.SQLiteDBPath == "" {
			return nil, fmt.Errorf("sqlite backend requires a database path")
		}
		s, err := sqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("create sqlite store: %w", err)
		}
		return &Result{Store: s, Cleanup: s.Close}, nil

	case Mongo:
		if cfg.MongoURI == "" || cfg.MongoDatabase == "" {
			return nil, fmt.Errorf("mongo backend requires a URI and a database name")
		}
		s, err := mongo.New(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("create mongo store: %w", err)
		}
		return &Result{Store: s, Cleanup: s.Close}, nil

	default:
		return nil, fmt.Errorf("unknown backend type %q", cfg.Type)
	}
}
