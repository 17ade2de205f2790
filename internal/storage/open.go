// Package storage picks the notes backend named in the configuration.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/Dandandan2024/PropertyCalculator/internal/config"
	"github.com/Dandandan2024/PropertyCalculator/internal/database"
	"github.com/Dandandan2024/PropertyCalculator/internal/notes"
	"github.com/Dandandan2024/PropertyCalculator/internal/storage/gormstore"
	"github.com/Dandandan2024/PropertyCalculator/internal/storage/localstore"
	"github.com/Dandandan2024/PropertyCalculator/internal/storage/memory"
	"github.com/Dandandan2024/PropertyCalculator/internal/storage/postgres"
	"github.com/Dandandan2024/PropertyCalculator/internal/util"

	"gorm.io/gorm"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverLocal    = "local"
	DriverMemory   = "memory"
)

// Stores bundles the notes backend with the application database that
// holds audit rows and backup metadata.
type Stores struct {
	Notes notes.Backend
	DB    *gorm.DB

	closers []io.Closer
}

func (s *Stores) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Open initializes the application database and the configured notes backend.
func Open(ctx context.Context, cfg *config.Config, cipher *util.Cipher) (*Stores, error) {
	db, err := database.Init(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	s := &Stores{DB: db}
	if sqlDB, err := db.DB(); err == nil {
		s.closers = append(s.closers, sqlDB)
	}

	switch cfg.Database.Driver {
	case "", DriverSQLite:
		s.Notes = gormstore.NewNoteStore(db, cipher)
	case DriverPostgres:
		pg, err := database.OpenPostgres(cfg.Database)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.closers = append(s.closers, pg)
		store := postgres.NewNoteStore(pg)
		if err := store.Migrate(ctx); err != nil {
			s.Close()
			return nil, err
		}
		s.Notes = store
	case DriverLocal:
		kv, err := localstore.NewKV(cfg.Local.Dir)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.Notes = localstore.NewNoteStore(kv, cfg.Local.Seed)
	case DriverMemory:
		s.Notes = memory.NewNoteStore()
	default:
		s.Close()
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
	return s, nil
}
