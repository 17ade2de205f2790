// Package cli holds the homebook subcommands.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"

	"github.com/Dandandan2024/PropertyCalculator/internal/config"
	"github.com/Dandandan2024/PropertyCalculator/internal/notes"
	"github.com/Dandandan2024/PropertyCalculator/internal/storage"
	"github.com/Dandandan2024/PropertyCalculator/internal/util"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

var configPath = flag.String("config", "config.yaml", "Path to the configuration file")

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(&serveCmd{}, "")
	c.Register(&notesCmd{}, "notes")
	c.Register(&divideCmd{}, "division")
}

// loadConfig reads .env then the configuration file named by -config.
func loadConfig() (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return config.Read(*configPath)
}

// openNotes opens the configured backend and returns owner's store.
func openNotes(ctx context.Context, cfg *config.Config, owner string) (*notes.Store, func(), error) {
	cipher, err := util.NewCipher(cfg.Security.EncryptionKey)
	if err != nil {
		return nil, nil, err
	}
	stores, err := storage.Open(ctx, cfg, cipher)
	if err != nil {
		return nil, nil, err
	}
	store := notes.NewStore(stores.Notes, owner, notes.Options{})
	return store, func() { stores.Close() }, nil
}
