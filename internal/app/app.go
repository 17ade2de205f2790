// Package app wires configuration, storage, events and the HTTP router into
// a runnable server. The root main and the CLI's serve command share it.
package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/Dandandan2024/PropertyCalculator/internal/config"
	"github.com/Dandandan2024/PropertyCalculator/internal/division"
	"github.com/Dandandan2024/PropertyCalculator/internal/events"
	"github.com/Dandandan2024/PropertyCalculator/internal/events/kafka"
	"github.com/Dandandan2024/PropertyCalculator/internal/notes"
	"github.com/Dandandan2024/PropertyCalculator/internal/router"
	"github.com/Dandandan2024/PropertyCalculator/internal/storage"
	"github.com/Dandandan2024/PropertyCalculator/internal/util"

	"github.com/gin-gonic/gin"
)

type App struct {
	Config    *config.Config
	Cipher    *util.Cipher
	Stores    *storage.Stores
	Publisher events.Publisher
	Notes     *notes.Registry
	Division  *division.Registry
}

// New opens storage and builds the registries. Close releases what it opened.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := EnsureDirs(cfg); err != nil {
		return nil, err
	}

	if cfg.JWT.Secret == "" {
		secret, err := util.RandomString(48)
		if err != nil {
			return nil, fmt.Errorf("generate jwt secret: %w", err)
		}
		log.Println("jwt.secret is empty, using a random secret; sessions end on restart")
		cfg.JWT.Secret = secret
	}

	cipher, err := util.NewCipher(cfg.Security.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	if !cipher.Enabled() {
		log.Println("security.encryption_key is empty, notes and backups are stored in clear text")
	}

	stores, err := storage.Open(ctx, cfg, cipher)
	if err != nil {
		return nil, err
	}

	var pub events.Publisher = events.Nop{}
	if len(cfg.Events.Brokers) > 0 {
		pub = kafka.NewPublisher(cfg.Events.Brokers, cfg.Events.Topic)
		log.Printf("publishing note events to %v topic %s", cfg.Events.Brokers, cfg.Events.Topic)
	}

	return &App{
		Config:    cfg,
		Cipher:    cipher,
		Stores:    stores,
		Publisher: pub,
		Notes:     notes.NewRegistry(stores.Notes, notes.Options{Publisher: pub}),
		Division:  division.NewRegistry(),
	}, nil
}

func (a *App) Router() *gin.Engine {
	return router.SetupRouter(a.Config, router.Deps{
		DB:       a.Stores.DB,
		Cipher:   a.Cipher,
		Notes:    a.Notes,
		Division: a.Division,
	})
}

// Run serves HTTP until the listener fails.
func (a *App) Run() error {
	addr := fmt.Sprintf("%s:%d", a.Config.Server.Address, a.Config.Server.Port)
	log.Printf("server listening on %s (notes driver %s)", addr, a.Config.Database.Driver)
	return a.Router().Run(addr)
}

func (a *App) Close() error {
	var first error
	if c, ok := a.Publisher.(io.Closer); ok {
		first = c.Close()
	}
	if err := a.Stores.Close(); err != nil && first == nil {
		first = err
	}
	return first
}

// EnsureDirs creates the data, log and backup directories.
func EnsureDirs(cfg *config.Config) error {
	dirs := []string{
		filepath.Dir(cfg.Database.Path),
		filepath.Dir(cfg.Log.File),
		cfg.Backup.Dir,
	}
	if cfg.Database.Driver == storage.DriverLocal {
		dirs = append(dirs, cfg.Local.Dir)
	}
	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir %s: %w", dir, err)
		}
	}
	return nil
}

// SetupLogging sends the standard logger and gin's request log to stderr
// and to log.file. The returned closer closes the file. Level "debug" adds
// file:line to log lines.
func SetupLogging(cfg *config.Config) (io.Closer, error) {
	if cfg.Log.Level == "debug" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}
	if cfg.Log.File == "" {
		return io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	w := io.MultiWriter(os.Stderr, f)
	log.SetOutput(w)
	gin.DefaultWriter = w
	gin.DefaultErrorWriter = w
	return f, nil
}
