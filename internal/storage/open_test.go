package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Dandandan2024/PropertyCalculator/internal/config"
	"github.com/Dandandan2024/PropertyCalculator/internal/storage/gormstore"
	"github.com/Dandandan2024/PropertyCalculator/internal/storage/localstore"
	"github.com/Dandandan2024/PropertyCalculator/internal/storage/memory"
)

func testConfig(t *testing.T, driver string) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		Database: config.DatabaseConfig{Driver: driver, Path: filepath.Join(dir, "app.db")},
		Local:    config.LocalConfig{Dir: filepath.Join(dir, "local")},
	}
}

func TestOpen_Drivers(t *testing.T) {
	cases := []struct {
		driver string
		check  func(any) bool
	}{
		{"sqlite", func(b any) bool { _, ok := b.(*gormstore.NoteStore); return ok }},
		{"", func(b any) bool { _, ok := b.(*gormstore.NoteStore); return ok }},
		{"local", func(b any) bool { _, ok := b.(*localstore.NoteStore); return ok }},
		{"memory", func(b any) bool { _, ok := b.(*memory.NoteStore); return ok }},
	}
	for _, c := range cases {
		s, err := Open(context.Background(), testConfig(t, c.driver), nil)
		if err != nil {
			t.Fatalf("Open(%q) error = %v", c.driver, err)
		}
		if !c.check(s.Notes) {
			t.Errorf("Open(%q) backend = %T", c.driver, s.Notes)
		}
		if s.DB == nil {
			t.Errorf("Open(%q) DB = nil", c.driver)
		}
		s.Close()
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), testConfig(t, "mongo"), nil); err == nil {
		t.Error("Open(mongo) error = nil, want error")
	}
}
