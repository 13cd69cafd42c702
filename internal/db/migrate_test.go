package db

import (
	"log/slog"
	"testing"
	"testing/fstest"

	"github.com/verzel/leadflow/internal/config"
)

func TestRunMigrateUnknownCommand(t *testing.T) {
	logger := slog.Default()
	cfg := config.PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "test",
		Password: "test",
		Database: "test",
		SSLMode:  "disable",
	}
	fsys := fstest.MapFS{
		"0001_init.up.sql": &fstest.MapFile{Data: []byte("SELECT 1;")},
	}

	err := RunMigrate(logger, cfg, fsys, "bogus", nil)
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
}

func TestRunMigrateForceRequiresVersion(t *testing.T) {
	logger := slog.Default()
	cfg := config.PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "test",
		Password: "test",
		Database: "test",
		SSLMode:  "disable",
	}
	fsys := fstest.MapFS{
		"0001_init.up.sql": &fstest.MapFile{Data: []byte("SELECT 1;")},
	}

	err := RunMigrate(logger, cfg, fsys, "force", nil)
	if err == nil {
		t.Fatal("expected error when force is missing a version argument")
	}
}
