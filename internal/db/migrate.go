package db

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// MigrationStatus is the schema version reported by the "version" action.
type MigrationStatus struct {
	Version uint
	Dirty   bool
	Applied bool
}

// Migrate runs a golang-migrate action ("up", "down", "drop", "version")
// with SQL files from dir against dsn.
func Migrate(action, dir, dsn string) (MigrationStatus, error) {
	switch action {
	case "up", "down", "drop", "version":
	default:
		return MigrationStatus{}, fmt.Errorf("unsupported action %q", action)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return MigrationStatus{}, fmt.Errorf("resolve path for %s: %w", dir, err)
	}

	m, err := migrate.New("file://"+filepath.ToSlash(absDir), dsn)
	if err != nil {
		return MigrationStatus{}, fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	switch action {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return MigrationStatus{}, err
		}
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return MigrationStatus{}, err
		}
	case "drop":
		if err := m.Drop(); err != nil {
			return MigrationStatus{}, err
		}
		return MigrationStatus{}, nil
	}

	version, dirty, err := m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return MigrationStatus{}, nil
		}
		return MigrationStatus{}, err
	}
	return MigrationStatus{Version: version, Dirty: dirty, Applied: true}, nil
}
