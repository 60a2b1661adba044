package testdb

import (
	"context"
	"sync"
	"testing"

	"github.com/disha2301/employee-payroll-application/internal/db"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
)

var (
	sharedContainer *PostgresContainer
	sharedMu        sync.Mutex
)

// PostgresContainer wraps the postgres testcontainer
type PostgresContainer struct {
	Container *postgres.PostgresContainer
	DB        *bun.DB
	DSN       string
}

// SetupSharedPostgres starts one PostgreSQL container per test binary and
// hands the same instance to every caller. Tests using it must not run in
// parallel. It skips under -short or without a container runtime.
//
// Usage:
//
//	func TestMyRepo(t *testing.T) {
//	    pg := testdb.SetupSharedPostgres(t)
//	    defer pg.Cleanup(t)
//
//	    pg.RunMigrations(t, (*MyModel)(nil))
//
//	    t.Run("Case", func(t *testing.T) {
//	        testdb.CleanupTables(t, pg.DB, "my_table")
//	    })
//	}
func SetupSharedPostgres(t *testing.T) *PostgresContainer {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedContainer != nil {
		return sharedContainer
	}

	ctx := context.Background()
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2),
		),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	database, err := db.NewWithDSN(ctx, connStr)
	require.NoError(t, err)

	sharedContainer = &PostgresContainer{
		Container: pgContainer,
		DB:        database,
		DSN:       connStr,
	}
	return sharedContainer
}

// Cleanup closes the pool and terminates the container. Call it once, at
// the top level of the test that set it up.
func (pc *PostgresContainer) Cleanup(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	sharedMu.Lock()
	if sharedContainer == pc {
		sharedContainer = nil
	}
	sharedMu.Unlock()

	db.Close(pc.DB)

	if pc.Container != nil {
		if err := pc.Container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
}

// RunMigrations creates the tables for models straight from their bun tags.
func (pc *PostgresContainer) RunMigrations(t *testing.T, models ...interface{}) {
	t.Helper()

	err := db.CreateTables(context.Background(), pc.DB, models...)
	require.NoError(t, err, "failed to create tables")
}

// ApplySQLMigrations runs the golang-migrate files in dir up to the latest version.
func (pc *PostgresContainer) ApplySQLMigrations(t *testing.T, dir string) {
	t.Helper()

	_, err := db.Migrate("up", dir, pc.DSN)
	require.NoError(t, err, "failed to apply migrations from %s", dir)
}

func CleanupTables(t *testing.T, database *bun.DB, tables ...string) {
	t.Helper()

	ctx := context.Background()

	for _, table := range tables {
		_, err := database.ExecContext(ctx, "TRUNCATE "+table+" RESTART IDENTITY CASCADE")
		require.NoError(t, err, "failed to truncate table: %s", table)
	}
}
