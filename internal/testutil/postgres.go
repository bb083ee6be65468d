// Package testutil starts throwaway Postgres and RabbitMQ containers for the
// integration tests.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/db"
)

const (
	dbUser     = "storefront_user"
	dbPassword = "storefront_pass"
	dbName     = "storefront"
)

// Postgres is a migrated database reachable through both the database/sql
// handle and the pgx pool.
type Postgres struct {
	DSN  string
	DB   *sql.DB
	Pool *pgxpool.Pool
}

// StartPostgres launches a Postgres container, applies the embedded
// migrations and registers cleanup with t.
func StartPostgres(t *testing.T) *Postgres {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancel)

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     dbUser,
			"POSTGRES_PASSWORD": dbPassword,
			"POSTGRES_DB":       dbName,
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(90 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cleanupCancel()
		_ = container.Terminate(cleanupCtx)
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	mappedPort, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", dbUser, dbPassword, host, mappedPort.Port(), dbName)

	require.NoError(t, db.RunMigrations(dsn, zap.NewNop()))

	sqlDB, err := db.Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	pool, err := db.NewPool(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return &Postgres{DSN: dsn, DB: sqlDB, Pool: pool}
}

// Seed runs statements in order, failing the test on the first error.
func (p *Postgres) Seed(t *testing.T, stmts ...string) {
	t.Helper()
	for _, s := range stmts {
		_, err := p.DB.Exec(s)
		require.NoError(t, err, s)
	}
}
