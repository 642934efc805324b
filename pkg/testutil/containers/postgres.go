//go:build integration

package containers

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"stellariq/internal/platform/postgres"
)

// Postgres is a throwaway PostgreSQL 16 database opened through postgres.Open.
type Postgres struct {
	DSN string
	DB  *sql.DB
}

// NewPostgres starts the container and connects. Everything is released on test cleanup.
func NewPostgres(t *testing.T) *Postgres {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("stellariq"),
		tcpostgres.WithUsername("stellariq"),
		tcpostgres.WithPassword("stellariq"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "postgres connection string")

	db, err := postgres.Open(ctx, dsn)
	require.NoError(t, err, "connect to postgres")
	t.Cleanup(func() { _ = db.Close() })

	return &Postgres{DSN: dsn, DB: db}
}

// Truncate empties the named tables.
func (p *Postgres) Truncate(t *testing.T, tables ...string) {
	t.Helper()
	for _, table := range tables {
		_, err := p.DB.Exec("TRUNCATE " + table)
		require.NoError(t, err, "truncate %s", table)
	}
}
