//go:build integration

package txtt

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgresContainer creates an ephemeral PostgreSQL container for testing.
func setupPostgresContainer(t *testing.T) (string, func()) {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:15",
		postgres.WithDatabase("txtt_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	return connStr, func() { _ = container.Terminate(ctx) }
}

func TestPostgresStorage_E2E(t *testing.T) {
	connStr, cleanup := setupPostgresContainer(t)
	defer cleanup()

	t.Run("shared suite via driver registry", func(t *testing.T) {
		storage, err := OpenStorage(StorageDriverNamePostgres, connStr)
		require.NoError(t, err)
		runStorageSuite(t, storage)
	})

	t.Run("migrations are idempotent", func(t *testing.T) {
		storage, err := NewPostgresStorage(PostgresConfig{
			ConnectionString: connStr,
			AutoMigrate:      true,
			TablePrefix:      "again_",
		})
		require.NoError(t, err)
		defer storage.Close()

		ctx := context.Background()
		require.NoError(t, storage.RunMigrations(ctx))
		version, err := storage.CurrentSchemaVersion(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, version)
	})

	t.Run("resolve with stored state", func(t *testing.T) {
		storage, err := NewPostgresStorage(PostgresConfig{
			ConnectionString: connStr,
			AutoMigrate:      true,
			TablePrefix:      "resolve_",
		})
		require.NoError(t, err)
		defer storage.Close()

		ctx := context.Background()
		require.NoError(t, storage.Save(ctx, &StoredContentState{Name: "work", State: workedState()}))

		stored, err := storage.Get(ctx, "work")
		require.NoError(t, err)

		engine := newTestEngine(t)
		out, err := engine.Compile(workedExample, stored.State, NewVolatileContent().
			MapKey("testKey", "k").
			MapChoice("testOption", "testChoice"))
		require.NoError(t, err)
		assert.Equal(t, "key: k,\noption: my chosen content,\nconstant: my constant content", out)

		_, err = storage.Get(ctx, "missing")
		assert.True(t, errors.Is(err, ErrContentStateNotFound))
	})
}
