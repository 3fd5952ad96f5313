package postgresql

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"pgm_storefront/internal/storage"
)

func setupTestDB(t *testing.T) string {
	if testing.Short() {
		t.Skip("postgres container test skipped in short mode")
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = pgContainer.Terminate(ctx)
	})

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)

	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())
}

func TestStorage(t *testing.T) {
	dsn := setupTestDB(t)
	ctx := context.Background()

	first, err := New(ctx, dsn)
	require.NoError(t, err)
	defer first.Stop()
	require.NoError(t, first.Migrate(ctx))

	second, err := New(ctx, dsn)
	require.NoError(t, err)
	defer second.Stop()

	token := gofakeit.UUID()

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, first.Set(ctx, map[string]string{
			storage.KeyAccessToken: token,
			storage.KeyLegacyToken: token,
		}))

		v, err := second.Get(ctx, storage.KeyLegacyToken)
		require.NoError(t, err)
		assert.Equal(t, token, v)
	})

	t.Run("upsert", func(t *testing.T) {
		require.NoError(t, first.Set(ctx, map[string]string{storage.KeyAccessToken: "next"}))

		v, err := first.Get(ctx, storage.KeyAccessToken)
		require.NoError(t, err)
		assert.Equal(t, "next", v)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, first.Delete(ctx, storage.KeyAccessToken, storage.KeyLegacyToken))
		require.NoError(t, first.Delete(ctx, storage.KeyAccessToken))

		_, err := first.Get(ctx, storage.KeyAccessToken)
		assert.ErrorIs(t, err, storage.ErrorNoSuchKey)
	})

	t.Run("watch", func(t *testing.T) {
		wctx, cancel := context.WithCancel(ctx)
		defer cancel()

		changes, err := second.Watch(wctx)
		require.NoError(t, err)

		require.NoError(t, first.Set(ctx, map[string]string{storage.KeyIsAuthentication: "true"}))

		select {
		case c := <-changes:
			assert.Equal(t, storage.Change{Key: storage.KeyIsAuthentication, Value: "true"}, c)
		case <-time.After(5 * time.Second):
			t.Fatal("notification not received")
		}
	})
}
