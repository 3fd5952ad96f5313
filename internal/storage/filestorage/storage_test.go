package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pgm_storefront/internal/storage"
	filestorage "pgm_storefront/internal/storage/filestorage"
)

const pollInterval = 10 * time.Millisecond

func setupFileStorage(t *testing.T) (*filestorage.LocalFileStorage, string) {
	t.Helper()

	dir := t.TempDir()

	fs, err := filestorage.NewLocalFileStorage(dir, pollInterval)
	require.NoError(t, err)

	return fs, dir
}

func TestLocalFileStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	fs, dir := setupFileStorage(t)

	_, err := fs.Get(ctx, storage.KeyUser)
	require.ErrorIs(t, err, storage.ErrorNoSuchKey)

	require.NoError(t, fs.Set(ctx, map[string]string{
		storage.KeyAccessToken: "a1",
		storage.KeyLegacyToken: "a1",
	}))

	// A fresh handle on the same directory reads the persisted state.
	reopened, err := filestorage.NewLocalFileStorage(dir, pollInterval)
	require.NoError(t, err)

	v, err := reopened.Get(ctx, storage.KeyLegacyToken)
	require.NoError(t, err)
	assert.Equal(t, "a1", v)

	require.NoError(t, reopened.Delete(ctx, storage.KeyAccessToken, storage.KeyLegacyToken, "missing"))

	_, err = fs.Get(ctx, storage.KeyAccessToken)
	assert.ErrorIs(t, err, storage.ErrorNoSuchKey)
}

func TestLocalFileStorage_CorruptFile(t *testing.T) {
	fs, dir := setupFileStorage(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, filestorage.DefaultFileName), []byte("{"), 0o600))

	_, err := fs.Get(context.Background(), storage.KeyUser)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrorNoSuchKey)
}

func TestLocalFileStorage_WatchReportsOtherProcessWrites(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first, dir := setupFileStorage(t)
	second, err := filestorage.NewLocalFileStorage(dir, pollInterval)
	require.NoError(t, err)

	changes, err := first.Watch(ctx)
	require.NoError(t, err)

	// Own writes are not reported.
	require.NoError(t, first.Set(ctx, map[string]string{storage.KeyCartItems: "[]"}))
	require.NoError(t, second.Set(ctx, map[string]string{storage.KeyIsAuthentication: "true"}))

	select {
	case c := <-changes:
		assert.Equal(t, storage.Change{Key: storage.KeyIsAuthentication, Value: "true"}, c)
	case <-time.After(2 * time.Second):
		t.Fatal("change not observed")
	}

	require.NoError(t, second.Delete(ctx, storage.KeyIsAuthentication))

	select {
	case c := <-changes:
		assert.Equal(t, storage.Change{Key: storage.KeyIsAuthentication, Deleted: true}, c)
	case <-time.After(2 * time.Second):
		t.Fatal("delete not observed")
	}
}

func TestDiff(t *testing.T) {
	changes := filestorage.Diff(
		map[string]string{"a": "1", "b": "2", "c": "3"},
		map[string]string{"a": "1", "b": "20", "d": "4"},
	)

	assert.Equal(t, []storage.Change{
		{Key: "b", Value: "20"},
		{Key: "c", Deleted: true},
		{Key: "d", Value: "4"},
	}, changes)
}
