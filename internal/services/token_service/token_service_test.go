package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pgm_storefront/internal/lib/jwt"
	"pgm_storefront/internal/lib/logger/handlers/slogdiscard"
	"pgm_storefront/internal/storage"
	"pgm_storefront/internal/storage/memory"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) Set(ctx context.Context, values map[string]string) error {
	args := m.Called(ctx, values)
	return args.Error(0)
}

func (m *MockStorage) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *MockStorage) Watch(ctx context.Context) (<-chan storage.Change, error) {
	args := m.Called(ctx)
	return args.Get(0).(<-chan storage.Change), args.Error(1)
}

var testCtx = context.Background()

func newStore(st storage.Storage) *TokenStore {
	return NewTokenStore(slogdiscard.NewDiscardLogger(), st)
}

func TestTokenStore_RoundTripAcrossFreshInstance(t *testing.T) {
	st := memory.New()

	require.NoError(t, newStore(st).SetTokens(testCtx, "a1", "r1"))

	fresh := newStore(st)
	assert.Equal(t, "a1", fresh.AccessToken(testCtx))
	assert.Equal(t, "r1", fresh.RefreshToken(testCtx))

	for _, key := range []string{storage.KeyAccessToken, storage.KeyLegacyToken} {
		v, err := st.Get(testCtx, key)
		require.NoError(t, err)
		assert.Equal(t, "a1", v)
	}
}

func TestTokenStore_LegacyKeyFallback(t *testing.T) {
	st := memory.New()
	require.NoError(t, st.Set(testCtx, map[string]string{
		storage.KeyAccessToken: "   ",
		storage.KeyLegacyToken: "legacy",
	}))

	assert.Equal(t, "legacy", newStore(st).AccessToken(testCtx))
}

func TestTokenStore_SetTokensKeepsRefreshWhenEmpty(t *testing.T) {
	st := memory.New()
	tokens := newStore(st)

	require.NoError(t, tokens.SetTokens(testCtx, "a1", "r1"))
	require.NoError(t, tokens.SetTokens(testCtx, "a2", ""))

	assert.Equal(t, "a2", tokens.AccessToken(testCtx))
	assert.Equal(t, "r1", tokens.RefreshToken(testCtx))
	assert.Equal(t, "r1", newStore(st).RefreshToken(testCtx))
}

func TestTokenStore_SetTokensRejectsEmptyAccess(t *testing.T) {
	tokens := newStore(memory.New())

	err := tokens.SetTokens(testCtx, " ", "r1")
	assert.ErrorIs(t, err, ErrEmptyAccessToken)
	assert.Empty(t, tokens.RefreshToken(testCtx))
}

func TestTokenStore_ClearTokensIsIdempotent(t *testing.T) {
	st := memory.New()
	tokens := newStore(st)

	require.NoError(t, tokens.SetTokens(testCtx, "a1", "r1"))
	require.NoError(t, tokens.ClearTokens(testCtx))
	require.NoError(t, tokens.ClearTokens(testCtx))

	assert.Empty(t, tokens.AccessToken(testCtx))
	assert.Empty(t, tokens.RefreshToken(testCtx))
	assert.Empty(t, newStore(st).AccessToken(testCtx))
}

func TestTokenStore_Invalidate(t *testing.T) {
	st := memory.New()
	tokens := newStore(st)
	require.NoError(t, tokens.SetTokens(testCtx, "a1", "r1"))

	other := newStore(st.Tab())
	require.NoError(t, other.SetTokens(testCtx, "a2", "r2"))

	assert.Equal(t, "a1", tokens.AccessToken(testCtx))
	tokens.Invalidate()
	assert.Equal(t, "a2", tokens.AccessToken(testCtx))
	assert.Equal(t, "r2", tokens.RefreshToken(testCtx))
}

func TestTokenStore_StorageErrors(t *testing.T) {
	st := new(MockStorage)
	tokens := newStore(st)

	expectedErr := errors.New("disk full")
	st.On("Set", testCtx, mock.Anything).Return(expectedErr)
	st.On("Get", testCtx, mock.Anything).Return("", expectedErr)

	err := tokens.SetTokens(testCtx, "a1", "r1")
	assert.ErrorIs(t, err, expectedErr)

	// the in-memory copy still serves this process
	assert.Equal(t, "a1", tokens.AccessToken(testCtx))

	tokens.Invalidate()
	assert.Empty(t, tokens.AccessToken(testCtx))
	st.AssertExpectations(t)
}

func TestTokenStore_AccessTokenExpired(t *testing.T) {
	tokens := newStore(memory.New())
	assert.False(t, tokens.AccessTokenExpired(testCtx))

	expired, err := jwt.NewToken("1", -time.Minute, "k")
	require.NoError(t, err)
	require.NoError(t, tokens.SetTokens(testCtx, expired, "r"))
	assert.True(t, tokens.AccessTokenExpired(testCtx))

	valid, err := jwt.NewToken("1", time.Hour, "k")
	require.NoError(t, err)
	require.NoError(t, tokens.SetTokens(testCtx, valid, "r"))
	assert.False(t, tokens.AccessTokenExpired(testCtx))

	require.NoError(t, tokens.SetTokens(testCtx, "opaque", "r"))
	assert.False(t, tokens.AccessTokenExpired(testCtx))
}
