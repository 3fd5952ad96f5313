package repository_test

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pgm_storefront/internal/domain/models"
	"pgm_storefront/internal/repository"
	"pgm_storefront/internal/storage"
	"pgm_storefront/internal/storage/memory"
)

var testCtx = context.Background()

func setupRepo() (*repository.Repository, *memory.Storage) {
	st := memory.New()
	return repository.NewRepository(st), st
}

func seed(t *testing.T, st storage.Storage) {
	t.Helper()
	require.NoError(t, st.Set(testCtx, map[string]string{
		storage.KeyAccessToken:      "a",
		storage.KeyLegacyToken:      "a",
		storage.KeyRefreshToken:     "r",
		storage.KeyUser:             `{"id":1,"email":"x@y.z"}`,
		storage.KeyAssociateUser:    `{"id":2,"userId":1}`,
		storage.KeyIsAuthentication: "true",
		storage.KeyCartItems:        `[{"productId":1,"quantity":1,"price":5}]`,
	}))
}

func TestStateRepository_User(t *testing.T) {
	repo, _ := setupRepo()

	user, err := repo.Session.User(testCtx)
	require.NoError(t, err)
	assert.Nil(t, user)

	profile := models.UserProfile{
		ID:        gofakeit.Int64(),
		Email:     gofakeit.Email(),
		FirstName: gofakeit.FirstName(),
	}
	require.NoError(t, repo.Session.SaveUser(testCtx, profile))

	user, err = repo.Session.User(testCtx)
	require.NoError(t, err)
	assert.Equal(t, &profile, user)
}

func TestStateRepository_CorruptRecord(t *testing.T) {
	repo, st := setupRepo()
	require.NoError(t, st.Set(testCtx, map[string]string{storage.KeyUser: "{"}))

	_, err := repo.Session.User(testCtx)
	assert.Error(t, err)
}

func TestStateRepository_Authenticated(t *testing.T) {
	repo, st := setupRepo()

	ok, err := repo.Session.IsAuthenticated(testCtx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Session.SetAuthenticated(testCtx))
	ok, err = repo.Session.IsAuthenticated(testCtx)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, st.Set(testCtx, map[string]string{storage.KeyIsAuthentication: "false"}))
	ok, err = repo.Session.IsAuthenticated(testCtx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStateRepository_ClearAuthKeepsCart(t *testing.T) {
	repo, st := setupRepo()
	seed(t, st)

	require.NoError(t, repo.Session.ClearAuth(testCtx))

	for _, key := range storage.AuthKeys {
		_, err := st.Get(testCtx, key)
		assert.ErrorIs(t, err, storage.ErrorNoSuchKey, key)
	}

	cart, err := repo.Cart.GuestCart(testCtx)
	require.NoError(t, err)
	assert.Len(t, cart, 1)
}

func TestStateRepository_ClearAllRemovesCart(t *testing.T) {
	repo, st := setupRepo()
	seed(t, st)

	require.NoError(t, repo.Session.ClearAll(testCtx))

	_, err := st.Get(testCtx, storage.KeyCartItems)
	assert.ErrorIs(t, err, storage.ErrorNoSuchKey)

	cart, err := repo.Cart.GuestCart(testCtx)
	require.NoError(t, err)
	assert.NotNil(t, cart)
	assert.Empty(t, cart)
}

func TestStateRepository_AssociateProfile(t *testing.T) {
	repo, _ := setupRepo()

	require.NoError(t, repo.Session.SaveAssociateProfile(testCtx, models.AssociateProfile{ID: 3, ReferralCode: "PGM3"}))

	profile, err := repo.Session.AssociateProfile(testCtx)
	require.NoError(t, err)
	assert.Equal(t, "PGM3", profile.ReferralCode)

	require.NoError(t, repo.Session.DeleteAssociateProfile(testCtx))
	profile, err = repo.Session.AssociateProfile(testCtx)
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestStateRepository_GuestCart(t *testing.T) {
	repo, _ := setupRepo()

	items := []models.CartItem{{ProductID: 4, Quantity: 2, Price: 9.5}}
	require.NoError(t, repo.Cart.SaveGuestCart(testCtx, items))

	got, err := repo.Cart.GuestCart(testCtx)
	require.NoError(t, err)
	assert.Equal(t, items, got)
}
