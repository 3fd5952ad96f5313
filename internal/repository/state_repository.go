package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"pgm_storefront/internal/domain/models"
	"pgm_storefront/internal/storage"
)

const authenticatedFlag = "true"

// StateRepository gives typed access to the persisted client state. Records
// are stored as JSON strings under their well-known keys.
type StateRepository struct {
	storage storage.Storage
}

func NewStateRepository(st storage.Storage) *StateRepository {
	return &StateRepository{storage: st}
}

// User returns nil without error when no profile is stored.
func (r *StateRepository) User(ctx context.Context) (*models.UserProfile, error) {
	const op = "repository.StateRepository.User"

	var user models.UserProfile
	ok, err := r.load(ctx, storage.KeyUser, &user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return nil, nil
	}

	return &user, nil
}

func (r *StateRepository) SaveUser(ctx context.Context, user models.UserProfile) error {
	const op = "repository.StateRepository.SaveUser"

	if err := r.save(ctx, storage.KeyUser, user); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *StateRepository) AssociateProfile(ctx context.Context) (*models.AssociateProfile, error) {
	const op = "repository.StateRepository.AssociateProfile"

	var profile models.AssociateProfile
	ok, err := r.load(ctx, storage.KeyAssociateUser, &profile)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return nil, nil
	}

	return &profile, nil
}

func (r *StateRepository) SaveAssociateProfile(ctx context.Context, profile models.AssociateProfile) error {
	const op = "repository.StateRepository.SaveAssociateProfile"

	if err := r.save(ctx, storage.KeyAssociateUser, profile); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *StateRepository) DeleteAssociateProfile(ctx context.Context) error {
	return r.storage.Delete(ctx, storage.KeyAssociateUser)
}

func (r *StateRepository) IsAuthenticated(ctx context.Context) (bool, error) {
	v, err := r.storage.Get(ctx, storage.KeyIsAuthentication)
	if errors.Is(err, storage.ErrorNoSuchKey) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return v == authenticatedFlag, nil
}

func (r *StateRepository) SetAuthenticated(ctx context.Context) error {
	return r.storage.Set(ctx, map[string]string{storage.KeyIsAuthentication: authenticatedFlag})
}

func (r *StateRepository) ClearAuth(ctx context.Context) error {
	return r.storage.Delete(ctx, storage.AuthKeys...)
}

func (r *StateRepository) ClearAll(ctx context.Context) error {
	return r.storage.Delete(ctx, append(append([]string{}, storage.AuthKeys...), storage.KeyCartItems)...)
}

func (r *StateRepository) GuestCart(ctx context.Context) ([]models.CartItem, error) {
	const op = "repository.StateRepository.GuestCart"

	var items []models.CartItem
	if _, err := r.load(ctx, storage.KeyCartItems, &items); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if items == nil {
		items = []models.CartItem{}
	}

	return items, nil
}

func (r *StateRepository) SaveGuestCart(ctx context.Context, items []models.CartItem) error {
	const op = "repository.StateRepository.SaveGuestCart"

	if items == nil {
		items = []models.CartItem{}
	}
	if err := r.save(ctx, storage.KeyCartItems, items); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *StateRepository) load(ctx context.Context, key string, v any) (bool, error) {
	raw, err := r.storage.Get(ctx, key)
	if errors.Is(err, storage.ErrorNoSuchKey) || (err == nil && raw == "") {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("corrupt %q: %w", key, err)
	}

	return true, nil
}

func (r *StateRepository) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return r.storage.Set(ctx, map[string]string{key: string(raw)})
}
