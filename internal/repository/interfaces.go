package repository

import (
	"context"

	"pgm_storefront/internal/domain/models"
)

type SessionRepository interface {
	User(ctx context.Context) (*models.UserProfile, error)
	SaveUser(ctx context.Context, user models.UserProfile) error
	AssociateProfile(ctx context.Context) (*models.AssociateProfile, error)
	SaveAssociateProfile(ctx context.Context, profile models.AssociateProfile) error
	DeleteAssociateProfile(ctx context.Context) error
	IsAuthenticated(ctx context.Context) (bool, error)
	SetAuthenticated(ctx context.Context) error
	// ClearAuth removes every auth key and keeps the guest cart.
	ClearAuth(ctx context.Context) error
	// ClearAll also removes the guest cart.
	ClearAll(ctx context.Context) error
}

type CartRepository interface {
	GuestCart(ctx context.Context) ([]models.CartItem, error)
	SaveGuestCart(ctx context.Context, items []models.CartItem) error
}
