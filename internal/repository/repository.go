package repository

import (
	"pgm_storefront/internal/storage"
)

type Repository struct {
	Session SessionRepository
	Cart    CartRepository
}

func NewRepository(st storage.Storage) *Repository {
	state := NewStateRepository(st)

	return &Repository{
		Session: state,
		Cart:    state,
	}
}
