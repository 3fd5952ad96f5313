package storage

import (
	"context"
	"errors"
)

var (
	ErrorNoSuchKey   = errors.New("no such key")
	ErrStorageClosed = errors.New("storage closed")
	ErrEmptyKey      = errors.New("empty key")
)

// Persisted client state keys. "token" is the legacy alias of "accessToken".
const (
	KeyAccessToken      = "accessToken"
	KeyLegacyToken      = "token"
	KeyRefreshToken     = "refreshToken"
	KeyUser             = "user"
	KeyAssociateUser    = "associateUser"
	KeyIsAuthentication = "isAuthentication"
	KeyCartItems        = "cartItems"
)

// AuthKeys are the keys removed when a session ends, voluntarily or not.
var AuthKeys = []string{
	KeyAccessToken,
	KeyLegacyToken,
	KeyRefreshToken,
	KeyUser,
	KeyAssociateUser,
	KeyIsAuthentication,
}

// Change describes a write made through another handle of the same store.
type Change struct {
	Key     string `json:"key"`
	Value   string `json:"value,omitempty"`
	Deleted bool   `json:"deleted,omitempty"`
}

// Storage is the durable key-value store holding client state.
//
// Set and Delete apply all keys of one call atomically. Watch streams the
// changes made by other handles (other processes, other "tabs"), never the
// caller's own writes; the channel is closed when ctx is done.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, keys ...string) error
	Watch(ctx context.Context) (<-chan Change, error)
}
