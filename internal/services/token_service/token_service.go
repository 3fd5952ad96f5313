package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"pgm_storefront/internal/lib/jwt"
	"pgm_storefront/internal/lib/logger/sl"
	"pgm_storefront/internal/storage"
)

var ErrEmptyAccessToken = errors.New("empty access token")

// TokenStore is the single source of truth for the current token pair. It
// caches the pair in memory and mirrors it to durable storage under
// "accessToken", the legacy "token" key and "refreshToken".
type TokenStore struct {
	log     *slog.Logger
	storage storage.Storage
	now     func() time.Time

	mu      sync.RWMutex
	access  string
	refresh string
}

func NewTokenStore(log *slog.Logger, st storage.Storage) *TokenStore {
	return &TokenStore{
		log:     log,
		storage: st,
		now:     time.Now,
	}
}

// AccessToken returns the in-memory token, falling back to the persisted
// "accessToken" and then "token" keys. Blank values count as absent.
func (s *TokenStore) AccessToken(ctx context.Context) string {
	s.mu.RLock()
	access := s.access
	s.mu.RUnlock()
	if access != "" {
		return access
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.access != "" {
		return s.access
	}

	for _, key := range []string{storage.KeyAccessToken, storage.KeyLegacyToken} {
		if v := s.read(ctx, key); v != "" {
			s.access = v
			break
		}
	}

	return s.access
}

func (s *TokenStore) RefreshToken(ctx context.Context) string {
	s.mu.RLock()
	refresh := s.refresh
	s.mu.RUnlock()
	if refresh != "" {
		return refresh
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refresh == "" {
		s.refresh = s.read(ctx, storage.KeyRefreshToken)
	}

	return s.refresh
}

// SetTokens replaces the pair. An empty refresh token keeps the current one,
// as refresh endpoints do not always rotate it.
func (s *TokenStore) SetTokens(ctx context.Context, access, refresh string) error {
	const op = "services.TokenStore.SetTokens"

	if strings.TrimSpace(access) == "" {
		return fmt.Errorf("%s: %w", op, ErrEmptyAccessToken)
	}

	values := map[string]string{
		storage.KeyAccessToken: access,
		storage.KeyLegacyToken: access,
	}
	if refresh != "" {
		values[storage.KeyRefreshToken] = refresh
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.access = access
	if refresh != "" {
		s.refresh = refresh
	}

	if err := s.storage.Set(ctx, values); err != nil {
		s.log.Warn("failed to persist tokens", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ClearTokens forgets the pair in memory and in storage. Clearing an empty
// store is a no-op.
func (s *TokenStore) ClearTokens(ctx context.Context) error {
	const op = "services.TokenStore.ClearTokens"

	s.mu.Lock()
	defer s.mu.Unlock()

	s.access = ""
	s.refresh = ""

	err := s.storage.Delete(ctx, storage.KeyAccessToken, storage.KeyLegacyToken, storage.KeyRefreshToken)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// AccessTokenExpired reports whether the current access token is a JWT whose
// exp claim has passed. Missing and opaque tokens are never expired.
func (s *TokenStore) AccessTokenExpired(ctx context.Context) bool {
	access := s.AccessToken(ctx)
	if access == "" {
		return false
	}
	return jwt.Expired(access, s.now())
}

// Invalidate drops the in-memory copy so the next read goes to storage.
// Called when another process rewrote the persisted pair.
func (s *TokenStore) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.access = ""
	s.refresh = ""
}

func (s *TokenStore) read(ctx context.Context, key string) string {
	v, err := s.storage.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrorNoSuchKey) {
			s.log.Warn("failed to read token", slog.String("key", key), sl.Err(err))
		}
		return ""
	}

	return strings.TrimSpace(v)
}
