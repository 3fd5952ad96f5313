package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/singleflight"

	"pgm_storefront/internal/lib/events"
	"pgm_storefront/internal/lib/logger/handlers/slogdiscard"
	"pgm_storefront/internal/lib/logger/sl"
	"pgm_storefront/internal/metrics"
)

const RefreshPath = "/auth/refresh-token"

// TokenStore is the part of the token store the refresher needs.
type TokenStore interface {
	AccessToken(ctx context.Context) string
	RefreshToken(ctx context.Context) string
	SetTokens(ctx context.Context, access, refresh string) error
	ClearTokens(ctx context.Context) error
}

// SessionRefresher exchanges the refresh token for a new pair. Concurrent
// callers share one exchange. When the exchange fails the tokens are cleared
// and session.invalidated is published once for the rejected token.
type SessionRefresher struct {
	url    string
	http   *http.Client
	tokens TokenStore
	bus    *events.Bus
	log    *slog.Logger

	group singleflight.Group

	mu     sync.Mutex
	failed string
}

func NewSessionRefresher(userBaseURL string, tokens TokenStore, bus *events.Bus, log *slog.Logger, hc *http.Client) *SessionRefresher {
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}
	if log == nil {
		log = slogdiscard.NewDiscardLogger()
	}

	return &SessionRefresher{
		url:    strings.TrimRight(userBaseURL, "/") + RefreshPath,
		http:   hc,
		tokens: tokens,
		bus:    bus,
		log:    log,
	}
}

// Refresh returns an access token to retry with. If stale has already been
// replaced by another request the current token is returned untouched.
func (r *SessionRefresher) Refresh(ctx context.Context, stale string) (string, error) {
	if current := r.tokens.AccessToken(ctx); current != "" && current != stale {
		return current, nil
	}

	r.mu.Lock()
	alreadyFailed := stale != "" && stale == r.failed
	r.mu.Unlock()
	if alreadyFailed {
		return "", ErrSessionExpired
	}

	// the exchange outlives the first caller's context so the others are
	// not failed by its cancellation
	v, err, _ := r.group.Do("refresh", func() (interface{}, error) {
		return r.exchange(context.WithoutCancel(ctx), stale)
	})
	if err != nil {
		return "", err
	}

	return v.(string), nil
}

func (r *SessionRefresher) exchange(ctx context.Context, stale string) (string, error) {
	const op = "client.SessionRefresher.exchange"

	log := r.log.With(slog.String("op", op))

	if current := r.tokens.AccessToken(ctx); current != "" && current != stale {
		return current, nil
	}

	r.publish(events.TokenRefreshing, "")

	access, refresh, err := r.request(ctx)
	if err == nil {
		err = r.tokens.SetTokens(ctx, access, refresh)
	}
	if err != nil {
		log.Warn("session refresh failed", sl.Err(err))
		metrics.TokenRefreshTotal.WithLabelValues("failure").Inc()

		r.mu.Lock()
		r.failed = stale
		r.mu.Unlock()

		if cerr := r.tokens.ClearTokens(ctx); cerr != nil {
			log.Error("failed to clear tokens", sl.Err(cerr))
		}
		r.publish(events.SessionInvalidated, err.Error())

		return "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("session refreshed")
	metrics.TokenRefreshTotal.WithLabelValues("success").Inc()
	r.publish(events.TokenRefreshed, "")

	return access, nil
}

func (r *SessionRefresher) request(ctx context.Context) (string, string, error) {
	refreshToken := r.tokens.RefreshToken(ctx)
	if refreshToken == "" {
		return "", "", ErrNoRefreshToken
	}

	payload, err := json.Marshal(map[string]string{"refreshToken": refreshToken})
	if err != nil {
		return "", "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(payload))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Content-Type", contentTypeJSON)
	req.Header.Set("Accept", contentTypeJSON)

	resp, err := r.http.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrNoResponse, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrNoResponse, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", "", newServerError(resp.StatusCode, body)
	}

	access, refresh := ParseTokenPair(body)
	if access == "" {
		return "", "", ErrRefreshRejected
	}

	return access, refresh, nil
}

// ParseTokenPair reads a token pair from either {accessToken, refreshToken}
// or {success, data: {accessToken, refreshToken}}. A body with success set
// to false yields nothing.
func ParseTokenPair(body []byte) (string, string) {
	if !gjson.ValidBytes(body) {
		return "", ""
	}

	root := gjson.ParseBytes(body)
	if s := root.Get("success"); s.Exists() && !s.Bool() {
		return "", ""
	}
	if data := root.Get("data"); data.IsObject() {
		root = data
	}

	access := root.Get("accessToken").String()
	if access == "" {
		access = root.Get("token").String()
	}

	return access, root.Get("refreshToken").String()
}

func (r *SessionRefresher) publish(kind events.Kind, detail string) {
	if r.bus != nil {
		r.bus.Publish(kind, detail)
	}
}
