package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"pgm_storefront/internal/lib/logger/handlers/slogdiscard"
	"pgm_storefront/internal/lib/logger/sl"
	"pgm_storefront/internal/middleware"
)

const (
	DefaultTimeout = 10 * time.Second

	contentTypeJSON = "application/json"
	headerRequestID = "X-Request-ID"
)

// TokenSource yields the bearer token attached to outgoing requests.
type TokenSource interface {
	AccessToken(ctx context.Context) string
}

// Refresher obtains a new access token after the backend rejected stale.
type Refresher interface {
	Refresh(ctx context.Context, stale string) (string, error)
}

// Client talks to one backend. It attaches the current access token and
// recovers from any 401 by refreshing once and replaying the request.
type Client struct {
	name      string
	baseURL   string
	http      *http.Client
	tokens    TokenSource
	refresher Refresher
	log       *slog.Logger
	timeout   time.Duration
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithName sets the backend label used in logs and metrics.
func WithName(name string) Option {
	return func(c *Client) { c.name = name }
}

func New(baseURL string, tokens TokenSource, refresher Refresher, opts ...Option) *Client {
	c := &Client{
		name:      hostOf(baseURL),
		baseURL:   strings.TrimRight(baseURL, "/"),
		tokens:    tokens,
		refresher: refresher,
		log:       slogdiscard.NewDiscardLogger(),
		http:      &http.Client{Timeout: DefaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	hc := *c.http
	if c.timeout > 0 {
		hc.Timeout = c.timeout
	}
	hc.Transport = middleware.InstrumentTransport(c.name, hc.Transport)
	c.http = &hc

	return c
}

func (c *Client) Name() string {
	return c.name
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request describes one call. Body is kept as bytes so a retry replays it
// unchanged.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	Header      http.Header
	Body        []byte
	ContentType string
	// Token is used only while the token store holds nothing.
	Token string
}

type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Do sends req. Non-2xx answers are returned together with a *ServerError;
// transport failures wrap ErrNoResponse; anything else is a client fault.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	const op = "client.Client.Do"

	log := c.log.With(
		slog.String("op", op),
		slog.String("backend", c.name),
		slog.String("method", req.Method),
		slog.String("path", req.Path),
	)

	requestID := uuid.NewString()
	token := c.bearer(ctx, req)

	resp, err := c.send(ctx, req, token, requestID)
	if err != nil {
		log.Debug("request failed", sl.Err(err))
		return nil, err
	}

	// anonymous 401s go through the refresher too: it either exchanges a
	// persisted refresh token or ends the session
	if resp.Status == http.StatusUnauthorized && c.refresher != nil {
		log.Info("request unauthorized, refreshing", slog.Bool("had_token", token != ""))

		fresh, rerr := c.refresher.Refresh(ctx, token)
		if rerr != nil {
			log.Warn("refresh failed", sl.Err(rerr))
		} else {
			// one retry only: a second 401 is returned as is
			resp, err = c.send(ctx, req, fresh, requestID)
			if err != nil {
				log.Debug("retry failed", sl.Err(err))
				return nil, err
			}
		}
	}

	log.Debug("request done", slog.Int("status", resp.Status))

	if resp.Status < 200 || resp.Status > 299 {
		return resp, newServerError(resp.Status, resp.Body)
	}

	return resp, nil
}

func (c *Client) bearer(ctx context.Context, req Request) string {
	if c.tokens != nil {
		if token := c.tokens.AccessToken(ctx); token != "" {
			return token
		}
	}
	return strings.TrimSpace(req.Token)
}

func (c *Client) send(ctx context.Context, req Request, token, requestID string) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	u := c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("Accept", contentTypeJSON)
	httpReq.Header.Set(headerRequestID, requestID)
	if req.Body != nil {
		ct := req.ContentType
		if ct == "" {
			ct = contentTypeJSON
		}
		httpReq.Header.Set("Content-Type", ct)
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		// cancellation by the caller is a client fault, not a lost response
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrNoResponse, err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrNoResponse, err)
	}

	return &Response{
		Status: httpResp.StatusCode,
		Header: httpResp.Header,
		Body:   raw,
	}, nil
}

func hostOf(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return baseURL
	}
	return u.Host
}

// IsClientFault reports whether err happened before or after the exchange
// rather than on the wire or at the server.
func IsClientFault(err error) bool {
	var se *ServerError
	return err != nil && !errors.As(err, &se) && !errors.Is(err, ErrNoResponse)
}
