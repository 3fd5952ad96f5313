package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"pgm_storefront/internal/adapter"
	"pgm_storefront/internal/domain/models"
	"pgm_storefront/internal/lib/events"
	"pgm_storefront/internal/lib/logger/sl"
	"pgm_storefront/internal/repository"
	"pgm_storefront/internal/storage"
	"pgm_storefront/internal/transport/client"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoAccessToken      = errors.New("login answer carries no access token")
)

type State string

const (
	StateUninitialized State = "uninitialized"
	StateRestoring     State = "restoring"
	StateAuthenticated State = "authenticated"
	StateAnonymous     State = "anonymous"
	StateRefreshing    State = "refreshing"
)

// Session is a snapshot of the controller state.
type Session struct {
	State            State                    `json:"state"`
	IsAuthenticated  bool                     `json:"isAuthenticated"`
	User             *models.UserProfile      `json:"user,omitempty"`
	AssociateProfile *models.AssociateProfile `json:"associateProfile,omitempty"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.3 --all
type Tokens interface {
	AccessToken(ctx context.Context) string
	SetTokens(ctx context.Context, access, refresh string) error
	ClearTokens(ctx context.Context) error
	Invalidate()
}

type Refresher interface {
	Refresh(ctx context.Context, stale string) (string, error)
}

type Users interface {
	Login(ctx context.Context, usernameOrEmail, password string) models.Result[models.LoginResponse]
	Profile(ctx context.Context, token string) models.Result[models.UserProfile]
}

type Carts interface {
	CartByUser(ctx context.Context, userID int64, token string) models.Result[json.RawMessage]
	AddToCart(ctx context.Context, item models.CreateCartItemRequest, token string) models.Result[models.CartItem]
}

type Associates interface {
	SelfData(ctx context.Context, token string) models.Result[models.AssociateProfile]
}

// Deps are the collaborators of the controller. Storage is only watched;
// all writes go through Tokens and the repositories.
type Deps struct {
	Storage    storage.Storage
	Tokens     Tokens
	Refresher  Refresher
	Session    repository.SessionRepository
	Cart       repository.CartRepository
	Users      Users
	Carts      Carts
	Associates Associates
	Bus        *events.Bus
}

// Auth drives the session state machine: uninitialized, restoring, then
// authenticated or anonymous, with refreshing in between while the HTTP
// client renews the token.
type Auth struct {
	log *slog.Logger
	d   Deps

	mu        sync.RWMutex
	session   Session
	lastToken string
	subs      map[int]chan Session
	nextSub   int
}

func New(log *slog.Logger, d Deps) *Auth {
	return &Auth{
		log:     log,
		d:       d,
		session: Session{State: StateUninitialized},
		subs:    make(map[int]chan Session),
	}
}

func (a *Auth) Session() Session {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.session
}

// Subscribe delivers every new snapshot. Slow subscribers miss updates; the
// returned func unsubscribes.
func (a *Auth) Subscribe() (<-chan Session, func()) {
	ch := make(chan Session, 8)

	a.mu.Lock()
	id := a.nextSub
	a.nextSub++
	a.subs[id] = ch
	a.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			a.mu.Lock()
			delete(a.subs, id)
			close(ch)
			a.mu.Unlock()
		})
	}
}

// Restore rebuilds the session from persisted state.
func (a *Auth) Restore(ctx context.Context) (Session, error) {
	const op = "auth.Restore"

	log := a.log.With(slog.String("op", op))

	a.update(func(s *Session) { s.State = StateRestoring })

	token := a.d.Tokens.AccessToken(ctx)
	flag, err := a.d.Session.IsAuthenticated(ctx)
	if err != nil {
		log.Warn("failed to read auth flag", sl.Err(err))
	}

	if token == "" || !flag {
		log.Debug("no persisted session", slog.Bool("has_token", token != ""), slog.Bool("flag", flag))
		if err := a.ClearAuthData(ctx); err != nil {
			return a.Session(), fmt.Errorf("%s: %w", op, err)
		}
		return a.Session(), nil
	}

	a.rememberToken(token)

	res := a.d.Users.Profile(ctx, token)
	if res.Success {
		a.authenticated(ctx, res.Data)
		log.Info("session restored")
		return a.Session(), nil
	}

	log.Info("profile fetch failed, refreshing", slog.String("error", res.Error), slog.Int("status", res.Status))

	fresh, err := a.d.Refresher.Refresh(ctx, token)
	if err != nil {
		log.Info("refresh failed, session dropped", sl.Err(err))
		if cerr := a.ClearAuthData(ctx); cerr != nil {
			return a.Session(), fmt.Errorf("%s: %w", op, cerr)
		}
		return a.Session(), nil
	}

	a.rememberToken(fresh)

	var user *models.UserProfile
	if res := a.d.Users.Profile(ctx, fresh); res.Success {
		user = res.Data
	}
	a.authenticated(ctx, user)

	log.Info("session restored after refresh")

	return a.Session(), nil
}

// Login persists token under every token key and marks the session
// authenticated. The profile is attached separately with SetUser.
func (a *Auth) Login(ctx context.Context, token string) error {
	const op = "auth.Login"

	if err := a.login(ctx, token, ""); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// login writes the pair (an empty refresh keeps the stored one) and then the
// flag, so a watcher that sees the flag also finds the token.
func (a *Auth) login(ctx context.Context, access, refresh string) error {
	if err := a.d.Tokens.SetTokens(ctx, access, refresh); err != nil {
		return err
	}
	if err := a.d.Session.SetAuthenticated(ctx); err != nil {
		return err
	}

	a.rememberToken(access)
	a.update(func(s *Session) {
		s.State = StateAuthenticated
		s.IsAuthenticated = true
	})

	return nil
}

func (a *Auth) SetUser(ctx context.Context, user models.UserProfile) error {
	const op = "auth.SetUser"

	if err := a.d.Session.SaveUser(ctx, user); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	a.update(func(s *Session) { s.User = &user })

	return nil
}

// SignIn runs the whole sign-in flow: credentials, tokens, profile, guest
// cart merge and associate data. Only the credential step is fatal.
func (a *Auth) SignIn(ctx context.Context, usernameOrEmail, password string) (Session, error) {
	const op = "auth.SignIn"

	log := a.log.With(
		slog.String("op", op),
		slog.String("username", usernameOrEmail),
	)

	log.Info("attempting to sign in")

	res := a.d.Users.Login(ctx, usernameOrEmail, password)
	if !res.Success {
		log.Info("sign in rejected", slog.String("error", res.Error), slog.Int("status", res.Status))
		return a.Session(), fmt.Errorf("%s: %w", op, loginError(res))
	}

	access := res.Data.Access()
	if access == "" {
		return a.Session(), fmt.Errorf("%s: %w", op, ErrNoAccessToken)
	}
	if err := a.login(ctx, access, res.Data.RefreshToken); err != nil {
		return a.Session(), fmt.Errorf("%s: %w", op, err)
	}

	user := res.Data.User
	if user == nil {
		if p := a.d.Users.Profile(ctx, access); p.Success {
			user = p.Data
		} else {
			log.Warn("failed to fetch profile", slog.String("error", p.Error))
		}
	}
	if user != nil {
		if err := a.SetUser(ctx, *user); err != nil {
			log.Error("failed to persist profile", sl.Err(err))
		}
		a.mergeCart(ctx, log, user.ID, access)
	}

	a.loadAssociate(ctx, log, access)

	log.Info("signed in")

	return a.Session(), nil
}

// Logout drops auth state and the guest cart.
func (a *Auth) Logout(ctx context.Context) error {
	const op = "auth.Logout"

	if err := a.d.Tokens.ClearTokens(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := a.d.Session.ClearAll(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	a.anonymous()
	a.log.Info("logged out", slog.String("op", op))

	return nil
}

// ClearAuthData drops auth state but keeps the guest cart.
func (a *Auth) ClearAuthData(ctx context.Context) error {
	const op = "auth.ClearAuthData"

	if err := a.d.Tokens.ClearTokens(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := a.d.Session.ClearAuth(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	a.anonymous()

	return nil
}

// Run follows other handles' writes to the client state and the token
// lifecycle events until ctx is done.
func (a *Auth) Run(ctx context.Context) error {
	const op = "auth.Run"

	changes, err := a.d.Storage.Watch(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var bus, invalidated <-chan events.Event
	if a.d.Bus != nil {
		ch, unsubscribe := a.d.Bus.Subscribe(16)
		defer unsubscribe()
		bus = ch

		inv, unsubscribeInv := a.d.Bus.SubscribeInvalidations()
		defer unsubscribeInv()
		invalidated = inv
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ch, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			a.handleChange(ctx, ch)
		case ev, ok := <-bus:
			if !ok {
				bus = nil
				continue
			}
			a.handleEvent(ev)
		case ev, ok := <-invalidated:
			if !ok {
				invalidated = nil
				continue
			}
			a.log.Info("session invalidated", slog.String("op", op), slog.String("reason", ev.Detail))
			if err := a.ClearAuthData(ctx); err != nil {
				a.log.Error("failed to clear auth data", slog.String("op", op), sl.Err(err))
			}
		}
	}
}

func (a *Auth) handleChange(ctx context.Context, ch storage.Change) {
	log := a.log.With(slog.String("op", "auth.handleChange"), slog.String("key", ch.Key))

	switch ch.Key {
	case storage.KeyIsAuthentication:
		if ch.Deleted || ch.Value != "true" {
			log.Info("signed out elsewhere")
			a.d.Tokens.Invalidate()
			a.anonymous()
			return
		}

		if a.Session().State == StateAuthenticated {
			return
		}

		log.Info("signed in elsewhere, restoring")
		if _, err := a.Restore(ctx); err != nil {
			log.Error("failed to restore session", sl.Err(err))
		}

	case storage.KeyAccessToken, storage.KeyLegacyToken:
		a.d.Tokens.Invalidate()
		if ch.Deleted || ch.Value == "" || !a.rememberToken(ch.Value) {
			return
		}

		flag, err := a.d.Session.IsAuthenticated(ctx)
		if err != nil || !flag {
			return
		}

		log.Info("token replaced elsewhere, restoring")
		if _, err := a.Restore(ctx); err != nil {
			log.Error("failed to restore session", sl.Err(err))
		}

	case storage.KeyRefreshToken:
		a.d.Tokens.Invalidate()

	case storage.KeyUser:
		user, err := a.d.Session.User(ctx)
		if err != nil {
			log.Warn("failed to reload profile", sl.Err(err))
			return
		}
		a.update(func(s *Session) { s.User = user })
	}
}

func (a *Auth) handleEvent(ev events.Event) {
	switch ev.Kind {
	case events.TokenRefreshing:
		a.update(func(s *Session) {
			if s.State == StateAuthenticated {
				s.State = StateRefreshing
			}
		})

	case events.TokenRefreshed:
		a.update(func(s *Session) {
			if s.State == StateRefreshing {
				s.State = StateAuthenticated
			}
		})
	}
}

func (a *Auth) mergeCart(ctx context.Context, log *slog.Logger, userID int64, token string) {
	guest, err := a.d.Cart.GuestCart(ctx)
	if err != nil {
		log.Warn("failed to read guest cart", sl.Err(err))
		return
	}

	var server []models.CartItem
	if res := a.d.Carts.CartByUser(ctx, userID, token); res.Success {
		if server, err = adapter.NormalizeCart(*res.Data); err != nil {
			log.Warn("failed to decode server cart", sl.Err(err))
		}
	} else {
		log.Warn("failed to fetch server cart", slog.String("error", res.Error))
	}

	for _, item := range adapter.MissingFromServer(server, guest) {
		res := a.d.Carts.AddToCart(ctx, models.CreateCartItemRequest{
			UserID:    userID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}, token)
		if !res.Success {
			log.Warn("failed to push guest item", slog.Int64("product_id", item.ProductID), slog.String("error", res.Error))
		}
	}

	if err := a.d.Cart.SaveGuestCart(ctx, adapter.MergeCart(server, guest)); err != nil {
		log.Warn("failed to persist merged cart", sl.Err(err))
	}
}

func (a *Auth) loadAssociate(ctx context.Context, log *slog.Logger, token string) {
	if a.d.Associates == nil {
		return
	}

	res := a.d.Associates.SelfData(ctx, token)
	if !res.Success {
		log.Debug("no associate data", slog.String("error", res.Error))
		if err := a.d.Session.DeleteAssociateProfile(ctx); err != nil {
			log.Warn("failed to clear associate data", sl.Err(err))
		}
		a.update(func(s *Session) { s.AssociateProfile = nil })
		return
	}

	if err := a.d.Session.SaveAssociateProfile(ctx, *res.Data); err != nil {
		log.Warn("failed to persist associate data", sl.Err(err))
	}
	a.update(func(s *Session) { s.AssociateProfile = res.Data })
}

// authenticated settles the session; a nil user falls back to the persisted
// profile.
func (a *Auth) authenticated(ctx context.Context, user *models.UserProfile) {
	if user != nil {
		if err := a.d.Session.SaveUser(ctx, *user); err != nil {
			a.log.Warn("failed to persist profile", sl.Err(err))
		}
	} else if stored, err := a.d.Session.User(ctx); err == nil {
		user = stored
	}

	associate, err := a.d.Session.AssociateProfile(ctx)
	if err != nil {
		a.log.Warn("failed to read associate data", sl.Err(err))
	}

	a.update(func(s *Session) {
		s.State = StateAuthenticated
		s.IsAuthenticated = true
		s.User = user
		s.AssociateProfile = associate
	})
}

func (a *Auth) anonymous() {
	a.mu.Lock()
	a.lastToken = ""
	a.mu.Unlock()

	a.update(func(s *Session) {
		*s = Session{State: StateAnonymous}
	})
}

// rememberToken reports whether token differs from the last one seen.
func (a *Auth) rememberToken(token string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if token == a.lastToken {
		return false
	}
	a.lastToken = token
	return true
}

func (a *Auth) update(fn func(*Session)) {
	a.mu.Lock()
	before := a.session
	fn(&a.session)
	after := a.session
	changed := before.State != after.State || before.IsAuthenticated != after.IsAuthenticated ||
		before.User != after.User || before.AssociateProfile != after.AssociateProfile
	if changed {
		for _, ch := range a.subs {
			select {
			case ch <- after:
			default:
			}
		}
	}
	a.mu.Unlock()

	if changed && a.d.Bus != nil {
		a.d.Bus.Publish(events.SessionChanged, string(after.State))
	}
}

func loginError(res models.Result[models.LoginResponse]) error {
	switch res.Status {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrInvalidCredentials, res.Error)
	case 0:
		return errors.New(res.Error)
	}
	return &client.ServerError{Status: res.Status, Message: res.Error}
}
