package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"pgm_storefront/internal/domain/models"
	"pgm_storefront/internal/lib/logger/sl"
	"pgm_storefront/internal/transport/client"
)

const (
	usersPath   = "/admin/users"
	profilePath = "/auth/profile"
)

// Tokens is the part of the token store the user service writes to.
type Tokens interface {
	SetTokens(ctx context.Context, access, refresh string) error
	ClearTokens(ctx context.Context) error
}

// UserService talks to the user backend. The associate request calls go to
// the core associate backend.
type UserService struct {
	log    *slog.Logger
	users  *client.Client
	core   *client.Client
	tokens Tokens
}

func NewUserService(log *slog.Logger, users, core *client.Client, tokens Tokens) *UserService {
	return &UserService{
		log:    log,
		users:  users,
		core:   core,
		tokens: tokens,
	}
}

func (s *UserService) ListUsers(ctx context.Context, token string) models.Result[json.RawMessage] {
	return client.Get[json.RawMessage](ctx, s.users, usersPath+"/all", client.WithToken(token))
}

func (s *UserService) GetUser(ctx context.Context, id int64, token string) models.Result[models.User] {
	return client.Get[models.User](ctx, s.users, userPath(id), client.WithToken(token))
}

func (s *UserService) GetUserRequests(ctx context.Context, id int64, token string) models.Result[json.RawMessage] {
	return client.Get[json.RawMessage](ctx, s.core, fmt.Sprintf("/requests/user/%d", id), client.WithToken(token))
}

// RequestsBySource lists associate requests raised from one source, e.g.
// "web" or "app".
func (s *UserService) RequestsBySource(ctx context.Context, source, token string) models.Result[json.RawMessage] {
	return client.Get[json.RawMessage](ctx, s.core, "/requests/all/"+url.PathEscape(source), client.WithToken(token))
}

func (s *UserService) ApproveRequest(ctx context.Context, id int64, token string) models.Result[json.RawMessage] {
	return client.Put[json.RawMessage](ctx, s.core, fmt.Sprintf("/requests/%d/approve", id), struct{}{}, client.WithToken(token))
}

func (s *UserService) Addresses(ctx context.Context, token string) models.Result[json.RawMessage] {
	return client.Get[json.RawMessage](ctx, s.users, "/addresses", client.WithToken(token))
}

func (s *UserService) CreateUser(ctx context.Context, u models.CreateUserRequest, token string) models.Result[models.User] {
	return client.Post[models.User](ctx, s.users, usersPath, u, client.WithToken(token))
}

func (s *UserService) UpdateUser(ctx context.Context, u models.UpdateUserRequest, token string) models.Result[models.User] {
	return client.Put[models.User](ctx, s.users, userPath(u.ID), u, client.WithToken(token))
}

func (s *UserService) DeleteUser(ctx context.Context, id int64, token string) models.Result[json.RawMessage] {
	return client.Delete[json.RawMessage](ctx, s.users, userPath(id), client.WithToken(token))
}

// Login exchanges credentials for a token pair and persists it.
func (s *UserService) Login(ctx context.Context, usernameOrEmail, password string) models.Result[models.LoginResponse] {
	const op = "services.UserService.Login"

	log := s.log.With(
		slog.String("op", op),
		slog.String("username", usernameOrEmail),
	)

	log.Info("attempting to login user")

	res := client.Post[models.LoginResponse](ctx, s.users, "/auth/login", models.LoginRequest{
		UsernameOrEmail: usernameOrEmail,
		Password:        password,
	})
	if !res.Success {
		log.Info("login rejected", slog.Int("status", res.Status), slog.String("error", res.Error))
		return res
	}

	if access := res.Data.Access(); access != "" {
		if err := s.tokens.SetTokens(ctx, access, res.Data.RefreshToken); err != nil {
			log.Error("failed to persist tokens", sl.Err(err))
		}
	}

	log.Info("user logged in successfully")

	return res
}

func (s *UserService) Register(ctx context.Context, u models.CreateUserRequest) models.Result[models.User] {
	return client.Post[models.User](ctx, s.users, "/auth/register", u)
}

// Logout only drops the local tokens; the backend keeps no session.
func (s *UserService) Logout(ctx context.Context) error {
	const op = "services.UserService.Logout"

	if err := s.tokens.ClearTokens(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// RefreshToken calls the explicit refresh endpoint and persists the new pair.
// The automatic refresh on 401 lives in the HTTP client.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) models.Result[models.TokenPair] {
	res := client.Post[models.TokenPair](ctx, s.users, "/auth/refresh", models.RefreshTokenRequest{RefreshToken: refreshToken})
	if res.Success && res.Data.AccessToken != "" {
		if err := s.tokens.SetTokens(ctx, res.Data.AccessToken, res.Data.RefreshToken); err != nil {
			s.log.Error("failed to persist tokens", slog.String("op", "services.UserService.RefreshToken"), sl.Err(err))
		}
	}

	return res
}

func (s *UserService) Profile(ctx context.Context, token string) models.Result[models.UserProfile] {
	return client.Get[models.UserProfile](ctx, s.users, profilePath, client.WithToken(token))
}

func (s *UserService) UpdateProfile(ctx context.Context, p models.UserProfile, token string) models.Result[models.UserProfile] {
	return client.Put[models.UserProfile](ctx, s.users, profilePath, p, client.WithToken(token))
}

func (s *UserService) ChangePassword(ctx context.Context, current, next, token string) models.Result[json.RawMessage] {
	return client.Post[json.RawMessage](ctx, s.users, "/auth/change-password", models.ChangePasswordRequest{
		CurrentPassword: current,
		NewPassword:     next,
	}, client.WithToken(token))
}

func (s *UserService) ForgotPassword(ctx context.Context, email string) models.Result[json.RawMessage] {
	return client.Post[json.RawMessage](ctx, s.users, "/auth/forgot-password", map[string]string{"email": email})
}

func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) models.Result[json.RawMessage] {
	return client.Post[json.RawMessage](ctx, s.users, "/auth/reset-password", models.ResetPasswordRequest{
		Token:       token,
		NewPassword: newPassword,
	})
}

func (s *UserService) VerifyEmail(ctx context.Context, token string) models.Result[json.RawMessage] {
	return client.Post[json.RawMessage](ctx, s.users, "/auth/verify-email", map[string]string{"token": token})
}

func (s *UserService) ResendVerification(ctx context.Context, email string) models.Result[json.RawMessage] {
	return client.Post[json.RawMessage](ctx, s.users, "/auth/resend-verification", map[string]string{"email": email})
}

// VerifyToken asks the user backend whether token is still valid. The token
// travels in the body, not as a bearer header.
func (s *UserService) VerifyToken(ctx context.Context, token string) models.Result[json.RawMessage] {
	return client.Post[json.RawMessage](ctx, s.users, "/auth/verify-token", map[string]string{"token": token})
}

func (s *UserService) SendOTP(ctx context.Context, destination string) models.Result[json.RawMessage] {
	return client.Post[json.RawMessage](ctx, s.users, "/auth/send-otp", models.OTPRequest{Destination: destination})
}

// VerifyOTP persists tokens when the backend returns a pair with the
// verification answer.
func (s *UserService) VerifyOTP(ctx context.Context, req models.OTPRequest) models.Result[json.RawMessage] {
	const op = "services.UserService.VerifyOTP"

	res := client.Post[json.RawMessage](ctx, s.users, "/auth/verify-otp", req)
	if !res.Success {
		return res
	}

	access, refresh := client.ParseTokenPair(*res.Data)
	if access == "" {
		return res
	}

	if err := s.tokens.SetTokens(ctx, access, refresh); err != nil {
		s.log.Error("failed to persist tokens", slog.String("op", op), sl.Err(err))
	}

	return res
}

func userPath(id int64) string {
	return fmt.Sprintf("%s/%d", usersPath, id)
}
