package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pgm_storefront/internal/domain/models"
	"pgm_storefront/internal/lib/fakeapi"
	"pgm_storefront/internal/lib/logger/handlers/slogdiscard"
	"pgm_storefront/internal/transport/client"
)

var testCtx = context.Background()

type MockTokens struct {
	mock.Mock
}

func (m *MockTokens) SetTokens(ctx context.Context, access, refresh string) error {
	args := m.Called(ctx, access, refresh)
	return args.Error(0)
}

func (m *MockTokens) ClearTokens(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func setup(t *testing.T, status int, body any) (*UserService, *fakeapi.Recorder, *fakeapi.Recorder, *MockTokens) {
	t.Helper()

	users := fakeapi.NewRecorder(t, status, body)
	core := fakeapi.NewRecorder(t, status, body)
	tokens := new(MockTokens)

	svc := NewUserService(
		slogdiscard.NewDiscardLogger(),
		client.New(users.URL, nil, nil),
		client.New(core.URL, nil, nil),
		tokens,
	)

	return svc, users, core, tokens
}

func TestUserService_Login(t *testing.T) {
	svc, users, _, tokens := setup(t, http.StatusOK, map[string]any{
		"accessToken":  "A1",
		"refreshToken": "R1",
		"user":         map[string]any{"id": 7, "email": "jane@example.com"},
	})
	tokens.On("SetTokens", testCtx, "A1", "R1").Return(nil)

	res := svc.Login(testCtx, "jane@example.com", "secret")

	require.True(t, res.Success)
	assert.Equal(t, int64(7), res.Data.User.ID)
	tokens.AssertExpectations(t)

	call := users.Last(t)
	assert.Equal(t, http.MethodPost, call.Method)
	assert.Equal(t, "/auth/login", call.Path)

	var sent models.LoginRequest
	require.NoError(t, call.JSON(&sent))
	assert.Equal(t, models.LoginRequest{UsernameOrEmail: "jane@example.com", Password: "secret"}, sent)
}

func TestUserService_LoginLegacyTokenKey(t *testing.T) {
	svc, _, _, tokens := setup(t, http.StatusOK, map[string]any{"token": "A1"})
	tokens.On("SetTokens", testCtx, "A1", "").Return(nil)

	require.True(t, svc.Login(testCtx, "jane", "secret").Success)
	tokens.AssertExpectations(t)
}

func TestUserService_LoginRejected(t *testing.T) {
	svc, _, _, tokens := setup(t, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})

	res := svc.Login(testCtx, "jane", "wrong")

	assert.False(t, res.Success)
	assert.Equal(t, "Invalid credentials", res.Error)
	assert.Equal(t, http.StatusUnauthorized, res.Status)
	tokens.AssertNotCalled(t, "SetTokens", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_LoginPersistFailureKeepsResult(t *testing.T) {
	svc, _, _, tokens := setup(t, http.StatusOK, map[string]any{"accessToken": "A1", "refreshToken": "R1"})
	tokens.On("SetTokens", testCtx, "A1", "R1").Return(errors.New("disk full"))

	assert.True(t, svc.Login(testCtx, "jane", "secret").Success)
}

func TestUserService_Logout(t *testing.T) {
	svc, users, _, tokens := setup(t, http.StatusOK, nil)
	tokens.On("ClearTokens", testCtx).Return(nil).Once()

	require.NoError(t, svc.Logout(testCtx))
	assert.Empty(t, users.Calls())

	tokens.On("ClearTokens", testCtx).Return(errors.New("boom")).Once()
	assert.Error(t, svc.Logout(testCtx))
}

func TestUserService_RefreshToken(t *testing.T) {
	svc, users, _, tokens := setup(t, http.StatusOK, map[string]any{"accessToken": "A2", "refreshToken": "R2"})
	tokens.On("SetTokens", testCtx, "A2", "R2").Return(nil)

	res := svc.RefreshToken(testCtx, "R1")

	require.True(t, res.Success)
	assert.Equal(t, "/auth/refresh", users.Last(t).Path)
	tokens.AssertExpectations(t)
}

func TestUserService_VerifyOTP(t *testing.T) {
	t.Run("with tokens", func(t *testing.T) {
		svc, _, _, tokens := setup(t, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"accessToken": "A3", "refreshToken": "R3"},
		})
		tokens.On("SetTokens", testCtx, "A3", "R3").Return(nil)

		require.True(t, svc.VerifyOTP(testCtx, models.OTPRequest{Destination: "jane@example.com", OTP: "123456"}).Success)
		tokens.AssertExpectations(t)
	})

	t.Run("without tokens", func(t *testing.T) {
		svc, users, _, tokens := setup(t, http.StatusOK, map[string]any{"verified": true})

		require.True(t, svc.VerifyOTP(testCtx, models.OTPRequest{Destination: "+911234567890", OTP: "1"}).Success)
		tokens.AssertNotCalled(t, "SetTokens", mock.Anything, mock.Anything, mock.Anything)

		var sent models.OTPRequest
		require.NoError(t, users.Last(t).JSON(&sent))
		assert.Equal(t, "1", sent.OTP)
	})
}

func TestUserService_Routes(t *testing.T) {
	svc, users, core, _ := setup(t, http.StatusOK, map[string]any{"id": 1})

	cases := []struct {
		name    string
		call    func() bool
		backend *fakeapi.Recorder
		method  string
		path    string
	}{
		{"list", func() bool { return svc.ListUsers(testCtx, "t").Success }, users, http.MethodGet, "/admin/users/all"},
		{"get", func() bool { return svc.GetUser(testCtx, 4, "t").Success }, users, http.MethodGet, "/admin/users/4"},
		{"requests", func() bool { return svc.GetUserRequests(testCtx, 4, "t").Success }, core, http.MethodGet, "/requests/user/4"},
		{"create", func() bool {
			return svc.CreateUser(testCtx, models.CreateUserRequest{Email: "a@b.c"}, "t").Success
		}, users, http.MethodPost, "/admin/users"},
		{"update", func() bool {
			return svc.UpdateUser(testCtx, models.UpdateUserRequest{ID: 9, FirstName: "Jane"}, "t").Success
		}, users, http.MethodPut, "/admin/users/9"},
		{"delete", func() bool { return svc.DeleteUser(testCtx, 9, "t").Success }, users, http.MethodDelete, "/admin/users/9"},
		{"register", func() bool {
			return svc.Register(testCtx, models.CreateUserRequest{Email: "a@b.c"}).Success
		}, users, http.MethodPost, "/auth/register"},
		{"profile", func() bool { return svc.Profile(testCtx, "t").Success }, users, http.MethodGet, "/auth/profile"},
		{"update profile", func() bool {
			return svc.UpdateProfile(testCtx, models.UserProfile{FirstName: "Jane"}, "t").Success
		}, users, http.MethodPut, "/auth/profile"},
		{"change password", func() bool { return svc.ChangePassword(testCtx, "old", "new", "t").Success }, users, http.MethodPost, "/auth/change-password"},
		{"forgot password", func() bool { return svc.ForgotPassword(testCtx, "a@b.c").Success }, users, http.MethodPost, "/auth/forgot-password"},
		{"reset password", func() bool { return svc.ResetPassword(testCtx, "tok", "new").Success }, users, http.MethodPost, "/auth/reset-password"},
		{"verify email", func() bool { return svc.VerifyEmail(testCtx, "tok").Success }, users, http.MethodPost, "/auth/verify-email"},
		{"resend", func() bool { return svc.ResendVerification(testCtx, "a@b.c").Success }, users, http.MethodPost, "/auth/resend-verification"},
		{"send otp", func() bool { return svc.SendOTP(testCtx, "a@b.c").Success }, users, http.MethodPost, "/auth/send-otp"},
		{"requests by source", func() bool { return svc.RequestsBySource(testCtx, "web", "t").Success }, core, http.MethodGet, "/requests/all/web"},
		{"approve request", func() bool { return svc.ApproveRequest(testCtx, 6, "t").Success }, core, http.MethodPut, "/requests/6/approve"},
		{"addresses", func() bool { return svc.Addresses(testCtx, "t").Success }, users, http.MethodGet, "/addresses"},
		{"verify token", func() bool { return svc.VerifyToken(testCtx, "tok").Success }, users, http.MethodPost, "/auth/verify-token"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.True(t, tc.call())
			call := tc.backend.Last(t)
			assert.Equal(t, tc.method, call.Method)
			assert.Equal(t, tc.path, call.Path)
		})
	}
}

func TestUserService_ChangePasswordBody(t *testing.T) {
	svc, users, _, _ := setup(t, http.StatusNoContent, nil)

	res := svc.ChangePassword(testCtx, "old", "new", "A1")
	require.True(t, res.Success)

	call := users.Last(t)
	assert.Equal(t, "Bearer A1", call.Auth)

	var sent models.ChangePasswordRequest
	require.NoError(t, call.JSON(&sent))
	assert.Equal(t, models.ChangePasswordRequest{CurrentPassword: "old", NewPassword: "new"}, sent)
}

func TestUserService_VerifyTokenSendsTokenInBody(t *testing.T) {
	svc, users, _, _ := setup(t, http.StatusOK, map[string]any{"valid": true})

	res := svc.VerifyToken(testCtx, "A1")
	require.True(t, res.Success)
	assert.JSONEq(t, `{"valid":true}`, string(*res.Data))

	call := users.Last(t)
	assert.Empty(t, call.Auth)
	assert.JSONEq(t, `{"token":"A1"}`, string(call.Body))
}

func TestUserService_AddressesAndRequestsCarryBearer(t *testing.T) {
	svc, users, core, _ := setup(t, http.StatusOK, []map[string]any{{"id": 1, "city": "Pune"}})

	res := svc.Addresses(testCtx, "A1")
	require.True(t, res.Success)
	assert.JSONEq(t, `[{"id":1,"city":"Pune"}]`, string(*res.Data))
	assert.Equal(t, "Bearer A1", users.Last(t).Auth)

	require.True(t, svc.RequestsBySource(testCtx, "app", "A1").Success)
	assert.Equal(t, "Bearer A1", core.Last(t).Auth)
	assert.Equal(t, "/requests/all/app", core.Last(t).Path)
}
