package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pgm_storefront/internal/domain/models"
	"pgm_storefront/internal/lib/fakeapi"
	"pgm_storefront/internal/lib/logger/handlers/slogdiscard"
	"pgm_storefront/internal/transport/client"
)

func newTestService(t *testing.T, status int, body any) (*ContactService, *fakeapi.Recorder) {
	t.Helper()

	backend := fakeapi.NewRecorder(t, status, body)
	return NewContactService(slogdiscard.NewDiscardLogger(), client.New(backend.URL, nil, nil)), backend
}

func TestContactService_Submit(t *testing.T) {
	msg := models.ContactRequest{
		Name:    gofakeit.Name(),
		Email:   gofakeit.Email(),
		Subject: gofakeit.Sentence(4),
		Message: gofakeit.Paragraph(1, 2, 10, " "),
	}

	svc, backend := newTestService(t, http.StatusCreated, map[string]any{"id": 1, "email": msg.Email})

	res := svc.Submit(context.Background(), msg)
	require.True(t, res.Success)
	assert.Equal(t, msg.Email, res.Data.Email)

	call := backend.Last(t)
	assert.Equal(t, http.MethodPost, call.Method)
	assert.Equal(t, "/api/contact", call.Path)
	assert.Empty(t, call.Auth)

	var sent models.ContactRequest
	require.NoError(t, call.JSON(&sent))
	assert.Equal(t, msg, sent)
}

func TestContactService_MarkRead(t *testing.T) {
	svc, backend := newTestService(t, http.StatusOK, map[string]any{"id": 4, "isRead": true})

	res := svc.MarkRead(context.Background(), 4, "admin")
	require.True(t, res.Success)
	assert.True(t, res.Data.IsRead)

	call := backend.Last(t)
	assert.Equal(t, http.MethodPatch, call.Method)
	assert.Equal(t, "/api/contact/4", call.Path)
	assert.JSONEq(t, `{"isRead":true}`, string(call.Body))
}

func TestContactService_Routes(t *testing.T) {
	ctx := context.Background()
	svc, backend := newTestService(t, http.StatusOK, map[string]any{"count": 3})

	require.True(t, svc.List(ctx, "admin").Success)
	assert.Equal(t, "/api/contact", backend.Last(t).Path)

	require.True(t, svc.Get(ctx, 4, "admin").Success)
	assert.Equal(t, "/api/contact/4", backend.Last(t).Path)

	require.True(t, svc.Delete(ctx, 4, "admin").Success)
	assert.Equal(t, http.MethodDelete, backend.Last(t).Method)

	res := svc.UnreadCount(ctx, "admin")
	require.True(t, res.Success)
	assert.Equal(t, 3, res.Data.Count)
	assert.Equal(t, "/api/contact/unread/count", backend.Last(t).Path)
	assert.Equal(t, "Bearer admin", backend.Last(t).Auth)
}
