package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"pgm_storefront/internal/domain/models"
	"pgm_storefront/internal/transport/client"
)

const contactPath = "/api/contact"

// ContactService submits contact-form messages and lets admins triage them.
type ContactService struct {
	log    *slog.Logger
	client *client.Client
}

func NewContactService(log *slog.Logger, c *client.Client) *ContactService {
	return &ContactService{log: log, client: c}
}

func (s *ContactService) Submit(ctx context.Context, msg models.ContactRequest) models.Result[models.ContactMessage] {
	const op = "services.ContactService.Submit"

	res := client.Post[models.ContactMessage](ctx, s.client, contactPath, msg)
	if !res.Success {
		s.log.Warn("contact message rejected", slog.String("op", op), slog.String("error", res.Error))
	}

	return res
}

func (s *ContactService) List(ctx context.Context, token string) models.Result[json.RawMessage] {
	return client.Get[json.RawMessage](ctx, s.client, contactPath, client.WithToken(token))
}

func (s *ContactService) Get(ctx context.Context, id int64, token string) models.Result[models.ContactMessage] {
	return client.Get[models.ContactMessage](ctx, s.client, messagePath(id), client.WithToken(token))
}

func (s *ContactService) MarkRead(ctx context.Context, id int64, token string) models.Result[models.ContactMessage] {
	return client.Patch[models.ContactMessage](ctx, s.client, messagePath(id), map[string]bool{"isRead": true}, client.WithToken(token))
}

func (s *ContactService) Delete(ctx context.Context, id int64, token string) models.Result[json.RawMessage] {
	return client.Delete[json.RawMessage](ctx, s.client, messagePath(id), client.WithToken(token))
}

func (s *ContactService) UnreadCount(ctx context.Context, token string) models.Result[models.UnreadCount] {
	return client.Get[models.UnreadCount](ctx, s.client, contactPath+"/unread/count", client.WithToken(token))
}

func messagePath(id int64) string {
	return fmt.Sprintf("%s/%d", contactPath, id)
}
