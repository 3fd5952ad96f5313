package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"pgm_storefront/internal/domain/models"
	"pgm_storefront/internal/transport/client"
)

const awardsPath = "/api/awards"

type AwardService struct {
	log    *slog.Logger
	client *client.Client
}

func NewAwardService(log *slog.Logger, c *client.Client) *AwardService {
	return &AwardService{log: log, client: c}
}

func (s *AwardService) List(ctx context.Context) models.Result[json.RawMessage] {
	return client.Get[json.RawMessage](ctx, s.client, awardsPath)
}

func (s *AwardService) Get(ctx context.Context, id int64) models.Result[models.Award] {
	return client.Get[models.Award](ctx, s.client, awardPath(id))
}

func (s *AwardService) Create(ctx context.Context, a models.AwardForm, token string) models.Result[models.Award] {
	return client.PostMultipart[models.Award](ctx, s.client, awardsPath, awardForm(a), client.WithToken(token))
}

func (s *AwardService) Update(ctx context.Context, id int64, a models.AwardForm, token string) models.Result[models.Award] {
	return client.PutMultipart[models.Award](ctx, s.client, awardPath(id), awardForm(a), client.WithToken(token))
}

func (s *AwardService) Delete(ctx context.Context, id int64, token string) models.Result[json.RawMessage] {
	return client.Delete[json.RawMessage](ctx, s.client, awardPath(id), client.WithToken(token))
}

func awardForm(a models.AwardForm) *client.Form {
	f := client.NewForm().
		Optional("title", a.Title).
		Optional("description", a.Description)
	if a.Year != 0 {
		f.Int("year", int64(a.Year))
	}
	return f.
		Optional("category", a.Category).
		Bool("isActive", a.IsActive).
		File("image", a.Image)
}

func awardPath(id int64) string {
	return fmt.Sprintf("%s/%d", awardsPath, id)
}
