package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"pgm_storefront/internal/domain/models"
	"pgm_storefront/internal/transport/client"
)

const galleryPath = "/api/gallery"

var ErrTitleRequired = errors.New("title is required")

type GalleryService struct {
	log    *slog.Logger
	client *client.Client
}

func NewGalleryService(log *slog.Logger, c *client.Client) *GalleryService {
	return &GalleryService{
		log:    log,
		client: c,
	}
}

func (s *GalleryService) List(ctx context.Context) models.Result[json.RawMessage] {
	return client.Get[json.RawMessage](ctx, s.client, galleryPath)
}

func (s *GalleryService) Get(ctx context.Context, id int64) models.Result[models.GalleryImage] {
	return client.Get[models.GalleryImage](ctx, s.client, imagePath(id))
}

// Create загружает новое изображение в галерею
func (s *GalleryService) Create(ctx context.Context, g models.GalleryForm, token string) models.Result[models.GalleryImage] {
	const op = "service.GalleryService.Create"
	log := s.log.With(
		slog.String("op", op),
		slog.String("title", g.Title),
	)

	log.Info("creating gallery image")

	if g.Title == "" {
		log.Error("title is required")
		return models.Fail[models.GalleryImage](ErrTitleRequired.Error(), 0)
	}

	res := client.PostMultipart[models.GalleryImage](ctx, s.client, galleryPath, galleryForm(g), client.WithToken(token))
	if !res.Success {
		log.Error("failed to create gallery image", slog.String("error", res.Error), slog.Int("status", res.Status))
		return res
	}

	log.Info("gallery image created", slog.Int64("id", res.Data.ID))
	return res
}

// Update отправляет только заполненные поля
func (s *GalleryService) Update(ctx context.Context, id int64, g models.GalleryForm, token string) models.Result[models.GalleryImage] {
	return client.PutMultipart[models.GalleryImage](ctx, s.client, imagePath(id), galleryForm(g), client.WithToken(token))
}

func (s *GalleryService) Delete(ctx context.Context, id int64, token string) models.Result[json.RawMessage] {
	return client.Delete[json.RawMessage](ctx, s.client, imagePath(id), client.WithToken(token))
}

func (s *GalleryService) ByCategory(ctx context.Context, category string) models.Result[json.RawMessage] {
	return client.Get[json.RawMessage](ctx, s.client, galleryPath+"/category/"+url.PathEscape(category))
}

func galleryForm(g models.GalleryForm) *client.Form {
	return client.NewForm().
		Optional("title", g.Title).
		Optional("description", g.Description).
		Optional("category", g.Category).
		Bool("isActive", g.IsActive).
		File("image", g.Image)
}

func imagePath(id int64) string {
	return fmt.Sprintf("%s/%d", galleryPath, id)
}
