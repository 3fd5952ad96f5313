package adapter

import (
	"log/slog"
	"strconv"

	"pgm_storefront/internal/domain/models"
)

// ProductAdapter turns backend products into UI products. Fields the backend
// does not send get fixed defaults; each substitution is logged at debug
// level so missing data stays visible.
type ProductAdapter struct {
	log *slog.Logger
}

func NewProductAdapter(log *slog.Logger) *ProductAdapter {
	return &ProductAdapter{log: log}
}

func (a *ProductAdapter) Adapt(p models.ProductData) models.Product {
	const op = "adapter.ProductAdapter.Adapt"

	out := models.Product{
		ID:          strconv.FormatInt(p.ID, 10),
		Title:       p.Name,
		Description: p.Description,
		Category:    strconv.FormatInt(p.CategoryID, 10),
		Brand:       strconv.FormatInt(p.BrandID, 10),
		Price:       p.Price,
		Images:      p.Image,
		SKU:         p.SKU,
		Weight:      p.Weight,
		InStock:     true,
		Tags:        p.Tags,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if out.Images == nil {
		out.Images = []string{}
	}
	if p.Stock != nil {
		out.StockCount = *p.Stock
		out.InStock = *p.Stock > 0
	}

	var defaulted []string
	if p.Rating != nil {
		out.Rating = *p.Rating
	} else {
		defaulted = append(defaulted, "rating")
	}
	if p.ReviewCount != nil {
		out.ReviewCount = *p.ReviewCount
	} else {
		defaulted = append(defaulted, "reviewCount")
	}
	if out.Tags == nil {
		out.Tags = []string{}
		defaulted = append(defaulted, "tags")
	}

	if len(defaulted) > 0 && a.log != nil {
		a.log.Debug("product fields defaulted",
			slog.String("op", op),
			slog.Int64("product_id", p.ID),
			slog.Any("fields", defaulted),
		)
	}

	return out
}

func (a *ProductAdapter) AdaptAll(products []models.ProductData) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		out = append(out, a.Adapt(p))
	}
	return out
}
