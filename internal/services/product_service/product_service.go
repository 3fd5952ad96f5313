package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"pgm_storefront/internal/domain/models"
	"pgm_storefront/internal/transport/client"
)

const (
	productsPath   = "/api/products"
	brandsPath     = "/api/products/brands"
	categoriesPath = "/api/products/categories"
)

// ProductService covers products, brands and categories on the product
// backend. List and read endpoints return the raw body, which callers run
// through the adapters since its envelope varies.
type ProductService struct {
	log    *slog.Logger
	client *client.Client
}

func NewProductService(log *slog.Logger, c *client.Client) *ProductService {
	return &ProductService{log: log, client: c}
}

func (s *ProductService) ListProducts(ctx context.Context) models.Result[json.RawMessage] {
	return client.Get[json.RawMessage](ctx, s.client, productsPath)
}

func (s *ProductService) GetProduct(ctx context.Context, id int64) models.Result[json.RawMessage] {
	return client.Get[json.RawMessage](ctx, s.client, productPath(id))
}

func (s *ProductService) ProductsByCategory(ctx context.Context, category string) models.Result[json.RawMessage] {
	return client.Get[json.RawMessage](ctx, s.client, productsPath+"/category/"+url.PathEscape(category))
}

func (s *ProductService) CreateProduct(ctx context.Context, p models.ProductForm, token string) models.Result[models.ProductData] {
	const op = "services.ProductService.CreateProduct"

	s.log.Debug("creating product", slog.String("op", op), slog.String("name", p.Name), slog.Int("images", len(p.Images)))

	return client.PostMultipart[models.ProductData](ctx, s.client, productsPath, productForm(p, false), client.WithToken(token))
}

// UpdateProduct sends only the fields that are set.
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, p models.ProductForm, token string) models.Result[models.ProductData] {
	return client.PutMultipart[models.ProductData](ctx, s.client, productPath(id), productForm(p, true), client.WithToken(token))
}

func (s *ProductService) DeleteProduct(ctx context.Context, id int64, token string) models.Result[json.RawMessage] {
	return client.Delete[json.RawMessage](ctx, s.client, productPath(id), client.WithToken(token))
}

func (s *ProductService) ListBrands(ctx context.Context) models.Result[json.RawMessage] {
	return client.Get[json.RawMessage](ctx, s.client, brandsPath)
}

func (s *ProductService) CreateBrand(ctx context.Context, b models.BrandForm, token string) models.Result[models.Brand] {
	return client.PostMultipart[models.Brand](ctx, s.client, brandsPath, brandForm(b), client.WithToken(token))
}

func (s *ProductService) UpdateBrand(ctx context.Context, id int64, b models.BrandForm, token string) models.Result[models.Brand] {
	return client.PutMultipart[models.Brand](ctx, s.client, fmt.Sprintf("%s/%d", brandsPath, id), brandForm(b), client.WithToken(token))
}

func (s *ProductService) DeleteBrand(ctx context.Context, id int64, token string) models.Result[json.RawMessage] {
	return client.Delete[json.RawMessage](ctx, s.client, fmt.Sprintf("%s/%d", brandsPath, id), client.WithToken(token))
}

func (s *ProductService) ListCategories(ctx context.Context) models.Result[json.RawMessage] {
	return client.Get[json.RawMessage](ctx, s.client, categoriesPath)
}

func (s *ProductService) CreateCategory(ctx context.Context, c models.CategoryRequest, token string) models.Result[models.Category] {
	return client.Post[models.Category](ctx, s.client, categoriesPath, c, client.WithToken(token))
}

func (s *ProductService) UpdateCategory(ctx context.Context, id int64, c models.CategoryRequest, token string) models.Result[models.Category] {
	return client.Put[models.Category](ctx, s.client, fmt.Sprintf("%s/%d", categoriesPath, id), c, client.WithToken(token))
}

func (s *ProductService) DeleteCategory(ctx context.Context, id int64, token string) models.Result[json.RawMessage] {
	return client.Delete[json.RawMessage](ctx, s.client, fmt.Sprintf("%s/%d", categoriesPath, id), client.WithToken(token))
}

func productPath(id int64) string {
	return fmt.Sprintf("%s/%d", productsPath, id)
}

// productForm lays out the product multipart body. With partial set, zero
// scalars and absent detail lists are left out.
func productForm(p models.ProductForm, partial bool) *client.Form {
	f := client.NewForm()

	text := func(name, v string) {
		if partial {
			f.Optional(name, v)
			return
		}
		f.Field(name, v)
	}
	number := func(name string, v float64) {
		if partial && v == 0 {
			return
		}
		f.Float(name, v)
	}
	id := func(name string, v int64) {
		if partial && v == 0 {
			return
		}
		f.Int(name, v)
	}
	details := func(name string, v []map[string]any) {
		if partial && v == nil {
			return
		}
		f.JSON(name, v)
	}

	text("name", p.Name)
	text("description", p.Description)
	number("weight", p.Weight)
	number("price", p.Price)
	id("brandId", p.BrandID)
	id("categoryId", p.CategoryID)
	number("points", p.Points)
	text("pointDescription", p.PointDescription)
	f.Bool("isVisible", p.IsVisible)
	f.Bool("isDeleted", p.IsDeleted)

	details("sizes", p.Sizes)
	details("homeEssentialProducts", p.HomeEssentialProducts)
	details("cosmeticProducts", p.CosmeticProducts)
	details("medicalDetails", p.MedicalDetails)
	details("medicalEquipment", p.MedicalEquipment)
	details("clothingDetails", p.ClothingDetails)

	f.Files("images", p.Images)

	return f
}

func brandForm(b models.BrandForm) *client.Form {
	return client.NewForm().
		Optional("name", b.Name).
		Optional("description", b.Description).
		Bool("isActive", b.IsActive).
		File("logo", b.Logo)
}
