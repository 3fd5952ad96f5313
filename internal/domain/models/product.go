package models

// ProductData is a product as the product backend stores it. Rating,
// ReviewCount and Tags are not always present.
type ProductData struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Weight      float64  `json:"weight"`
	Price       float64  `json:"price"`
	BrandID     int64    `json:"brandId"`
	CategoryID  int64    `json:"categoryId"`
	Image       []string `json:"image"`
	Points      float64  `json:"points,omitempty"`
	IsVisible   *bool    `json:"isVisible,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
	SKU         string   `json:"sku,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount *int     `json:"reviewCount,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	CreatedAt   string   `json:"createdAt,omitempty"`
	UpdatedAt   string   `json:"updatedAt,omitempty"`
}

// Product is the record the presentation layer renders.
type Product struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Brand       string   `json:"brand"`
	Price       float64  `json:"price"`
	Images      []string `json:"images"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"reviewCount"`
	InStock     bool     `json:"inStock"`
	StockCount  int      `json:"stockCount"`
	Tags        []string `json:"tags"`
	SKU         string   `json:"sku"`
	Weight      float64  `json:"weight,omitempty"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

// ProductForm is the multipart body of product create/update. Detail lists
// are sent JSON-encoded.
type ProductForm struct {
	Name                  string
	Description           string
	Weight                float64
	Price                 float64
	BrandID               int64
	CategoryID            int64
	Points                float64
	PointDescription      string
	IsVisible             *bool
	IsDeleted             *bool
	Sizes                 []map[string]any
	HomeEssentialProducts []map[string]any
	CosmeticProducts      []map[string]any
	MedicalDetails        []map[string]any
	MedicalEquipment      []map[string]any
	ClothingDetails       []map[string]any
	Images                []File
}

type Brand struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Logo        string `json:"logo,omitempty"`
	IsActive    bool   `json:"isActive"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

type BrandForm struct {
	Name        string
	Description string
	IsActive    *bool
	Logo        *File
}

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ParentID    *int64 `json:"parentId,omitempty"`
	IsActive    bool   `json:"isActive"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

type CategoryRequest struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	ParentID    *int64 `json:"parentId,omitempty"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

type BVPoints struct {
	ID            int64        `json:"id"`
	ProductID     int64        `json:"productId"`
	BVPoints      float64      `json:"bvPoints"`
	EffectiveDate string       `json:"effectiveDate"`
	ExpiryDate    string       `json:"expiryDate,omitempty"`
	IsActive      bool         `json:"isActive"`
	Product       *ProductData `json:"product,omitempty"`
}
