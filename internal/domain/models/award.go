package models

type Award struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Year        int    `json:"year"`
	Category    string `json:"category"`
	IsActive    bool   `json:"isActive"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

type AwardForm struct {
	Title       string
	Description string
	Year        int
	Category    string
	IsActive    *bool
	Image       *File
}
