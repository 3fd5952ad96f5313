package models

type WishlistItem struct {
	ID        int64        `json:"id"`
	UserID    int64        `json:"userId"`
	ProductID int64        `json:"productId"`
	Product   *ProductData `json:"product,omitempty"`
	CreatedAt string       `json:"createdAt,omitempty"`
}

type WishlistRequest struct {
	UserID    int64 `json:"userId"`
	ProductID int64 `json:"productId"`
}

type WishlistCheck struct {
	IsInWishlist bool `json:"isInWishlist"`
}

type WishlistSummary struct {
	TotalItems int            `json:"totalItems"`
	Items      []WishlistItem `json:"items"`
}

type WishlistShare struct {
	ShareURL  string `json:"shareUrl"`
	ExpiresAt string `json:"expiresAt"`
}

type PublicWishlist struct {
	User struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	} `json:"user"`
	Items []WishlistItem `json:"items"`
}
