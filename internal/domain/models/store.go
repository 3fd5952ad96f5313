package models

type Store struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Address     Address `json:"address"`
	Phone       string  `json:"phone,omitempty"`
	Email       string  `json:"email,omitempty"`
	IsActive    bool    `json:"isActive"`
	CreatedAt   string  `json:"createdAt,omitempty"`
	UpdatedAt   string  `json:"updatedAt,omitempty"`
}

type StoreRequest struct {
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Address     *Address `json:"address,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Email       string   `json:"email,omitempty"`
	IsActive    *bool    `json:"isActive,omitempty"`
}

type OpeningHours struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	IsOpen bool   `json:"isOpen,omitempty"`
}

// StoreHours is keyed by weekday.
type StoreHours map[string]OpeningHours

type Availability struct {
	Available     bool   `json:"available"`
	Quantity      int    `json:"quantity"`
	ReservedUntil string `json:"reservedUntil,omitempty"`
}

type Reservation struct {
	ReservationID string `json:"reservationId"`
	ExpiresAt     string `json:"expiresAt"`
}
