package models

import "time"

// Brand is a catalog manufacturer within one vehicle category.
type Brand struct {
	ID        string    `json:"id"`
	Category  Category  `json:"category"`
	Name      string    `json:"name"`
	LogoRef   *string   `json:"logo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// VehicleModel belongs to exactly one Brand and shares its category.
type VehicleModel struct {
	ID        string    `json:"id"`
	BrandID   string    `json:"brand_id"`
	Category  Category  `json:"category"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
