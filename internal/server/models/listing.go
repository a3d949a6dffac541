package models

import "time"

// Listing is a seller's vehicle-for-sale record and its moderation status.
// Images holds opaque object-storage references; the first one is the cover.
type Listing struct {
	ID             string    `json:"id"`
	SellerID       string    `json:"seller_id"`
	Category       Category  `json:"category"`
	BrandID        *string   `json:"brand_id,omitempty"`
	ModelID        *string   `json:"model_id,omitempty"`
	BrandName      string    `json:"brand_name"`
	ModelName      string    `json:"model_name"`
	Year           int       `json:"year"`
	Price          float64   `json:"price"`
	Mileage        int       `json:"mileage"`
	EngineCapacity *int      `json:"engine_capacity,omitempty"`
	City           string    `json:"city"`
	Condition      Condition `json:"condition"`
	ContactPhone   string    `json:"contact_phone"`
	Description    string    `json:"description"`
	Images         []string  `json:"images"`
	Negotiable     bool      `json:"is_negotiable"`
	Urgent         bool      `json:"is_urgent"`
	ViewsCount     int64     `json:"views_count"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ListingFields is the seller-controlled content of a listing, as submitted
// on create or update. String enums are parsed during validation.
type ListingFields struct {
	Category       string   `json:"category" binding:"required"`
	BrandID        *string  `json:"brand_id,omitempty"`
	ModelID        *string  `json:"model_id,omitempty"`
	BrandName      string   `json:"brand_name"`
	ModelName      string   `json:"model_name"`
	Year           int      `json:"year" binding:"required"`
	Price          float64  `json:"price" binding:"required"`
	Mileage        int      `json:"mileage"`
	EngineCapacity *int     `json:"engine_capacity,omitempty"`
	City           string   `json:"city" binding:"required"`
	Condition      string   `json:"condition"`
	ContactPhone   string   `json:"contact_phone" binding:"required"`
	Description    string   `json:"description"`
	Images         []string `json:"images" binding:"required"`
	Negotiable     bool     `json:"is_negotiable"`
	Urgent         bool     `json:"is_urgent"`
}

// PendingListing is a moderation-queue row: the listing plus the seller's
// display details.
type PendingListing struct {
	Listing
	SellerName  string `json:"seller_name"`
	SellerPhone string `json:"seller_phone"`
}

// SortKey selects the ordering of catalog search results.
type SortKey string

const (
	SortNewest     SortKey = "newest"
	SortPriceAsc   SortKey = "price_asc"
	SortPriceDesc  SortKey = "price_desc"
	SortYearDesc   SortKey = "year_desc"
	SortMileageAsc SortKey = "mileage_asc"
)

// ParseSortKey maps unknown or empty keys to SortNewest so the search path
// stays total.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(s); k {
	case SortPriceAsc, SortPriceDesc, SortYearDesc, SortMileageAsc:
		return k
	}
	return SortNewest
}

// FilterAll disables a category or city filter.
const FilterAll = "all"

// ListingFilter describes a catalog search over approved listings.
// Empty strings and FilterAll disable the category and city filters; nil
// price bounds are open.
type ListingFilter struct {
	Category string
	Text     string
	City     string
	MinPrice *float64
	MaxPrice *float64
	Sort     SortKey
}
