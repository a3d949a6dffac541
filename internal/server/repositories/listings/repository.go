// Package listings stores vehicle listings and evaluates catalog filters in
// the database.
package listings

import (
	"context"

	"github.com/dmitrijs2005/motomarket/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, listing *models.Listing) error
	GetByID(ctx context.Context, id string) (*models.Listing, error)

	// UpdateContent rewrites seller-controlled fields only while the listing
	// is still in status expected and owned by listing.SellerID.
	UpdateContent(ctx context.Context, listing *models.Listing, expected models.Status) error

	// CompareAndSetStatus moves a listing from -> to in one statement.
	// It returns common.ErrStatusConflict when the stored status is not from.
	CompareAndSetStatus(ctx context.Context, id string, from, to models.Status) (*models.Listing, error)

	// Delete removes a listing owned by sellerID that is in status expected.
	Delete(ctx context.Context, id, sellerID string, expected models.Status) error

	IncrementViews(ctx context.Context, id string) error

	Search(ctx context.Context, filter models.ListingFilter) ([]*models.Listing, error)
	ListBySeller(ctx context.Context, sellerID string) ([]*models.Listing, error)
	ListPending(ctx context.Context) ([]*models.PendingListing, error)
}
