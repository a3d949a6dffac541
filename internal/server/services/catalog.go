package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dmitrijs2005/motomarket/internal/common"
	"github.com/dmitrijs2005/motomarket/internal/server/models"
	"github.com/dmitrijs2005/motomarket/internal/server/repositories/repomanager"
)

// CatalogService answers public read queries: approved-listing search and
// the brand/model reference data.
type CatalogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCatalogService(db *sql.DB, m repomanager.RepositoryManager) *CatalogService {
	return &CatalogService{
		db:          db,
		repomanager: m,
	}
}

// SearchApproved returns approved listings matching f. Filters that cannot
// match anything, such as an inverted price range or an unknown category,
// yield an empty result rather than an error.
func (s *CatalogService) SearchApproved(ctx context.Context, f models.ListingFilter) ([]*models.Listing, error) {
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return []*models.Listing{}, nil
	}

	if c := strings.TrimSpace(f.Category); c != "" && !strings.EqualFold(c, models.FilterAll) {
		category, err := models.ParseCategory(c)
		if err != nil {
			return []*models.Listing{}, nil
		}
		f.Category = string(category)
	} else {
		f.Category = ""
	}
	if strings.EqualFold(strings.TrimSpace(f.City), models.FilterAll) {
		f.City = ""
	}
	f.Sort = models.ParseSortKey(string(f.Sort))

	return s.repomanager.Listings(s.db).Search(ctx, f)
}

// SearchApprovedIDs is SearchApproved reduced to listing ids, in order.
func (s *CatalogService) SearchApprovedIDs(ctx context.Context, f models.ListingFilter) ([]string, error) {
	found, err := s.SearchApproved(ctx, f)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(found))
	for i, l := range found {
		ids[i] = l.ID
	}
	return ids, nil
}

// ListBrands lists catalog brands, optionally for one category.
func (s *CatalogService) ListBrands(ctx context.Context, category string) ([]*models.Brand, error) {
	var c models.Category
	if v := strings.TrimSpace(category); v != "" && !strings.EqualFold(v, models.FilterAll) {
		parsed, err := models.ParseCategory(v)
		if err != nil {
			return nil, common.NewValidationError("category", "must be one of bike, scooter, car")
		}
		c = parsed
	}
	return s.repomanager.Catalog(s.db).ListBrands(ctx, c)
}

// ListModels lists the models of one brand. An unknown brand is
// common.ErrorNotFound.
func (s *CatalogService) ListModels(ctx context.Context, brandID string) ([]*models.VehicleModel, error) {
	repo := s.repomanager.Catalog(s.db)
	if _, err := repo.GetBrand(ctx, brandID); err != nil {
		return nil, err
	}
	return repo.ListModels(ctx, brandID)
}
