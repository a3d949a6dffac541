// Package catalog reads the brand and model reference data.
package catalog

import (
	"context"

	"github.com/dmitrijs2005/motomarket/internal/server/models"
)

type Repository interface {
	// ListBrands returns brands ordered by name. An empty category lists all.
	ListBrands(ctx context.Context, category models.Category) ([]*models.Brand, error)
	GetBrand(ctx context.Context, id string) (*models.Brand, error)
	ListModels(ctx context.Context, brandID string) ([]*models.VehicleModel, error)
	GetModel(ctx context.Context, id string) (*models.VehicleModel, error)
}
