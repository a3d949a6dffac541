package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dmitrijs2005/motomarket/internal/common"
	"github.com/dmitrijs2005/motomarket/internal/server/models"
	"github.com/dmitrijs2005/motomarket/internal/server/repositories/catalog"
)

// MinListingYear is the oldest model year accepted on a listing.
const MinListingYear = 1900

// Bounds of the listings columns: price is NUMERIC(14,2), mileage and
// engine_capacity are INTEGER.
const (
	MinListingPrice = 0.01
	MaxListingPrice = 999999999999.99
	maxPriceCents   = 99999999999999
	maxColumnInt    = math.MaxInt32
)

// validateFields checks seller input and returns a listing populated with
// the normalized content. Status, ids and timestamps are left to the caller.
func validateFields(f models.ListingFields, now time.Time) (*models.Listing, error) {
	category, err := models.ParseCategory(strings.TrimSpace(f.Category))
	if err != nil {
		return nil, common.NewValidationError("category", "must be one of bike, scooter, car")
	}

	condition := models.ConditionUsed
	if c := strings.TrimSpace(f.Condition); c != "" {
		condition, err = models.ParseCondition(c)
		if err != nil {
			return nil, common.NewValidationError("condition", "must be one of new, used, certified")
		}
	}

	// the column keeps cents; check what will actually be stored
	cents := math.Round(f.Price * 100)

	switch {
	case f.Year < MinListingYear || f.Year > now.Year()+1:
		return nil, common.NewValidationError("year", fmt.Sprintf("must be between %d and %d", MinListingYear, now.Year()+1))
	case !(cents >= 1 && cents <= maxPriceCents):
		return nil, common.NewValidationError("price", fmt.Sprintf("must be between %.2f and %.2f", MinListingPrice, MaxListingPrice))
	case f.Mileage < 0:
		return nil, common.NewValidationError("mileage", "must not be negative")
	case f.Mileage > maxColumnInt:
		return nil, common.NewValidationError("mileage", fmt.Sprintf("must not exceed %d", maxColumnInt))
	case f.EngineCapacity != nil && *f.EngineCapacity < 0:
		return nil, common.NewValidationError("engine_capacity", "must not be negative")
	case f.EngineCapacity != nil && *f.EngineCapacity > maxColumnInt:
		return nil, common.NewValidationError("engine_capacity", fmt.Sprintf("must not exceed %d", maxColumnInt))
	case strings.TrimSpace(f.City) == "":
		return nil, common.NewValidationError("city", "is required")
	case strings.TrimSpace(f.ContactPhone) == "":
		return nil, common.NewValidationError("contact_phone", "is required")
	case len(f.Images) < common.MinListingImages:
		return nil, common.NewValidationError("images", "at least one image is required")
	case len(f.Images) > common.MaxListingImages:
		return nil, common.NewValidationError("images", fmt.Sprintf("at most %d images are allowed", common.MaxListingImages))
	}

	images := make([]string, len(f.Images))
	for i, ref := range f.Images {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			return nil, common.NewValidationError("images", fmt.Sprintf("image %d is empty", i))
		}
		images[i] = ref
	}

	return &models.Listing{
		Category:       category,
		BrandID:        nonEmpty(f.BrandID),
		ModelID:        nonEmpty(f.ModelID),
		BrandName:      strings.TrimSpace(f.BrandName),
		ModelName:      strings.TrimSpace(f.ModelName),
		Year:           f.Year,
		Price:          cents / 100,
		Mileage:        f.Mileage,
		EngineCapacity: f.EngineCapacity,
		City:           strings.TrimSpace(f.City),
		Condition:      condition,
		ContactPhone:   strings.TrimSpace(f.ContactPhone),
		Description:    strings.TrimSpace(f.Description),
		Images:         images,
		Negotiable:     f.Negotiable,
		Urgent:         f.Urgent,
	}, nil
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// resolveCatalog checks optional brand/model ids against the catalog and
// fills empty denormalized names from it. Free-text names without ids are
// accepted as they are; the names themselves stay required.
func resolveCatalog(ctx context.Context, repo catalog.Repository, l *models.Listing) error {
	if l.ModelID != nil && l.BrandID == nil {
		return common.NewValidationError("brand_id", "is required when model_id is set")
	}

	if l.BrandID != nil {
		brand, err := repo.GetBrand(ctx, *l.BrandID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.NewValidationError("brand_id", "unknown brand")
			}
			return err
		}
		if brand.Category != l.Category {
			return common.NewValidationError("brand_id", "brand does not belong to category "+string(l.Category))
		}
		if l.BrandName == "" {
			l.BrandName = brand.Name
		}
	}

	if l.ModelID != nil {
		model, err := repo.GetModel(ctx, *l.ModelID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.NewValidationError("model_id", "unknown model")
			}
			return err
		}
		if model.BrandID != *l.BrandID {
			return common.NewValidationError("model_id", "model does not belong to brand")
		}
		if l.ModelName == "" {
			l.ModelName = model.Name
		}
	}

	if l.BrandName == "" {
		return common.NewValidationError("brand_name", "is required")
	}
	if l.ModelName == "" {
		return common.NewValidationError("model_name", "is required")
	}
	return nil
}
