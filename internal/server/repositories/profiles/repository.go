// Package profiles stores user profiles keyed by the identity provider's
// user id.
package profiles

import (
	"context"

	"github.com/dmitrijs2005/motomarket/internal/server/models"
)

type Repository interface {
	// Upsert creates the profile or overwrites its editable fields.
	// Timestamps are read back into p.
	Upsert(ctx context.Context, p *models.UserProfile) error
	Get(ctx context.Context, id string) (*models.UserProfile, error)
	// ListWithRoles returns every profile with its effective role; users
	// without a stored role are reported as models.DefaultRole.
	ListWithRoles(ctx context.Context) ([]*models.UserWithRole, error)
}
