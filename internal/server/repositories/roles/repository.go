// Package roles persists the single role assigned to each user.
package roles

import (
	"context"

	"github.com/dmitrijs2005/motomarket/internal/server/models"
)

type Repository interface {
	// Get returns the stored role, or common.ErrorNotFound when the user has
	// never been assigned one.
	Get(ctx context.Context, userID string) (models.Role, error)

	// GetForShare is Get with a row lock held until the surrounding
	// transaction ends. Outside a transaction it behaves like Get.
	GetForShare(ctx context.Context, userID string) (models.Role, error)

	// Upsert assigns role to userID, replacing any previous role.
	Upsert(ctx context.Context, userID string, role models.Role) error
}
