package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/motomarket/internal/common"
	"github.com/dmitrijs2005/motomarket/internal/dbx"
	"github.com/dmitrijs2005/motomarket/internal/logging"
	"github.com/dmitrijs2005/motomarket/internal/server/models"
	"github.com/dmitrijs2005/motomarket/internal/server/policy"
	"github.com/dmitrijs2005/motomarket/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/motomarket/internal/server/rolecache"
)

// RoleResolver answers "what role does this user hold".
type RoleResolver interface {
	GetUserRole(ctx context.Context, userID string) (models.Role, error)
}

type RoleService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cache       rolecache.Cache
	log         logging.Logger
}

func NewRoleService(db *sql.DB, m repomanager.RepositoryManager, cache rolecache.Cache, log logging.Logger) *RoleService {
	return &RoleService{
		db:          db,
		repomanager: m,
		cache:       cache,
		log:         log,
	}
}

// GetUserRole returns the stored role, or models.DefaultRole when the user
// has none. Anonymous callers (empty id) get the default role as well.
// Cache failures are logged and fall through to the database.
func (s *RoleService) GetUserRole(ctx context.Context, userID string) (models.Role, error) {
	if userID == "" {
		return models.DefaultRole, nil
	}

	role, err := s.cache.Get(ctx, userID)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, rolecache.ErrMiss) {
		s.log.Warn(ctx, "role cache read failed", "user_id", userID, "error", err)
	}

	role, err = s.repomanager.Roles(s.db).Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return "", fmt.Errorf("error reading role: %w", err)
		}
		role = models.DefaultRole
	}

	if err := s.cache.Set(ctx, userID, role); err != nil {
		s.log.Warn(ctx, "role cache write failed", "user_id", userID, "error", err)
	}
	return role, nil
}

// SetUserRole assigns role to targetID on behalf of callerID. The caller's
// own role is read inside the same transaction, bypassing the cache, so a
// just-demoted admin cannot complete a reassignment.
func (s *RoleService) SetUserRole(ctx context.Context, callerID, targetID string, role models.Role) error {
	if callerID == "" {
		return common.ErrorUnauthorized
	}
	if targetID == "" {
		return common.NewValidationError("user_id", "is required")
	}
	parsed, err := models.ParseRole(string(role))
	if err != nil {
		return common.NewValidationError("role", err.Error())
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Roles(tx)

		acting, err := repo.GetForShare(ctx, callerID)
		if err != nil {
			if !errors.Is(err, common.ErrorNotFound) {
				return fmt.Errorf("error reading caller role: %w", err)
			}
			acting = models.DefaultRole
		}
		if !policy.Can(acting, policy.ActionSetRole, "", callerID) {
			return common.ErrDenied
		}

		return repo.Upsert(ctx, targetID, parsed)
	})
	if err != nil {
		return err
	}

	if err := s.cache.Evict(ctx, targetID); err != nil {
		s.log.Warn(ctx, "role cache evict failed", "user_id", targetID, "error", err)
	}
	s.log.Info(ctx, "role changed", "user_id", targetID, "role", string(parsed), "actor", callerID)
	return nil
}

// ListUsers returns every profile with its effective role. Admin only.
func (s *RoleService) ListUsers(ctx context.Context, callerID string) ([]*models.UserWithRole, error) {
	if callerID == "" {
		return nil, common.ErrorUnauthorized
	}
	role, err := s.GetUserRole(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !policy.Can(role, policy.ActionListUsers, "", callerID) {
		return nil, common.ErrDenied
	}
	return s.repomanager.Profiles(s.db).ListWithRoles(ctx)
}
