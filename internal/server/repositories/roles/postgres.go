package roles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/motomarket/internal/common"
	"github.com/dmitrijs2005/motomarket/internal/dbx"
	"github.com/dmitrijs2005/motomarket/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (models.Role, error) {
	return r.get(ctx, `SELECT role FROM user_roles WHERE user_id = $1`, userID)
}

func (r *PostgresRepository) GetForShare(ctx context.Context, userID string) (models.Role, error) {
	return r.get(ctx, `SELECT role FROM user_roles WHERE user_id = $1 FOR SHARE`, userID)
}

func (r *PostgresRepository) get(ctx context.Context, query, userID string) (models.Role, error) {
	var role models.Role
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return role, nil
}

// Upsert keeps at most one row per user; the primary key on user_id makes a
// concurrent second insert fall through to the update branch.
func (r *PostgresRepository) Upsert(ctx context.Context, userID string, role models.Role) error {
	query := `
		INSERT INTO user_roles (user_id, role)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role, updated_at = now()
	`
	res, err := r.db.ExecContext(ctx, query, userID, string(role))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if err := dbx.AffectedOne(res); err != nil {
		return fmt.Errorf("upsert role: %w", err)
	}
	return nil
}
