package profiles

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

func (r *PostgresRepository) Upsert(ctx context.Context, p *models.UserProfile) error {
	query := `
		INSERT INTO profiles (id, full_name, username, phone_number, city, address, bio, avatar_url,
			user_type, verification_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			username = EXCLUDED.username,
			phone_number = EXCLUDED.phone_number,
			city = EXCLUDED.city,
			address = EXCLUDED.address,
			bio = EXCLUDED.bio,
			avatar_url = EXCLUDED.avatar_url,
			user_type = EXCLUDED.user_type,
			updated_at = now()
		RETURNING verification_status, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		p.ID, p.FullName, p.Username, p.Phone, p.City, p.Address, p.Bio, p.AvatarRef,
		string(p.UserType), string(p.VerificationStatus),
	).Scan(&p.VerificationStatus, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

const profileColumns = `p.id, p.full_name, p.username, p.phone_number, p.city, p.address, p.bio,
	p.avatar_url, p.user_type, p.verification_status, p.created_at, p.updated_at`

func profileDest(p *models.UserProfile) []any {
	return []any{
		&p.ID, &p.FullName, &p.Username, &p.Phone, &p.City, &p.Address, &p.Bio,
		&p.AvatarRef, &p.UserType, &p.VerificationStatus, &p.CreatedAt, &p.UpdatedAt,
	}
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.UserProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles p WHERE p.id = $1`

	p := &models.UserProfile{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(profileDest(p)...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) ListWithRoles(ctx context.Context) ([]*models.UserWithRole, error) {
	query := `
		SELECT ` + profileColumns + `, COALESCE(r.role, $1)
		FROM profiles p
		LEFT JOIN user_roles r ON r.user_id = p.id
		ORDER BY p.created_at DESC, p.id
	`
	rows, err := r.db.QueryContext(ctx, query, string(models.DefaultRole))
	if err != nil {
		return nil, fmt.Errorf("failed to select users: %w", err)
	}
	defer rows.Close()

	result := make([]*models.UserWithRole, 0)
	for rows.Next() {
		u := &models.UserWithRole{}
		if err := rows.Scan(append(profileDest(&u.UserProfile), &u.Role)...); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
