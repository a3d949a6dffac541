package catalog

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

func (r *PostgresRepository) ListBrands(ctx context.Context, category models.Category) ([]*models.Brand, error) {
	query := `SELECT id, category, name, logo_url, created_at FROM brands`
	var args []any
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, string(category))
	}
	query += ` ORDER BY name, category`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select brands: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Brand, 0)
	for rows.Next() {
		b := &models.Brand{}
		if err := rows.Scan(&b.ID, &b.Category, &b.Name, &b.LogoRef, &b.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) GetBrand(ctx context.Context, id string) (*models.Brand, error) {
	query := `SELECT id, category, name, logo_url, created_at FROM brands WHERE id = $1`

	b := &models.Brand{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&b.ID, &b.Category, &b.Name, &b.LogoRef, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}

func (r *PostgresRepository) ListModels(ctx context.Context, brandID string) ([]*models.VehicleModel, error) {
	query := `SELECT id, brand_id, category, name, created_at FROM models WHERE brand_id = $1 ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, brandID)
	if err != nil {
		return nil, fmt.Errorf("failed to select models: %w", err)
	}
	defer rows.Close()

	result := make([]*models.VehicleModel, 0)
	for rows.Next() {
		m := &models.VehicleModel{}
		if err := rows.Scan(&m.ID, &m.BrandID, &m.Category, &m.Name, &m.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) GetModel(ctx context.Context, id string) (*models.VehicleModel, error) {
	query := `SELECT id, brand_id, category, name, created_at FROM models WHERE id = $1`

	m := &models.VehicleModel{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&m.ID, &m.BrandID, &m.Category, &m.Name, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}
