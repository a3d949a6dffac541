package listings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/motomarket/internal/common"
	"github.com/dmitrijs2005/motomarket/internal/dbx"
	"github.com/dmitrijs2005/motomarket/internal/server/models"
)

const listingColumns = `id, seller_id, category, brand_id, model_id, brand_name, model_name,
	year, price, mileage, engine_capacity, city, condition, contact_phone, description,
	images, is_negotiable, is_urgent, views_count, status, created_at, updated_at`

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner, extra ...any) (*models.Listing, error) {
	l := &models.Listing{}
	var images []byte
	dest := []any{
		&l.ID, &l.SellerID, &l.Category, &l.BrandID, &l.ModelID, &l.BrandName, &l.ModelName,
		&l.Year, &l.Price, &l.Mileage, &l.EngineCapacity, &l.City, &l.Condition, &l.ContactPhone, &l.Description,
		&images, &l.Negotiable, &l.Urgent, &l.ViewsCount, &l.Status, &l.CreatedAt, &l.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(images, &l.Images); err != nil {
		return nil, fmt.Errorf("decode images of listing %s: %w", l.ID, err)
	}
	return l, nil
}

func encodeImages(images []string) (string, error) {
	b, err := json.Marshal(images)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Create inserts a listing. CreatedAt/UpdatedAt are filled from the database.
func (r *PostgresRepository) Create(ctx context.Context, l *models.Listing) error {
	images, err := encodeImages(l.Images)
	if err != nil {
		return fmt.Errorf("encode images: %w", err)
	}

	query := `
		INSERT INTO listings (id, seller_id, category, brand_id, model_id, brand_name, model_name,
			year, price, mileage, engine_capacity, city, condition, contact_phone, description,
			images, is_negotiable, is_urgent, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING created_at, updated_at
	`
	err = r.db.QueryRowContext(ctx, query,
		l.ID, l.SellerID, string(l.Category), l.BrandID, l.ModelID, l.BrandName, l.ModelName,
		l.Year, l.Price, l.Mileage, l.EngineCapacity, l.City, string(l.Condition), l.ContactPhone, l.Description,
		images, l.Negotiable, l.Urgent, string(l.Status),
	).Scan(&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// GetByID returns common.ErrorNotFound when no listing has the id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`

	l, err := scanListing(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return l, nil
}

func (r *PostgresRepository) UpdateContent(ctx context.Context, l *models.Listing, expected models.Status) error {
	images, err := encodeImages(l.Images)
	if err != nil {
		return fmt.Errorf("encode images: %w", err)
	}

	query := `
		UPDATE listings SET category = $1, brand_id = $2, model_id = $3, brand_name = $4, model_name = $5,
			year = $6, price = $7, mileage = $8, engine_capacity = $9, city = $10, condition = $11,
			contact_phone = $12, description = $13, images = $14, is_negotiable = $15, is_urgent = $16,
			updated_at = now()
		WHERE id = $17 AND seller_id = $18 AND status = $19
		RETURNING updated_at
	`
	err = r.db.QueryRowContext(ctx, query,
		string(l.Category), l.BrandID, l.ModelID, l.BrandName, l.ModelName,
		l.Year, l.Price, l.Mileage, l.EngineCapacity, l.City, string(l.Condition),
		l.ContactPhone, l.Description, images, l.Negotiable, l.Urgent,
		l.ID, l.SellerID, string(expected),
	).Scan(&l.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrStatusConflict
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// CompareAndSetStatus is the only statement that writes listings.status
// after creation. The WHERE clause on the current status serialises
// concurrent transitions of the same listing: exactly one of them matches.
func (r *PostgresRepository) CompareAndSetStatus(ctx context.Context, id string, from, to models.Status) (*models.Listing, error) {
	query := `
		UPDATE listings SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
		RETURNING ` + listingColumns

	l, err := scanListing(r.db.QueryRowContext(ctx, query, string(to), id, string(from)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrStatusConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return l, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, sellerID string, expected models.Status) error {
	query := `DELETE FROM listings WHERE id = $1 AND seller_id = $2 AND status = $3`

	res, err := r.db.ExecContext(ctx, query, id, sellerID, string(expected))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if err := dbx.AffectedOne(res); err != nil {
		if errors.Is(err, dbx.ErrNoRowsAffected) {
			return common.ErrStatusConflict
		}
		return err
	}
	return nil
}

// IncrementViews bumps the counter of an approved listing; other statuses
// are left alone.
func (r *PostgresRepository) IncrementViews(ctx context.Context, id string) error {
	query := `UPDATE listings SET views_count = views_count + 1 WHERE id = $1 AND status = $2`

	if _, err := r.db.ExecContext(ctx, query, id, string(models.StatusApproved)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Search(ctx context.Context, f models.ListingFilter) ([]*models.Listing, error) {
	query, args := buildSearchQuery(f)
	return r.queryListings(ctx, query, args...)
}

func (r *PostgresRepository) ListBySeller(ctx context.Context, sellerID string) ([]*models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE seller_id = $1 ORDER BY created_at DESC, id`
	return r.queryListings(ctx, query, sellerID)
}

func (r *PostgresRepository) queryListings(ctx context.Context, query string, args ...any) ([]*models.Listing, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select listings: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListPending returns the moderation queue, newest first, with the seller's
// name and phone. Sellers without a profile get empty strings.
func (r *PostgresRepository) ListPending(ctx context.Context) ([]*models.PendingListing, error) {
	query := `
		SELECT ` + prefixed("l", listingColumns) + `,
			COALESCE(p.full_name, ''), COALESCE(p.phone_number, '')
		FROM listings l
		LEFT JOIN profiles p ON p.id = l.seller_id
		WHERE l.status = $1
		ORDER BY l.created_at DESC, l.id
	`
	rows, err := r.db.QueryContext(ctx, query, string(models.StatusPending))
	if err != nil {
		return nil, fmt.Errorf("failed to select pending listings: %w", err)
	}
	defer rows.Close()

	result := make([]*models.PendingListing, 0)
	for rows.Next() {
		var name, phone string
		l, err := scanListing(rows, &name, &phone)
		if err != nil {
			return nil, err
		}
		result = append(result, &models.PendingListing{Listing: *l, SellerName: name, SellerPhone: phone})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
