package repository

import (
	"context"
	"errors"

	"optinet-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PortfolioRepository handles database operations for portfolio items
type PortfolioRepository struct {
	db *pgxpool.Pool
}

// NewPortfolioRepository creates a new portfolio repository
func NewPortfolioRepository(db *pgxpool.Pool) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

const portfolioColumns = `id, title, slug, description, category, image_path, created_at, updated_at`

func scanPortfolioItem(row pgx.Row) (*models.PortfolioItem, error) {
	item := &models.PortfolioItem{}
	err := row.Scan(
		&item.ID,
		&item.Title,
		&item.Slug,
		&item.Description,
		&item.Category,
		&item.ImagePath,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

// Create creates a new portfolio item
func (r *PortfolioRepository) Create(ctx context.Context, item *models.PortfolioItem) error {
	query := `
		INSERT INTO portfolio_items (title, slug, description, category, image_path)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRow(
		ctx, query,
		item.Title,
		item.Slug,
		item.Description,
		item.Category,
		item.ImagePath,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
}

// GetByID retrieves a portfolio item by ID
func (r *PortfolioRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PortfolioItem, error) {
	query := `SELECT ` + portfolioColumns + ` FROM portfolio_items WHERE id = $1`
	return scanPortfolioItem(r.db.QueryRow(ctx, query, id))
}

// SlugExists reports whether a slug is already taken, optionally excluding
// one item.
func (r *PortfolioRepository) SlugExists(ctx context.Context, slug string, exclude *uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM portfolio_items WHERE slug = $1 AND ($2::uuid IS NULL OR id <> $2))`
	var exists bool
	err := r.db.QueryRow(ctx, query, slug, exclude).Scan(&exists)
	return exists, err
}

// Update updates a portfolio item
func (r *PortfolioRepository) Update(ctx context.Context, item *models.PortfolioItem) error {
	query := `
		UPDATE portfolio_items SET
			title = $2,
			slug = $3,
			description = $4,
			category = $5,
			image_path = $6,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(
		ctx, query,
		item.ID,
		item.Title,
		item.Slug,
		item.Description,
		item.Category,
		item.ImagePath,
	).Scan(&item.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// List retrieves portfolio items, newest first.
func (r *PortfolioRepository) List(ctx context.Context, limit, offset int) ([]*models.PortfolioItem, error) {
	query := `SELECT ` + portfolioColumns + ` FROM portfolio_items ORDER BY created_at DESC`

	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
		if offset > 0 {
			query += ` OFFSET $2`
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.PortfolioItem
	for rows.Next() {
		item, err := scanPortfolioItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// Delete deletes a portfolio item
func (r *PortfolioRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM portfolio_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
