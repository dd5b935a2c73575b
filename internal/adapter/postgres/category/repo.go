// Package category implements the read-only category lookup repository.
package category

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/voe-labs/ideahub-backend/internal/adapter/postgres"
	"github.com/voe-labs/ideahub-backend/internal/domain"
)

// Repo provides category lookups backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new category repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const getByIDSQL = `
SELECT id, name, color, icon, description, is_active
FROM idea_categories
WHERE id = $1`

const listActiveSQL = `
SELECT id, name, color, icon, description, is_active
FROM idea_categories
WHERE is_active
ORDER BY name`

// GetByID returns a category by its identifier.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var c domain.Category
	err := querier.QueryRow(ctx, getByIDSQL, id).Scan(
		&c.ID, &c.Name, &c.Color, &c.Icon, &c.Description, &c.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("category %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("category %s: %w", id, err)
	}
	return &c, nil
}

// ListActive returns all active categories, sorted by name.
func (r *Repo) ListActive(ctx context.Context) ([]domain.Category, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listActiveSQL)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &c.Icon, &c.Description, &c.IsActive); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	return categories, nil
}
