// Package department implements the read-only department lookup repository.
package department

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

// Repo provides department lookups backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new department repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const getByIDSQL = `SELECT id, name, is_active FROM departments WHERE id = $1`

const listActiveSQL = `SELECT id, name, is_active FROM departments WHERE is_active ORDER BY name`

// GetByID returns a department by its identifier.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Department, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var d domain.Department
	err := querier.QueryRow(ctx, getByIDSQL, id).Scan(&d.ID, &d.Name, &d.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("department %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("department %s: %w", id, err)
	}
	return &d, nil
}

// ListActive returns all active departments, sorted by name.
func (r *Repo) ListActive(ctx context.Context) ([]domain.Department, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listActiveSQL)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()

	departments := []domain.Department{}
	for rows.Next() {
		var d domain.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.IsActive); err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		departments = append(departments, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate departments: %w", err)
	}

	return departments, nil
}
