// Package vote implements the vote ledger repository. The ledger holds
// at most one row per (idea, user); the unique index enforces it and a
// violation surfaces as domain.ErrAlreadyExists so the service can
// retry the toggle.
package vote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/voe-labs/ideahub-backend/internal/adapter/postgres"
	"github.com/voe-labs/ideahub-backend/internal/domain"
)

// Repo provides vote ledger persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new vote repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const getByIdeaAndUserSQL = `
SELECT id, idea_id, user_id, vote_type, created_at, updated_at
FROM idea_votes
WHERE idea_id = $1 AND user_id = $2`

const insertSQL = `
INSERT INTO idea_votes (id, idea_id, user_id, vote_type, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $5)`

const updateTypeSQL = `
UPDATE idea_votes SET vote_type = $2, updated_at = now() WHERE id = $1`

const deleteSQL = `DELETE FROM idea_votes WHERE id = $1`

const sumByIdeaSQL = `
SELECT COALESCE(SUM(vote_type), 0) FROM idea_votes WHERE idea_id = $1`

const listByIdeaSQL = `
SELECT v.id, v.idea_id, v.user_id, u.name, v.vote_type, v.created_at, v.updated_at
FROM idea_votes v
JOIN users u ON u.id = v.user_id
WHERE v.idea_id = $1
ORDER BY v.created_at`

// GetByIdeaAndUser returns the caller's existing vote on an idea, or
// domain.ErrNotFound if none exists.
func (r *Repo) GetByIdeaAndUser(ctx context.Context, ideaID, userID uuid.UUID) (*domain.IdeaVote, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var v domain.IdeaVote
	err := querier.QueryRow(ctx, getByIdeaAndUserSQL, ideaID, userID).Scan(
		&v.ID, &v.IdeaID, &v.UserID, &v.VoteType, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err, ideaID)
	}
	return &v, nil
}

// Create inserts a new ledger row.
func (r *Repo) Create(ctx context.Context, vote *domain.IdeaVote) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if vote.CreatedAt.IsZero() {
		vote.CreatedAt = time.Now()
	}
	_, err := querier.Exec(ctx, insertSQL, vote.ID, vote.IdeaID, vote.UserID, vote.VoteType, vote.CreatedAt)
	if err != nil {
		return mapError(err, vote.IdeaID)
	}
	return nil
}

// UpdateType flips an existing vote's direction in place.
func (r *Repo) UpdateType(ctx context.Context, id uuid.UUID, voteType domain.VoteType) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, updateTypeSQL, id, voteType)
	if err != nil {
		return mapError(err, id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("vote %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Delete removes a ledger row (same-direction toggle).
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, deleteSQL, id)
	if err != nil {
		return mapError(err, id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("vote %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// SumByIdea returns the signed sum over the idea's entire ledger. The
// denormalized ideas.vote_count is always refreshed from this value,
// never incremented.
func (r *Repo) SumByIdea(ctx context.Context, ideaID uuid.UUID) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var sum int
	if err := querier.QueryRow(ctx, sumByIdeaSQL, ideaID).Scan(&sum); err != nil {
		return 0, mapError(err, ideaID)
	}
	return sum, nil
}

// ListByIdea returns the idea's votes with voter names, oldest first.
func (r *Repo) ListByIdea(ctx context.Context, ideaID uuid.UUID) ([]domain.IdeaVote, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listByIdeaSQL, ideaID)
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	defer rows.Close()

	votes := []domain.IdeaVote{}
	for rows.Next() {
		var v domain.IdeaVote
		if err := rows.Scan(&v.ID, &v.IdeaID, &v.UserID, &v.UserName, &v.VoteType, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate votes: %w", err)
	}

	return votes, nil
}

func mapError(err error, id uuid.UUID) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("vote for %s: %w", id, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation: concurrent first vote on same (idea, user)
			return fmt.Errorf("vote for %s: %w", id, domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("vote for %s: %w", id, domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("vote for %s: %w", id, domain.ErrValidation)
		}
	}

	return fmt.Errorf("vote for %s: %w", id, err)
}
