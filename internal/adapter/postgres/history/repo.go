// Package history implements the append-only status history repository.
// Rows are only ever inserted; there is no update or delete path.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/voe-labs/ideahub-backend/internal/adapter/postgres"
	"github.com/voe-labs/ideahub-backend/internal/domain"
)

// Repo provides status history persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new history repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const appendSQL = `
INSERT INTO idea_status_history (id, idea_id, from_status, to_status, changed_by, note, changed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

const listByIdeaSQL = `
SELECT h.id, h.idea_id, h.from_status, h.to_status, h.changed_by, u.name, h.note, h.changed_at
FROM idea_status_history h
JOIN users u ON u.id = h.changed_by
WHERE h.idea_id = $1
ORDER BY h.changed_at, h.id`

// Append writes one history record. FromStatus is nil only for the
// creation record.
func (r *Repo) Append(ctx context.Context, rec *domain.StatusHistoryRecord) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if rec.ChangedAt.IsZero() {
		rec.ChangedAt = time.Now()
	}
	_, err := querier.Exec(ctx, appendSQL,
		rec.ID, rec.IdeaID, rec.FromStatus, rec.ToStatus, rec.ChangedBy, rec.Note, rec.ChangedAt,
	)
	if err != nil {
		return mapError(err, rec.IdeaID)
	}
	return nil
}

// ListByIdea returns the idea's full status trail, oldest first.
func (r *Repo) ListByIdea(ctx context.Context, ideaID uuid.UUID) ([]domain.StatusHistoryRecord, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listByIdeaSQL, ideaID)
	if err != nil {
		return nil, fmt.Errorf("list status history: %w", err)
	}
	defer rows.Close()

	records := []domain.StatusHistoryRecord{}
	for rows.Next() {
		var rec domain.StatusHistoryRecord
		if err := rows.Scan(&rec.ID, &rec.IdeaID, &rec.FromStatus, &rec.ToStatus,
			&rec.ChangedBy, &rec.ChangedByName, &rec.Note, &rec.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan status history: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status history: %w", err)
	}

	return records, nil
}

func mapError(err error, ideaID uuid.UUID) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503": // foreign_key_violation
			return fmt.Errorf("history for idea %s: %w", ideaID, domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("history for idea %s: %w", ideaID, domain.ErrValidation)
		}
	}

	return fmt.Errorf("history for idea %s: %w", ideaID, err)
}
