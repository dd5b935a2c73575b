// Package audit implements the audit trail repository. Writes happen
// after the owning transaction commits and are best-effort: callers log
// failures and move on rather than failing the user operation.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/voe-labs/ideahub-backend/internal/adapter/postgres"
	"github.com/voe-labs/ideahub-backend/internal/domain"
)

// Repo provides audit trail persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new audit repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const insertSQL = `
INSERT INTO audit_logs (id, actor_id, action, entity, entity_id, detail, ip_address, user_agent, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

const listByEntitySQL = `
SELECT id, actor_id, action, entity, entity_id, detail, ip_address, user_agent, created_at
FROM audit_logs
WHERE entity = $1 AND entity_id = $2
ORDER BY created_at DESC
LIMIT $3`

// Record writes one audit entry.
func (r *Repo) Record(ctx context.Context, rec *domain.AuditRecord) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	var detail []byte
	if rec.Detail != nil {
		var err error
		detail, err = json.Marshal(rec.Detail)
		if err != nil {
			return fmt.Errorf("marshal audit detail: %w", err)
		}
	}

	_, err := querier.Exec(ctx, insertSQL,
		rec.ID, rec.ActorID, rec.Action, rec.Entity, rec.EntityID, detail,
		rec.IPAddress, rec.UserAgent, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record audit entry: %w", err)
	}
	return nil
}

// ListByEntity returns the most recent audit entries for one entity.
func (r *Repo) ListByEntity(ctx context.Context, entity domain.AuditEntity, entityID uuid.UUID, limit int) ([]domain.AuditRecord, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listByEntitySQL, entity, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	records := []domain.AuditRecord{}
	for rows.Next() {
		var (
			rec    domain.AuditRecord
			detail []byte
		)
		if err := rows.Scan(&rec.ID, &rec.ActorID, &rec.Action, &rec.Entity, &rec.EntityID,
			&detail, &rec.IPAddress, &rec.UserAgent, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		if len(detail) > 0 {
			if err := json.Unmarshal(detail, &rec.Detail); err != nil {
				return nil, fmt.Errorf("unmarshal audit detail: %w", err)
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}

	return records, nil
}
