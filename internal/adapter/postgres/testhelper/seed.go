package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voe-labs/ideahub-backend/internal/domain"
)

// SeedDepartment inserts a department and returns its id.
func SeedDepartment(t *testing.T, pool *pgxpool.Pool, name string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO departments (id, name, is_active) VALUES ($1, $2, TRUE)`,
		id, name,
	)
	if err != nil {
		t.Fatalf("seed department: %v", err)
	}
	return id
}

// SeedUser inserts a user with the given role and optional department.
func SeedUser(t *testing.T, pool *pgxpool.Pool, name string, role domain.UserRole, departmentID *uuid.UUID) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO users (id, employee_no, name, email, role, department_id, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, TRUE)`,
		id, "EMP-"+id.String()[:8], name, id.String()[:8]+"@example.test", role, departmentID,
	)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return id
}

// SeedCategory inserts an active idea category.
func SeedCategory(t *testing.T, pool *pgxpool.Pool, name string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO idea_categories (id, name, color, is_active) VALUES ($1, $2, '#3366ff', TRUE)`,
		id, name,
	)
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}
	return id
}

// IdeaOpts tunes SeedIdea. Zero values fall back to sensible defaults.
type IdeaOpts struct {
	Title      string
	Status     domain.IdeaStatus
	Visibility domain.Visibility
	CreatedAt  time.Time
	VoteCount  int
}

// SeedIdea inserts an idea row directly, bypassing the service layer.
func SeedIdea(t *testing.T, pool *pgxpool.Pool, creatorID, categoryID uuid.UUID, opts IdeaOpts) uuid.UUID {
	t.Helper()

	if opts.Title == "" {
		opts.Title = "Seeded idea title"
	}
	if opts.Status == "" {
		opts.Status = domain.IdeaStatusSubmitted
	}
	if opts.Visibility == "" {
		opts.Visibility = domain.VisibilityPublic
	}
	if opts.CreatedAt.IsZero() {
		opts.CreatedAt = time.Now()
	}

	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO ideas (id, code, title, description, category_id, creator_id,
			status, visibility, vote_count, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)`,
		id, "VOE-"+id.String()[:10], opts.Title,
		"A seeded description long enough to satisfy the length check.",
		categoryID, creatorID, opts.Status, opts.Visibility, opts.VoteCount, opts.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed idea: %v", err)
	}
	return id
}

// SeedVote inserts a ledger row for (idea, user).
func SeedVote(t *testing.T, pool *pgxpool.Pool, ideaID, userID uuid.UUID, voteType domain.VoteType) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO idea_votes (id, idea_id, user_id, vote_type, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, now(), now())`,
		id, ideaID, userID, voteType,
	)
	if err != nil {
		t.Fatalf("seed vote: %v", err)
	}
	return id
}

// SeedHistory appends a status history record.
func SeedHistory(t *testing.T, pool *pgxpool.Pool, ideaID, changedBy uuid.UUID, from *domain.IdeaStatus, to domain.IdeaStatus, changedAt time.Time) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO idea_status_history (id, idea_id, from_status, to_status, changed_by, changed_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		id, ideaID, from, to, changedBy, changedAt,
	)
	if err != nil {
		t.Fatalf("seed history: %v", err)
	}
	return id
}

// SeedOwner assigns an active owner to an idea.
func SeedOwner(t *testing.T, pool *pgxpool.Pool, ideaID, userID uuid.UUID) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO idea_owners (idea_id, user_id, is_active, assigned_at)
		 VALUES ($1, $2, TRUE, now())`,
		ideaID, userID,
	)
	if err != nil {
		t.Fatalf("seed owner: %v", err)
	}
}
