package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voe-labs/ideahub-backend/internal/adapter/postgres/audit"
	"github.com/voe-labs/ideahub-backend/internal/adapter/postgres/testhelper"
	"github.com/voe-labs/ideahub-backend/internal/domain"
)

// newRepo sets up a test DB and returns a ready Repo + pool.
func newRepo(t *testing.T) (*audit.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return audit.New(pool), pool
}

func TestRepo_Record_ThenList_RoundTrip(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	actor := testhelper.SeedUser(t, pool, "Audit Actor", domain.UserRoleEmployee, nil)
	entityID := uuid.New()
	ip := "10.1.2.3"

	rec := &domain.AuditRecord{
		ActorID:   actor,
		Action:    domain.AuditActionVoted,
		Entity:    domain.AuditEntityIdea,
		EntityID:  entityID,
		Detail:    map[string]any{"vote_type": float64(1), "outcome": "voted"},
		IPAddress: &ip,
	}
	if err := repo.Record(ctx, rec); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if rec.ID == uuid.Nil {
		t.Fatal("Record should assign an ID")
	}

	got, err := repo.ListByEntity(ctx, domain.AuditEntityIdea, entityID, 10)
	if err != nil {
		t.Fatalf("ListByEntity: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}

	e := got[0]
	if e.ActorID != actor {
		t.Errorf("ActorID: got %s, want %s", e.ActorID, actor)
	}
	if e.Action != domain.AuditActionVoted {
		t.Errorf("Action: got %s, want voted", e.Action)
	}
	if e.Detail["outcome"] != "voted" {
		t.Errorf("Detail[outcome]: got %v, want %q", e.Detail["outcome"], "voted")
	}
	if e.IPAddress == nil || *e.IPAddress != ip {
		t.Errorf("IPAddress: got %v, want %q", e.IPAddress, ip)
	}
}

func TestRepo_Record_NilDetail(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	actor := testhelper.SeedUser(t, pool, "Nil Detail Actor", domain.UserRoleAdmin, nil)
	entityID := uuid.New()

	rec := &domain.AuditRecord{
		ActorID:  actor,
		Action:   domain.AuditActionCreate,
		Entity:   domain.AuditEntityIdea,
		EntityID: entityID,
	}
	if err := repo.Record(ctx, rec); err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, err := repo.ListByEntity(ctx, domain.AuditEntityIdea, entityID, 10)
	if err != nil {
		t.Fatalf("ListByEntity: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
}

func TestRepo_ListByEntity_NewestFirstAndLimited(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	actor := testhelper.SeedUser(t, pool, "Busy Actor", domain.UserRoleModerator, nil)
	entityID := uuid.New()

	base := time.Now().UTC().Truncate(time.Microsecond)
	for i := range 3 {
		rec := &domain.AuditRecord{
			ActorID:   actor,
			Action:    domain.AuditActionUpdate,
			Entity:    domain.AuditEntityIdea,
			EntityID:  entityID,
			Detail:    map[string]any{"step": float64(i)},
			CreatedAt: base.Add(time.Duration(i) * time.Millisecond),
		}
		if err := repo.Record(ctx, rec); err != nil {
			t.Fatalf("Record[%d]: %v", i, err)
		}
	}

	got, err := repo.ListByEntity(ctx, domain.AuditEntityIdea, entityID, 2)
	if err != nil {
		t.Fatalf("ListByEntity: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected limit of 2 records, got %d", len(got))
	}
	if got[0].CreatedAt.Before(got[1].CreatedAt) {
		t.Error("records should be ordered newest first")
	}
}
