package department_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voe-labs/ideahub-backend/internal/adapter/postgres/department"
	"github.com/voe-labs/ideahub-backend/internal/adapter/postgres/testhelper"
	"github.com/voe-labs/ideahub-backend/internal/domain"
)

func newRepo(t *testing.T) (*department.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return department.New(pool), pool
}

func TestRepo_GetByID(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)

	name := "Dept " + uuid.NewString()[:8]
	id := testhelper.SeedDepartment(t, pool, name)

	got, err := repo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != name {
		t.Errorf("Name: got %q, want %q", got.Name, name)
	}
}

func TestRepo_GetByID_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	_, err := repo.GetByID(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRepo_ListActive_ContainsSeeded(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)

	id := testhelper.SeedDepartment(t, pool, "Listed "+uuid.NewString()[:8])

	departments, err := repo.ListActive(context.Background())
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}

	for _, d := range departments {
		if d.ID == id {
			return
		}
	}
	t.Error("seeded department missing from listing")
}
