// Package idea implements the Idea repository using PostgreSQL.
// List queries are built dynamically with squirrel so the shared
// visibility predicate can be ANDed with caller filters; single-row
// paths use raw SQL.
package idea

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/voe-labs/ideahub-backend/internal/adapter/postgres"
	"github.com/voe-labs/ideahub-backend/internal/adapter/postgres/visibility"
	"github.com/voe-labs/ideahub-backend/internal/domain"
)

// Repo provides idea persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new idea repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const ideaColumns = `i.id, i.code, i.title, i.description, i.category_id, i.creator_id,
	i.status, i.visibility, i.vote_count, i.comment_count, i.attachment_count,
	i.expected_benefit, i.implementation_notes, i.closed_reason, i.closed_at,
	i.created_at, i.updated_at`

const getByIDSQL = `
SELECT ` + ideaColumns + `
FROM ideas i
WHERE i.id = $1`

const getForUpdateSQL = `
SELECT ` + ideaColumns + `, creator.department_id
FROM ideas i
JOIN users creator ON creator.id = i.creator_id
WHERE i.id = $1
FOR UPDATE OF i`

const insertSQL = `
INSERT INTO ideas (id, code, title, description, category_id, creator_id,
	status, visibility, expected_benefit, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
RETURNING ` + ideaColumns

const setStatusSQL = `
UPDATE ideas
SET status = $2, closed_reason = $3, closed_at = $4, updated_at = now()
WHERE id = $1`

const setVoteCountSQL = `UPDATE ideas SET vote_count = $2, updated_at = now() WHERE id = $1`

const listOwnersSQL = `
SELECT o.idea_id, o.user_id, u.name, u.employee_no, o.is_active, o.assigned_at
FROM idea_owners o
JOIN users u ON u.id = o.user_id
WHERE o.idea_id = $1 AND o.is_active
ORDER BY o.assigned_at`

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new idea row and returns the persisted domain.Idea.
// A duplicate code surfaces as domain.ErrAlreadyExists so the caller can
// regenerate and retry.
func (r *Repo) Create(ctx context.Context, idea *domain.Idea) (*domain.Idea, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, insertSQL,
		idea.ID, idea.Code, idea.Title, idea.Description, idea.CategoryID, idea.CreatorID,
		idea.Status, idea.Visibility, idea.ExpectedBenefit, idea.CreatedAt,
	)

	created, err := scanIdea(row)
	if err != nil {
		return nil, mapError(err, "idea", idea.ID)
	}
	return created, nil
}

// UpdateFields applies a partial patch and returns the updated idea.
// Lifecycle status is never touched here; transitions go through SetStatus.
func (r *Repo) UpdateFields(ctx context.Context, id uuid.UUID, patch domain.IdeaPatch) (*domain.Idea, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	qb := sq.Update("ideas").
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id, code, title, description, category_id, creator_id, " +
			"status, visibility, vote_count, comment_count, attachment_count, " +
			"expected_benefit, implementation_notes, closed_reason, closed_at, created_at, updated_at").
		PlaceholderFormat(sq.Dollar)

	if patch.Title != nil {
		qb = qb.Set("title", *patch.Title)
	}
	if patch.Description != nil {
		qb = qb.Set("description", *patch.Description)
	}
	if patch.ExpectedBenefit != nil {
		qb = qb.Set("expected_benefit", *patch.ExpectedBenefit)
	}
	if patch.ImplementationNotes != nil {
		qb = qb.Set("implementation_notes", *patch.ImplementationNotes)
	}
	if patch.CategoryID != nil {
		qb = qb.Set("category_id", *patch.CategoryID)
	}
	if patch.Visibility != nil {
		qb = qb.Set("visibility", *patch.Visibility)
	}

	sql, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update query: %w", err)
	}

	updated, err := scanIdea(querier.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapError(err, "idea", id)
	}
	return updated, nil
}

// SetStatus updates the lifecycle status. closedReason and closedAt are
// only non-nil when the target status is closed.
func (r *Repo) SetStatus(ctx context.Context, id uuid.UUID, to domain.IdeaStatus, closedReason *string, closedAt *time.Time) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, setStatusSQL, id, to, closedReason, closedAt)
	if err != nil {
		return mapError(err, "idea", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("idea %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// SetVoteCount persists a recomputed vote count.
func (r *Repo) SetVoteCount(ctx context.Context, id uuid.UUID, count int) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, setVoteCountSQL, id, count)
	if err != nil {
		return mapError(err, "idea", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("idea %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns the bare idea row.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Idea, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	idea, err := scanIdea(querier.QueryRow(ctx, getByIDSQL, id))
	if err != nil {
		return nil, mapError(err, "idea", id)
	}
	return idea, nil
}

// GetForUpdate loads the idea row with a row lock plus the creator's
// department. Inside a transaction this serializes concurrent vote
// mutations on the same idea.
func (r *Repo) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Idea, *uuid.UUID, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		idea domain.Idea
		dept pgtype.UUID
	)
	err := querier.QueryRow(ctx, getForUpdateSQL, id).Scan(
		&idea.ID, &idea.Code, &idea.Title, &idea.Description, &idea.CategoryID, &idea.CreatorID,
		&idea.Status, &idea.Visibility, &idea.VoteCount, &idea.CommentCount, &idea.AttachmentCount,
		&idea.ExpectedBenefit, &idea.ImplementationNotes, &idea.ClosedReason, &idea.ClosedAt,
		&idea.CreatedAt, &idea.UpdatedAt,
		&dept,
	)
	if err != nil {
		return nil, nil, mapError(err, "idea", id)
	}

	var deptID *uuid.UUID
	if dept.Valid {
		d := uuid.UUID(dept.Bytes)
		deptID = &d
	}
	return &idea, deptID, nil
}

// GetSummary returns one idea with creator, category, and the viewer's
// vote state. Visibility is NOT applied here — the service does the
// point check so denial can be distinguished from absence.
func (r *Repo) GetSummary(ctx context.Context, id, viewerID uuid.UUID) (*domain.IdeaSummary, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := summarySelect(viewerID).
		Where(sq.Eq{"i.id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build summary query: %w", err)
	}

	summary, err := scanSummary(querier.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapError(err, "idea", id)
	}
	return summary, nil
}

// List returns a page of idea summaries visible to the actor. The
// visibility predicate is always ANDed with the explicit filters, so a
// caller can narrow but never broaden its access. Sorting and pagination
// happen in SQL so page boundaries stay stable under concurrent inserts.
func (r *Repo) List(ctx context.Context, actor domain.Actor, filter domain.IdeaFilter) (domain.Page[domain.IdeaSummary], error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)
	filter.Normalize()

	page := domain.Page[domain.IdeaSummary]{Page: filter.Page, PageSize: filter.PageSize}

	conds := listConditions(actor, filter)

	// Total count first, with the same predicate set.
	countSQL, countArgs, err := sq.Select("COUNT(*)").
		From("ideas i").
		Join("users creator ON creator.id = i.creator_id").
		Where(conds).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return page, fmt.Errorf("build count query: %w", err)
	}
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&page.Total); err != nil {
		return page, fmt.Errorf("count ideas: %w", err)
	}

	listSQL, listArgs, err := summarySelect(actor.ID).
		Where(conds).
		OrderBy(
			fmt.Sprintf("i.%s %s", filter.SortBy, filter.SortOrder),
			"i.created_at DESC",
		).
		Limit(uint64(filter.PageSize)).
		Offset(uint64(filter.Offset())).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return page, fmt.Errorf("build list query: %w", err)
	}

	rows, err := querier.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return page, fmt.Errorf("list ideas: %w", err)
	}
	defer rows.Close()

	items := []domain.IdeaSummary{}
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return page, fmt.Errorf("scan idea summary: %w", err)
		}
		items = append(items, *summary)
	}
	if err := rows.Err(); err != nil {
		return page, fmt.Errorf("iterate ideas: %w", err)
	}

	page.Items = items
	return page, nil
}

// ListOwners returns the active owners assigned to an idea.
func (r *Repo) ListOwners(ctx context.Context, ideaID uuid.UUID) ([]domain.IdeaOwner, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listOwnersSQL, ideaID)
	if err != nil {
		return nil, fmt.Errorf("list idea owners: %w", err)
	}
	defer rows.Close()

	owners := []domain.IdeaOwner{}
	for rows.Next() {
		var o domain.IdeaOwner
		if err := rows.Scan(&o.IdeaID, &o.UserID, &o.UserName, &o.EmployeeNo, &o.IsActive, &o.AssignedAt); err != nil {
			return nil, fmt.Errorf("scan idea owner: %w", err)
		}
		owners = append(owners, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate idea owners: %w", err)
	}

	return owners, nil
}

// ---------------------------------------------------------------------------
// Query construction
// ---------------------------------------------------------------------------

// summarySelect builds the base summary projection: idea columns plus
// creator, department, category, and the viewer's vote split.
func summarySelect(viewerID uuid.UUID) sq.SelectBuilder {
	return sq.Select(
		"i.id", "i.code", "i.title", "i.description", "i.category_id", "i.creator_id",
		"i.status", "i.visibility", "i.vote_count", "i.comment_count", "i.attachment_count",
		"i.expected_benefit", "i.implementation_notes", "i.closed_reason", "i.closed_at",
		"i.created_at", "i.updated_at",
		"creator.name", "creator.employee_no", "creator.department_id", "d.name",
		"c.name", "c.color", "c.icon", "c.description", "c.is_active",
		"(SELECT COUNT(*) FROM idea_votes v WHERE v.idea_id = i.id AND v.vote_type = 1) AS upvotes",
		"(SELECT COUNT(*) FROM idea_votes v WHERE v.idea_id = i.id AND v.vote_type = -1) AS downvotes",
	).
		Column(sq.Alias(sq.Expr("(SELECT v.vote_type FROM idea_votes v WHERE v.idea_id = i.id AND v.user_id = ?)", viewerID), "user_vote")).
		From("ideas i").
		Join("users creator ON creator.id = i.creator_id").
		LeftJoin("departments d ON d.id = creator.department_id").
		Join("idea_categories c ON c.id = i.category_id")
}

// listConditions combines the visibility predicate with explicit filters.
func listConditions(actor domain.Actor, filter domain.IdeaFilter) sq.And {
	conds := sq.And{visibility.Predicate(actor)}

	if filter.Status != nil {
		conds = append(conds, sq.Eq{"i.status": *filter.Status})
	}
	if filter.CategoryID != nil {
		conds = append(conds, sq.Eq{"i.category_id": *filter.CategoryID})
	}
	if filter.DepartmentID != nil {
		conds = append(conds, sq.Eq{"creator.department_id": *filter.DepartmentID})
	}
	if filter.Search != nil && *filter.Search != "" {
		pattern := "%" + *filter.Search + "%"
		conds = append(conds, sq.Or{
			sq.ILike{"i.title": pattern},
			sq.ILike{"i.description": pattern},
		})
	}
	if filter.CreatorOnly {
		conds = append(conds, sq.Eq{"i.creator_id": actor.ID})
	}

	return conds
}

// ---------------------------------------------------------------------------
// Scanning
// ---------------------------------------------------------------------------

func scanIdea(row pgx.Row) (*domain.Idea, error) {
	var idea domain.Idea
	err := row.Scan(
		&idea.ID, &idea.Code, &idea.Title, &idea.Description, &idea.CategoryID, &idea.CreatorID,
		&idea.Status, &idea.Visibility, &idea.VoteCount, &idea.CommentCount, &idea.AttachmentCount,
		&idea.ExpectedBenefit, &idea.ImplementationNotes, &idea.ClosedReason, &idea.ClosedAt,
		&idea.CreatedAt, &idea.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &idea, nil
}

func scanSummary(row pgx.Row) (*domain.IdeaSummary, error) {
	var (
		s        domain.IdeaSummary
		dept     pgtype.UUID
		deptName *string
		userVote pgtype.Int4
	)
	err := row.Scan(
		&s.ID, &s.Code, &s.Title, &s.Description, &s.Idea.CategoryID, &s.CreatorID,
		&s.Status, &s.Visibility, &s.VoteCount, &s.CommentCount, &s.AttachmentCount,
		&s.ExpectedBenefit, &s.ImplementationNotes, &s.ClosedReason, &s.ClosedAt,
		&s.CreatedAt, &s.UpdatedAt,
		&s.Creator.Name, &s.Creator.EmployeeNo, &dept, &deptName,
		&s.Category.Name, &s.Category.Color, &s.Category.Icon, &s.Category.Description, &s.Category.IsActive,
		&s.Upvotes, &s.Downvotes,
		&userVote,
	)
	if err != nil {
		return nil, err
	}

	s.Creator.ID = s.CreatorID
	s.Creator.DepartmentName = deptName
	if dept.Valid {
		d := uuid.UUID(dept.Bytes)
		s.Creator.DepartmentID = &d
	}
	s.Category.ID = s.Idea.CategoryID
	if userVote.Valid {
		v := domain.VoteType(userVote.Int32)
		s.UserVote = &v
	}

	return &s, nil
}

// ---------------------------------------------------------------------------
// Error mapping
// ---------------------------------------------------------------------------

// mapError converts pgx/pgconn errors into domain errors.
func mapError(err error, entity string, id uuid.UUID) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, id, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrValidation)
		}
	}

	return fmt.Errorf("%s %s: %w", entity, id, err)
}
