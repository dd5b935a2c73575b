// Package stats implements the dashboard aggregation queries. Every
// query that touches ideas ANDs the shared visibility predicate, so the
// numbers an actor sees are aggregates over exactly the ideas that
// actor could list.
package stats

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/voe-labs/ideahub-backend/internal/adapter/postgres"
	"github.com/voe-labs/ideahub-backend/internal/adapter/postgres/visibility"
	"github.com/voe-labs/ideahub-backend/internal/domain"
)

// Repo provides dashboard aggregations backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new stats repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// CountIdeas returns the number of visible ideas created since the
// window start. since == nil means the whole history.
func (r *Repo) CountIdeas(ctx context.Context, actor domain.Actor, since *time.Time) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	qb := sq.Select("COUNT(*)").
		From("ideas i").
		Join("users creator ON creator.id = i.creator_id").
		Where(visibility.Predicate(actor))
	if since != nil {
		qb = qb.Where(sq.GtOrEq{"i.created_at": *since})
	}

	sql, args, err := qb.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build idea count query: %w", err)
	}

	var count int
	if err := querier.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count ideas: %w", err)
	}
	return count, nil
}

// CountVotes returns the number of votes cast in the window on ideas
// visible to the actor.
func (r *Repo) CountVotes(ctx context.Context, actor domain.Actor, since *time.Time) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	qb := sq.Select("COUNT(*)").
		From("idea_votes v").
		Join("ideas i ON i.id = v.idea_id").
		Join("users creator ON creator.id = i.creator_id").
		Where(visibility.Predicate(actor))
	if since != nil {
		qb = qb.Where(sq.GtOrEq{"v.created_at": *since})
	}

	sql, args, err := qb.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build vote count query: %w", err)
	}

	var count int
	if err := querier.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count votes: %w", err)
	}
	return count, nil
}

// CountActiveUsers returns the number of distinct users who created a
// visible idea or voted on one in the window.
func (r *Repo) CountActiveUsers(ctx context.Context, actor domain.Actor, since *time.Time) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	predSQL, predArgs, err := visibility.Predicate(actor).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build visibility predicate: %w", err)
	}

	creatorWindow, voterWindow := "", ""
	if since != nil {
		creatorWindow = " AND i.created_at >= ?"
		voterWindow = " AND v.created_at >= ?"
	}

	raw := fmt.Sprintf(`
SELECT COUNT(DISTINCT user_id) FROM (
	SELECT i.creator_id AS user_id
	FROM ideas i
	JOIN users creator ON creator.id = i.creator_id
	WHERE (%[1]s)%[2]s
	UNION
	SELECT v.user_id
	FROM idea_votes v
	JOIN ideas i ON i.id = v.idea_id
	JOIN users creator ON creator.id = i.creator_id
	WHERE (%[1]s)%[3]s
) activity`, predSQL, creatorWindow, voterWindow)

	args := make([]any, 0, 2*len(predArgs)+2)
	args = append(args, predArgs...)
	if since != nil {
		args = append(args, *since)
	}
	args = append(args, predArgs...)
	if since != nil {
		args = append(args, *since)
	}

	sql, err := sq.Dollar.ReplacePlaceholders(raw)
	if err != nil {
		return 0, fmt.Errorf("build active users query: %w", err)
	}

	var count int
	if err := querier.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count active users: %w", err)
	}
	return count, nil
}

// CountByStatus returns visible idea counts grouped by lifecycle status.
func (r *Repo) CountByStatus(ctx context.Context, actor domain.Actor, since *time.Time) ([]domain.StatusCount, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	qb := sq.Select("i.status", "COUNT(*)").
		From("ideas i").
		Join("users creator ON creator.id = i.creator_id").
		Where(visibility.Predicate(actor)).
		GroupBy("i.status").
		OrderBy("i.status")
	if since != nil {
		qb = qb.Where(sq.GtOrEq{"i.created_at": *since})
	}

	sql, args, err := qb.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build status counts query: %w", err)
	}

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	counts := []domain.StatusCount{}
	for rows.Next() {
		var c domain.StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}

	return counts, nil
}

// CountByCategory returns visible idea counts grouped by category,
// largest first.
func (r *Repo) CountByCategory(ctx context.Context, actor domain.Actor, since *time.Time) ([]domain.CategoryCount, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	qb := sq.Select("c.id", "c.name", "c.color", "COUNT(*)").
		From("ideas i").
		Join("users creator ON creator.id = i.creator_id").
		Join("idea_categories c ON c.id = i.category_id").
		Where(visibility.Predicate(actor)).
		GroupBy("c.id", "c.name", "c.color").
		OrderBy("COUNT(*) DESC", "c.name")
	if since != nil {
		qb = qb.Where(sq.GtOrEq{"i.created_at": *since})
	}

	sql, args, err := qb.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build category counts query: %w", err)
	}

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("count by category: %w", err)
	}
	defer rows.Close()

	counts := []domain.CategoryCount{}
	for rows.Next() {
		var c domain.CategoryCount
		if err := rows.Scan(&c.CategoryID, &c.Name, &c.Color, &c.Count); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category counts: %w", err)
	}

	return counts, nil
}

// AvgIdeaToActionDays measures, for visible ideas created in the window
// that reached an actionable status, the mean days from creation to the
// FIRST actionable transition in the status history. Returns nil when no
// idea qualifies: the average is undefined, not zero.
func (r *Repo) AvgIdeaToActionDays(ctx context.Context, actor domain.Actor, since *time.Time) (*float64, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	predSQL, predArgs, err := visibility.Predicate(actor).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build visibility predicate: %w", err)
	}

	window := ""
	if since != nil {
		window = " AND i.created_at >= ?"
	}

	raw := fmt.Sprintf(`
SELECT AVG(EXTRACT(EPOCH FROM (fa.first_action - i.created_at)) / 86400.0)
FROM ideas i
JOIN users creator ON creator.id = i.creator_id
JOIN (
	SELECT idea_id, MIN(changed_at) AS first_action
	FROM idea_status_history
	WHERE to_status IN (?, ?)
	GROUP BY idea_id
) fa ON fa.idea_id = i.id
WHERE (%s)%s`, predSQL, window)

	args := make([]any, 0, len(predArgs)+3)
	args = append(args, domain.IdeaStatusInPilot, domain.IdeaStatusImplemented)
	args = append(args, predArgs...)
	if since != nil {
		args = append(args, *since)
	}

	sql, err := sq.Dollar.ReplacePlaceholders(raw)
	if err != nil {
		return nil, fmt.Errorf("build idea-to-action query: %w", err)
	}

	var avg *float64
	if err := querier.QueryRow(ctx, sql, args...).Scan(&avg); err != nil {
		return nil, fmt.Errorf("average idea to action: %w", err)
	}
	return avg, nil
}

// TopVotedIdeas returns the highest-scoring visible ideas in the window.
// Ideas with a non-positive score never rank.
func (r *Repo) TopVotedIdeas(ctx context.Context, actor domain.Actor, since *time.Time, limit int) ([]domain.TopIdea, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	qb := sq.Select(
		"i.id", "i.code", "i.title", "i.status", "i.vote_count",
		"c.name", "c.color", "creator.name",
	).
		From("ideas i").
		Join("users creator ON creator.id = i.creator_id").
		Join("idea_categories c ON c.id = i.category_id").
		Where(visibility.Predicate(actor)).
		Where(sq.Gt{"i.vote_count": 0}).
		OrderBy("i.vote_count DESC", "i.created_at DESC").
		Limit(uint64(limit))
	if since != nil {
		qb = qb.Where(sq.GtOrEq{"i.created_at": *since})
	}

	sql, args, err := qb.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build top voted query: %w", err)
	}

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("top voted ideas: %w", err)
	}
	defer rows.Close()

	ideas := []domain.TopIdea{}
	for rows.Next() {
		var t domain.TopIdea
		if err := rows.Scan(&t.ID, &t.Code, &t.Title, &t.Status, &t.VoteCount,
			&t.CategoryName, &t.CategoryColor, &t.CreatorName); err != nil {
			return nil, fmt.Errorf("scan top voted idea: %w", err)
		}
		ideas = append(ideas, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate top voted ideas: %w", err)
	}

	return ideas, nil
}

// RecentActivity returns the latest status changes on visible ideas,
// newest first. History rows are windowed on their own changed_at, not
// on the idea's creation time.
func (r *Repo) RecentActivity(ctx context.Context, actor domain.Actor, since *time.Time, limit int) ([]domain.HistoryActivity, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	qb := sq.Select(
		"h.id", "h.idea_id", "h.from_status", "h.to_status",
		"h.changed_by", "u.name", "h.note", "h.changed_at",
		"i.title", "i.code",
	).
		From("idea_status_history h").
		Join("ideas i ON i.id = h.idea_id").
		Join("users creator ON creator.id = i.creator_id").
		Join("users u ON u.id = h.changed_by").
		Where(visibility.Predicate(actor)).
		OrderBy("h.changed_at DESC").
		Limit(uint64(limit))
	if since != nil {
		qb = qb.Where(sq.GtOrEq{"h.changed_at": *since})
	}

	sql, args, err := qb.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build recent activity query: %w", err)
	}

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	defer rows.Close()

	activity := []domain.HistoryActivity{}
	for rows.Next() {
		var a domain.HistoryActivity
		if err := rows.Scan(&a.ID, &a.IdeaID, &a.FromStatus, &a.ToStatus,
			&a.ChangedBy, &a.ChangedByName, &a.Note, &a.ChangedAt,
			&a.IdeaTitle, &a.IdeaCode); err != nil {
			return nil, fmt.Errorf("scan recent activity: %w", err)
		}
		activity = append(activity, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent activity: %w", err)
	}

	return activity, nil
}

// DepartmentStats returns per-department idea counts and distinct
// contributor counts for the window. Callers gate access by role; no
// visibility predicate applies because only all-seeing roles reach this.
func (r *Repo) DepartmentStats(ctx context.Context, since *time.Time) ([]domain.DepartmentStat, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	qb := sq.Select(
		"d.id", "d.name",
		"COUNT(i.id)", "COUNT(DISTINCT i.creator_id)",
	).
		From("departments d").
		LeftJoin("users u ON u.department_id = d.id").
		Where(sq.Eq{"d.is_active": true}).
		GroupBy("d.id", "d.name").
		OrderBy("COUNT(i.id) DESC", "d.name")

	if since != nil {
		// The window condition lives in the JOIN so departments without
		// recent ideas still appear with zero counts.
		qb = qb.LeftJoin("ideas i ON i.creator_id = u.id AND i.created_at >= ?", *since)
	} else {
		qb = qb.LeftJoin("ideas i ON i.creator_id = u.id")
	}

	sql, args, err := qb.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build department stats query: %w", err)
	}

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("department stats: %w", err)
	}
	defer rows.Close()

	stats := []domain.DepartmentStat{}
	for rows.Next() {
		var s domain.DepartmentStat
		if err := rows.Scan(&s.DepartmentID, &s.Name, &s.IdeaCount, &s.Contributors); err != nil {
			return nil, fmt.Errorf("scan department stat: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate department stats: %w", err)
	}

	return stats, nil
}
