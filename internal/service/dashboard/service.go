// Package dashboard composes the windowed statistics that power
// reporting. All reads are scoped by the caller's visibility, so two
// actors can legitimately see different numbers for the same period.
package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/voe-labs/ideahub-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type statsRepo interface {
	CountIdeas(ctx context.Context, actor domain.Actor, since *time.Time) (int, error)
	CountVotes(ctx context.Context, actor domain.Actor, since *time.Time) (int, error)
	CountActiveUsers(ctx context.Context, actor domain.Actor, since *time.Time) (int, error)
	CountByStatus(ctx context.Context, actor domain.Actor, since *time.Time) ([]domain.StatusCount, error)
	CountByCategory(ctx context.Context, actor domain.Actor, since *time.Time) ([]domain.CategoryCount, error)
	AvgIdeaToActionDays(ctx context.Context, actor domain.Actor, since *time.Time) (*float64, error)
	TopVotedIdeas(ctx context.Context, actor domain.Actor, since *time.Time, limit int) ([]domain.TopIdea, error)
	RecentActivity(ctx context.Context, actor domain.Actor, since *time.Time, limit int) ([]domain.HistoryActivity, error)
	DepartmentStats(ctx context.Context, since *time.Time) ([]domain.DepartmentStat, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

const (
	topVotedLimit       = 5
	recentActivityLimit = 10
)

// Service implements the dashboard read models.
type Service struct {
	log   *slog.Logger
	stats statsRepo
	now   func() time.Time
}

// NewService creates a new Dashboard service.
func NewService(logger *slog.Logger, stats statsRepo) *Service {
	return &Service{
		log:   logger.With("service", "dashboard"),
		stats: stats,
		now:   time.Now,
	}
}
