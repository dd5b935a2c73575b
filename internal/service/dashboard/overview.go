package dashboard

import (
	"context"
	"fmt"

	"github.com/voe-labs/ideahub-backend/internal/domain"
	"github.com/voe-labs/ideahub-backend/pkg/ctxutil"
)

// Overview assembles the windowed dashboard snapshot for the actor. An
// unknown period falls back to 30d. Every aggregate is computed over the
// ideas the actor could list; an empty window yields zero counts, empty
// groupings, and a nil idea-to-action average.
func (s *Service) Overview(ctx context.Context, period domain.StatsPeriod) (*domain.Overview, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if !period.IsValid() {
		period = domain.Period30d
	}
	since := period.PeriodStart(s.now())

	totalIdeas, err := s.stats.CountIdeas(ctx, actor, since)
	if err != nil {
		return nil, fmt.Errorf("count ideas: %w", err)
	}
	totalVotes, err := s.stats.CountVotes(ctx, actor, since)
	if err != nil {
		return nil, fmt.Errorf("count votes: %w", err)
	}
	activeUsers, err := s.stats.CountActiveUsers(ctx, actor, since)
	if err != nil {
		return nil, fmt.Errorf("count active users: %w", err)
	}
	avgToAction, err := s.stats.AvgIdeaToActionDays(ctx, actor, since)
	if err != nil {
		return nil, fmt.Errorf("average idea to action: %w", err)
	}
	byStatus, err := s.stats.CountByStatus(ctx, actor, since)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	byCategory, err := s.stats.CountByCategory(ctx, actor, since)
	if err != nil {
		return nil, fmt.Errorf("count by category: %w", err)
	}
	topVoted, err := s.stats.TopVotedIdeas(ctx, actor, since, topVotedLimit)
	if err != nil {
		return nil, fmt.Errorf("top voted ideas: %w", err)
	}
	activity, err := s.stats.RecentActivity(ctx, actor, since, recentActivityLimit)
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}

	return &domain.Overview{
		Period:              period,
		TotalIdeas:          totalIdeas,
		TotalVotes:          totalVotes,
		ActiveUsers:         activeUsers,
		AvgIdeaToActionDays: avgToAction,
		IdeasByStatus:       byStatus,
		IdeasByCategory:     byCategory,
		TopVotedIdeas:       topVoted,
		RecentActivity:      activity,
	}, nil
}
