package idea

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/voe-labs/ideahub-backend/internal/domain"
	"github.com/voe-labs/ideahub-backend/pkg/ctxutil"
)

// GetIdea returns the full single-idea view: summary plus votes, ordered
// history, and active owners. An existing idea the actor may not see
// yields ErrAccessDenied, deliberately distinct from ErrNotFound.
func (s *Service) GetIdea(ctx context.Context, ideaID uuid.UUID) (*domain.IdeaDetail, error) {
	summary, err := s.visibleSummary(ctx, ideaID)
	if err != nil {
		return nil, err
	}

	votes, err := s.votes.ListByIdea(ctx, ideaID)
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	history, err := s.history.ListByIdea(ctx, ideaID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	owners, err := s.ideas.ListOwners(ctx, ideaID)
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}

	return &domain.IdeaDetail{
		IdeaSummary: *summary,
		Votes:       votes,
		History:     history,
		Owners:      owners,
	}, nil
}

// GetHistory returns the idea's full status trail, oldest first, under
// the same visibility rule as GetIdea.
func (s *Service) GetHistory(ctx context.Context, ideaID uuid.UUID) ([]domain.StatusHistoryRecord, error) {
	if _, err := s.visibleSummary(ctx, ideaID); err != nil {
		return nil, err
	}

	records, err := s.history.ListByIdea(ctx, ideaID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return records, nil
}

// visibleSummary loads the summary and applies the visibility point check.
func (s *Service) visibleSummary(ctx context.Context, ideaID uuid.UUID) (*domain.IdeaSummary, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	summary, err := s.ideas.GetSummary(ctx, ideaID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !domain.CanViewIdea(actor, &summary.Idea, summary.Creator.DepartmentID) {
		return nil, domain.ErrAccessDenied
	}
	return summary, nil
}
