package idea

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/voe-labs/ideahub-backend/internal/domain"
	"github.com/voe-labs/ideahub-backend/pkg/ctxutil"
)

// TransitionIdea moves an idea to a new lifecycle status and appends the
// matching history record in the same transaction. The creator, a
// moderator, or an admin may transition. Closing stamps closed_at and
// takes the note as the closed reason.
func (s *Service) TransitionIdea(ctx context.Context, ideaID uuid.UUID, input TransitionInput) (*domain.Idea, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	var (
		fromStatus domain.IdeaStatus
		updated    *domain.Idea
	)
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		current, creatorDept, err := s.ideas.GetForUpdate(txCtx, ideaID)
		if err != nil {
			return err
		}
		if !domain.CanViewIdea(actor, current, creatorDept) {
			return domain.ErrAccessDenied
		}
		if current.CreatorID != actor.ID && !actor.Role.CanModerate() {
			return domain.ErrForbidden
		}
		if current.Status == input.ToStatus {
			return domain.NewValidationError("to_status", "idea is already in this status")
		}

		fromStatus = current.Status
		now := time.Now().UTC()

		var closedReason *string
		var closedAt *time.Time
		if input.ToStatus == domain.IdeaStatusClosed {
			closedReason = input.Note
			closedAt = &now
		}
		if err := s.ideas.SetStatus(txCtx, ideaID, input.ToStatus, closedReason, closedAt); err != nil {
			return fmt.Errorf("set status: %w", err)
		}

		rec := &domain.StatusHistoryRecord{
			ID:         uuid.New(),
			IdeaID:     ideaID,
			FromStatus: &fromStatus,
			ToStatus:   input.ToStatus,
			ChangedBy:  actor.ID,
			Note:       input.Note,
			ChangedAt:  now,
		}
		if err := s.history.Append(txCtx, rec); err != nil {
			return fmt.Errorf("append history: %w", err)
		}

		updated, err = s.ideas.GetByID(txCtx, ideaID)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}

	s.recordAudit(ctx, domain.AuditRecord{
		ActorID:  actor.ID,
		Action:   domain.AuditActionStatusChange,
		Entity:   domain.AuditEntityIdea,
		EntityID: ideaID,
		Detail: map[string]any{
			"from_status": fromStatus.String(),
			"to_status":   input.ToStatus.String(),
		},
	})

	s.log.InfoContext(ctx, "idea transitioned",
		slog.String("idea_id", ideaID.String()),
		slog.String("from", fromStatus.String()),
		slog.String("to", input.ToStatus.String()),
	)
	return updated, nil
}
