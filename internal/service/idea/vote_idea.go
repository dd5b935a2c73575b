package idea

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/voe-labs/ideahub-backend/internal/domain"
	"github.com/voe-labs/ideahub-backend/pkg/ctxutil"
)

// VoteIdea applies the toggle semantics of the vote ledger:
//   - no existing row: insert, outcome "voted"
//   - existing row with the same direction: delete, outcome "removed"
//   - existing row with the opposite direction: flip in place, "changed"
//
// The whole mutation runs in one transaction that row-locks the idea, so
// concurrent votes on the same idea serialize. The denormalized
// vote_count is refreshed from the full signed sum of the ledger, never
// incremented. A same-user race that slips past the lookup trips the
// unique index; that conflict is retried here, not surfaced.
func (s *Service) VoteIdea(ctx context.Context, ideaID uuid.UUID, voteType domain.VoteType) (*VoteResult, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if !voteType.IsValid() {
		return nil, domain.ErrInvalidVoteType
	}

	var result *VoteResult
	for attempt := 1; ; attempt++ {
		res, err := s.voteOnce(ctx, actor, ideaID, voteType)
		if err == nil {
			result = res
			break
		}
		if errors.Is(err, domain.ErrAlreadyExists) && attempt < s.cfg.VoteRetryAttempts {
			s.log.WarnContext(ctx, "vote race detected, retrying",
				slog.String("idea_id", ideaID.String()),
				slog.Int("attempt", attempt),
			)
			continue
		}
		return nil, err
	}

	s.recordAudit(ctx, domain.AuditRecord{
		ActorID:  actor.ID,
		Action:   auditActionFor(result.Outcome),
		Entity:   domain.AuditEntityIdeaVote,
		EntityID: ideaID,
		Detail: map[string]any{
			"vote_type":  int(voteType),
			"outcome":    result.Outcome.String(),
			"vote_count": result.VoteCount,
		},
	})

	s.log.InfoContext(ctx, "vote applied",
		slog.String("idea_id", ideaID.String()),
		slog.String("outcome", result.Outcome.String()),
		slog.Int("vote_count", result.VoteCount),
	)
	return result, nil
}

// voteOnce performs a single transactional attempt of the toggle.
func (s *Service) voteOnce(ctx context.Context, actor domain.Actor, ideaID uuid.UUID, voteType domain.VoteType) (*VoteResult, error) {
	var result VoteResult

	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		current, creatorDept, err := s.ideas.GetForUpdate(txCtx, ideaID)
		if err != nil {
			return err
		}
		if current.CreatorID == actor.ID {
			return domain.ErrSelfVote
		}
		if !domain.CanViewIdea(actor, current, creatorDept) {
			return domain.ErrAccessDenied
		}

		existing, err := s.votes.GetByIdeaAndUser(txCtx, ideaID, actor.ID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			vote := &domain.IdeaVote{
				ID:       uuid.New(),
				IdeaID:   ideaID,
				UserID:   actor.ID,
				VoteType: voteType,
			}
			if createErr := s.votes.Create(txCtx, vote); createErr != nil {
				return createErr
			}
			result.Outcome = domain.VoteOutcomeVoted
			result.UserVote = &voteType

		case err != nil:
			return fmt.Errorf("lookup vote: %w", err)

		case existing.VoteType == voteType:
			if delErr := s.votes.Delete(txCtx, existing.ID); delErr != nil {
				return fmt.Errorf("remove vote: %w", delErr)
			}
			result.Outcome = domain.VoteOutcomeRemoved
			result.UserVote = nil

		default:
			if updErr := s.votes.UpdateType(txCtx, existing.ID, voteType); updErr != nil {
				return fmt.Errorf("change vote: %w", updErr)
			}
			result.Outcome = domain.VoteOutcomeChanged
			result.UserVote = &voteType
		}

		sum, err := s.votes.SumByIdea(txCtx, ideaID)
		if err != nil {
			return fmt.Errorf("sum votes: %w", err)
		}
		if err := s.ideas.SetVoteCount(txCtx, ideaID, sum); err != nil {
			return fmt.Errorf("persist vote count: %w", err)
		}
		result.VoteCount = sum
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return &result, nil
}

func auditActionFor(outcome domain.VoteOutcome) domain.AuditAction {
	switch outcome {
	case domain.VoteOutcomeChanged:
		return domain.AuditActionChangedVote
	case domain.VoteOutcomeRemoved:
		return domain.AuditActionRemovedVote
	default:
		return domain.AuditActionVoted
	}
}
