package idea

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/voe-labs/ideahub-backend/internal/domain"
	"github.com/voe-labs/ideahub-backend/pkg/ctxutil"
)

// CreateIdea submits a new idea. The idea row and its initial history
// record (from nothing to submitted) commit in one transaction; the code
// is regenerated on a duplicate collision up to the configured attempt
// limit.
func (s *Service) CreateIdea(ctx context.Context, input CreateIdeaInput) (*domain.Idea, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	category, err := s.categories.GetByID(ctx, input.CategoryID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCategory
		}
		return nil, fmt.Errorf("load category: %w", err)
	}
	if !category.IsActive {
		return nil, domain.ErrInvalidCategory
	}

	visibility := domain.Visibility(s.cfg.DefaultVisibility)
	if input.Visibility != nil {
		visibility = *input.Visibility
	}

	var created *domain.Idea
	for attempt := 1; ; attempt++ {
		now := time.Now().UTC()
		candidate := &domain.Idea{
			ID:              uuid.New(),
			Code:            domain.NewIdeaCode(s.cfg.CodePrefix),
			Title:           input.Title,
			Description:     input.Description,
			CategoryID:      input.CategoryID,
			CreatorID:       actor.ID,
			Status:          domain.IdeaStatusSubmitted,
			Visibility:      visibility,
			ExpectedBenefit: input.ExpectedBenefit,
			CreatedAt:       now,
		}

		txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
			var createErr error
			created, createErr = s.ideas.Create(txCtx, candidate)
			if createErr != nil {
				return createErr
			}

			rec := &domain.StatusHistoryRecord{
				ID:         uuid.New(),
				IdeaID:     created.ID,
				FromStatus: nil,
				ToStatus:   domain.IdeaStatusSubmitted,
				ChangedBy:  actor.ID,
				ChangedAt:  now,
			}
			if histErr := s.history.Append(txCtx, rec); histErr != nil {
				return fmt.Errorf("append initial history: %w", histErr)
			}
			return nil
		})
		if txErr == nil {
			break
		}
		if errors.Is(txErr, domain.ErrAlreadyExists) && attempt < s.cfg.CodeRetryAttempts {
			s.log.WarnContext(ctx, "idea code collision, regenerating",
				slog.String("code", candidate.Code),
				slog.Int("attempt", attempt),
			)
			continue
		}
		return nil, fmt.Errorf("create idea: %w", txErr)
	}

	s.recordAudit(ctx, domain.AuditRecord{
		ActorID:  actor.ID,
		Action:   domain.AuditActionCreate,
		Entity:   domain.AuditEntityIdea,
		EntityID: created.ID,
		Detail:   map[string]any{"code": created.Code, "title": created.Title},
	})

	s.log.InfoContext(ctx, "idea created",
		slog.String("idea_id", created.ID.String()),
		slog.String("code", created.Code),
	)
	return created, nil
}
