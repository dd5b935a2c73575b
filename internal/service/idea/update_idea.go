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

// UpdateIdea applies a partial patch. Only the creator, a moderator, or
// an admin may edit; a category change is revalidated against the active
// category set. Status never changes through this path.
func (s *Service) UpdateIdea(ctx context.Context, ideaID uuid.UUID, input UpdateIdeaInput) (*domain.Idea, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if input.IsEmpty() {
		return nil, domain.NewValidationError("patch", "no fields to update")
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	summary, err := s.ideas.GetSummary(ctx, ideaID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !domain.CanViewIdea(actor, &summary.Idea, summary.Creator.DepartmentID) {
		return nil, domain.ErrAccessDenied
	}
	if summary.CreatorID != actor.ID && !actor.Role.CanModerate() {
		return nil, domain.ErrForbidden
	}

	if input.CategoryID != nil {
		category, catErr := s.categories.GetByID(ctx, *input.CategoryID)
		if catErr != nil {
			if errors.Is(catErr, domain.ErrNotFound) {
				return nil, domain.ErrInvalidCategory
			}
			return nil, fmt.Errorf("load category: %w", catErr)
		}
		if !category.IsActive {
			return nil, domain.ErrInvalidCategory
		}
	}

	var updated *domain.Idea
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var updErr error
		updated, updErr = s.ideas.UpdateFields(txCtx, ideaID, input.patch())
		return updErr
	})
	if txErr != nil {
		return nil, fmt.Errorf("update idea: %w", txErr)
	}

	s.recordAudit(ctx, domain.AuditRecord{
		ActorID:  actor.ID,
		Action:   domain.AuditActionUpdate,
		Entity:   domain.AuditEntityIdea,
		EntityID: ideaID,
		Detail:   map[string]any{"fields": patchedFields(input)},
	})

	s.log.InfoContext(ctx, "idea updated", slog.String("idea_id", ideaID.String()))
	return updated, nil
}

func patchedFields(in UpdateIdeaInput) []string {
	fields := []string{}
	if in.Title != nil {
		fields = append(fields, "title")
	}
	if in.Description != nil {
		fields = append(fields, "description")
	}
	if in.ExpectedBenefit != nil {
		fields = append(fields, "expected_benefit")
	}
	if in.ImplementationNotes != nil {
		fields = append(fields, "implementation_notes")
	}
	if in.CategoryID != nil {
		fields = append(fields, "category_id")
	}
	if in.Visibility != nil {
		fields = append(fields, "visibility")
	}
	return fields
}
