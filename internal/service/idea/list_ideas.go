package idea

import (
	"context"
	"fmt"

	"github.com/voe-labs/ideahub-backend/internal/domain"
	"github.com/voe-labs/ideahub-backend/pkg/ctxutil"
)

// ListIdeas returns a page of idea summaries the actor may see. Hidden
// ideas are silently excluded; the listing never reveals their existence.
func (s *Service) ListIdeas(ctx context.Context, filter domain.IdeaFilter) (domain.Page[domain.IdeaSummary], error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return domain.Page[domain.IdeaSummary]{}, domain.ErrUnauthorized
	}

	filter.Normalize()

	page, err := s.ideas.List(ctx, actor, filter)
	if err != nil {
		return domain.Page[domain.IdeaSummary]{}, fmt.Errorf("list ideas: %w", err)
	}
	return page, nil
}
