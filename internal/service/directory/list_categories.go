package directory

import (
	"context"
	"fmt"

	"github.com/voe-labs/ideahub-backend/internal/domain"
	"github.com/voe-labs/ideahub-backend/pkg/ctxutil"
)

// ListCategories returns the active categories, sorted by name.
// Inactive categories are excluded; existing ideas keep referencing them.
func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	if _, ok := ctxutil.ActorFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}

	categories, err := s.categories.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}
