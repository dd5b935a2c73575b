package directory

import (
	"context"
	"fmt"

	"github.com/voe-labs/ideahub-backend/internal/domain"
	"github.com/voe-labs/ideahub-backend/pkg/ctxutil"
)

// ListDepartments returns the active departments, sorted by name.
func (s *Service) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	if _, ok := ctxutil.ActorFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}

	departments, err := s.departments.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	return departments, nil
}
