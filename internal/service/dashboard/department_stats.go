package dashboard

import (
	"context"
	"fmt"

	"github.com/voe-labs/ideahub-backend/internal/domain"
	"github.com/voe-labs/ideahub-backend/pkg/ctxutil"
)

// DepartmentStats returns per-department engagement for the window.
// Restricted to executives, moderators, and admins; everyone else gets
// ErrForbidden regardless of what they could see elsewhere.
func (s *Service) DepartmentStats(ctx context.Context, period domain.StatsPeriod) ([]domain.DepartmentStat, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if !actor.Role.CanViewDepartmentStats() {
		return nil, domain.ErrForbidden
	}

	if !period.IsValid() {
		period = domain.Period30d
	}
	since := period.PeriodStart(s.now())

	stats, err := s.stats.DepartmentStats(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("department stats: %w", err)
	}
	return stats, nil
}
