// Package directory serves the read-only lookup lists (categories,
// departments) that populate submission forms and list filters.
package directory

import (
	"context"
	"log/slog"

	"github.com/voe-labs/ideahub-backend/internal/domain"
)

type categoryRepo interface {
	ListActive(ctx context.Context) ([]domain.Category, error)
}

type departmentRepo interface {
	ListActive(ctx context.Context) ([]domain.Department, error)
}

// Service implements the directory lookups.
type Service struct {
	log         *slog.Logger
	categories  categoryRepo
	departments departmentRepo
}

// NewService creates a new Directory service.
func NewService(logger *slog.Logger, categories categoryRepo, departments departmentRepo) *Service {
	return &Service{
		log:         logger.With("service", "directory"),
		categories:  categories,
		departments: departments,
	}
}
