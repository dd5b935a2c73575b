// Package idea implements the idea lifecycle business logic: creation
// with atomic initial history, partial updates, explicit status
// transitions, and the one-vote-per-user ledger with toggle semantics.
package idea

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/voe-labs/ideahub-backend/internal/config"
	"github.com/voe-labs/ideahub-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type ideaRepo interface {
	Create(ctx context.Context, idea *domain.Idea) (*domain.Idea, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Idea, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Idea, *uuid.UUID, error)
	GetSummary(ctx context.Context, id, viewerID uuid.UUID) (*domain.IdeaSummary, error)
	List(ctx context.Context, actor domain.Actor, filter domain.IdeaFilter) (domain.Page[domain.IdeaSummary], error)
	UpdateFields(ctx context.Context, id uuid.UUID, patch domain.IdeaPatch) (*domain.Idea, error)
	SetStatus(ctx context.Context, id uuid.UUID, to domain.IdeaStatus, closedReason *string, closedAt *time.Time) error
	SetVoteCount(ctx context.Context, id uuid.UUID, count int) error
	ListOwners(ctx context.Context, ideaID uuid.UUID) ([]domain.IdeaOwner, error)
}

type voteRepo interface {
	GetByIdeaAndUser(ctx context.Context, ideaID, userID uuid.UUID) (*domain.IdeaVote, error)
	Create(ctx context.Context, vote *domain.IdeaVote) error
	UpdateType(ctx context.Context, id uuid.UUID, voteType domain.VoteType) error
	Delete(ctx context.Context, id uuid.UUID) error
	SumByIdea(ctx context.Context, ideaID uuid.UUID) (int, error)
	ListByIdea(ctx context.Context, ideaID uuid.UUID) ([]domain.IdeaVote, error)
}

type historyRepo interface {
	Append(ctx context.Context, rec *domain.StatusHistoryRecord) error
	ListByIdea(ctx context.Context, ideaID uuid.UUID) ([]domain.StatusHistoryRecord, error)
}

type categoryRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
}

type auditRecorder interface {
	Record(ctx context.Context, rec *domain.AuditRecord) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the idea business logic.
type Service struct {
	log        *slog.Logger
	ideas      ideaRepo
	votes      voteRepo
	history    historyRepo
	categories categoryRepo
	audit      auditRecorder
	tx         txManager
	cfg        config.IdeasConfig
}

// NewService creates a new Idea service.
func NewService(
	logger *slog.Logger,
	ideas ideaRepo,
	votes voteRepo,
	history historyRepo,
	categories categoryRepo,
	audit auditRecorder,
	tx txManager,
	cfg config.IdeasConfig,
) *Service {
	return &Service{
		log:        logger.With("service", "idea"),
		ideas:      ideas,
		votes:      votes,
		history:    history,
		categories: categories,
		audit:      audit,
		tx:         tx,
		cfg:        cfg,
	}
}

// recordAudit writes an audit entry after the owning transaction has
// committed. Failures are logged and swallowed: the trail is best-effort
// and must never fail a user operation.
func (s *Service) recordAudit(ctx context.Context, rec domain.AuditRecord) {
	if err := s.audit.Record(ctx, &rec); err != nil {
		s.log.ErrorContext(ctx, "audit record failed",
			slog.String("action", rec.Action.String()),
			slog.String("entity_id", rec.EntityID.String()),
			slog.String("error", err.Error()),
		)
	}
}
