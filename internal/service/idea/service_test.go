package idea

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voe-labs/ideahub-backend/internal/config"
	"github.com/voe-labs/ideahub-backend/internal/domain"
	"github.com/voe-labs/ideahub-backend/pkg/ctxutil"
)

// ===========================================================================
// Manual mocks (moq-style with func fields)
// ===========================================================================

type mockIdeaRepo struct {
	CreateFunc       func(ctx context.Context, idea *domain.Idea) (*domain.Idea, error)
	GetByIDFunc      func(ctx context.Context, id uuid.UUID) (*domain.Idea, error)
	GetForUpdateFunc func(ctx context.Context, id uuid.UUID) (*domain.Idea, *uuid.UUID, error)
	GetSummaryFunc   func(ctx context.Context, id, viewerID uuid.UUID) (*domain.IdeaSummary, error)
	ListFunc         func(ctx context.Context, actor domain.Actor, filter domain.IdeaFilter) (domain.Page[domain.IdeaSummary], error)
	UpdateFieldsFunc func(ctx context.Context, id uuid.UUID, patch domain.IdeaPatch) (*domain.Idea, error)
	SetStatusFunc    func(ctx context.Context, id uuid.UUID, to domain.IdeaStatus, closedReason *string, closedAt *time.Time) error
	SetVoteCountFunc func(ctx context.Context, id uuid.UUID, count int) error
	ListOwnersFunc   func(ctx context.Context, ideaID uuid.UUID) ([]domain.IdeaOwner, error)
}

func (m *mockIdeaRepo) Create(ctx context.Context, idea *domain.Idea) (*domain.Idea, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, idea)
	}
	return idea, nil
}

func (m *mockIdeaRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Idea, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockIdeaRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Idea, *uuid.UUID, error) {
	if m.GetForUpdateFunc != nil {
		return m.GetForUpdateFunc(ctx, id)
	}
	return nil, nil, domain.ErrNotFound
}

func (m *mockIdeaRepo) GetSummary(ctx context.Context, id, viewerID uuid.UUID) (*domain.IdeaSummary, error) {
	if m.GetSummaryFunc != nil {
		return m.GetSummaryFunc(ctx, id, viewerID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockIdeaRepo) List(ctx context.Context, actor domain.Actor, filter domain.IdeaFilter) (domain.Page[domain.IdeaSummary], error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, actor, filter)
	}
	return domain.Page[domain.IdeaSummary]{}, nil
}

func (m *mockIdeaRepo) UpdateFields(ctx context.Context, id uuid.UUID, patch domain.IdeaPatch) (*domain.Idea, error) {
	if m.UpdateFieldsFunc != nil {
		return m.UpdateFieldsFunc(ctx, id, patch)
	}
	return &domain.Idea{ID: id}, nil
}

func (m *mockIdeaRepo) SetStatus(ctx context.Context, id uuid.UUID, to domain.IdeaStatus, closedReason *string, closedAt *time.Time) error {
	if m.SetStatusFunc != nil {
		return m.SetStatusFunc(ctx, id, to, closedReason, closedAt)
	}
	return nil
}

func (m *mockIdeaRepo) SetVoteCount(ctx context.Context, id uuid.UUID, count int) error {
	if m.SetVoteCountFunc != nil {
		return m.SetVoteCountFunc(ctx, id, count)
	}
	return nil
}

func (m *mockIdeaRepo) ListOwners(ctx context.Context, ideaID uuid.UUID) ([]domain.IdeaOwner, error) {
	if m.ListOwnersFunc != nil {
		return m.ListOwnersFunc(ctx, ideaID)
	}
	return []domain.IdeaOwner{}, nil
}

type mockVoteRepo struct {
	GetByIdeaAndUserFunc func(ctx context.Context, ideaID, userID uuid.UUID) (*domain.IdeaVote, error)
	CreateFunc           func(ctx context.Context, vote *domain.IdeaVote) error
	UpdateTypeFunc       func(ctx context.Context, id uuid.UUID, voteType domain.VoteType) error
	DeleteFunc           func(ctx context.Context, id uuid.UUID) error
	SumByIdeaFunc        func(ctx context.Context, ideaID uuid.UUID) (int, error)
	ListByIdeaFunc       func(ctx context.Context, ideaID uuid.UUID) ([]domain.IdeaVote, error)
}

func (m *mockVoteRepo) GetByIdeaAndUser(ctx context.Context, ideaID, userID uuid.UUID) (*domain.IdeaVote, error) {
	if m.GetByIdeaAndUserFunc != nil {
		return m.GetByIdeaAndUserFunc(ctx, ideaID, userID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockVoteRepo) Create(ctx context.Context, vote *domain.IdeaVote) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, vote)
	}
	return nil
}

func (m *mockVoteRepo) UpdateType(ctx context.Context, id uuid.UUID, voteType domain.VoteType) error {
	if m.UpdateTypeFunc != nil {
		return m.UpdateTypeFunc(ctx, id, voteType)
	}
	return nil
}

func (m *mockVoteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockVoteRepo) SumByIdea(ctx context.Context, ideaID uuid.UUID) (int, error) {
	if m.SumByIdeaFunc != nil {
		return m.SumByIdeaFunc(ctx, ideaID)
	}
	return 0, nil
}

func (m *mockVoteRepo) ListByIdea(ctx context.Context, ideaID uuid.UUID) ([]domain.IdeaVote, error) {
	if m.ListByIdeaFunc != nil {
		return m.ListByIdeaFunc(ctx, ideaID)
	}
	return []domain.IdeaVote{}, nil
}

type mockHistoryRepo struct {
	AppendFunc     func(ctx context.Context, rec *domain.StatusHistoryRecord) error
	ListByIdeaFunc func(ctx context.Context, ideaID uuid.UUID) ([]domain.StatusHistoryRecord, error)
}

func (m *mockHistoryRepo) Append(ctx context.Context, rec *domain.StatusHistoryRecord) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, rec)
	}
	return nil
}

func (m *mockHistoryRepo) ListByIdea(ctx context.Context, ideaID uuid.UUID) ([]domain.StatusHistoryRecord, error) {
	if m.ListByIdeaFunc != nil {
		return m.ListByIdeaFunc(ctx, ideaID)
	}
	return []domain.StatusHistoryRecord{}, nil
}

type mockCategoryRepo struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.Category, error)
}

func (m *mockCategoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return &domain.Category{ID: id, Name: "Default", IsActive: true}, nil
}

type mockAuditRecorder struct {
	RecordFunc func(ctx context.Context, rec *domain.AuditRecord) error
	records    []domain.AuditRecord
}

func (m *mockAuditRecorder) Record(ctx context.Context, rec *domain.AuditRecord) error {
	m.records = append(m.records, *rec)
	if m.RecordFunc != nil {
		return m.RecordFunc(ctx, rec)
	}
	return nil
}

type mockTxManager struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.RunInTxFunc != nil {
		return m.RunInTxFunc(ctx, fn)
	}
	return fn(ctx)
}

// ===========================================================================
// Helpers
// ===========================================================================

func defaultCfg() config.IdeasConfig {
	return config.IdeasConfig{
		CodePrefix:        "VOE",
		CodeRetryAttempts: 3,
		VoteRetryAttempts: 3,
		DefaultVisibility: "public",
	}
}

type testDeps struct {
	ideas      *mockIdeaRepo
	votes      *mockVoteRepo
	history    *mockHistoryRepo
	categories *mockCategoryRepo
	audit      *mockAuditRecorder
	tx         *mockTxManager
}

func newTestService(cfg config.IdeasConfig) (*Service, *testDeps) {
	deps := &testDeps{
		ideas:      &mockIdeaRepo{},
		votes:      &mockVoteRepo{},
		history:    &mockHistoryRepo{},
		categories: &mockCategoryRepo{},
		audit:      &mockAuditRecorder{},
		tx:         &mockTxManager{},
	}
	svc := NewService(
		slog.Default(),
		deps.ideas,
		deps.votes,
		deps.history,
		deps.categories,
		deps.audit,
		deps.tx,
		cfg,
	)
	return svc, deps
}

func actorCtx(role domain.UserRole, deptID *uuid.UUID) (context.Context, domain.Actor) {
	actor := domain.Actor{ID: uuid.New(), Role: role, DepartmentID: deptID}
	return ctxutil.WithActor(context.Background(), actor), actor
}

func validCreateInput() CreateIdeaInput {
	return CreateIdeaInput{
		Title:       "Automate deployment checks",
		Description: "Add an automated gate that runs the smoke suite before each release.",
		CategoryID:  uuid.New(),
	}
}

func publicIdea(creatorID uuid.UUID) *domain.Idea {
	return &domain.Idea{
		ID:         uuid.New(),
		Code:       "VOE-000001-ABC",
		Title:      "Existing idea title",
		CreatorID:  creatorID,
		Status:     domain.IdeaStatusSubmitted,
		Visibility: domain.VisibilityPublic,
	}
}

func summaryOf(idea *domain.Idea, creatorDept *uuid.UUID) *domain.IdeaSummary {
	return &domain.IdeaSummary{
		Idea:    *idea,
		Creator: domain.UserRef{ID: idea.CreatorID, Name: "Creator", DepartmentID: creatorDept},
	}
}

func ptrVis(v domain.Visibility) *domain.Visibility { return &v }

// ===========================================================================
// 1. CreateIdea
// ===========================================================================

func TestService_CreateIdea_Success(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(defaultCfg())
	ctx, actor := actorCtx(domain.UserRoleEmployee, nil)

	var appended *domain.StatusHistoryRecord
	deps.history.AppendFunc = func(_ context.Context, rec *domain.StatusHistoryRecord) error {
		appended = rec
		return nil
	}

	created, err := svc.CreateIdea(ctx, validCreateInput())
	require.NoError(t, err)

	assert.Equal(t, actor.ID, created.CreatorID)
	assert.Equal(t, domain.IdeaStatusSubmitted, created.Status)
	assert.Equal(t, domain.VisibilityPublic, created.Visibility)
	assert.Regexp(t, `^VOE-\d{6}-[0-9A-Z]{3}$`, created.Code)

	require.NotNil(t, appended, "initial history record must be written")
	assert.Nil(t, appended.FromStatus)
	assert.Equal(t, domain.IdeaStatusSubmitted, appended.ToStatus)
	assert.Equal(t, actor.ID, appended.ChangedBy)

	require.Len(t, deps.audit.records, 1)
	assert.Equal(t, domain.AuditActionCreate, deps.audit.records[0].Action)
}

func TestService_CreateIdea_ExplicitVisibility(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(defaultCfg())
	ctx, _ := actorCtx(domain.UserRoleEmployee, nil)

	input := validCreateInput()
	input.Visibility = ptrVis(domain.VisibilityPrivate)

	created, err := svc.CreateIdea(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, domain.VisibilityPrivate, created.Visibility)
}

func TestService_CreateIdea_ValidationCollectsFields(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(defaultCfg())
	ctx, _ := actorCtx(domain.UserRoleEmployee, nil)

	input := CreateIdeaInput{Title: "abc", Description: "too short"}
	_, err := svc.CreateIdea(ctx, input)
	require.ErrorIs(t, err, domain.ErrValidation)

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Len(t, vErr.Errors, 3) // title, description, category_id
}

func TestService_CreateIdea_InactiveCategory(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(defaultCfg())
	ctx, _ := actorCtx(domain.UserRoleEmployee, nil)

	deps.categories.GetByIDFunc = func(_ context.Context, id uuid.UUID) (*domain.Category, error) {
		return &domain.Category{ID: id, IsActive: false}, nil
	}

	_, err := svc.CreateIdea(ctx, validCreateInput())
	require.ErrorIs(t, err, domain.ErrInvalidCategory)
}

func TestService_CreateIdea_UnknownCategory(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(defaultCfg())
	ctx, _ := actorCtx(domain.UserRoleEmployee, nil)

	deps.categories.GetByIDFunc = func(_ context.Context, _ uuid.UUID) (*domain.Category, error) {
		return nil, domain.ErrNotFound
	}

	_, err := svc.CreateIdea(ctx, validCreateInput())
	require.ErrorIs(t, err, domain.ErrInvalidCategory)
}

func TestService_CreateIdea_CodeCollisionRetried(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(defaultCfg())
	ctx, _ := actorCtx(domain.UserRoleEmployee, nil)

	var codes []string
	deps.ideas.CreateFunc = func(_ context.Context, idea *domain.Idea) (*domain.Idea, error) {
		codes = append(codes, idea.Code)
		if len(codes) == 1 {
			return nil, domain.ErrAlreadyExists
		}
		return idea, nil
	}

	created, err := svc.CreateIdea(ctx, validCreateInput())
	require.NoError(t, err)
	require.Len(t, codes, 2, "a collision must trigger one regeneration")
	assert.Equal(t, codes[1], created.Code)
}

func TestService_CreateIdea_CodeRetryExhausted(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(defaultCfg())
	ctx, _ := actorCtx(domain.UserRoleEmployee, nil)

	attempts := 0
	deps.ideas.CreateFunc = func(_ context.Context, _ *domain.Idea) (*domain.Idea, error) {
		attempts++
		return nil, domain.ErrAlreadyExists
	}

	_, err := svc.CreateIdea(ctx, validCreateInput())
	require.ErrorIs(t, err, domain.ErrAlreadyExists)
	assert.Equal(t, 3, attempts)
}

func TestService_CreateIdea_AuditFailureSwallowed(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(defaultCfg())
	ctx, _ := actorCtx(domain.UserRoleEmployee, nil)

	deps.audit.RecordFunc = func(_ context.Context, _ *domain.AuditRecord) error {
		return errors.New("audit store down")
	}

	_, err := svc.CreateIdea(ctx, validCreateInput())
	require.NoError(t, err, "audit failure must never fail the operation")
}

func TestService_CreateIdea_NoAuth(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(defaultCfg())

	_, err := svc.CreateIdea(context.Background(), validCreateInput())
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

// ===========================================================================
// 2. GetIdea / GetHistory
// ===========================================================================

func TestService_GetIdea_AssemblesDetail(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(defaultCfg())
	ctx, _ := actorCtx(domain.UserRoleEmployee, nil)

	target := publicIdea(uuid.New())
	deps.ideas.GetSummaryFunc = func(_ context.Context, _, _ uuid.UUID) (*domain.IdeaSummary, error) {
		return summaryOf(target, nil), nil
	}
	deps.votes.ListByIdeaFunc = func(_ context.Context, _ uuid.UUID) ([]domain.IdeaVote, error) {
		return []domain.IdeaVote{{ID: uuid.New(), UserName: "Voter"}}, nil
	}
	deps.history.ListByIdeaFunc = func(_ context.Context, _ uuid.UUID) ([]domain.StatusHistoryRecord, error) {
		return []domain.StatusHistoryRecord{{ToStatus: domain.IdeaStatusSubmitted}}, nil
	}

	detail, err := svc.GetIdea(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, target.ID, detail.ID)
	assert.Len(t, detail.Votes, 1)
	assert.Len(t, detail.History, 1)
}

func TestService_GetIdea_AccessDeniedDistinctFromNotFound(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(defaultCfg())
	ctx, _ := actorCtx(domain.UserRoleEmployee, nil)

	hidden := publicIdea(uuid.New())
	hidden.Visibility = domain.VisibilityPrivate
	deps.ideas.GetSummaryFunc = func(_ context.Context, _, _ uuid.UUID) (*domain.IdeaSummary, error) {
		return summaryOf(hidden, nil), nil
	}

	_, err := svc.GetIdea(ctx, hidden.ID)
	require.ErrorIs(t, err, domain.ErrAccessDenied)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestService_GetIdea_NotFound(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(defaultCfg())
	ctx, _ := actorCtx(domain.UserRoleEmployee, nil)

	_, err := svc.GetIdea(ctx, uuid.New())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_GetHistory_SameVisibilityRule(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(defaultCfg())
	ctx, _ := actorCtx(domain.UserRoleEmployee, nil)

	hidden := publicIdea(uuid.New())
	hidden.Visibility = domain.VisibilityPrivate
	deps.ideas.GetSummaryFunc = func(_ context.Context, _, _ uuid.UUID) (*domain.IdeaSummary, error) {
		return summaryOf(hidden, nil), nil
	}

	_, err := svc.GetHistory(ctx, hidden.ID)
	require.ErrorIs(t, err, domain.ErrAccessDenied)
}

// ===========================================================================
// 3. ListIdeas
// ===========================================================================

func TestService_ListIdeas_NormalizesFilter(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(defaultCfg())
	ctx, actor := actorCtx(domain.UserRoleEmployee, nil)

	var captured domain.IdeaFilter
	var capturedActor domain.Actor
	deps.ideas.ListFunc = func(_ context.Context, a domain.Actor, f domain.IdeaFilter) (domain.Page[domain.IdeaSummary], error) {
		captured, capturedActor = f, a
		return domain.Page[domain.IdeaSummary]{Page: f.Page, PageSize: f.PageSize}, nil
	}

	_, err := svc.ListIdeas(ctx, domain.IdeaFilter{SortBy: "evil; DROP TABLE", PageSize: 9999})
	require.NoError(t, err)
	assert.Equal(t, "created_at", captured.SortBy)
	assert.Equal(t, 100, captured.PageSize)
	assert.Equal(t, actor.ID, capturedActor.ID)
}

// ===========================================================================
// 4. UpdateIdea
// ===========================================================================

func TestService_UpdateIdea_EmptyPatch(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(defaultCfg())
	ctx, _ := actorCtx(domain.UserRoleEmployee, nil)

	_, err := svc.UpdateIdea(ctx, uuid.New(), UpdateIdeaInput{})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_UpdateIdea_CreatorAllowed(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(defaultCfg())
	ctx, actor := actorCtx(domain.UserRoleEmployee, nil)

	target := publicIdea(actor.ID)
	deps.ideas.GetSummaryFunc = func(_ context.Context, _, _ uuid.UUID) (*domain.IdeaSummary, error) {
		return summaryOf(target, nil), nil
	}

	var captured domain.IdeaPatch
	deps.ideas.UpdateFieldsFunc = func(_ context.Context, id uuid.UUID, patch domain.IdeaPatch) (*domain.Idea, error) {
		captured = patch
		return target, nil
	}

	title := "A better idea title"
	_, err := svc.UpdateIdea(ctx, target.ID, UpdateIdeaInput{Title: &title})
	require.NoError(t, err)
	require.NotNil(t, captured.Title)
	assert.Equal(t, title, *captured.Title)
}

func TestService_UpdateIdea_NonCreatorEmployeeForbidden(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(defaultCfg())
	ctx, _ := actorCtx(domain.UserRoleEmployee, nil)

	target := publicIdea(uuid.New())
	deps.ideas.GetSummaryFunc = func(_ context.Context, _, _ uuid.UUID) (*domain.IdeaSummary, error) {
		return summaryOf(target, nil), nil
	}

	title := "Hostile takeover title"
	_, err := svc.UpdateIdea(ctx, target.ID, UpdateIdeaInput{Title: &title})
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestService_UpdateIdea_ModeratorAllowed(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(defaultCfg())
	ctx, _ := actorCtx(domain.UserRoleModerator, nil)

	target := publicIdea(uuid.New())
	deps.ideas.GetSummaryFunc = func(_ context.Context, _, _ uuid.UUID) (*domain.IdeaSummary, error) {
		return summaryOf(target, nil), nil
	}

	title := "Moderated idea title"
	_, err := svc.UpdateIdea(ctx, target.ID, UpdateIdeaInput{Title: &title})
	require.NoError(t, err)
}

func TestService_UpdateIdea_CategoryRevalidated(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(defaultCfg())
	ctx, actor := actorCtx(domain.UserRoleEmployee, nil)

	target := publicIdea(actor.ID)
	deps.ideas.GetSummaryFunc = func(_ context.Context, _, _ uuid.UUID) (*domain.IdeaSummary, error) {
		return summaryOf(target, nil), nil
	}
	deps.categories.GetByIDFunc = func(_ context.Context, id uuid.UUID) (*domain.Category, error) {
		return &domain.Category{ID: id, IsActive: false}, nil
	}

	newCat := uuid.New()
	_, err := svc.UpdateIdea(ctx, target.ID, UpdateIdeaInput{CategoryID: &newCat})
	require.ErrorIs(t, err, domain.ErrInvalidCategory)
}

// ===========================================================================
// 5. TransitionIdea
// ===========================================================================

func TestService_TransitionIdea_AppendsHistory(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(defaultCfg())
	ctx, _ := actorCtx(domain.UserRoleModerator, nil)

	target := publicIdea(uuid.New())
	deps.ideas.GetForUpdateFunc = func(_ context.Context, _ uuid.UUID) (*domain.Idea, *uuid.UUID, error) {
		return target, nil, nil
	}
	deps.ideas.GetByIDFunc = func(_ context.Context, id uuid.UUID) (*domain.Idea, error) {
		moved := *target
		moved.Status = domain.IdeaStatusUnderReview
		return &moved, nil
	}

	var appended *domain.StatusHistoryRecord
	deps.history.AppendFunc = func(_ context.Context, rec *domain.StatusHistoryRecord) error {
		appended = rec
		return nil
	}

	updated, err := svc.TransitionIdea(ctx, target.ID, TransitionInput{ToStatus: domain.IdeaStatusUnderReview})
	require.NoError(t, err)
	assert.Equal(t, domain.IdeaStatusUnderReview, updated.Status)

	require.NotNil(t, appended)
	require.NotNil(t, appended.FromStatus)
	assert.Equal(t, domain.IdeaStatusSubmitted, *appended.FromStatus)
	assert.Equal(t, domain.IdeaStatusUnderReview, appended.ToStatus)

	require.Len(t, deps.audit.records, 1)
	assert.Equal(t, domain.AuditActionStatusChange, deps.audit.records[0].Action)
}

func TestService_TransitionIdea_CloseStampsReason(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(defaultCfg())
	ctx, _ := actorCtx(domain.UserRoleAdmin, nil)

	target := publicIdea(uuid.New())
	deps.ideas.GetForUpdateFunc = func(_ context.Context, _ uuid.UUID) (*domain.Idea, *uuid.UUID, error) {
		return target, nil, nil
	}
	deps.ideas.GetByIDFunc = func(_ context.Context, id uuid.UUID) (*domain.Idea, error) {
		return target, nil
	}

	var gotReason *string
	var gotClosedAt *time.Time
	deps.ideas.SetStatusFunc = func(_ context.Context, _ uuid.UUID, to domain.IdeaStatus, closedReason *string, closedAt *time.Time) error {
		gotReason, gotClosedAt = closedReason, closedAt
		return nil
	}

	note := "duplicate submission"
	_, err := svc.TransitionIdea(ctx, target.ID, TransitionInput{ToStatus: domain.IdeaStatusClosed, Note: &note})
	require.NoError(t, err)
	require.NotNil(t, gotReason)
	assert.Equal(t, note, *gotReason)
	assert.NotNil(t, gotClosedAt)
}

func TestService_TransitionIdea_SameStatusRejected(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(defaultCfg())
	ctx, _ := actorCtx(domain.UserRoleModerator, nil)

	target := publicIdea(uuid.New())
	deps.ideas.GetForUpdateFunc = func(_ context.Context, _ uuid.UUID) (*domain.Idea, *uuid.UUID, error) {
		return target, nil, nil
	}

	_, err := svc.TransitionIdea(ctx, target.ID, TransitionInput{ToStatus: domain.IdeaStatusSubmitted})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_TransitionIdea_CreatorAllowed(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(defaultCfg())
	ctx, actor := actorCtx(domain.UserRoleEmployee, nil)

	target := publicIdea(actor.ID)
	deps.ideas.GetForUpdateFunc = func(_ context.Context, _ uuid.UUID) (*domain.Idea, *uuid.UUID, error) {
		return target, nil, nil
	}
	deps.ideas.GetByIDFunc = func(_ context.Context, id uuid.UUID) (*domain.Idea, error) {
		return target, nil
	}

	_, err := svc.TransitionIdea(ctx, target.ID, TransitionInput{ToStatus: domain.IdeaStatusClosed})
	require.NoError(t, err)
}

func TestService_TransitionIdea_NonCreatorEmployeeForbidden(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(defaultCfg())
	ctx, _ := actorCtx(domain.UserRoleEmployee, nil)

	target := publicIdea(uuid.New())
	deps.ideas.GetForUpdateFunc = func(_ context.Context, _ uuid.UUID) (*domain.Idea, *uuid.UUID, error) {
		return target, nil, nil
	}

	_, err := svc.TransitionIdea(ctx, target.ID, TransitionInput{ToStatus: domain.IdeaStatusUnderReview})
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestService_TransitionIdea_UnknownStatus(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(defaultCfg())
	ctx, _ := actorCtx(domain.UserRoleModerator, nil)

	_, err := svc.TransitionIdea(ctx, uuid.New(), TransitionInput{ToStatus: "launched"})
	require.ErrorIs(t, err, domain.ErrValidation)
}

// ===========================================================================
// 6. VoteIdea — toggle grid
// ===========================================================================

func voteFixture(t *testing.T, deps *testDeps) *domain.Idea {
	t.Helper()
	target := publicIdea(uuid.New())
	deps.ideas.GetForUpdateFunc = func(_ context.Context, _ uuid.UUID) (*domain.Idea, *uuid.UUID, error) {
		return target, nil, nil
	}
	deps.votes.SumByIdeaFunc = func(_ context.Context, _ uuid.UUID) (int, error) {
		return 1, nil
	}
	return target
}

func TestService_VoteIdea_FirstVote(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(defaultCfg())
	ctx, actor := actorCtx(domain.UserRoleEmployee, nil)
	target := voteFixture(t, deps)

	var created *domain.IdeaVote
	deps.votes.CreateFunc = func(_ context.Context, v *domain.IdeaVote) error {
		created = v
		return nil
	}
	var persisted int
	deps.ideas.SetVoteCountFunc = func(_ context.Context, _ uuid.UUID, count int) error {
		persisted = count
		return nil
	}

	res, err := svc.VoteIdea(ctx, target.ID, domain.VoteTypeUp)
	require.NoError(t, err)

	assert.Equal(t, domain.VoteOutcomeVoted, res.Outcome)
	require.NotNil(t, res.UserVote)
	assert.Equal(t, domain.VoteTypeUp, *res.UserVote)
	assert.Equal(t, 1, res.VoteCount)
	assert.Equal(t, 1, persisted, "vote_count must be refreshed from the full sum")

	require.NotNil(t, created)
	assert.Equal(t, actor.ID, created.UserID)

	require.Len(t, deps.audit.records, 1)
	assert.Equal(t, domain.AuditActionVoted, deps.audit.records[0].Action)
}

func TestService_VoteIdea_SameDirectionRemoves(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(defaultCfg())
	ctx, actor := actorCtx(domain.UserRoleEmployee, nil)
	target := voteFixture(t, deps)

	existing := &domain.IdeaVote{ID: uuid.New(), IdeaID: target.ID, UserID: actor.ID, VoteType: domain.VoteTypeUp}
	deps.votes.GetByIdeaAndUserFunc = func(_ context.Context, _, _ uuid.UUID) (*domain.IdeaVote, error) {
		return existing, nil
	}

	var deleted uuid.UUID
	deps.votes.DeleteFunc = func(_ context.Context, id uuid.UUID) error {
		deleted = id
		return nil
	}

	res, err := svc.VoteIdea(ctx, target.ID, domain.VoteTypeUp)
	require.NoError(t, err)

	assert.Equal(t, domain.VoteOutcomeRemoved, res.Outcome)
	assert.Nil(t, res.UserVote)
	assert.Equal(t, existing.ID, deleted)

	require.Len(t, deps.audit.records, 1)
	assert.Equal(t, domain.AuditActionRemovedVote, deps.audit.records[0].Action)
}

func TestService_VoteIdea_OppositeDirectionChanges(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(defaultCfg())
	ctx, actor := actorCtx(domain.UserRoleEmployee, nil)
	target := voteFixture(t, deps)

	existing := &domain.IdeaVote{ID: uuid.New(), IdeaID: target.ID, UserID: actor.ID, VoteType: domain.VoteTypeUp}
	deps.votes.GetByIdeaAndUserFunc = func(_ context.Context, _, _ uuid.UUID) (*domain.IdeaVote, error) {
		return existing, nil
	}

	var flipped domain.VoteType
	deps.votes.UpdateTypeFunc = func(_ context.Context, _ uuid.UUID, vt domain.VoteType) error {
		flipped = vt
		return nil
	}

	res, err := svc.VoteIdea(ctx, target.ID, domain.VoteTypeDown)
	require.NoError(t, err)

	assert.Equal(t, domain.VoteOutcomeChanged, res.Outcome)
	assert.Equal(t, domain.VoteTypeDown, flipped)
	require.NotNil(t, res.UserVote)
	assert.Equal(t, domain.VoteTypeDown, *res.UserVote)

	require.Len(t, deps.audit.records, 1)
	assert.Equal(t, domain.AuditActionChangedVote, deps.audit.records[0].Action)
}

func TestService_VoteIdea_SelfVoteRejected(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(defaultCfg())
	ctx, actor := actorCtx(domain.UserRoleEmployee, nil)

	own := publicIdea(actor.ID)
	deps.ideas.GetForUpdateFunc = func(_ context.Context, _ uuid.UUID) (*domain.Idea, *uuid.UUID, error) {
		return own, nil, nil
	}

	_, err := svc.VoteIdea(ctx, own.ID, domain.VoteTypeUp)
	require.ErrorIs(t, err, domain.ErrSelfVote)
	assert.Empty(t, deps.audit.records)
}

func TestService_VoteIdea_InvalidType(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(defaultCfg())
	ctx, _ := actorCtx(domain.UserRoleEmployee, nil)

	_, err := svc.VoteIdea(ctx, uuid.New(), domain.VoteType(0))
	require.ErrorIs(t, err, domain.ErrInvalidVoteType)

	_, err = svc.VoteIdea(ctx, uuid.New(), domain.VoteType(2))
	require.ErrorIs(t, err, domain.ErrInvalidVoteType)
}

func TestService_VoteIdea_HiddenIdeaAccessDenied(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(defaultCfg())
	ctx, _ := actorCtx(domain.UserRoleEmployee, nil)

	hidden := publicIdea(uuid.New())
	hidden.Visibility = domain.VisibilityPrivate
	deps.ideas.GetForUpdateFunc = func(_ context.Context, _ uuid.UUID) (*domain.Idea, *uuid.UUID, error) {
		return hidden, nil, nil
	}

	_, err := svc.VoteIdea(ctx, hidden.ID, domain.VoteTypeUp)
	require.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestService_VoteIdea_RaceRetried(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(defaultCfg())
	ctx, _ := actorCtx(domain.UserRoleEmployee, nil)
	target := voteFixture(t, deps)

	attempts := 0
	deps.votes.CreateFunc = func(_ context.Context, _ *domain.IdeaVote) error {
		attempts++
		if attempts == 1 {
			// Concurrent insert from the same user slipped past the lookup.
			return domain.ErrAlreadyExists
		}
		return nil
	}

	res, err := svc.VoteIdea(ctx, target.ID, domain.VoteTypeUp)
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, domain.VoteOutcomeVoted, res.Outcome)
}

func TestService_VoteIdea_RaceRetryExhausted(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService(defaultCfg())
	ctx, _ := actorCtx(domain.UserRoleEmployee, nil)
	target := voteFixture(t, deps)

	attempts := 0
	deps.votes.CreateFunc = func(_ context.Context, _ *domain.IdeaVote) error {
		attempts++
		return domain.ErrAlreadyExists
	}

	_, err := svc.VoteIdea(ctx, target.ID, domain.VoteTypeUp)
	require.ErrorIs(t, err, domain.ErrAlreadyExists)
	assert.Equal(t, 3, attempts)
}
