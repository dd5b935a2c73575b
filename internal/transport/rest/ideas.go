package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/voe-labs/ideahub-backend/internal/domain"
	"github.com/voe-labs/ideahub-backend/internal/service/idea"
)

// ideaService is the slice of the idea service this handler consumes.
type ideaService interface {
	CreateIdea(ctx context.Context, input idea.CreateIdeaInput) (*domain.Idea, error)
	GetIdea(ctx context.Context, ideaID uuid.UUID) (*domain.IdeaDetail, error)
	GetHistory(ctx context.Context, ideaID uuid.UUID) ([]domain.StatusHistoryRecord, error)
	ListIdeas(ctx context.Context, filter domain.IdeaFilter) (domain.Page[domain.IdeaSummary], error)
	UpdateIdea(ctx context.Context, ideaID uuid.UUID, input idea.UpdateIdeaInput) (*domain.Idea, error)
	TransitionIdea(ctx context.Context, ideaID uuid.UUID, input idea.TransitionInput) (*domain.Idea, error)
	VoteIdea(ctx context.Context, ideaID uuid.UUID, voteType domain.VoteType) (*idea.VoteResult, error)
}

// IdeaHandler serves the /api/ideas routes.
type IdeaHandler struct {
	log   *slog.Logger
	ideas ideaService
}

// NewIdeaHandler creates an IdeaHandler.
func NewIdeaHandler(logger *slog.Logger, ideas ideaService) *IdeaHandler {
	return &IdeaHandler{
		log:   logger.With("handler", "ideas"),
		ideas: ideas,
	}
}

// ---------------------------------------------------------------------------
// Request / response DTOs
// ---------------------------------------------------------------------------

type createIdeaRequest struct {
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	CategoryID      string  `json:"category_id"`
	Visibility      *string `json:"visibility,omitempty"`
	ExpectedBenefit *string `json:"expected_benefit,omitempty"`
}

type updateIdeaRequest struct {
	Title               *string `json:"title,omitempty"`
	Description         *string `json:"description,omitempty"`
	ExpectedBenefit     *string `json:"expected_benefit,omitempty"`
	ImplementationNotes *string `json:"implementation_notes,omitempty"`
	CategoryID          *string `json:"category_id,omitempty"`
	Visibility          *string `json:"visibility,omitempty"`
}

type transitionRequest struct {
	ToStatus string  `json:"to_status"`
	Note     *string `json:"note,omitempty"`
}

type voteRequest struct {
	VoteType int `json:"vote_type"`
}

type voteResponse struct {
	Outcome   string `json:"outcome"`
	UserVote  *int   `json:"user_vote"`
	VoteCount int    `json:"vote_count"`
}

type pageResponse[T any] struct {
	Items    []T `json:"items"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
	Pages    int `json:"pages"`
}

// ---------------------------------------------------------------------------
// Handlers
// ---------------------------------------------------------------------------

// Create handles POST /api/ideas.
func (h *IdeaHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createIdeaRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	input := idea.CreateIdeaInput{
		Title:           req.Title,
		Description:     req.Description,
		ExpectedBenefit: req.ExpectedBenefit,
	}
	if req.CategoryID != "" {
		id, err := uuid.Parse(req.CategoryID)
		if err != nil {
			handleError(w, r, h.log, domain.NewValidationError("category_id", "must be a valid UUID"))
			return
		}
		input.CategoryID = id
	}
	if req.Visibility != nil {
		vis := domain.Visibility(*req.Visibility)
		input.Visibility = &vis
	}

	created, err := h.ideas.CreateIdea(r.Context(), input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, ideaToJSON(created))
}

// List handles GET /api/ideas.
func (h *IdeaHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	page, err := h.ideas.ListIdeas(r.Context(), filter)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	items := make([]summaryJSON, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, summaryToJSON(&page.Items[i]))
	}
	writeJSON(w, http.StatusOK, pageResponse[summaryJSON]{
		Items:    items,
		Page:     page.Page,
		PageSize: page.PageSize,
		Total:    page.Total,
		Pages:    page.Pages(),
	})
}

// Get handles GET /api/ideas/{id}.
func (h *IdeaHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := ideaIDParam(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	detail, err := h.ideas.GetIdea(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, detailToJSON(detail))
}

// Update handles PATCH /api/ideas/{id}.
func (h *IdeaHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := ideaIDParam(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	var req updateIdeaRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	input := idea.UpdateIdeaInput{
		Title:               req.Title,
		Description:         req.Description,
		ExpectedBenefit:     req.ExpectedBenefit,
		ImplementationNotes: req.ImplementationNotes,
	}
	if req.CategoryID != nil {
		catID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			handleError(w, r, h.log, domain.NewValidationError("category_id", "must be a valid UUID"))
			return
		}
		input.CategoryID = &catID
	}
	if req.Visibility != nil {
		vis := domain.Visibility(*req.Visibility)
		input.Visibility = &vis
	}

	updated, err := h.ideas.UpdateIdea(r.Context(), id, input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, ideaToJSON(updated))
}

// Transition handles POST /api/ideas/{id}/transition.
func (h *IdeaHandler) Transition(w http.ResponseWriter, r *http.Request) {
	id, err := ideaIDParam(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	var req transitionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	updated, err := h.ideas.TransitionIdea(r.Context(), id, idea.TransitionInput{
		ToStatus: domain.IdeaStatus(req.ToStatus),
		Note:     req.Note,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, ideaToJSON(updated))
}

// Vote handles POST /api/ideas/{id}/vote.
func (h *IdeaHandler) Vote(w http.ResponseWriter, r *http.Request) {
	id, err := ideaIDParam(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	var req voteRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	result, err := h.ideas.VoteIdea(r.Context(), id, domain.VoteType(req.VoteType))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	resp := voteResponse{
		Outcome:   result.Outcome.String(),
		VoteCount: result.VoteCount,
	}
	if result.UserVote != nil {
		v := int(*result.UserVote)
		resp.UserVote = &v
	}
	writeJSON(w, http.StatusOK, resp)
}

// History handles GET /api/ideas/{id}/history.
func (h *IdeaHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := ideaIDParam(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	records, err := h.ideas.GetHistory(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	items := make([]historyJSON, 0, len(records))
	for i := range records {
		items = append(items, historyToJSON(&records[i]))
	}
	writeJSON(w, http.StatusOK, map[string][]historyJSON{"items": items})
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func ideaIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, domain.NewValidationError("id", "must be a valid UUID")
	}
	return id, nil
}

func filterFromQuery(r *http.Request) (domain.IdeaFilter, error) {
	q := r.URL.Query()
	var filter domain.IdeaFilter

	if v := q.Get("status"); v != "" {
		status := domain.IdeaStatus(v)
		if !status.IsValid() {
			return filter, domain.NewValidationError("status", "unknown status")
		}
		filter.Status = &status
	}
	if v := q.Get("category_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, domain.NewValidationError("category_id", "must be a valid UUID")
		}
		filter.CategoryID = &id
	}
	if v := q.Get("department_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, domain.NewValidationError("department_id", "must be a valid UUID")
		}
		filter.DepartmentID = &id
	}
	if v := q.Get("q"); v != "" {
		filter.Search = &v
	}
	if v := q.Get("my_ideas"); v != "" {
		filter.CreatorOnly = v == "true" || v == "1"
	}

	filter.SortBy = q.Get("sort")
	filter.SortOrder = q.Get("order")
	filter.Page = intQuery(q.Get("page"))
	filter.PageSize = intQuery(q.Get("page_size"))

	return filter, nil
}

func intQuery(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
