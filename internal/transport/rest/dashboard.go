package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/voe-labs/ideahub-backend/internal/domain"
)

type dashboardService interface {
	Overview(ctx context.Context, period domain.StatsPeriod) (*domain.Overview, error)
	DepartmentStats(ctx context.Context, period domain.StatsPeriod) ([]domain.DepartmentStat, error)
}

// DashboardHandler serves the /api/dashboard routes.
type DashboardHandler struct {
	log       *slog.Logger
	dashboard dashboardService
}

// NewDashboardHandler creates a DashboardHandler.
func NewDashboardHandler(logger *slog.Logger, dashboard dashboardService) *DashboardHandler {
	return &DashboardHandler{
		log:       logger.With("handler", "dashboard"),
		dashboard: dashboard,
	}
}

type statusCountJSON struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type categoryCountJSON struct {
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
	Color      string    `json:"color,omitempty"`
	Count      int       `json:"count"`
}

type topIdeaJSON struct {
	ID            uuid.UUID `json:"id"`
	Code          string    `json:"code"`
	Title         string    `json:"title"`
	Status        string    `json:"status"`
	VoteCount     int       `json:"vote_count"`
	CategoryName  string    `json:"category_name"`
	CategoryColor string    `json:"category_color,omitempty"`
	CreatorName   string    `json:"creator_name"`
}

type activityJSON struct {
	historyJSON
	IdeaID    uuid.UUID `json:"idea_id"`
	IdeaTitle string    `json:"idea_title"`
	IdeaCode  string    `json:"idea_code"`
}

type overviewJSON struct {
	Period              string              `json:"period"`
	TotalIdeas          int                 `json:"total_ideas"`
	TotalVotes          int                 `json:"total_votes"`
	ActiveUsers         int                 `json:"active_users"`
	AvgIdeaToActionDays *float64            `json:"avg_idea_to_action_days"`
	IdeasByStatus       []statusCountJSON   `json:"ideas_by_status"`
	IdeasByCategory     []categoryCountJSON `json:"ideas_by_category"`
	TopVotedIdeas       []topIdeaJSON       `json:"top_voted_ideas"`
	RecentActivity      []activityJSON      `json:"recent_activity"`
}

type departmentStatJSON struct {
	DepartmentID uuid.UUID `json:"department_id"`
	Name         string    `json:"name"`
	IdeaCount    int       `json:"idea_count"`
	Contributors int       `json:"contributors"`
}

// Overview handles GET /api/dashboard/overview.
func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	period := domain.StatsPeriod(r.URL.Query().Get("period"))

	overview, err := h.dashboard.Overview(r.Context(), period)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	resp := overviewJSON{
		Period:              overview.Period.String(),
		TotalIdeas:          overview.TotalIdeas,
		TotalVotes:          overview.TotalVotes,
		ActiveUsers:         overview.ActiveUsers,
		AvgIdeaToActionDays: overview.AvgIdeaToActionDays,
		IdeasByStatus:       make([]statusCountJSON, 0, len(overview.IdeasByStatus)),
		IdeasByCategory:     make([]categoryCountJSON, 0, len(overview.IdeasByCategory)),
		TopVotedIdeas:       make([]topIdeaJSON, 0, len(overview.TopVotedIdeas)),
		RecentActivity:      make([]activityJSON, 0, len(overview.RecentActivity)),
	}
	for _, sc := range overview.IdeasByStatus {
		resp.IdeasByStatus = append(resp.IdeasByStatus, statusCountJSON{
			Status: sc.Status.String(),
			Count:  sc.Count,
		})
	}
	for _, cc := range overview.IdeasByCategory {
		resp.IdeasByCategory = append(resp.IdeasByCategory, categoryCountJSON{
			CategoryID: cc.CategoryID,
			Name:       cc.Name,
			Color:      cc.Color,
			Count:      cc.Count,
		})
	}
	for _, ti := range overview.TopVotedIdeas {
		resp.TopVotedIdeas = append(resp.TopVotedIdeas, topIdeaJSON{
			ID:            ti.ID,
			Code:          ti.Code,
			Title:         ti.Title,
			Status:        ti.Status.String(),
			VoteCount:     ti.VoteCount,
			CategoryName:  ti.CategoryName,
			CategoryColor: ti.CategoryColor,
			CreatorName:   ti.CreatorName,
		})
	}
	for i := range overview.RecentActivity {
		act := &overview.RecentActivity[i]
		resp.RecentActivity = append(resp.RecentActivity, activityJSON{
			historyJSON: historyToJSON(&act.StatusHistoryRecord),
			IdeaID:      act.IdeaID,
			IdeaTitle:   act.IdeaTitle,
			IdeaCode:    act.IdeaCode,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// Departments handles GET /api/dashboard/departments.
func (h *DashboardHandler) Departments(w http.ResponseWriter, r *http.Request) {
	period := domain.StatsPeriod(r.URL.Query().Get("period"))

	stats, err := h.dashboard.DepartmentStats(r.Context(), period)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	items := make([]departmentStatJSON, 0, len(stats))
	for _, ds := range stats {
		items = append(items, departmentStatJSON{
			DepartmentID: ds.DepartmentID,
			Name:         ds.Name,
			IdeaCount:    ds.IdeaCount,
			Contributors: ds.Contributors,
		})
	}
	writeJSON(w, http.StatusOK, map[string][]departmentStatJSON{"items": items})
}
