package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/voe-labs/ideahub-backend/internal/domain"
)

type directoryService interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListDepartments(ctx context.Context) ([]domain.Department, error)
}

// DirectoryHandler serves the lookup lists behind submission forms and
// list filters.
type DirectoryHandler struct {
	log       *slog.Logger
	directory directoryService
}

// NewDirectoryHandler creates a DirectoryHandler.
func NewDirectoryHandler(logger *slog.Logger, directory directoryService) *DirectoryHandler {
	return &DirectoryHandler{
		log:       logger.With("handler", "directory"),
		directory: directory,
	}
}

type categoryEntryJSON struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Color       string    `json:"color,omitempty"`
	Icon        *string   `json:"icon,omitempty"`
	Description *string   `json:"description,omitempty"`
}

type departmentEntryJSON struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Categories handles GET /api/categories.
func (h *DirectoryHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.directory.ListCategories(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	items := make([]categoryEntryJSON, 0, len(categories))
	for _, c := range categories {
		items = append(items, categoryEntryJSON{
			ID:          c.ID,
			Name:        c.Name,
			Color:       c.Color,
			Icon:        c.Icon,
			Description: c.Description,
		})
	}
	writeJSON(w, http.StatusOK, map[string][]categoryEntryJSON{"items": items})
}

// Departments handles GET /api/departments.
func (h *DirectoryHandler) Departments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.directory.ListDepartments(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	items := make([]departmentEntryJSON, 0, len(departments))
	for _, d := range departments {
		items = append(items, departmentEntryJSON{ID: d.ID, Name: d.Name})
	}
	writeJSON(w, http.StatusOK, map[string][]departmentEntryJSON{"items": items})
}
