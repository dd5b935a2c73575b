package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/voe-labs/ideahub-backend/internal/domain"
)

// errorBody is the stable error envelope: a machine-readable kind, a
// human message, and field-level details for validation failures.
type errorBody struct {
	Kind    string       `json:"kind"`
	Message string       `json:"message"`
	Fields  []fieldError `json:"fields,omitempty"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeError(w http.ResponseWriter, status int, kind, message string, fields []fieldError) {
	writeJSON(w, status, errorResponse{Error: errorBody{
		Kind:    kind,
		Message: message,
		Fields:  fields,
	}})
}

// handleError maps domain errors to HTTP responses. Anything unmapped is
// a 500 with a generic body; the cause is logged, never leaked.
func handleError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var vErr *domain.ValidationError

	switch {
	case errors.As(err, &vErr):
		fields := make([]fieldError, 0, len(vErr.Errors))
		for _, fe := range vErr.Errors {
			fields = append(fields, fieldError{Field: fe.Field, Message: fe.Message})
		}
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid input", fields)

	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error(), nil)

	case errors.Is(err, domain.ErrInvalidVoteType):
		writeError(w, http.StatusBadRequest, "invalid_vote_type", "vote type must be 1 or -1", nil)

	case errors.Is(err, domain.ErrInvalidCategory):
		writeError(w, http.StatusBadRequest, "invalid_category", "category does not exist or is inactive", nil)

	case errors.Is(err, domain.ErrSelfVote):
		writeError(w, http.StatusUnprocessableEntity, "self_vote_rejected", "you cannot vote on your own idea", nil)

	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required", nil)

	case errors.Is(err, domain.ErrAccessDenied):
		writeError(w, http.StatusForbidden, "access_denied", "you do not have access to this idea", nil)

	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "permission_denied", "your role does not allow this operation", nil)

	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "resource not found", nil)

	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "conflict", "resource already exists", nil)

	default:
		log.ErrorContext(r.Context(), "unhandled error",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "internal", "internal server error", nil)
	}
}

// decodeJSON reads a request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed json body", domain.ErrValidation)
	}
	return nil
}
