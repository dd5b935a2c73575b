package idea

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/voe-labs/ideahub-backend/internal/domain"
)

const (
	titleMinLen       = 5
	titleMaxLen       = 200
	descriptionMinLen = 20
	descriptionMaxLen = 5000
	benefitMaxLen     = 2000
	noteMaxLen        = 1000
)

// CreateIdeaInput carries the fields for submitting a new idea.
type CreateIdeaInput struct {
	Title           string
	Description     string
	CategoryID      uuid.UUID
	Visibility      *domain.Visibility
	ExpectedBenefit *string
}

// Validate checks the input and returns a ValidationError listing every
// failing field.
func (in *CreateIdeaInput) Validate() error {
	var errs []domain.FieldError

	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)

	if n := utf8.RuneCountInString(in.Title); n < titleMinLen || n > titleMaxLen {
		errs = append(errs, domain.FieldError{Field: "title", Message: "must be between 5 and 200 characters"})
	}
	if n := utf8.RuneCountInString(in.Description); n < descriptionMinLen || n > descriptionMaxLen {
		errs = append(errs, domain.FieldError{Field: "description", Message: "must be between 20 and 5000 characters"})
	}
	if in.CategoryID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "category_id", Message: "required"})
	}
	if in.Visibility != nil && !in.Visibility.IsValid() {
		errs = append(errs, domain.FieldError{Field: "visibility", Message: "must be public, department, or private"})
	}
	if in.ExpectedBenefit != nil && utf8.RuneCountInString(*in.ExpectedBenefit) > benefitMaxLen {
		errs = append(errs, domain.FieldError{Field: "expected_benefit", Message: "must be at most 2000 characters"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdateIdeaInput carries a partial patch. nil fields stay unchanged.
type UpdateIdeaInput struct {
	Title               *string
	Description         *string
	ExpectedBenefit     *string
	ImplementationNotes *string
	CategoryID          *uuid.UUID
	Visibility          *domain.Visibility
}

// Validate checks the provided fields only.
func (in *UpdateIdeaInput) Validate() error {
	var errs []domain.FieldError

	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		in.Title = &t
		if n := utf8.RuneCountInString(t); n < titleMinLen || n > titleMaxLen {
			errs = append(errs, domain.FieldError{Field: "title", Message: "must be between 5 and 200 characters"})
		}
	}
	if in.Description != nil {
		d := strings.TrimSpace(*in.Description)
		in.Description = &d
		if n := utf8.RuneCountInString(d); n < descriptionMinLen || n > descriptionMaxLen {
			errs = append(errs, domain.FieldError{Field: "description", Message: "must be between 20 and 5000 characters"})
		}
	}
	if in.ExpectedBenefit != nil && utf8.RuneCountInString(*in.ExpectedBenefit) > benefitMaxLen {
		errs = append(errs, domain.FieldError{Field: "expected_benefit", Message: "must be at most 2000 characters"})
	}
	if in.CategoryID != nil && *in.CategoryID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "category_id", Message: "must not be empty"})
	}
	if in.Visibility != nil && !in.Visibility.IsValid() {
		errs = append(errs, domain.FieldError{Field: "visibility", Message: "must be public, department, or private"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// IsEmpty reports whether the patch provides no fields at all.
func (in *UpdateIdeaInput) IsEmpty() bool {
	return in.Title == nil && in.Description == nil && in.ExpectedBenefit == nil &&
		in.ImplementationNotes == nil && in.CategoryID == nil && in.Visibility == nil
}

func (in *UpdateIdeaInput) patch() domain.IdeaPatch {
	return domain.IdeaPatch{
		Title:               in.Title,
		Description:         in.Description,
		ExpectedBenefit:     in.ExpectedBenefit,
		ImplementationNotes: in.ImplementationNotes,
		CategoryID:          in.CategoryID,
		Visibility:          in.Visibility,
	}
}

// TransitionInput carries an explicit lifecycle transition.
type TransitionInput struct {
	ToStatus domain.IdeaStatus
	Note     *string
}

// Validate checks the target status and optional note.
func (in *TransitionInput) Validate() error {
	var errs []domain.FieldError

	if !in.ToStatus.IsValid() {
		errs = append(errs, domain.FieldError{Field: "to_status", Message: "unknown status"})
	}
	if in.Note != nil && utf8.RuneCountInString(*in.Note) > noteMaxLen {
		errs = append(errs, domain.FieldError{Field: "note", Message: "must be at most 1000 characters"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// VoteResult reports the effect a vote call had on the ledger.
type VoteResult struct {
	Outcome   domain.VoteOutcome
	UserVote  *domain.VoteType
	VoteCount int
}
