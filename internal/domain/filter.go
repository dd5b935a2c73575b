package domain

import "github.com/google/uuid"

// IdeaFilter contains filtering, sorting, and pagination parameters for
// idea list queries. The visibility predicate is always ANDed on top of
// these — explicit filters can only narrow what the actor may see.
type IdeaFilter struct {
	// Status filters by lifecycle status. nil means all statuses.
	Status *IdeaStatus

	// CategoryID filters by category. nil means all categories.
	CategoryID *uuid.UUID

	// DepartmentID filters by the creator's department.
	DepartmentID *uuid.UUID

	// Search performs a case-insensitive substring match on title or
	// description.
	Search *string

	// CreatorOnly restricts results to ideas created by the actor.
	CreatorOnly bool

	// SortBy determines the sort column: "created_at", "vote_count",
	// "title", "updated_at". Default: "created_at".
	SortBy string

	// SortOrder: "ASC" or "DESC". Default: "DESC".
	SortOrder string

	// Page is 1-based. Default: 1.
	Page int

	// PageSize is the number of rows per page. Default: 10, max: 100.
	PageSize int
}

const (
	defaultPageSize = 10
	maxPageSize     = 100

	sortByCreatedAt = "created_at"
	sortByUpdatedAt = "updated_at"
	sortByVoteCount = "vote_count"
	sortByTitle     = "title"

	sortOrderASC  = "ASC"
	sortOrderDESC = "DESC"
)

// Normalize applies defaults and clamps values.
func (f *IdeaFilter) Normalize() {
	switch f.SortBy {
	case sortByCreatedAt, sortByUpdatedAt, sortByVoteCount, sortByTitle:
		// valid
	default:
		f.SortBy = sortByCreatedAt
	}

	switch f.SortOrder {
	case sortOrderASC, sortOrderDESC:
		// valid
	default:
		f.SortOrder = sortOrderDESC
	}

	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = defaultPageSize
	}
	if f.PageSize > maxPageSize {
		f.PageSize = maxPageSize
	}
}

// Offset returns the row offset implied by Page and PageSize.
func (f *IdeaFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}
