package domain

import (
	"time"

	"github.com/google/uuid"
)

// Idea is a submitted improvement proposal with a lifecycle status.
// vote_count, comment_count, and attachment_count are denormalized
// summaries; vote_count always equals the signed sum of the idea's vote
// rows and is recomputed inside every vote transaction.
type Idea struct {
	ID                  uuid.UUID
	Code                string
	Title               string
	Description         string
	CategoryID          uuid.UUID
	CreatorID           uuid.UUID
	Status              IdeaStatus
	Visibility          Visibility
	VoteCount           int
	CommentCount        int
	AttachmentCount     int
	ExpectedBenefit     *string
	ImplementationNotes *string
	ClosedReason        *string
	ClosedAt            *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsClosed reports whether the idea has reached its terminal status.
func (i *Idea) IsClosed() bool { return i.Status == IdeaStatusClosed }

// UserRef is the display summary of a user attached to ideas, votes,
// and history records. Users are owned by the auth collaborator; this
// core only reads them for joins.
type UserRef struct {
	ID             uuid.UUID
	Name           string
	EmployeeNo     string
	DepartmentID   *uuid.UUID
	DepartmentName *string
}

// Category is a read-only lookup from the category directory.
type Category struct {
	ID          uuid.UUID
	Name        string
	Color       string
	Icon        *string
	Description *string
	IsActive    bool
}

// Department is a read-only lookup from the department directory.
type Department struct {
	ID       uuid.UUID
	Name     string
	IsActive bool
}

// IdeaSummary is an idea row enriched for list views: creator and
// category display data plus the caller's own vote and the up/down split.
type IdeaSummary struct {
	Idea
	Creator   UserRef
	Category  Category
	UserVote  *VoteType
	Upvotes   int
	Downvotes int
}

// VoteScore is the signed sum of the summary's vote split.
func (s *IdeaSummary) VoteScore() int { return s.Upvotes - s.Downvotes }

// IdeaDetail is the full single-idea view: summary plus votes, ordered
// status history, and active owners.
type IdeaDetail struct {
	IdeaSummary
	Votes   []IdeaVote
	History []StatusHistoryRecord
	Owners  []IdeaOwner
}

// IdeaVote is one row of the vote ledger. At most one row exists per
// (idea, user) pair; that uniqueness is the ledger's core contract.
type IdeaVote struct {
	ID        uuid.UUID
	IdeaID    uuid.UUID
	UserID    uuid.UUID
	UserName  string
	VoteType  VoteType
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StatusHistoryRecord is one immutable entry of an idea's status trail.
// FromStatus is nil only on the creation record.
type StatusHistoryRecord struct {
	ID            uuid.UUID
	IdeaID        uuid.UUID
	FromStatus    *IdeaStatus
	ToStatus      IdeaStatus
	ChangedBy     uuid.UUID
	ChangedByName string
	Note          *string
	ChangedAt     time.Time
}

// HistoryActivity is a history record annotated with its idea's title and
// code for activity feeds.
type HistoryActivity struct {
	StatusHistoryRecord
	IdeaTitle string
	IdeaCode  string
}

// IdeaOwner marks a user responsible for driving an idea forward.
type IdeaOwner struct {
	IdeaID     uuid.UUID
	UserID     uuid.UUID
	UserName   string
	EmployeeNo string
	IsActive   bool
	AssignedAt time.Time
}

// AuditRecord is the fire-and-forget trail entry written after every
// successful mutation.
type AuditRecord struct {
	ID        uuid.UUID
	ActorID   uuid.UUID
	Action    AuditAction
	Entity    AuditEntity
	EntityID  uuid.UUID
	Detail    map[string]any
	IPAddress *string
	UserAgent *string
	CreatedAt time.Time
}

// Page wraps a result slice with pagination metadata.
type Page[T any] struct {
	Items    []T
	Page     int
	PageSize int
	Total    int
}

// Pages returns the total number of pages.
func (p Page[T]) Pages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}
