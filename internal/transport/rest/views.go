package rest

import (
	"time"

	"github.com/google/uuid"

	"github.com/voe-labs/ideahub-backend/internal/domain"
)

// JSON projections of domain types. Kept separate from the domain so the
// wire format can evolve without touching service code.

type ideaJSON struct {
	ID                  uuid.UUID  `json:"id"`
	Code                string     `json:"code"`
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	CategoryID          uuid.UUID  `json:"category_id"`
	CreatorID           uuid.UUID  `json:"creator_id"`
	Status              string     `json:"status"`
	Visibility          string     `json:"visibility"`
	VoteCount           int        `json:"vote_count"`
	CommentCount        int        `json:"comment_count"`
	AttachmentCount     int        `json:"attachment_count"`
	ExpectedBenefit     *string    `json:"expected_benefit,omitempty"`
	ImplementationNotes *string    `json:"implementation_notes,omitempty"`
	ClosedReason        *string    `json:"closed_reason,omitempty"`
	ClosedAt            *time.Time `json:"closed_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

type userRefJSON struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	EmployeeNo     string     `json:"employee_no,omitempty"`
	DepartmentID   *uuid.UUID `json:"department_id,omitempty"`
	DepartmentName *string    `json:"department_name,omitempty"`
}

type categoryJSON struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color,omitempty"`
}

type summaryJSON struct {
	ideaJSON
	Creator   userRefJSON  `json:"creator"`
	Category  categoryJSON `json:"category"`
	UserVote  *int         `json:"user_vote"`
	Upvotes   int          `json:"upvotes"`
	Downvotes int          `json:"downvotes"`
	VoteScore int          `json:"vote_score"`
}

type voteJSON struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name"`
	VoteType  int       `json:"vote_type"`
	CreatedAt time.Time `json:"created_at"`
}

type historyJSON struct {
	ID            uuid.UUID `json:"id"`
	FromStatus    *string   `json:"from_status"`
	ToStatus      string    `json:"to_status"`
	ChangedBy     uuid.UUID `json:"changed_by"`
	ChangedByName string    `json:"changed_by_name"`
	Note          *string   `json:"note,omitempty"`
	ChangedAt     time.Time `json:"changed_at"`
}

type ownerJSON struct {
	UserID     uuid.UUID `json:"user_id"`
	UserName   string    `json:"user_name"`
	EmployeeNo string    `json:"employee_no,omitempty"`
	AssignedAt time.Time `json:"assigned_at"`
}

type detailJSON struct {
	summaryJSON
	Votes   []voteJSON    `json:"votes"`
	History []historyJSON `json:"history"`
	Owners  []ownerJSON   `json:"owners"`
}

func ideaToJSON(i *domain.Idea) ideaJSON {
	return ideaJSON{
		ID:                  i.ID,
		Code:                i.Code,
		Title:               i.Title,
		Description:         i.Description,
		CategoryID:          i.CategoryID,
		CreatorID:           i.CreatorID,
		Status:              i.Status.String(),
		Visibility:          i.Visibility.String(),
		VoteCount:           i.VoteCount,
		CommentCount:        i.CommentCount,
		AttachmentCount:     i.AttachmentCount,
		ExpectedBenefit:     i.ExpectedBenefit,
		ImplementationNotes: i.ImplementationNotes,
		ClosedReason:        i.ClosedReason,
		ClosedAt:            i.ClosedAt,
		CreatedAt:           i.CreatedAt,
		UpdatedAt:           i.UpdatedAt,
	}
}

func summaryToJSON(s *domain.IdeaSummary) summaryJSON {
	out := summaryJSON{
		ideaJSON: ideaToJSON(&s.Idea),
		Creator: userRefJSON{
			ID:             s.Creator.ID,
			Name:           s.Creator.Name,
			EmployeeNo:     s.Creator.EmployeeNo,
			DepartmentID:   s.Creator.DepartmentID,
			DepartmentName: s.Creator.DepartmentName,
		},
		Category: categoryJSON{
			ID:    s.Category.ID,
			Name:  s.Category.Name,
			Color: s.Category.Color,
		},
		Upvotes:   s.Upvotes,
		Downvotes: s.Downvotes,
		VoteScore: s.VoteScore(),
	}
	if s.UserVote != nil {
		v := int(*s.UserVote)
		out.UserVote = &v
	}
	return out
}

func voteToJSON(v *domain.IdeaVote) voteJSON {
	return voteJSON{
		ID:        v.ID,
		UserID:    v.UserID,
		UserName:  v.UserName,
		VoteType:  int(v.VoteType),
		CreatedAt: v.CreatedAt,
	}
}

func historyToJSON(h *domain.StatusHistoryRecord) historyJSON {
	out := historyJSON{
		ID:            h.ID,
		ToStatus:      h.ToStatus.String(),
		ChangedBy:     h.ChangedBy,
		ChangedByName: h.ChangedByName,
		Note:          h.Note,
		ChangedAt:     h.ChangedAt,
	}
	if h.FromStatus != nil {
		from := h.FromStatus.String()
		out.FromStatus = &from
	}
	return out
}

func detailToJSON(d *domain.IdeaDetail) detailJSON {
	out := detailJSON{
		summaryJSON: summaryToJSON(&d.IdeaSummary),
		Votes:       make([]voteJSON, 0, len(d.Votes)),
		History:     make([]historyJSON, 0, len(d.History)),
		Owners:      make([]ownerJSON, 0, len(d.Owners)),
	}
	for i := range d.Votes {
		out.Votes = append(out.Votes, voteToJSON(&d.Votes[i]))
	}
	for i := range d.History {
		out.History = append(out.History, historyToJSON(&d.History[i]))
	}
	for _, o := range d.Owners {
		out.Owners = append(out.Owners, ownerJSON{
			UserID:     o.UserID,
			UserName:   o.UserName,
			EmployeeNo: o.EmployeeNo,
			AssignedAt: o.AssignedAt,
		})
	}
	return out
}
