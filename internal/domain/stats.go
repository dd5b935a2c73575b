package domain

import (
	"time"

	"github.com/google/uuid"
)

// StatusCount is an idea count for one lifecycle status.
type StatusCount struct {
	Status IdeaStatus
	Count  int
}

// CategoryCount is an idea count for one category, annotated for display.
type CategoryCount struct {
	CategoryID uuid.UUID
	Name       string
	Color      string
	Count      int
}

// DepartmentStat summarizes one department's engagement in a window.
type DepartmentStat struct {
	DepartmentID uuid.UUID
	Name         string
	IdeaCount    int
	Contributors int
}

// TopIdea is the trimmed idea projection used in dashboard rankings.
type TopIdea struct {
	ID            uuid.UUID
	Code          string
	Title         string
	Status        IdeaStatus
	VoteCount     int
	CategoryName  string
	CategoryColor string
	CreatorName   string
}

// Overview is the windowed, role-scoped dashboard snapshot.
// AvgIdeaToActionDays is nil when no idea in the window reached an
// actionable status — undefined, not zero.
type Overview struct {
	Period              StatsPeriod
	TotalIdeas          int
	TotalVotes          int
	ActiveUsers         int
	AvgIdeaToActionDays *float64
	IdeasByStatus       []StatusCount
	IdeasByCategory     []CategoryCount
	TopVotedIdeas       []TopIdea
	RecentActivity      []HistoryActivity
}

// IdeaPatch carries partial-update fields for an idea. nil means leave
// unchanged. Status is deliberately absent: lifecycle changes go through
// the transition operation so they always land in the status history.
type IdeaPatch struct {
	Title               *string
	Description         *string
	ExpectedBenefit     *string
	ImplementationNotes *string
	CategoryID          *uuid.UUID
	Visibility          *Visibility
}

// IsEmpty reports whether the patch changes nothing.
func (p IdeaPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.ExpectedBenefit == nil &&
		p.ImplementationNotes == nil && p.CategoryID == nil && p.Visibility == nil
}

// PeriodStart resolves a stats period to its inclusive lower bound
// relative to now. Returns nil for PeriodAll.
func (p StatsPeriod) PeriodStart(now time.Time) *time.Time {
	var days int
	switch p {
	case Period7d:
		days = 7
	case Period30d:
		days = 30
	case Period90d:
		days = 90
	case Period1y:
		days = 365
	default:
		return nil
	}
	t := now.AddDate(0, 0, -days)
	return &t
}
