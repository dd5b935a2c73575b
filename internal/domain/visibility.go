package domain

import "github.com/google/uuid"

// CanViewIdea is the point-check form of the visibility rule: moderators,
// executives, and admins see everything; employees see public ideas, their
// own ideas, and department-scoped ideas from their own department.
//
// The query-predicate form of the same rule lives in
// adapter/postgres/visibility; the two must stay in lockstep. Every read
// path goes through one of them — the rule is never restated inline.
func CanViewIdea(actor Actor, idea *Idea, creatorDepartmentID *uuid.UUID) bool {
	if actor.Role.SeesAll() {
		return true
	}
	if idea.Visibility == VisibilityPublic {
		return true
	}
	if idea.CreatorID == actor.ID {
		return true
	}
	return idea.Visibility == VisibilityDepartment && actor.SameDepartment(creatorDepartmentID)
}
