// Package visibility centralizes the role-based idea visibility rule in
// its query-predicate form. Every scoped read path (idea lists, dashboard
// aggregations) ANDs this predicate into its own query instead of
// restating the rule; the point-check form for single ideas is
// domain.CanViewIdea. The two must stay in lockstep.
package visibility

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/voe-labs/ideahub-backend/internal/domain"
)

// Predicate returns the visibility condition for the actor as a
// composable squirrel.Sqlizer. Queries using it must alias the ideas
// table as "i" and join the creator as
// "users creator ON creator.id = i.creator_id".
func Predicate(actor domain.Actor) sq.Sqlizer {
	if actor.Role.SeesAll() {
		return sq.Expr("TRUE")
	}

	cond := sq.Or{
		sq.Eq{"i.visibility": domain.VisibilityPublic},
		sq.Eq{"i.creator_id": actor.ID},
	}
	if actor.DepartmentID != nil {
		cond = append(cond, sq.And{
			sq.Eq{"i.visibility": domain.VisibilityDepartment},
			sq.Eq{"creator.department_id": *actor.DepartmentID},
		})
	}

	return cond
}
