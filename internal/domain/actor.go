package domain

import "github.com/google/uuid"

// Actor is the authenticated caller context supplied by the auth
// collaborator on every request. It is never persisted by this core.
type Actor struct {
	ID           uuid.UUID
	Role         UserRole
	DepartmentID *uuid.UUID
}

// SameDepartment reports whether the actor belongs to the given department.
// False when either side has no department.
func (a Actor) SameDepartment(departmentID *uuid.UUID) bool {
	if a.DepartmentID == nil || departmentID == nil {
		return false
	}
	return *a.DepartmentID == *departmentID
}
