package domain

// IdeaStatus represents the lifecycle state of an idea.
type IdeaStatus string

const (
	IdeaStatusSubmitted   IdeaStatus = "submitted"
	IdeaStatusUnderReview IdeaStatus = "under_review"
	IdeaStatusShortlisted IdeaStatus = "shortlisted"
	IdeaStatusInPilot     IdeaStatus = "in_pilot"
	IdeaStatusImplemented IdeaStatus = "implemented"
	IdeaStatusClosed      IdeaStatus = "closed"
)

func (s IdeaStatus) String() string { return string(s) }

func (s IdeaStatus) IsValid() bool {
	switch s {
	case IdeaStatusSubmitted, IdeaStatusUnderReview, IdeaStatusShortlisted,
		IdeaStatusInPilot, IdeaStatusImplemented, IdeaStatusClosed:
		return true
	}
	return false
}

// IsActionable reports whether the status counts as "moved to action"
// for idea-to-action reporting.
func (s IdeaStatus) IsActionable() bool {
	return s == IdeaStatusInPilot || s == IdeaStatusImplemented
}

// Visibility represents the access scope of an idea.
type Visibility string

const (
	VisibilityPublic     Visibility = "public"
	VisibilityDepartment Visibility = "department"
	VisibilityPrivate    Visibility = "private"
)

func (v Visibility) String() string { return string(v) }

func (v Visibility) IsValid() bool {
	switch v {
	case VisibilityPublic, VisibilityDepartment, VisibilityPrivate:
		return true
	}
	return false
}

// UserRole represents the authorization level of an actor.
type UserRole string

const (
	UserRoleEmployee  UserRole = "employee"
	UserRoleModerator UserRole = "moderator"
	UserRoleExecutive UserRole = "executive"
	UserRoleAdmin     UserRole = "admin"
)

func (r UserRole) String() string { return string(r) }

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleEmployee, UserRoleModerator, UserRoleExecutive, UserRoleAdmin:
		return true
	}
	return false
}

// CanModerate reports whether the role may edit or transition ideas it
// does not own.
func (r UserRole) CanModerate() bool {
	return r == UserRoleModerator || r == UserRoleAdmin
}

// SeesAll reports whether the role bypasses the visibility filter.
func (r UserRole) SeesAll() bool {
	return r == UserRoleModerator || r == UserRoleExecutive || r == UserRoleAdmin
}

// CanViewDepartmentStats reports whether the role may read per-department
// statistics.
func (r UserRole) CanViewDepartmentStats() bool {
	return r == UserRoleExecutive || r == UserRoleModerator || r == UserRoleAdmin
}

// VoteType is the signed weight of a vote: +1 upvote, -1 downvote.
type VoteType int

const (
	VoteTypeUp   VoteType = 1
	VoteTypeDown VoteType = -1
)

func (v VoteType) IsValid() bool {
	return v == VoteTypeUp || v == VoteTypeDown
}

// VoteOutcome describes the effect a vote call had on the ledger.
type VoteOutcome string

const (
	VoteOutcomeVoted   VoteOutcome = "voted"
	VoteOutcomeChanged VoteOutcome = "changed"
	VoteOutcomeRemoved VoteOutcome = "removed"
)

func (o VoteOutcome) String() string { return string(o) }

// StatsPeriod selects the reporting window for dashboard aggregations.
type StatsPeriod string

const (
	Period7d  StatsPeriod = "7d"
	Period30d StatsPeriod = "30d"
	Period90d StatsPeriod = "90d"
	Period1y  StatsPeriod = "1y"
	PeriodAll StatsPeriod = "all"
)

func (p StatsPeriod) String() string { return string(p) }

func (p StatsPeriod) IsValid() bool {
	switch p {
	case Period7d, Period30d, Period90d, Period1y, PeriodAll:
		return true
	}
	return false
}

// AuditAction labels a mutation recorded in the audit log. Vote actions
// carry the ledger outcome so the trail distinguishes toggles from changes.
type AuditAction string

const (
	AuditActionCreate       AuditAction = "create"
	AuditActionUpdate       AuditAction = "update"
	AuditActionStatusChange AuditAction = "status_change"
	AuditActionVoted        AuditAction = "voted"
	AuditActionChangedVote  AuditAction = "changed_vote"
	AuditActionRemovedVote  AuditAction = "removed_vote"
)

func (a AuditAction) String() string { return string(a) }

// AuditEntity identifies the kind of entity an audit record refers to.
type AuditEntity string

const (
	AuditEntityIdea     AuditEntity = "idea"
	AuditEntityIdeaVote AuditEntity = "idea_vote"
)

func (e AuditEntity) String() string { return string(e) }
