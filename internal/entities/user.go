// Package entities contains core business entities.
package entities

import "time"

// Role identifies an independent assignment pool or authority level.
type Role string

const (
	// RoleContributor owns submissions; never an assignment target.
	RoleContributor Role = "CONTRIBUTOR"
	// RoleTester handles the EXTENDED testing phase.
	RoleTester Role = "TESTER"
	// RoleReviewer handles review phases of both kinds.
	RoleReviewer Role = "REVIEWER"
	// RoleAdmin is the override authority; bypasses assignee checks.
	RoleAdmin Role = "ADMIN"
	// RoleSystem is the internal actor applying auto-claim transitions.
	RoleSystem Role = "SYSTEM"
)

// AssignmentPool reports whether the role is a valid assignment target pool.
func (r Role) AssignmentPool() bool {
	return r == RoleTester || r == RoleReviewer
}

// User is a domain representation of an assignment target.
type User struct {
	ID           string
	Username     string
	Role         Role
	IsApproved   bool
	IsGreenLight bool
	CreatedAt    time.Time
}

// Assignable reports whether the user may receive new automatic assignments.
func (u User) Assignable() bool {
	return u.Role.AssignmentPool() && u.IsApproved && u.IsGreenLight
}

// Actor is the authenticated identity behind an action. The identity
// boundary is trusted; this core only enforces role/assignee guards.
type Actor struct {
	ID   string
	Role Role
}

// Candidate is a momentary snapshot of an assignable user with its
// derived open-assignment count.
type Candidate struct {
	UserID    string
	Workload  int
	CreatedAt time.Time
}
