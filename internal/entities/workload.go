// Package entities contains core business entities.
package entities

// AssignmentResult reports the outcome of one assignment attempt.
// Deferral is a normal outcome, not an error.
type AssignmentResult struct {
	SubmissionID string  `json:"submission_id"`
	AssigneeID   *string `json:"assignee_id,omitempty"`
	Deferred     bool    `json:"deferred"`
}

// ReassignReport summarizes one bulk reconciliation pass.
type ReassignReport struct {
	AssignedCount int `json:"assigned_count"`
	DeferredCount int `json:"deferred_count"`
}

// WorkloadStat contains the derived open-assignment count for one user.
type WorkloadStat struct {
	UserID  string `json:"user_id"`
	Role    Role   `json:"role"`
	OpenCnt int64  `json:"open_cnt"`
}
