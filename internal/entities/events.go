// Package entities contains core business entities.
package entities

import "time"

// Event describes a successful status transition or assignee change.
// Emission is best-effort; failures never roll back the mutation.
type Event struct {
	SubmissionID string    `json:"submission_id"`
	FromStatus   Status    `json:"from_status"`
	ToStatus     Status    `json:"to_status"`
	AssigneeID   *string   `json:"assignee_id,omitempty"`
	At           time.Time `json:"at"`
}

// AssignmentChange captures an assignee replacement for history.
type AssignmentChange struct {
	OldAssigneeID *string   `json:"old_assignee_id,omitempty"`
	NewAssigneeID *string   `json:"new_assignee_id,omitempty"`
	ChangedAt     time.Time `json:"changed_at"`
}
