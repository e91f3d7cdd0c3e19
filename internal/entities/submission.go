// Package entities contains core business entities.
package entities

import "time"

// SubmissionKind selects which workflow variant governs a submission.
type SubmissionKind string

const (
	// KindSimple is the 4-state review pipeline.
	KindSimple SubmissionKind = "SIMPLE"
	// KindExtended is the multi-role testing + review pipeline.
	KindExtended SubmissionKind = "EXTENDED"
)

// Status enumerates submission lifecycle states across both kinds.
type Status string

const (
	// StatusPending is the initial SIMPLE state, before assignment.
	StatusPending Status = "PENDING"
	// StatusClaimed marks a SIMPLE submission picked up by a reviewer.
	StatusClaimed Status = "CLAIMED"
	// StatusEligible marks a SIMPLE submission cleared for admin approval.
	StatusEligible Status = "ELIGIBLE"

	// StatusTaskSubmitted is the initial EXTENDED state, before assignment.
	StatusTaskSubmitted Status = "TASK_SUBMITTED"
	// StatusInTesting marks an EXTENDED submission picked up by a tester.
	StatusInTesting Status = "IN_TESTING"
	// StatusSubmittedToPlatform marks the task as posted on the target platform.
	StatusSubmittedToPlatform Status = "TASK_SUBMITTED_TO_PLATFORM"
	// StatusRework means the tester sent the submission back to its contributor.
	StatusRework Status = "REWORK"
	// StatusReworkDone means the contributor resubmitted after rework.
	StatusReworkDone Status = "REWORK_DONE"
	// StatusEligibleForManualReview means testing finished, awaiting a reviewer.
	StatusEligibleForManualReview Status = "ELIGIBLE_FOR_MANUAL_REVIEW"
	// StatusPendingReview marks an EXTENDED submission picked up by a reviewer.
	StatusPendingReview Status = "PENDING_REVIEW"
	// StatusChangesRequested means a reviewer sent the submission back.
	StatusChangesRequested Status = "CHANGES_REQUESTED"
	// StatusChangesDone means the contributor addressed requested changes.
	StatusChangesDone Status = "CHANGES_DONE"
	// StatusFinalChecks marks the last review stage before approval.
	StatusFinalChecks Status = "FINAL_CHECKS"

	// StatusApproved is terminal.
	StatusApproved Status = "APPROVED"
	// StatusRejected is terminal.
	StatusRejected Status = "REJECTED"
)

// IsTerminal reports whether no further transitions are permitted.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// InitialStatus returns the creation-time status for a kind.
func (k SubmissionKind) InitialStatus() Status {
	if k == KindExtended {
		return StatusTaskSubmitted
	}
	return StatusPending
}

// Submission is one unit of reviewable work.
type Submission struct {
	ID            string
	ContributorID string
	Kind          SubmissionKind
	Status        Status
	AssigneeID    *string
	Category      string
	Language      string
	Difficulty    string

	// Extended-pipeline attachments, recorded by tester/reviewer actions.
	SubmittedAccount string
	TaskLink         string
	AccountPostedIn  string
	FileURL          string

	// Version is the optimistic-lock counter; every mutation bumps it.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Assigned reports whether the submission currently has an assignee.
func (s Submission) Assigned() bool {
	return s.AssigneeID != nil && *s.AssigneeID != ""
}

// TransitionWrite is the persisted effect of one validated transition.
// Empty attachment fields leave stored values unchanged.
type TransitionWrite struct {
	To               Status
	ClearAssignee    bool
	Feedback         *Feedback
	SubmittedAccount string
	TaskLink         string
	AccountPostedIn  string
	FileURL          string
}

// FeedbackKind classifies an appended feedback record.
type FeedbackKind string

const (
	// FeedbackTester is feedback authored during the testing phase.
	FeedbackTester FeedbackKind = "TESTER_FEEDBACK"
	// FeedbackReviewer is feedback authored during review.
	FeedbackReviewer FeedbackKind = "REVIEWER_FEEDBACK"
	// FeedbackRejection is the reason recorded on rejection.
	FeedbackRejection FeedbackKind = "REJECTION_REASON"
)

// Feedback is an append-only, role-attributed feedback record.
type Feedback struct {
	ID           int64
	SubmissionID string
	AuthorID     string
	AuthorRole   Role
	Kind         FeedbackKind
	Body         string
	CreatedAt    time.Time
}
