// Package repository contains repository interfaces for persistence layers.
package repository

import (
	"context"

	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/entities"
)

// LifecycleInterface describes storage startup/shutdown hooks.
type LifecycleInterface interface {
	OnStart(_ context.Context) error
	OnStop(_ context.Context) error
}

// UserInterface exposes user directory operations.
type UserInterface interface {
	CreateUser(ctx context.Context, user entities.User) (*entities.User, error)
	GetUser(ctx context.Context, userID string) (*entities.User, error)
	SetGreenLight(ctx context.Context, userID string, on bool) (*entities.User, error)
	// SetUserApproved flips the approval flag. Revoking approval releases the
	// user's open assignments back to the deferred queue and returns how many
	// submissions were released.
	SetUserApproved(ctx context.Context, userID string, approved bool) (*entities.User, int, error)
	// ListCandidates returns an unordered snapshot of assignable users of the
	// given pool with their derived open-assignment counts.
	ListCandidates(ctx context.Context, pool entities.Role) ([]entities.Candidate, error)
}

// SubmissionInterface exposes the authoritative submission record.
// SetAssignee and ApplyTransition are compare-and-swap writes keyed on the
// submission version; a lost race yields entities.ErrConcurrentModification.
type SubmissionInterface interface {
	CreateSubmission(ctx context.Context, sub entities.Submission) (*entities.Submission, error)
	GetSubmission(ctx context.Context, id string) (*entities.Submission, error)
	DeleteSubmission(ctx context.Context, id string) error
	SetAssignee(ctx context.Context, id string, version int64, assigneeID *string) (*entities.Submission, error)
	ApplyTransition(ctx context.Context, id string, version int64, tr entities.TransitionWrite) (*entities.Submission, error)
	// ListDeferred returns non-terminal submissions with no assignee,
	// oldest first.
	ListDeferred(ctx context.Context) ([]entities.Submission, error)
	ListAssignedTo(ctx context.Context, userID string) ([]entities.Submission, error)
	ListFeedback(ctx context.Context, submissionID string) ([]entities.Feedback, error)
	ListAssignmentHistory(ctx context.Context, submissionID string) ([]entities.AssignmentChange, error)
}

// WorkloadInterface exposes derived workload aggregates. Counts are always
// computed from the submission store, never stored.
type WorkloadInterface interface {
	CountOpenAssignments(ctx context.Context, userID string) (int64, error)
	WorkloadStats(ctx context.Context) ([]entities.WorkloadStat, error)
}
