package usecase

import (
	"context"

	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/entities"
)

// UserUsecaseInterface abstracts user directory operations for delivery layer.
type UserUsecaseInterface interface {
	RegisterUser(ctx context.Context, user entities.User) (*entities.User, error)
	SetUserApproved(ctx context.Context, actor entities.Actor, userID string, approved bool) (*entities.User, int, error)
	ToggleAvailability(ctx context.Context, userID string) (*entities.User, error)
	GetQueue(ctx context.Context, userID string) ([]entities.Submission, error)
}

// SubmissionUsecaseInterface abstracts submission lifecycle operations.
type SubmissionUsecaseInterface interface {
	CreateSubmission(ctx context.Context, actor entities.Actor, sub entities.Submission) (*entities.Submission, error)
	GetSubmission(ctx context.Context, id string) (*entities.Submission, []entities.Feedback, error)
	DeleteSubmission(ctx context.Context, actor entities.Actor, id string) error
}

// TransitionUsecaseInterface abstracts role-gated workflow transitions.
// Every operation validates the actor against the transition tables and
// fails with no state change when the triple is not permitted.
type TransitionUsecaseInterface interface {
	SubmitReviewerFeedback(ctx context.Context, actor entities.Actor, id, feedback string, eligible bool) (*entities.Submission, error)
	Approve(ctx context.Context, actor entities.Actor, id, accountPostedIn string) (*entities.Submission, error)
	Reject(ctx context.Context, actor entities.Actor, id, reason string) (*entities.Submission, error)
	MarkSubmittedToPlatform(ctx context.Context, actor entities.Actor, id, submittedAccount, taskLink string) (*entities.Submission, error)
	MarkEligibleForManualReview(ctx context.Context, actor entities.Actor, id, taskLink string) (*entities.Submission, error)
	SendTesterFeedback(ctx context.Context, actor entities.Actor, id, feedback string) (*entities.Submission, error)
	Resubmit(ctx context.Context, actor entities.Actor, id, fileURL string) (*entities.Submission, error)
	RequestChanges(ctx context.Context, actor entities.Actor, id, feedback string) (*entities.Submission, error)
	MarkChangesDone(ctx context.Context, actor entities.Actor, id string) (*entities.Submission, error)
	AdvanceToFinalChecks(ctx context.Context, actor entities.Actor, id string) (*entities.Submission, error)
}

// MaintenanceUsecaseInterface abstracts the operator surface.
type MaintenanceUsecaseInterface interface {
	ReassignPending(ctx context.Context) (entities.ReassignReport, error)
	ListDeferred(ctx context.Context) ([]entities.Submission, error)
	WorkloadStats(ctx context.Context) ([]entities.WorkloadStat, error)
}
