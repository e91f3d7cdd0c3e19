// Package api defines transport DTOs for the HTTP layer.
package api

import "time"

// ErrorCode enumerates machine-readable error identifiers.
type ErrorCode string

const (
	// NOTFOUND signals a missing resource.
	NOTFOUND ErrorCode = "NOT_FOUND"
	// INVALIDARGUMENT signals failed input validation.
	INVALIDARGUMENT ErrorCode = "INVALID_ARGUMENT"
	// INVALIDTRANSITION signals an action not permitted from current status.
	INVALIDTRANSITION ErrorCode = "INVALID_TRANSITION"
	// UNAUTHORIZED signals a failed role or assignee guard.
	UNAUTHORIZED ErrorCode = "UNAUTHORIZED"
	// VALIDATIONFAILED signals a missing required transition field.
	VALIDATIONFAILED ErrorCode = "VALIDATION_FAILED"
	// CONCURRENTMODIFICATION signals a lost race; the client should retry.
	CONCURRENTMODIFICATION ErrorCode = "CONCURRENT_MODIFICATION"
	// DELETEFORBIDDEN signals a delete attempt outside permitted statuses.
	DELETEFORBIDDEN ErrorCode = "DELETE_FORBIDDEN"
	// USEREXISTS signals a duplicate user id.
	USEREXISTS ErrorCode = "USER_EXISTS"
	// TERMINAL signals a mutation attempt on a finished submission.
	TERMINAL ErrorCode = "TERMINAL_STATUS"
)

// ErrorBody carries one error code with its message.
type ErrorBody struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// User is the transport projection of a directory user.
type User struct {
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	Role         string    `json:"role"`
	IsApproved   bool      `json:"is_approved"`
	IsGreenLight bool      `json:"is_green_light"`
	CreatedAt    time.Time `json:"created_at"`
}

// Submission is the transport projection of a submission.
type Submission struct {
	SubmissionID     string    `json:"submission_id"`
	ContributorID    string    `json:"contributor_id"`
	Kind             string    `json:"kind"`
	Status           string    `json:"status"`
	AssigneeID       *string   `json:"assignee_id,omitempty"`
	Category         string    `json:"category,omitempty"`
	Language         string    `json:"language,omitempty"`
	Difficulty       string    `json:"difficulty,omitempty"`
	SubmittedAccount string    `json:"submitted_account,omitempty"`
	TaskLink         string    `json:"task_link,omitempty"`
	AccountPostedIn  string    `json:"account_posted_in,omitempty"`
	FileURL          string    `json:"file_url,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// FeedbackRecord is one role-attributed feedback entry.
type FeedbackRecord struct {
	AuthorID   string    `json:"author_id"`
	AuthorRole string    `json:"author_role"`
	Kind       string    `json:"kind"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// WorkloadStat is one user's derived open-assignment count.
type WorkloadStat struct {
	UserID  string `json:"user_id"`
	Role    string `json:"role"`
	OpenCnt int64  `json:"open_cnt"`
}

// ReassignReport summarizes one bulk reassignment pass.
type ReassignReport struct {
	AssignedCount int `json:"assigned_count"`
	DeferredCount int `json:"deferred_count"`
}

// RegisterUserRequest registers a directory user.
type RegisterUserRequest struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// SetApprovalRequest flips a user's approval flag.
type SetApprovalRequest struct {
	UserID     string `json:"user_id"`
	IsApproved bool   `json:"is_approved"`
}

// ToggleGreenLightRequest toggles a user's availability.
type ToggleGreenLightRequest struct {
	UserID string `json:"user_id"`
}

// CreateSubmissionRequest creates a submission.
type CreateSubmissionRequest struct {
	Kind       string `json:"kind"`
	Category   string `json:"category"`
	Language   string `json:"language"`
	Difficulty string `json:"difficulty"`
	FileURL    string `json:"file_url"`
}

// ReviewerFeedbackRequest records SIMPLE reviewer feedback.
type ReviewerFeedbackRequest struct {
	Feedback string `json:"feedback"`
	Eligible bool   `json:"eligible"`
}

// ApproveRequest approves a submission.
type ApproveRequest struct {
	AccountPostedIn string `json:"account_posted_in"`
}

// RejectRequest rejects a submission with a reason.
type RejectRequest struct {
	Reason string `json:"reason"`
}

// SubmitToPlatformRequest marks the task as posted on the platform.
type SubmitToPlatformRequest struct {
	SubmittedAccount string `json:"submitted_account"`
	TaskLink         string `json:"task_link"`
}

// EligibleForReviewRequest ends the testing phase.
type EligibleForReviewRequest struct {
	TaskLink string `json:"task_link"`
}

// TesterFeedbackRequest sends the submission back for rework.
type TesterFeedbackRequest struct {
	Feedback string `json:"feedback"`
}

// ResubmitRequest carries updated files from the contributor.
type ResubmitRequest struct {
	FileURL string `json:"file_url"`
}

// RequestChangesRequest sends the submission back during review.
type RequestChangesRequest struct {
	Feedback string `json:"feedback"`
}
