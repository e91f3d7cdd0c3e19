// Package workflow validates and applies submission status transitions.
//
// The tables here are the single authority on which (status, action, actor)
// triples are legal; handlers and usecases never reason about statuses on
// their own.
package workflow

import (
	"fmt"
	"time"

	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/entities"
)

// Action names a workflow transition trigger.
type Action string

const (
	// ActionClaim is the system transition applied after a successful assignment.
	ActionClaim Action = "claim"
	// ActionReviewerFeedback records reviewer feedback on a SIMPLE submission,
	// optionally promoting it to ELIGIBLE.
	ActionReviewerFeedback Action = "reviewer_feedback"
	// ActionSubmitToPlatform marks an EXTENDED task as posted on the platform.
	ActionSubmitToPlatform Action = "submit_to_platform"
	// ActionEligibleForReview ends the testing phase of an EXTENDED submission.
	ActionEligibleForReview Action = "eligible_for_review"
	// ActionTesterFeedback sends an EXTENDED submission back for rework.
	ActionTesterFeedback Action = "tester_feedback"
	// ActionResubmit is the contributor's answer to REWORK or CHANGES_REQUESTED.
	ActionResubmit Action = "resubmit"
	// ActionRequestChanges sends an EXTENDED submission back during review.
	ActionRequestChanges Action = "request_changes"
	// ActionChangesDone marks requested changes as addressed without new files.
	ActionChangesDone Action = "changes_done"
	// ActionFinalChecks advances an EXTENDED submission to the last review stage.
	ActionFinalChecks Action = "final_checks"
	// ActionApprove terminates a submission as APPROVED.
	ActionApprove Action = "approve"
	// ActionReject terminates a submission as REJECTED.
	ActionReject Action = "reject"
)

// Request carries an attempted transition with its actor and payload.
type Request struct {
	Action Action
	Actor  entities.Actor

	Feedback         string
	Eligible         bool
	Reason           string
	SubmittedAccount string
	TaskLink         string
	AccountPostedIn  string
	FileURL          string
}

// Result describes the effect of a validated transition. Nothing is
// persisted here; the caller writes it through the store atomically.
type Result struct {
	From entities.Status
	To   entities.Status
	// ClearAssignee is set on the tester-to-reviewer phase boundary.
	ClearAssignee bool
	// Feedback, when non-nil, is an append-only record to store.
	Feedback *entities.Feedback
}

// rule is one row group of the transition tables.
type rule struct {
	from map[entities.Status]entities.Status
	// actors allowed to trigger the action. RoleAdmin is always implied
	// unless adminOnly narrows the set to admin exclusively.
	actors []entities.Role
	// adminOnly restricts the action to admins (SIMPLE approve/reject).
	adminOnly bool
	// owner requires actor.ID == submission.ContributorID.
	owner bool
	// assignee requires actor.ID == *submission.AssigneeID (admin bypasses).
	assignee bool
	validate func(req Request) error
}

var extendedTestingSet = []entities.Status{
	entities.StatusTaskSubmitted,
	entities.StatusInTesting,
	entities.StatusSubmittedToPlatform,
	entities.StatusReworkDone,
}

func fromSet(to entities.Status, from ...entities.Status) map[entities.Status]entities.Status {
	m := make(map[entities.Status]entities.Status, len(from))
	for _, f := range from {
		m[f] = to
	}
	return m
}

func requireField(name, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s is required", entities.ErrValidation, name)
	}
	return nil
}

var simpleRules = map[Action]rule{
	ActionClaim: {
		from:   fromSet(entities.StatusClaimed, entities.StatusPending),
		actors: []entities.Role{entities.RoleSystem},
	},
	ActionReviewerFeedback: {
		// Target is resolved in Apply: stays CLAIMED unless marked eligible.
		from:     fromSet(entities.StatusClaimed, entities.StatusClaimed),
		actors:   []entities.Role{entities.RoleReviewer},
		assignee: true,
		validate: func(req Request) error { return requireField("feedback", req.Feedback) },
	},
	ActionApprove: {
		from:      fromSet(entities.StatusApproved, entities.StatusEligible),
		adminOnly: true,
	},
	ActionReject: {
		from:      fromSet(entities.StatusRejected, entities.StatusEligible),
		adminOnly: true,
		validate:  func(req Request) error { return requireField("reason", req.Reason) },
	},
}

var extendedRules = map[Action]rule{
	ActionClaim: {
		from: map[entities.Status]entities.Status{
			entities.StatusTaskSubmitted:           entities.StatusInTesting,
			entities.StatusEligibleForManualReview: entities.StatusPendingReview,
		},
		actors: []entities.Role{entities.RoleSystem},
	},
	ActionSubmitToPlatform: {
		from:     fromSet(entities.StatusSubmittedToPlatform, extendedTestingSet...),
		actors:   []entities.Role{entities.RoleTester},
		assignee: true,
		validate: func(req Request) error {
			if err := requireField("submitted_account", req.SubmittedAccount); err != nil {
				return err
			}
			return requireField("task_link", req.TaskLink)
		},
	},
	ActionEligibleForReview: {
		from:     fromSet(entities.StatusEligibleForManualReview, extendedTestingSet...),
		actors:   []entities.Role{entities.RoleTester},
		assignee: true,
		validate: func(req Request) error { return requireField("task_link", req.TaskLink) },
	},
	ActionTesterFeedback: {
		from:     fromSet(entities.StatusRework, extendedTestingSet...),
		actors:   []entities.Role{entities.RoleTester},
		assignee: true,
		validate: func(req Request) error { return requireField("feedback", req.Feedback) },
	},
	ActionResubmit: {
		from: map[entities.Status]entities.Status{
			entities.StatusRework:           entities.StatusReworkDone,
			entities.StatusChangesRequested: entities.StatusChangesDone,
		},
		owner:    true,
		validate: func(req Request) error { return requireField("file_url", req.FileURL) },
	},
	ActionRequestChanges: {
		from: fromSet(entities.StatusChangesRequested,
			entities.StatusEligibleForManualReview,
			entities.StatusPendingReview,
			entities.StatusChangesDone,
			entities.StatusFinalChecks,
		),
		actors:   []entities.Role{entities.RoleReviewer},
		assignee: true,
		validate: func(req Request) error { return requireField("feedback", req.Feedback) },
	},
	ActionChangesDone: {
		from:  fromSet(entities.StatusChangesDone, entities.StatusChangesRequested),
		owner: true,
	},
	ActionFinalChecks: {
		from: fromSet(entities.StatusFinalChecks,
			entities.StatusEligibleForManualReview,
			entities.StatusPendingReview,
			entities.StatusChangesDone,
		),
		actors:   []entities.Role{entities.RoleReviewer},
		assignee: true,
	},
	ActionApprove: {
		from:     fromSet(entities.StatusApproved, entities.StatusFinalChecks),
		actors:   []entities.Role{entities.RoleReviewer},
		assignee: true,
		validate: func(req Request) error { return requireField("account_posted_in", req.AccountPostedIn) },
	},
	ActionReject: {
		from: fromSet(entities.StatusRejected,
			entities.StatusEligibleForManualReview,
			entities.StatusPendingReview,
			entities.StatusChangesDone,
			entities.StatusFinalChecks,
		),
		actors:   []entities.Role{entities.RoleReviewer},
		assignee: true,
		validate: func(req Request) error { return requireField("reason", req.Reason) },
	},
}

func rulesFor(kind entities.SubmissionKind) map[Action]rule {
	if kind == entities.KindExtended {
		return extendedRules
	}
	return simpleRules
}

// Apply validates req against sub's transition table and returns the
// resulting state change. The submission itself is not mutated; on any
// error the state is untouched.
func Apply(sub entities.Submission, req Request) (Result, error) {
	if sub.Status.IsTerminal() {
		return Result{}, fmt.Errorf("%w: submission is %s", entities.ErrInvalidTransition, sub.Status)
	}

	r, ok := rulesFor(sub.Kind)[req.Action]
	if !ok {
		return Result{}, fmt.Errorf("%w: action %q not defined for kind %s", entities.ErrInvalidTransition, req.Action, sub.Kind)
	}
	to, ok := r.from[sub.Status]
	if !ok {
		return Result{}, fmt.Errorf("%w: action %q not permitted from %s", entities.ErrInvalidTransition, req.Action, sub.Status)
	}

	if err := checkActor(sub, req, r); err != nil {
		return Result{}, err
	}
	if r.validate != nil {
		if err := r.validate(req); err != nil {
			return Result{}, err
		}
	}

	res := Result{From: sub.Status, To: to}

	switch req.Action {
	case ActionReviewerFeedback:
		if req.Eligible {
			res.To = entities.StatusEligible
		}
		res.Feedback = feedbackRecord(sub, req.Actor, entities.FeedbackReviewer, req.Feedback)
	case ActionTesterFeedback:
		res.Feedback = feedbackRecord(sub, req.Actor, entities.FeedbackTester, req.Feedback)
	case ActionRequestChanges:
		res.Feedback = feedbackRecord(sub, req.Actor, entities.FeedbackReviewer, req.Feedback)
	case ActionReject:
		res.Feedback = feedbackRecord(sub, req.Actor, entities.FeedbackRejection, req.Reason)
	case ActionEligibleForReview:
		// Testing is over; the review phase draws from the reviewer pool.
		res.ClearAssignee = true
	}

	return res, nil
}

func checkActor(sub entities.Submission, req Request, r rule) error {
	actor := req.Actor

	if r.adminOnly {
		if actor.Role != entities.RoleAdmin {
			return fmt.Errorf("%w: action %q requires admin", entities.ErrUnauthorized, req.Action)
		}
		return nil
	}
	if actor.Role == entities.RoleAdmin {
		// Admin is an override authority; it bypasses the assignee check.
		return nil
	}

	if r.owner {
		if actor.Role != entities.RoleContributor || actor.ID != sub.ContributorID {
			return fmt.Errorf("%w: action %q requires the owning contributor", entities.ErrUnauthorized, req.Action)
		}
		return nil
	}

	allowed := false
	for _, role := range r.actors {
		if actor.Role == role {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("%w: role %s may not perform %q", entities.ErrUnauthorized, actor.Role, req.Action)
	}

	if r.assignee && sub.Assigned() && actor.ID != *sub.AssigneeID {
		return fmt.Errorf("%w: actor is not the assignee", entities.ErrUnauthorized)
	}
	return nil
}

func feedbackRecord(sub entities.Submission, actor entities.Actor, kind entities.FeedbackKind, body string) *entities.Feedback {
	return &entities.Feedback{
		SubmissionID: sub.ID,
		AuthorID:     actor.ID,
		AuthorRole:   actor.Role,
		Kind:         kind,
		Body:         body,
		CreatedAt:    time.Now().UTC(),
	}
}

// PoolFor returns the assignment pool responsible for a submission in the
// given status. ok is false for terminal statuses, which never need an
// assignee.
func PoolFor(kind entities.SubmissionKind, status entities.Status) (entities.Role, bool) {
	if status.IsTerminal() {
		return "", false
	}
	if kind == entities.KindSimple {
		return entities.RoleReviewer, true
	}
	switch status {
	case entities.StatusTaskSubmitted, entities.StatusInTesting,
		entities.StatusSubmittedToPlatform, entities.StatusRework, entities.StatusReworkDone:
		return entities.RoleTester, true
	default:
		return entities.RoleReviewer, true
	}
}

// NeedsAssignment reports whether the submission belongs in the deferred
// queue: a non-terminal status with no assignee on record.
func NeedsAssignment(sub entities.Submission) bool {
	if sub.Assigned() {
		return false
	}
	_, ok := PoolFor(sub.Kind, sub.Status)
	return ok
}

// ClaimTarget returns the post-assignment status for sub, if the current
// status has a system claim transition. Statuses without one (e.g. REWORK
// picked up again after a tester change) keep their status on assignment.
func ClaimTarget(sub entities.Submission) (entities.Status, bool) {
	to, ok := rulesFor(sub.Kind)[ActionClaim].from[sub.Status]
	return to, ok
}

// DeleteAllowed reports whether an actor may delete the submission.
// Contributor deletes are confined to early statuses; admin may always.
func DeleteAllowed(sub entities.Submission, actor entities.Actor) bool {
	if actor.Role == entities.RoleAdmin {
		return true
	}
	if actor.Role != entities.RoleContributor || actor.ID != sub.ContributorID {
		return false
	}
	switch sub.Status {
	case entities.StatusPending, entities.StatusTaskSubmitted,
		entities.StatusChangesRequested, entities.StatusRework:
		return true
	default:
		return false
	}
}
