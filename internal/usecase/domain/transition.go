package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/entities"
	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/workflow"
)

// transition validates req against the submission's state machine, writes
// the result through the store's compare-and-swap, and emits the change
// event. A lost race surfaces as ErrConcurrentModification: the caller
// re-reads and retries, nothing was written.
func (u *Usecase) transition(ctx context.Context, id string, req workflow.Request) (*entities.Submission, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: submission_id is required", entities.ErrInvalidArgument)
	}

	sub, err := u.repo.GetSubmission(ctx, id)
	if err != nil {
		return nil, err
	}

	res, err := workflow.Apply(*sub, req)
	if err != nil {
		return nil, err
	}

	updated, err := u.repo.ApplyTransition(ctx, id, sub.Version, entities.TransitionWrite{
		To:               res.To,
		ClearAssignee:    res.ClearAssignee,
		Feedback:         res.Feedback,
		SubmittedAccount: req.SubmittedAccount,
		TaskLink:         req.TaskLink,
		AccountPostedIn:  req.AccountPostedIn,
		FileURL:          req.FileURL,
	})
	if err != nil {
		return nil, err
	}

	u.pub.Emit(ctx, entities.Event{
		SubmissionID: updated.ID,
		FromStatus:   res.From,
		ToStatus:     res.To,
		AssigneeID:   updated.AssigneeID,
		At:           time.Now().UTC(),
	})
	u.log.Infow("transition",
		"submission_id", id, "action", req.Action,
		"from_status", res.From, "to_status", res.To,
		"actor_id", req.Actor.ID, "actor_role", req.Actor.Role)

	// Crossing into the review phase needs a reviewer; a failed pick here
	// just leaves the submission deferred for the sweeper.
	if res.ClearAssignee {
		if _, err := u.engine.Assign(ctx, *updated); err != nil {
			if !errors.Is(err, entities.ErrConcurrentModification) {
				return nil, err
			}
		}
		return u.repo.GetSubmission(ctx, id)
	}

	return updated, nil
}

// SubmitReviewerFeedback records reviewer feedback on a SIMPLE submission,
// promoting it to ELIGIBLE when the reviewer marks it so.
func (u *Usecase) SubmitReviewerFeedback(ctx context.Context, actor entities.Actor, id, feedback string, eligible bool) (*entities.Submission, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.transition(ctx, id, workflow.Request{
		Action:   workflow.ActionReviewerFeedback,
		Actor:    actor,
		Feedback: feedback,
		Eligible: eligible,
	})
}

// Approve terminates a submission as APPROVED. For EXTENDED submissions
// the posting account is required.
func (u *Usecase) Approve(ctx context.Context, actor entities.Actor, id, accountPostedIn string) (*entities.Submission, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.transition(ctx, id, workflow.Request{
		Action:          workflow.ActionApprove,
		Actor:           actor,
		AccountPostedIn: accountPostedIn,
	})
}

// Reject terminates a submission as REJECTED with a recorded reason.
func (u *Usecase) Reject(ctx context.Context, actor entities.Actor, id, reason string) (*entities.Submission, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.transition(ctx, id, workflow.Request{
		Action: workflow.ActionReject,
		Actor:  actor,
		Reason: reason,
	})
}

// MarkSubmittedToPlatform records that the assigned tester posted the task.
func (u *Usecase) MarkSubmittedToPlatform(ctx context.Context, actor entities.Actor, id, submittedAccount, taskLink string) (*entities.Submission, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.transition(ctx, id, workflow.Request{
		Action:           workflow.ActionSubmitToPlatform,
		Actor:            actor,
		SubmittedAccount: submittedAccount,
		TaskLink:         taskLink,
	})
}

// MarkEligibleForManualReview ends the testing phase; the submission moves
// to the reviewer pool and assignment is attempted immediately.
func (u *Usecase) MarkEligibleForManualReview(ctx context.Context, actor entities.Actor, id, taskLink string) (*entities.Submission, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.transition(ctx, id, workflow.Request{
		Action:   workflow.ActionEligibleForReview,
		Actor:    actor,
		TaskLink: taskLink,
	})
}

// SendTesterFeedback sends the submission back to its contributor for rework.
func (u *Usecase) SendTesterFeedback(ctx context.Context, actor entities.Actor, id, feedback string) (*entities.Submission, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.transition(ctx, id, workflow.Request{
		Action:   workflow.ActionTesterFeedback,
		Actor:    actor,
		Feedback: feedback,
	})
}

// Resubmit is the contributor's answer to REWORK or CHANGES_REQUESTED,
// carrying updated files.
func (u *Usecase) Resubmit(ctx context.Context, actor entities.Actor, id, fileURL string) (*entities.Submission, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.transition(ctx, id, workflow.Request{
		Action:  workflow.ActionResubmit,
		Actor:   actor,
		FileURL: fileURL,
	})
}

// RequestChanges sends the submission back to its contributor during review.
func (u *Usecase) RequestChanges(ctx context.Context, actor entities.Actor, id, feedback string) (*entities.Submission, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.transition(ctx, id, workflow.Request{
		Action:   workflow.ActionRequestChanges,
		Actor:    actor,
		Feedback: feedback,
	})
}

// MarkChangesDone marks requested changes as addressed without new files.
func (u *Usecase) MarkChangesDone(ctx context.Context, actor entities.Actor, id string) (*entities.Submission, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.transition(ctx, id, workflow.Request{
		Action: workflow.ActionChangesDone,
		Actor:  actor,
	})
}

// AdvanceToFinalChecks moves the submission to the last review stage.
func (u *Usecase) AdvanceToFinalChecks(ctx context.Context, actor entities.Actor, id string) (*entities.Submission, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.transition(ctx, id, workflow.Request{
		Action: workflow.ActionFinalChecks,
		Actor:  actor,
	})
}
