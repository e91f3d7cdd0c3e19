// Package assignment chooses assignees for submissions that need one.
package assignment

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/entities"
	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/events"
	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/workflow"

	"go.uber.org/zap"
)

// Store is the slice of the repository the engine needs.
type Store interface {
	GetSubmission(ctx context.Context, id string) (*entities.Submission, error)
	SetAssignee(ctx context.Context, id string, version int64, assigneeID *string) (*entities.Submission, error)
	ApplyTransition(ctx context.Context, id string, version int64, tr entities.TransitionWrite) (*entities.Submission, error)
	ListCandidates(ctx context.Context, pool entities.Role) ([]entities.Candidate, error)
	ListDeferred(ctx context.Context) ([]entities.Submission, error)
	CountOpenAssignments(ctx context.Context, userID string) (int64, error)
}

// Engine implements workload-aware assignment with deferral.
type Engine struct {
	log   *zap.SugaredLogger
	store Store
	pub   events.Publisher
	// reactivationCap bounds one reactivation cascade per user; a policy
	// input, never hard-coded here.
	reactivationCap int
}

// New constructs an assignment engine.
func New(log *zap.SugaredLogger, store Store, pub events.Publisher, reactivationCap int) *Engine {
	return &Engine{
		log:             log.Named("assignment"),
		store:           store,
		pub:             pub,
		reactivationCap: reactivationCap,
	}
}

// Assign picks the least-loaded assignable user of the submission's pool
// and records the assignment. An empty candidate set defers the submission;
// deferral is a normal outcome, not an error. On success the system claim
// transition is applied where the status defines one.
func (e *Engine) Assign(ctx context.Context, sub entities.Submission) (entities.AssignmentResult, error) {
	res := entities.AssignmentResult{SubmissionID: sub.ID}

	if sub.Status.IsTerminal() {
		return res, fmt.Errorf("%w: cannot assign %s submission", entities.ErrTerminal, sub.Status)
	}
	if sub.Assigned() {
		res.AssigneeID = sub.AssigneeID
		return res, nil
	}

	pool, ok := workflow.PoolFor(sub.Kind, sub.Status)
	if !ok {
		return res, fmt.Errorf("%w: status %s takes no assignee", entities.ErrInvalidArgument, sub.Status)
	}

	candidates, err := e.store.ListCandidates(ctx, pool)
	if err != nil {
		return res, fmt.Errorf("list candidates: %w", err)
	}
	if len(candidates) == 0 {
		e.log.Infow("no assignee available, submission deferred",
			"submission_id", sub.ID, "pool", pool, "status", sub.Status)
		res.Deferred = true
		return res, nil
	}

	pick := pickCandidate(candidates)

	updated, err := e.store.SetAssignee(ctx, sub.ID, sub.Version, &pick.UserID)
	if err != nil {
		return res, err
	}
	res.AssigneeID = updated.AssigneeID
	e.pub.Emit(ctx, entities.Event{
		SubmissionID: updated.ID,
		FromStatus:   updated.Status,
		ToStatus:     updated.Status,
		AssigneeID:   updated.AssigneeID,
		At:           time.Now().UTC(),
	})
	e.log.Infow("submission assigned",
		"submission_id", sub.ID, "assignee_id", pick.UserID, "pool", pool, "workload", pick.Workload)

	if err := e.claim(ctx, *updated); err != nil {
		return res, err
	}
	return res, nil
}

// claim applies the system transition that follows a successful assignment,
// if the current status defines one.
func (e *Engine) claim(ctx context.Context, sub entities.Submission) error {
	if _, ok := workflow.ClaimTarget(sub); !ok {
		return nil
	}
	tr, err := workflow.Apply(sub, workflow.Request{
		Action: workflow.ActionClaim,
		Actor:  entities.Actor{ID: "system", Role: entities.RoleSystem},
	})
	if err != nil {
		return fmt.Errorf("claim: %w", err)
	}
	updated, err := e.store.ApplyTransition(ctx, sub.ID, sub.Version, entities.TransitionWrite{To: tr.To})
	if err != nil {
		return fmt.Errorf("claim: %w", err)
	}
	e.pub.Emit(ctx, entities.Event{
		SubmissionID: updated.ID,
		FromStatus:   tr.From,
		ToStatus:     tr.To,
		AssigneeID:   updated.AssigneeID,
		At:           time.Now().UTC(),
	})
	return nil
}

// Reactivate runs the assignment cascade after a user's green light flips
// on: deferred submissions of the user's pool are assigned oldest-first
// until the queue is empty or the user's workload reaches the soft cap.
func (e *Engine) Reactivate(ctx context.Context, user entities.User) error {
	if !user.Assignable() {
		return nil
	}

	load, err := e.store.CountOpenAssignments(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("count open assignments: %w", err)
	}

	deferred, err := e.store.ListDeferred(ctx)
	if err != nil {
		return fmt.Errorf("list deferred: %w", err)
	}

	userLoad := int(load)
	for _, sub := range deferred {
		if userLoad >= e.reactivationCap {
			e.log.Infow("reactivation cap reached",
				"user_id", user.ID, "cap", e.reactivationCap)
			break
		}
		pool, ok := workflow.PoolFor(sub.Kind, sub.Status)
		if !ok || pool != user.Role {
			continue
		}
		res, err := e.Assign(ctx, sub)
		if err != nil {
			if errors.Is(err, entities.ErrConcurrentModification) {
				continue
			}
			return err
		}
		if res.AssigneeID != nil && *res.AssigneeID == user.ID {
			userLoad++
		}
	}
	return nil
}

// ReassignPending scans the deferred queue and attempts assignment for
// every entry. Idempotent: with no intervening state change a second pass
// assigns nothing. Safe to run concurrently with submission creation; the
// per-submission compare-and-swap is the safety boundary and a lost race
// is skipped, not failed.
func (e *Engine) ReassignPending(ctx context.Context) (entities.ReassignReport, error) {
	report := entities.ReassignReport{}

	deferred, err := e.store.ListDeferred(ctx)
	if err != nil {
		return report, fmt.Errorf("list deferred: %w", err)
	}

	for _, sub := range deferred {
		res, err := e.Assign(ctx, sub)
		if err != nil {
			if errors.Is(err, entities.ErrConcurrentModification) {
				e.log.Debugw("lost race during sweep, skipping", "submission_id", sub.ID)
				continue
			}
			return report, err
		}
		if res.Deferred {
			report.DeferredCount++
		} else {
			report.AssignedCount++
		}
	}
	return report, nil
}

// pickCandidate selects the lowest-workload candidate; ties break by
// earliest registration so selection stays deterministic.
func pickCandidate(candidates []entities.Candidate) entities.Candidate {
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Workload != candidates[j].Workload {
			return candidates[i].Workload < candidates[j].Workload
		}
		return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
	})
	return candidates[0]
}
