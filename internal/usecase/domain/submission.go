// Package domain contains application usecases orchestrating submission logic.
package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/entities"
	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/workflow"

	"github.com/google/uuid"
)

// CreateSubmission records a new submission and runs auto-assignment.
// When no eligible assignee exists the submission stays in its initial
// status with a null assignee; deferral is not an error.
func (u *Usecase) CreateSubmission(ctx context.Context, actor entities.Actor, sub entities.Submission) (*entities.Submission, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if actor.Role != entities.RoleContributor && actor.Role != entities.RoleAdmin {
		return nil, fmt.Errorf("%w: only contributors create submissions", entities.ErrUnauthorized)
	}
	if sub.Kind != entities.KindSimple && sub.Kind != entities.KindExtended {
		return nil, fmt.Errorf("%w: unknown submission kind %q", entities.ErrInvalidArgument, sub.Kind)
	}
	if sub.ContributorID == "" {
		sub.ContributorID = actor.ID
	}
	if sub.ContributorID == "" {
		return nil, fmt.Errorf("%w: contributor_id is required", entities.ErrInvalidArgument)
	}

	sub.ID = uuid.NewString()
	sub.Status = sub.Kind.InitialStatus()
	sub.AssigneeID = nil

	created, err := u.repo.CreateSubmission(ctx, sub)
	if err != nil {
		return nil, err
	}
	u.log.Infow("submission created",
		"submission_id", created.ID, "kind", created.Kind, "contributor_id", created.ContributorID)

	if _, err := u.engine.Assign(ctx, *created); err != nil {
		if !errors.Is(err, entities.ErrConcurrentModification) {
			return nil, err
		}
	}

	return u.repo.GetSubmission(ctx, created.ID)
}

// GetSubmission returns a submission with its feedback trail.
func (u *Usecase) GetSubmission(ctx context.Context, id string) (*entities.Submission, []entities.Feedback, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if id == "" {
		return nil, nil, fmt.Errorf("%w: submission_id is required", entities.ErrInvalidArgument)
	}

	sub, err := u.repo.GetSubmission(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	feedback, err := u.repo.ListFeedback(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return sub, feedback, nil
}

// DeleteSubmission removes a submission, subject to the status guard:
// contributors may delete only before substantial review investment,
// admins from any status.
func (u *Usecase) DeleteSubmission(ctx context.Context, actor entities.Actor, id string) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if id == "" {
		return fmt.Errorf("%w: submission_id is required", entities.ErrInvalidArgument)
	}

	sub, err := u.repo.GetSubmission(ctx, id)
	if err != nil {
		return err
	}
	if !workflow.DeleteAllowed(*sub, actor) {
		if actor.Role == entities.RoleContributor && actor.ID == sub.ContributorID {
			return fmt.Errorf("%w: status %s", entities.ErrDeleteForbidden, sub.Status)
		}
		return fmt.Errorf("%w: delete requires the owning contributor or admin", entities.ErrUnauthorized)
	}

	if err := u.repo.DeleteSubmission(ctx, id); err != nil {
		return err
	}
	u.log.Infow("submission deleted", "submission_id", id, "actor_id", actor.ID, "actor_role", actor.Role)
	return nil
}
