// Package domain contains application usecases orchestrating domain logic by user.
package domain

import (
	"context"
	"fmt"

	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/entities"
)

// RegisterUser adds a user to the directory. Testers and reviewers start
// unapproved; an admin approves them before they can receive work.
func (u *Usecase) RegisterUser(ctx context.Context, user entities.User) (*entities.User, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if user.ID == "" || user.Username == "" {
		return nil, fmt.Errorf("%w: user_id and username are required", entities.ErrInvalidArgument)
	}
	switch user.Role {
	case entities.RoleContributor, entities.RoleTester, entities.RoleReviewer, entities.RoleAdmin:
	default:
		return nil, fmt.Errorf("%w: unknown role %q", entities.ErrInvalidArgument, user.Role)
	}

	return u.repo.CreateUser(ctx, user)
}

// SetUserApproved flips a user's approval flag; admin only. Revoking
// approval releases the user's open assignments into the deferred queue,
// where the sweeper picks them up.
func (u *Usecase) SetUserApproved(ctx context.Context, actor entities.Actor, userID string, approved bool) (*entities.User, int, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if actor.Role != entities.RoleAdmin {
		return nil, 0, fmt.Errorf("%w: approval changes require admin", entities.ErrUnauthorized)
	}
	if userID == "" {
		return nil, 0, fmt.Errorf("%w: user_id is required", entities.ErrInvalidArgument)
	}

	user, released, err := u.repo.SetUserApproved(ctx, userID, approved)
	if err != nil {
		return nil, 0, err
	}
	if released > 0 {
		u.log.Infow("assignments released on approval revocation",
			"user_id", userID, "released", released)
	}
	return user, released, nil
}

// ToggleAvailability flips the user's green light. Turning it on triggers
// the reactivation cascade over the deferred queue; turning it off leaves
// existing assignments untouched.
func (u *Usecase) ToggleAvailability(ctx context.Context, userID string) (*entities.User, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", entities.ErrInvalidArgument)
	}

	current, err := u.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated, err := u.repo.SetGreenLight(ctx, userID, !current.IsGreenLight)
	if err != nil {
		return nil, err
	}
	u.log.Infow("availability toggled", "user_id", userID, "is_green_light", updated.IsGreenLight)

	if !current.IsGreenLight && updated.IsGreenLight {
		if err := u.engine.Reactivate(ctx, *updated); err != nil {
			// The toggle itself succeeded; deferred work stays queued for
			// the sweeper.
			u.log.Errorw("reactivation cascade failed", "error", err, "user_id", userID)
		}
	}

	return updated, nil
}

// GetQueue returns open submissions assigned to the user.
func (u *Usecase) GetQueue(ctx context.Context, userID string) ([]entities.Submission, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", entities.ErrInvalidArgument)
	}

	return u.repo.ListAssignedTo(ctx, userID)
}
