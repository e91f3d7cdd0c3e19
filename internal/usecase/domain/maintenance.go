// Package domain contains application usecases for the operator surface.
package domain

import (
	"context"

	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/entities"
)

// ReassignPending runs one bulk reconciliation pass over the deferred
// queue and reports how many submissions found an assignee.
func (u *Usecase) ReassignPending(ctx context.Context) (entities.ReassignReport, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	report, err := u.engine.ReassignPending(ctx)
	if err != nil {
		return entities.ReassignReport{}, err
	}
	u.log.Infow("reassign pending finished",
		"assigned", report.AssignedCount, "still_deferred", report.DeferredCount)
	return report, nil
}

// ListDeferred returns the current deferred queue for operator visibility.
func (u *Usecase) ListDeferred(ctx context.Context) ([]entities.Submission, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()
	return u.repo.ListDeferred(ctx)
}

// WorkloadStats returns derived open-assignment counts per user.
func (u *Usecase) WorkloadStats(ctx context.Context) ([]entities.WorkloadStat, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()
	return u.repo.WorkloadStats(ctx)
}
