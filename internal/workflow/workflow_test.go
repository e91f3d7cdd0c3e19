package workflow

import (
	"testing"

	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/entities"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func simpleSub(status entities.Status) entities.Submission {
	return entities.Submission{
		ID:            "s1",
		ContributorID: "contrib",
		Kind:          entities.KindSimple,
		Status:        status,
		AssigneeID:    strPtr("rev1"),
	}
}

func extendedSub(status entities.Status) entities.Submission {
	return entities.Submission{
		ID:            "s2",
		ContributorID: "contrib",
		Kind:          entities.KindExtended,
		Status:        status,
		AssigneeID:    strPtr("worker"),
	}
}

func TestApplySimpleReviewerFeedback(t *testing.T) {
	sub := simpleSub(entities.StatusClaimed)
	actor := entities.Actor{ID: "rev1", Role: entities.RoleReviewer}

	t.Run("not eligible keeps status", func(t *testing.T) {
		res, err := Apply(sub, Request{Action: ActionReviewerFeedback, Actor: actor, Feedback: "needs work"})
		require.NoError(t, err)
		require.Equal(t, entities.StatusClaimed, res.To)
		require.NotNil(t, res.Feedback)
		require.Equal(t, entities.FeedbackReviewer, res.Feedback.Kind)
		require.Equal(t, "needs work", res.Feedback.Body)
	})

	t.Run("eligible promotes", func(t *testing.T) {
		res, err := Apply(sub, Request{Action: ActionReviewerFeedback, Actor: actor, Feedback: "good", Eligible: true})
		require.NoError(t, err)
		require.Equal(t, entities.StatusEligible, res.To)
	})

	t.Run("missing feedback", func(t *testing.T) {
		_, err := Apply(sub, Request{Action: ActionReviewerFeedback, Actor: actor})
		require.ErrorIs(t, err, entities.ErrValidation)
	})

	t.Run("wrong assignee", func(t *testing.T) {
		other := entities.Actor{ID: "rev2", Role: entities.RoleReviewer}
		_, err := Apply(sub, Request{Action: ActionReviewerFeedback, Actor: other, Feedback: "x"})
		require.ErrorIs(t, err, entities.ErrUnauthorized)
	})
}

func TestApplySimpleApproveRejectAdminOnly(t *testing.T) {
	sub := simpleSub(entities.StatusEligible)
	admin := entities.Actor{ID: "adm", Role: entities.RoleAdmin}
	reviewer := entities.Actor{ID: "rev1", Role: entities.RoleReviewer}

	res, err := Apply(sub, Request{Action: ActionApprove, Actor: admin})
	require.NoError(t, err)
	require.Equal(t, entities.StatusApproved, res.To)

	_, err = Apply(sub, Request{Action: ActionApprove, Actor: reviewer})
	require.ErrorIs(t, err, entities.ErrUnauthorized)

	res, err = Apply(sub, Request{Action: ActionReject, Actor: admin, Reason: "plagiarism"})
	require.NoError(t, err)
	require.Equal(t, entities.StatusRejected, res.To)
	require.NotNil(t, res.Feedback)
	require.Equal(t, entities.FeedbackRejection, res.Feedback.Kind)

	_, err = Apply(sub, Request{Action: ActionReject, Actor: admin})
	require.ErrorIs(t, err, entities.ErrValidation)
}

func TestApplyTerminalIsImmutable(t *testing.T) {
	admin := entities.Actor{ID: "adm", Role: entities.RoleAdmin}
	for _, status := range []entities.Status{entities.StatusApproved, entities.StatusRejected} {
		_, err := Apply(simpleSub(status), Request{Action: ActionApprove, Actor: admin})
		require.ErrorIs(t, err, entities.ErrInvalidTransition)
	}
}

func TestApplyExtendedTestingPhase(t *testing.T) {
	tester := entities.Actor{ID: "worker", Role: entities.RoleTester}

	t.Run("submit to platform", func(t *testing.T) {
		res, err := Apply(extendedSub(entities.StatusInTesting), Request{
			Action:           ActionSubmitToPlatform,
			Actor:            tester,
			SubmittedAccount: "acc-9",
			TaskLink:         "https://tasks/9",
		})
		require.NoError(t, err)
		require.Equal(t, entities.StatusSubmittedToPlatform, res.To)
	})

	t.Run("submit to platform requires both fields", func(t *testing.T) {
		_, err := Apply(extendedSub(entities.StatusInTesting), Request{
			Action: ActionSubmitToPlatform, Actor: tester, TaskLink: "https://tasks/9",
		})
		require.ErrorIs(t, err, entities.ErrValidation)
	})

	t.Run("eligible for review clears assignee", func(t *testing.T) {
		res, err := Apply(extendedSub(entities.StatusSubmittedToPlatform), Request{
			Action: ActionEligibleForReview, Actor: tester, TaskLink: "https://tasks/9",
		})
		require.NoError(t, err)
		require.Equal(t, entities.StatusEligibleForManualReview, res.To)
		require.True(t, res.ClearAssignee)
	})

	t.Run("tester feedback sends to rework", func(t *testing.T) {
		res, err := Apply(extendedSub(entities.StatusInTesting), Request{
			Action: ActionTesterFeedback, Actor: tester, Feedback: "broken build",
		})
		require.NoError(t, err)
		require.Equal(t, entities.StatusRework, res.To)
		require.NotNil(t, res.Feedback)
		require.Equal(t, entities.FeedbackTester, res.Feedback.Kind)
	})

	t.Run("reviewer cannot act in testing phase", func(t *testing.T) {
		reviewer := entities.Actor{ID: "worker", Role: entities.RoleReviewer}
		_, err := Apply(extendedSub(entities.StatusInTesting), Request{
			Action: ActionTesterFeedback, Actor: reviewer, Feedback: "x",
		})
		require.ErrorIs(t, err, entities.ErrUnauthorized)
	})
}

func TestApplyExtendedResubmit(t *testing.T) {
	owner := entities.Actor{ID: "contrib", Role: entities.RoleContributor}

	tests := []struct {
		name string
		from entities.Status
		to   entities.Status
	}{
		{name: "rework", from: entities.StatusRework, to: entities.StatusReworkDone},
		{name: "changes requested", from: entities.StatusChangesRequested, to: entities.StatusChangesDone},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			res, err := Apply(extendedSub(tt.from), Request{
				Action: ActionResubmit, Actor: owner, FileURL: "https://files/v2",
			})
			require.NoError(t, err)
			require.Equal(t, tt.to, res.To)
		})
	}

	t.Run("non owner rejected", func(t *testing.T) {
		stranger := entities.Actor{ID: "other", Role: entities.RoleContributor}
		_, err := Apply(extendedSub(entities.StatusRework), Request{
			Action: ActionResubmit, Actor: stranger, FileURL: "https://files/v2",
		})
		require.ErrorIs(t, err, entities.ErrUnauthorized)
	})
}

func TestApplyExtendedReviewPhase(t *testing.T) {
	reviewer := entities.Actor{ID: "worker", Role: entities.RoleReviewer}

	t.Run("request changes", func(t *testing.T) {
		res, err := Apply(extendedSub(entities.StatusPendingReview), Request{
			Action: ActionRequestChanges, Actor: reviewer, Feedback: "rename things",
		})
		require.NoError(t, err)
		require.Equal(t, entities.StatusChangesRequested, res.To)
	})

	t.Run("changes done by owner", func(t *testing.T) {
		owner := entities.Actor{ID: "contrib", Role: entities.RoleContributor}
		res, err := Apply(extendedSub(entities.StatusChangesRequested), Request{
			Action: ActionChangesDone, Actor: owner,
		})
		require.NoError(t, err)
		require.Equal(t, entities.StatusChangesDone, res.To)
	})

	t.Run("final checks from pending review", func(t *testing.T) {
		res, err := Apply(extendedSub(entities.StatusPendingReview), Request{
			Action: ActionFinalChecks, Actor: reviewer,
		})
		require.NoError(t, err)
		require.Equal(t, entities.StatusFinalChecks, res.To)
	})

	t.Run("approve only from final checks", func(t *testing.T) {
		res, err := Apply(extendedSub(entities.StatusFinalChecks), Request{
			Action: ActionApprove, Actor: reviewer, AccountPostedIn: "acc-1",
		})
		require.NoError(t, err)
		require.Equal(t, entities.StatusApproved, res.To)

		_, err = Apply(extendedSub(entities.StatusPendingReview), Request{
			Action: ActionApprove, Actor: reviewer, AccountPostedIn: "acc-1",
		})
		require.ErrorIs(t, err, entities.ErrInvalidTransition)
	})

	t.Run("reject from any review status", func(t *testing.T) {
		for _, from := range []entities.Status{
			entities.StatusEligibleForManualReview,
			entities.StatusPendingReview,
			entities.StatusChangesDone,
			entities.StatusFinalChecks,
		} {
			res, err := Apply(extendedSub(from), Request{
				Action: ActionReject, Actor: reviewer, Reason: "off topic",
			})
			require.NoError(t, err)
			require.Equal(t, entities.StatusRejected, res.To)
		}
	})

	t.Run("admin bypasses assignee check", func(t *testing.T) {
		admin := entities.Actor{ID: "adm", Role: entities.RoleAdmin}
		res, err := Apply(extendedSub(entities.StatusFinalChecks), Request{
			Action: ActionApprove, Actor: admin, AccountPostedIn: "acc-1",
		})
		require.NoError(t, err)
		require.Equal(t, entities.StatusApproved, res.To)
	})
}

func TestApplyUndefinedAction(t *testing.T) {
	tester := entities.Actor{ID: "worker", Role: entities.RoleTester}
	_, err := Apply(simpleSub(entities.StatusClaimed), Request{Action: ActionTesterFeedback, Actor: tester, Feedback: "x"})
	require.ErrorIs(t, err, entities.ErrInvalidTransition)
}

func TestClaimTarget(t *testing.T) {
	to, ok := ClaimTarget(simpleSub(entities.StatusPending))
	require.True(t, ok)
	require.Equal(t, entities.StatusClaimed, to)

	to, ok = ClaimTarget(extendedSub(entities.StatusTaskSubmitted))
	require.True(t, ok)
	require.Equal(t, entities.StatusInTesting, to)

	to, ok = ClaimTarget(extendedSub(entities.StatusEligibleForManualReview))
	require.True(t, ok)
	require.Equal(t, entities.StatusPendingReview, to)

	// Statuses picked up again keep their status on assignment.
	_, ok = ClaimTarget(extendedSub(entities.StatusRework))
	require.False(t, ok)
}

func TestPoolFor(t *testing.T) {
	pool, ok := PoolFor(entities.KindSimple, entities.StatusPending)
	require.True(t, ok)
	require.Equal(t, entities.RoleReviewer, pool)

	for _, status := range []entities.Status{
		entities.StatusTaskSubmitted,
		entities.StatusInTesting,
		entities.StatusSubmittedToPlatform,
		entities.StatusRework,
		entities.StatusReworkDone,
	} {
		pool, ok = PoolFor(entities.KindExtended, status)
		require.True(t, ok)
		require.Equal(t, entities.RoleTester, pool, "status %s", status)
	}

	pool, ok = PoolFor(entities.KindExtended, entities.StatusPendingReview)
	require.True(t, ok)
	require.Equal(t, entities.RoleReviewer, pool)

	_, ok = PoolFor(entities.KindExtended, entities.StatusApproved)
	require.False(t, ok)
}

func TestNeedsAssignment(t *testing.T) {
	sub := extendedSub(entities.StatusTaskSubmitted)
	require.False(t, NeedsAssignment(sub))

	sub.AssigneeID = nil
	require.True(t, NeedsAssignment(sub))

	sub.Status = entities.StatusRejected
	require.False(t, NeedsAssignment(sub))
}

func TestDeleteAllowed(t *testing.T) {
	owner := entities.Actor{ID: "contrib", Role: entities.RoleContributor}
	admin := entities.Actor{ID: "adm", Role: entities.RoleAdmin}
	stranger := entities.Actor{ID: "other", Role: entities.RoleContributor}

	require.True(t, DeleteAllowed(extendedSub(entities.StatusTaskSubmitted), owner))
	require.True(t, DeleteAllowed(extendedSub(entities.StatusRework), owner))
	require.False(t, DeleteAllowed(extendedSub(entities.StatusInTesting), owner))
	require.False(t, DeleteAllowed(extendedSub(entities.StatusTaskSubmitted), stranger))
	require.True(t, DeleteAllowed(extendedSub(entities.StatusFinalChecks), admin))
}
