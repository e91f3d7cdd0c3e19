package assignment

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/entities"
	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/events"
	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/repository/inmemory"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newEngine(t *testing.T, reactivationCap int) (*Engine, *inmemory.Store, *events.Bus) {
	t.Helper()
	log := zap.NewNop().Sugar()
	store := inmemory.New(log)
	bus := events.NewBus(log)
	return New(log, store, bus, reactivationCap), store, bus
}

func addUser(t *testing.T, store *inmemory.Store, id string, role entities.Role, createdAt time.Time) {
	t.Helper()
	_, err := store.CreateUser(context.Background(), entities.User{
		ID:           id,
		Username:     id,
		Role:         role,
		IsApproved:   true,
		IsGreenLight: true,
		CreatedAt:    createdAt,
	})
	require.NoError(t, err)
}

func addSubmission(t *testing.T, store *inmemory.Store, id string, kind entities.SubmissionKind, createdAt time.Time) entities.Submission {
	t.Helper()
	sub, err := store.CreateSubmission(context.Background(), entities.Submission{
		ID:            id,
		ContributorID: "contrib",
		Kind:          kind,
		Status:        kind.InitialStatus(),
		CreatedAt:     createdAt,
	})
	require.NoError(t, err)
	return *sub
}

func TestAssignPicksLeastLoaded(t *testing.T) {
	ctx := context.Background()
	engine, store, _ := newEngine(t, 5)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	addUser(t, store, "rev-busy", entities.RoleReviewer, base)
	addUser(t, store, "rev-idle", entities.RoleReviewer, base.Add(time.Hour))

	// Give rev-busy one open assignment first.
	busy := addSubmission(t, store, "sub-0", entities.KindSimple, base)
	id := "rev-busy"
	_, err := store.SetAssignee(ctx, busy.ID, busy.Version, &id)
	require.NoError(t, err)

	sub := addSubmission(t, store, "sub-1", entities.KindSimple, base.Add(time.Minute))
	res, err := engine.Assign(ctx, sub)
	require.NoError(t, err)
	require.False(t, res.Deferred)
	require.NotNil(t, res.AssigneeID)
	require.Equal(t, "rev-idle", *res.AssigneeID)
}

func TestAssignTieBreaksByRegistration(t *testing.T) {
	ctx := context.Background()
	engine, store, _ := newEngine(t, 5)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	addUser(t, store, "rev-late", entities.RoleReviewer, base.Add(time.Hour))
	addUser(t, store, "rev-early", entities.RoleReviewer, base)

	sub := addSubmission(t, store, "sub-1", entities.KindSimple, base)
	res, err := engine.Assign(ctx, sub)
	require.NoError(t, err)
	require.NotNil(t, res.AssigneeID)
	require.Equal(t, "rev-early", *res.AssigneeID)
}

func TestAssignAppliesClaimTransition(t *testing.T) {
	ctx := context.Background()
	engine, store, bus := newEngine(t, 5)
	evs := bus.Subscribe(8)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	addUser(t, store, "rev-1", entities.RoleReviewer, base)
	addUser(t, store, "tester-1", entities.RoleTester, base)

	simple := addSubmission(t, store, "sub-simple", entities.KindSimple, base)
	_, err := engine.Assign(ctx, simple)
	require.NoError(t, err)

	got, err := store.GetSubmission(ctx, simple.ID)
	require.NoError(t, err)
	require.Equal(t, entities.StatusClaimed, got.Status)
	require.Equal(t, "rev-1", *got.AssigneeID)

	extended := addSubmission(t, store, "sub-ext", entities.KindExtended, base)
	_, err = engine.Assign(ctx, extended)
	require.NoError(t, err)

	got, err = store.GetSubmission(ctx, extended.ID)
	require.NoError(t, err)
	require.Equal(t, entities.StatusInTesting, got.Status)
	require.Equal(t, "tester-1", *got.AssigneeID)

	// Each assignment publishes an assignment event and a claim event.
	require.Len(t, evs, 4)
}

func TestAssignDefersWithoutCandidates(t *testing.T) {
	ctx := context.Background()
	engine, store, _ := newEngine(t, 5)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	sub := addSubmission(t, store, "sub-1", entities.KindSimple, base)
	res, err := engine.Assign(ctx, sub)
	require.NoError(t, err)
	require.True(t, res.Deferred)
	require.Nil(t, res.AssigneeID)

	deferred, err := store.ListDeferred(ctx)
	require.NoError(t, err)
	require.Len(t, deferred, 1)
	require.Equal(t, entities.StatusPending, deferred[0].Status)
}

func TestAssignAlreadyAssignedIsNoop(t *testing.T) {
	ctx := context.Background()
	engine, store, _ := newEngine(t, 5)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	addUser(t, store, "rev-1", entities.RoleReviewer, base)
	sub := addSubmission(t, store, "sub-1", entities.KindSimple, base)
	_, err := engine.Assign(ctx, sub)
	require.NoError(t, err)

	got, err := store.GetSubmission(ctx, sub.ID)
	require.NoError(t, err)
	res, err := engine.Assign(ctx, *got)
	require.NoError(t, err)
	require.Equal(t, "rev-1", *res.AssigneeID)

	history, err := store.ListAssignmentHistory(ctx, sub.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
}

func TestAssignTerminalFails(t *testing.T) {
	ctx := context.Background()
	engine, _, _ := newEngine(t, 5)

	_, err := engine.Assign(ctx, entities.Submission{
		ID:     "sub-1",
		Kind:   entities.KindSimple,
		Status: entities.StatusApproved,
	})
	require.ErrorIs(t, err, entities.ErrTerminal)
}

func TestReactivateDrainsDeferredOldestFirst(t *testing.T) {
	ctx := context.Background()
	engine, store, _ := newEngine(t, 5)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		addSubmission(t, store, fmt.Sprintf("sub-%d", i), entities.KindSimple, base.Add(time.Duration(i)*time.Minute))
	}

	addUser(t, store, "rev-1", entities.RoleReviewer, base)
	user, err := store.GetUser(ctx, "rev-1")
	require.NoError(t, err)
	require.NoError(t, engine.Reactivate(ctx, *user))

	deferred, err := store.ListDeferred(ctx)
	require.NoError(t, err)
	require.Empty(t, deferred)

	n, err := store.CountOpenAssignments(ctx, "rev-1")
	require.NoError(t, err)
	require.EqualValues(t, 3, n)
}

func TestReactivateRespectsCap(t *testing.T) {
	ctx := context.Background()
	engine, store, _ := newEngine(t, 2)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		addSubmission(t, store, fmt.Sprintf("sub-%d", i), entities.KindSimple, base.Add(time.Duration(i)*time.Minute))
	}

	addUser(t, store, "rev-1", entities.RoleReviewer, base)
	user, err := store.GetUser(ctx, "rev-1")
	require.NoError(t, err)
	require.NoError(t, engine.Reactivate(ctx, *user))

	n, err := store.CountOpenAssignments(ctx, "rev-1")
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	deferred, err := store.ListDeferred(ctx)
	require.NoError(t, err)
	require.Len(t, deferred, 2)
	// Oldest submissions were taken first.
	require.Equal(t, "sub-2", deferred[0].ID)
	require.Equal(t, "sub-3", deferred[1].ID)
}

func TestReactivateSkipsUnavailableUser(t *testing.T) {
	ctx := context.Background()
	engine, store, _ := newEngine(t, 5)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	addSubmission(t, store, "sub-1", entities.KindSimple, base)

	require.NoError(t, engine.Reactivate(ctx, entities.User{
		ID:           "rev-1",
		Role:         entities.RoleReviewer,
		IsApproved:   true,
		IsGreenLight: false,
	}))

	deferred, err := store.ListDeferred(ctx)
	require.NoError(t, err)
	require.Len(t, deferred, 1)
}

func TestReactivateMatchesPool(t *testing.T) {
	ctx := context.Background()
	engine, store, _ := newEngine(t, 5)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	// EXTENDED submission in its testing phase needs a tester, not a reviewer.
	addSubmission(t, store, "sub-ext", entities.KindExtended, base)

	addUser(t, store, "rev-1", entities.RoleReviewer, base)
	user, err := store.GetUser(ctx, "rev-1")
	require.NoError(t, err)
	require.NoError(t, engine.Reactivate(ctx, *user))

	deferred, err := store.ListDeferred(ctx)
	require.NoError(t, err)
	require.Len(t, deferred, 1)
}

func TestReassignPendingIdempotent(t *testing.T) {
	ctx := context.Background()
	engine, store, _ := newEngine(t, 5)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	addSubmission(t, store, "sub-1", entities.KindSimple, base)
	addSubmission(t, store, "sub-2", entities.KindSimple, base.Add(time.Minute))
	addSubmission(t, store, "sub-ext", entities.KindExtended, base.Add(2*time.Minute))

	addUser(t, store, "rev-1", entities.RoleReviewer, base)

	report, err := engine.ReassignPending(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, report.AssignedCount)
	require.Equal(t, 1, report.DeferredCount)

	// Nothing changed in between: the second pass assigns nothing.
	report, err = engine.ReassignPending(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, report.AssignedCount)
	require.Equal(t, 1, report.DeferredCount)
}

func TestAssignSpreadsLoad(t *testing.T) {
	ctx := context.Background()
	engine, store, _ := newEngine(t, 100)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		addUser(t, store, fmt.Sprintf("rev-%d", i), entities.RoleReviewer, base.Add(time.Duration(i)*time.Minute))
	}
	for i := 0; i < 9; i++ {
		sub := addSubmission(t, store, fmt.Sprintf("sub-%d", i), entities.KindSimple, base.Add(time.Duration(i)*time.Second))
		_, err := engine.Assign(ctx, sub)
		require.NoError(t, err)
	}

	for i := 0; i < 3; i++ {
		n, err := store.CountOpenAssignments(ctx, fmt.Sprintf("rev-%d", i))
		require.NoError(t, err)
		require.EqualValues(t, 3, n, "rev-%d", i)
	}
}
