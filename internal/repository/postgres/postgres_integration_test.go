package postgres

import (
	"context"
	"database/sql"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/niket-singh/Reviewers-Adzzat-sub000/config"
	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/entities"

	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRepositoryIntegration(t *testing.T) {
	ctx := context.Background()

	cfg, cleanup := setupPostgres(t)
	t.Cleanup(cleanup)

	repo := New(ctx, testLogger(t), cfg)
	require.NoError(t, repo.OnStart(ctx))
	t.Cleanup(func() { _ = repo.OnStop(ctx) })

	for _, u := range []entities.User{
		{ID: "rev-1", Username: "Alice", Role: entities.RoleReviewer, IsApproved: true, IsGreenLight: true},
		{ID: "rev-2", Username: "Bob", Role: entities.RoleReviewer, IsApproved: true, IsGreenLight: true},
		{ID: "tester-1", Username: "Charlie", Role: entities.RoleTester, IsApproved: true, IsGreenLight: true},
		{ID: "contrib-1", Username: "Dana", Role: entities.RoleContributor},
	} {
		_, err := repo.CreateUser(ctx, u)
		require.NoError(t, err)
	}

	_, err := repo.CreateUser(ctx, entities.User{ID: "rev-1", Username: "Dup", Role: entities.RoleReviewer})
	require.ErrorIs(t, err, entities.ErrUserExists)

	sub, err := repo.CreateSubmission(ctx, entities.Submission{
		ID:            "sub-1",
		ContributorID: "contrib-1",
		Kind:          entities.KindExtended,
		Status:        entities.StatusTaskSubmitted,
		FileURL:       "https://files/v1",
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, sub.Version)
	require.Nil(t, sub.AssigneeID)

	deferred, err := repo.ListDeferred(ctx)
	require.NoError(t, err)
	require.Len(t, deferred, 1)

	testerID := "tester-1"
	sub, err = repo.SetAssignee(ctx, sub.ID, sub.Version, &testerID)
	require.NoError(t, err)
	require.Equal(t, testerID, *sub.AssigneeID)
	require.EqualValues(t, 2, sub.Version)

	deferred, err = repo.ListDeferred(ctx)
	require.NoError(t, err)
	require.Empty(t, deferred)

	queue, err := repo.ListAssignedTo(ctx, testerID)
	require.NoError(t, err)
	require.Len(t, queue, 1)

	n, err := repo.CountOpenAssignments(ctx, testerID)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	sub, err = repo.ApplyTransition(ctx, sub.ID, sub.Version, entities.TransitionWrite{
		To:               entities.StatusSubmittedToPlatform,
		SubmittedAccount: "acc-7",
		TaskLink:         "https://tasks/7",
	})
	require.NoError(t, err)
	require.Equal(t, entities.StatusSubmittedToPlatform, sub.Status)
	require.Equal(t, "acc-7", sub.SubmittedAccount)
	require.Equal(t, "https://tasks/7", sub.TaskLink)

	sub, err = repo.ApplyTransition(ctx, sub.ID, sub.Version, entities.TransitionWrite{
		To:            entities.StatusEligibleForManualReview,
		ClearAssignee: true,
		Feedback: &entities.Feedback{
			SubmissionID: sub.ID,
			AuthorID:     testerID,
			AuthorRole:   entities.RoleTester,
			Kind:         entities.FeedbackTester,
			Body:         "all checks green",
		},
	})
	require.NoError(t, err)
	require.Nil(t, sub.AssigneeID)

	feedback, err := repo.ListFeedback(ctx, sub.ID)
	require.NoError(t, err)
	require.Len(t, feedback, 1)
	require.Equal(t, "all checks green", feedback[0].Body)

	history, err := repo.ListAssignmentHistory(ctx, sub.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Nil(t, history[0].OldAssigneeID)
	require.Equal(t, testerID, *history[0].NewAssigneeID)
	require.Equal(t, testerID, *history[1].OldAssigneeID)
	require.Nil(t, history[1].NewAssigneeID)

	candidates, err := repo.ListCandidates(ctx, entities.RoleReviewer)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	for _, c := range candidates {
		require.Zero(t, c.Workload)
	}

	stats, err := repo.WorkloadStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 3)
}

func TestCASConflictIntegration(t *testing.T) {
	ctx := context.Background()

	cfg, cleanup := setupPostgres(t)
	t.Cleanup(cleanup)

	repo := New(ctx, testLogger(t), cfg)
	require.NoError(t, repo.OnStart(ctx))
	t.Cleanup(func() { _ = repo.OnStop(ctx) })

	_, err := repo.CreateUser(ctx, entities.User{ID: "contrib-1", Username: "Dana", Role: entities.RoleContributor})
	require.NoError(t, err)

	sub, err := repo.CreateSubmission(ctx, entities.Submission{
		ID:            "sub-race",
		ContributorID: "contrib-1",
		Kind:          entities.KindSimple,
		Status:        entities.StatusPending,
	})
	require.NoError(t, err)

	stale := sub.Version
	_, err = repo.ApplyTransition(ctx, sub.ID, stale, entities.TransitionWrite{To: entities.StatusClaimed})
	require.NoError(t, err)

	// The second writer carries the stale version and loses.
	_, err = repo.ApplyTransition(ctx, sub.ID, stale, entities.TransitionWrite{To: entities.StatusClaimed})
	require.ErrorIs(t, err, entities.ErrConcurrentModification)

	assignee := "rev-x"
	_, err = repo.SetAssignee(ctx, sub.ID, stale, &assignee)
	require.ErrorIs(t, err, entities.ErrConcurrentModification)

	_, err = repo.ApplyTransition(ctx, "missing", 1, entities.TransitionWrite{To: entities.StatusClaimed})
	require.ErrorIs(t, err, entities.ErrSubmissionNotFound)
}

func TestApprovalRevocationIntegration(t *testing.T) {
	ctx := context.Background()

	cfg, cleanup := setupPostgres(t)
	t.Cleanup(cleanup)

	repo := New(ctx, testLogger(t), cfg)
	require.NoError(t, repo.OnStart(ctx))
	t.Cleanup(func() { _ = repo.OnStop(ctx) })

	_, err := repo.CreateUser(ctx, entities.User{
		ID: "rev-1", Username: "Alice", Role: entities.RoleReviewer, IsApproved: true, IsGreenLight: true,
	})
	require.NoError(t, err)

	revID := "rev-1"
	for _, id := range []string{"sub-1", "sub-2"} {
		sub, err := repo.CreateSubmission(ctx, entities.Submission{
			ID:            id,
			ContributorID: "contrib-1",
			Kind:          entities.KindSimple,
			Status:        entities.StatusClaimed,
		})
		require.NoError(t, err)
		_, err = repo.SetAssignee(ctx, sub.ID, sub.Version, &revID)
		require.NoError(t, err)
	}

	// A terminal submission keeps its assignee on record.
	done, err := repo.CreateSubmission(ctx, entities.Submission{
		ID:            "sub-done",
		ContributorID: "contrib-1",
		Kind:          entities.KindSimple,
		Status:        entities.StatusClaimed,
	})
	require.NoError(t, err)
	done, err = repo.SetAssignee(ctx, done.ID, done.Version, &revID)
	require.NoError(t, err)
	_, err = repo.ApplyTransition(ctx, done.ID, done.Version, entities.TransitionWrite{To: entities.StatusApproved})
	require.NoError(t, err)

	user, released, err := repo.SetUserApproved(ctx, revID, false)
	require.NoError(t, err)
	require.False(t, user.IsApproved)
	require.Equal(t, 2, released)

	deferred, err := repo.ListDeferred(ctx)
	require.NoError(t, err)
	require.Len(t, deferred, 2)

	got, err := repo.GetSubmission(ctx, done.ID)
	require.NoError(t, err)
	require.Equal(t, revID, *got.AssigneeID)

	candidates, err := repo.ListCandidates(ctx, entities.RoleReviewer)
	require.NoError(t, err)
	require.Empty(t, candidates)
}

func setupPostgres(t *testing.T) (*config.Config, func()) {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err)

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_PASSWORD=postgres",
			"POSTGRES_USER=postgres",
			"POSTGRES_DB=submission_workflow_db",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
	})
	require.NoError(t, err)

	hostPort := resource.GetPort("5432/tcp")

	port, err := strconv.Atoi(hostPort)
	require.NoError(t, err)
	migrationsDir, err := filepath.Abs(filepath.Join("..", "..", "..", "db", "migrations"))
	require.NoError(t, err)
	require.DirExists(t, migrationsDir)

	cfg := &config.Config{
		Server: config.ServerConfig{Host: "0.0.0.0", Port: 8080, ShutdownTimeout: 5 * time.Second},
		HTTP:   config.HTTPConfig{RequestTimeout: 5 * time.Second},
		Postgres: config.PostgresConfig{
			Host:           "localhost",
			Port:           port,
			User:           "postgres",
			Password:       "postgres",
			DBName:         "submission_workflow_db",
			SSLMode:        "disable",
			MigrationsDir:  migrationsDir,
			QueryTimeout:   10 * time.Second,
			MigrateTimeout: 20 * time.Second,
			MaxConns:       4,
			MinConns:       1,
		},
	}

	require.NoError(t, pool.Retry(func() error {
		db, err := sql.Open("postgres", "host=localhost port="+hostPort+" user=postgres password=postgres dbname=submission_workflow_db sslmode=disable")
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		return db.Ping()
	}))

	cleanup := func() {
		_ = pool.Purge(resource)
	}

	return cfg, cleanup
}

func testLogger(t *testing.T) *zap.SugaredLogger {
	t.Helper()

	l, _ := zap.NewDevelopment()
	t.Cleanup(func() { _ = l.Sync() })
	return l.Sugar()
}
