package domain

import (
	"context"
	"time"

	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/entities"
	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/events"
	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/repository"

	"go.uber.org/zap"
)

// AssignmentEngine is the assignment behavior the usecase orchestrates.
type AssignmentEngine interface {
	Assign(ctx context.Context, sub entities.Submission) (entities.AssignmentResult, error)
	Reactivate(ctx context.Context, user entities.User) error
	ReassignPending(ctx context.Context) (entities.ReassignReport, error)
}

// Usecase struct implements all usecase interfaces.
type Usecase struct {
	ctx     context.Context
	log     *zap.SugaredLogger
	repo    repository.Repository
	engine  AssignmentEngine
	pub     events.Publisher
	timeout time.Duration
}

// New constructs a new usecase layer with its dependencies.
func New(
	log *zap.SugaredLogger,
	ctx context.Context,
	repo repository.Repository,
	engine AssignmentEngine,
	pub events.Publisher,
	timeout time.Duration,
) *Usecase {
	return &Usecase{
		ctx:     ctx,
		log:     log,
		repo:    repo,
		engine:  engine,
		pub:     pub,
		timeout: timeout,
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
