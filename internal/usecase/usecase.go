package usecase

import (
	"context"
	"time"

	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/events"
	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/repository"
	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/usecase/domain"

	"go.uber.org/zap"
)

// InterfaceUsecase aggregates all usecase interfaces.
type InterfaceUsecase interface {
	UserUsecaseInterface
	SubmissionUsecaseInterface
	TransitionUsecaseInterface
	MaintenanceUsecaseInterface
}

// New constructs a new usecase layer with its dependencies.
func New(
	log *zap.SugaredLogger,
	ctx context.Context,
	repo repository.Repository,
	engine domain.AssignmentEngine,
	pub events.Publisher,
	timeout time.Duration,
) InterfaceUsecase {
	return domain.New(log, ctx, repo, engine, pub, timeout)
}
