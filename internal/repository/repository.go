// Package repository provides factory for repositories.
package repository

import (
	"context"
	"fmt"

	"github.com/niket-singh/Reviewers-Adzzat-sub000/config"
	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/repository/inmemory"
	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/repository/postgres"

	"go.uber.org/zap"
)

// Repository aggregates all persistence interfaces.
type Repository interface {
	LifecycleInterface
	UserInterface
	SubmissionInterface
	WorkloadInterface
}

// New constructs repository backend by name.
func New(ctx context.Context, name string, log *zap.SugaredLogger, cfg *config.Config) (Repository, error) {
	switch name {
	case "postgres":
		return postgres.New(ctx, log, cfg), nil
	case "inmemory":
		return inmemory.New(log), nil
	default:
		return nil, fmt.Errorf("unknown repo backend: %s", name)
	}
}
