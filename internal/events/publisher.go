// Package events delivers state-change events to downstream consumers.
// Emission is best-effort and at-least-once; a failed emit never rolls
// back the mutation that produced it.
package events

import (
	"context"

	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/entities"

	"go.uber.org/zap"
)

// Publisher delivers transition and assignment events.
type Publisher interface {
	Emit(ctx context.Context, ev entities.Event)
}

// LogPublisher writes events to the structured log. It stands in for any
// real transport (websocket push, audit sink) layered on top.
type LogPublisher struct {
	log *zap.SugaredLogger
}

// NewLogPublisher constructs a log-backed publisher.
func NewLogPublisher(log *zap.SugaredLogger) *LogPublisher {
	return &LogPublisher{log: log.Named("events")}
}

// Emit implements Publisher.
func (p *LogPublisher) Emit(_ context.Context, ev entities.Event) {
	p.log.Infow("state change",
		"submission_id", ev.SubmissionID,
		"from_status", ev.FromStatus,
		"to_status", ev.ToStatus,
		"assignee_id", ev.AssigneeID,
		"at", ev.At,
	)
}
