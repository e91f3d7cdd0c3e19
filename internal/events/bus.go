package events

import (
	"context"
	"sync"

	"github.com/niket-singh/Reviewers-Adzzat-sub000/internal/entities"

	"go.uber.org/zap"
)

// Bus fans events out to in-process subscribers over buffered channels.
// A slow subscriber loses events rather than blocking the mutation path.
type Bus struct {
	log  *zap.SugaredLogger
	mu   sync.RWMutex
	subs []chan entities.Event
}

// NewBus constructs an in-process event bus.
func NewBus(log *zap.SugaredLogger) *Bus {
	return &Bus{log: log.Named("events.bus")}
}

// Subscribe registers a consumer channel with the given buffer size.
func (b *Bus) Subscribe(buffer int) <-chan entities.Event {
	ch := make(chan entities.Event, buffer)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return ch
}

// Emit implements Publisher.
func (b *Bus) Emit(_ context.Context, ev entities.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			b.log.Warnw("subscriber buffer full, event dropped",
				"submission_id", ev.SubmissionID, "to_status", ev.ToStatus)
		}
	}
}

// Fanout publishes to several publishers in order.
type Fanout []Publisher

// Emit implements Publisher.
func (f Fanout) Emit(ctx context.Context, ev entities.Event) {
	for _, p := range f {
		p.Emit(ctx, ev)
	}
}
