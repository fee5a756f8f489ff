package events

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/workstation-backend/internal/domain/aggregates"
	"github.com/yungbote/workstation-backend/internal/domain/contracts"
	"github.com/yungbote/workstation-backend/internal/observability"
	"github.com/yungbote/workstation-backend/internal/platform/logger"
)

// Sink is one delivery target behind the Fanout publisher.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, e contracts.Event) error
}

// Fanout hands events to a background dispatcher and returns immediately.
// The dispatcher delivers one event at a time, to all sinks concurrently, so
// every sink sees events in publish order. Sink failures are logged and
// counted, never returned: a committed command must not fail because an
// observer did.
type Fanout struct {
	log     *logger.Logger
	metrics *observability.Metrics
	sinks   []Sink
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan queued
	done   chan struct{}
}

type queued struct {
	ctx   context.Context
	event contracts.Event
}

const defaultQueueSize = 256

var _ contracts.Publisher = (*Fanout)(nil)

func NewFanout(log *logger.Logger, metrics *observability.Metrics, timeout time.Duration, sinks ...Sink) *Fanout {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	f := &Fanout{
		log:     log.With("service", "EventFanout"),
		metrics: metrics,
		sinks:   sinks,
		timeout: timeout,
		queue:   make(chan queued, defaultQueueSize),
		done:    make(chan struct{}),
	}
	go f.dispatch()
	return f
}

// Publish enqueues e. When the queue stays full for the delivery timeout the
// event is dropped and counted.
func (f *Fanout) Publish(ctx context.Context, e contracts.Event) {
	if e == nil || len(f.sinks) == 0 {
		return
	}
	// The request may already be finishing; only its values travel along.
	item := queued{ctx: context.WithoutCancel(ctx), event: e}

	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		f.drop(e, "publisher closed")
		return
	}
	select {
	case f.queue <- item:
		return
	default:
	}
	timer := time.NewTimer(f.timeout)
	defer timer.Stop()
	select {
	case f.queue <- item:
	case <-timer.C:
		f.drop(e, "queue full")
	}
}

// Close stops accepting events and waits for queued ones to be delivered or
// for ctx to end.
func (f *Fanout) Close(ctx context.Context) error {
	f.mu.Lock()
	if !f.closed {
		f.closed = true
		close(f.queue)
	}
	f.mu.Unlock()

	select {
	case <-f.done:
		return nil
	case <-ctx.Done():
		return internalErr("Fanout.Close", ctx.Err())
	}
}

func (f *Fanout) dispatch() {
	defer close(f.done)
	for item := range f.queue {
		f.deliver(item.ctx, item.event)
	}
}

func (f *Fanout) deliver(parent context.Context, e contracts.Event) {
	ctx, cancel := context.WithTimeout(parent, f.timeout)
	defer cancel()

	kind := string(e.Kind())
	var g errgroup.Group
	for _, s := range f.sinks {
		g.Go(func() error {
			err := s.Deliver(ctx, e)
			if err != nil {
				f.metrics.ObserveEventDelivery(s.Name(), kind, "failed")
				f.log.Warn("event delivery failed",
					"sink", s.Name(),
					"kind", kind,
					"contract_id", e.Subject().String(),
					"error", err,
				)
				return nil
			}
			f.metrics.ObserveEventDelivery(s.Name(), kind, "delivered")
			return nil
		})
	}
	_ = g.Wait()
}

func (f *Fanout) drop(e contracts.Event, reason string) {
	kind := string(e.Kind())
	for _, s := range f.sinks {
		f.metrics.ObserveEventDelivery(s.Name(), kind, "dropped")
	}
	f.log.Warn("event dropped",
		"kind", kind,
		"contract_id", e.Subject().String(),
		"reason", reason,
	)
}

// Discard is the Publisher used when no sink is configured.
type Discard struct{}

func (Discard) Publish(context.Context, contracts.Event) {}

func internalErr(op string, err error) error {
	return aggregates.Wrap(aggregates.CodeInternal, op, err)
}
