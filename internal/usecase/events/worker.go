// Package events runs the asynchronous behavior-event pipeline: many
// concurrent producers feed a bounded queue, exactly one consumer drains
// it into the Store. Producers never block and never see persistence
// failures; under sustained overload events are dropped, not buffered
// without bound.
package events

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/shopgrid/querykit/internal/domain"
	"github.com/shopgrid/querykit/internal/metrics"
)

type workerState int

const (
	stateStopped workerState = iota
	stateRunning
	stateDraining
)

const (
	defaultQueueCapacity = 1024
	defaultDrainTimeout  = 5 * time.Second
	drainPollInterval    = 10 * time.Millisecond
)

// Worker owns the queue and the single consumer goroutine.
type Worker struct {
	store        Store
	log          *zap.Logger
	queue        chan domain.Event
	drainTimeout time.Duration

	mu     sync.Mutex
	state  workerState
	cancel context.CancelFunc
	done   chan struct{}

	processed atomic.Int64
	dropped   atomic.Int64
}

func NewWorker(store Store, log *zap.Logger, queueCapacity int, drainTimeout time.Duration) *Worker {
	if queueCapacity <= 0 {
		queueCapacity = defaultQueueCapacity
	}
	if drainTimeout <= 0 {
		drainTimeout = defaultDrainTimeout
	}
	return &Worker{
		store:        store,
		log:          log,
		queue:        make(chan domain.Event, queueCapacity),
		drainTimeout: drainTimeout,
	}
}

// Start launches the consumer. Calling Start on a running worker is a
// no-op; after Stop it may be called again and resumes consuming events
// still sitting in the queue.
func (w *Worker) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != stateStopped {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.done = make(chan struct{})
	w.state = stateRunning

	go w.consume(ctx, w.done)
	w.log.Info("event worker started", zap.Int("queue_capacity", cap(w.queue)))
}

// Stop drains the queue, bounded by the drain timeout, then cancels the
// consumer and waits for it to exit. Safe to call when already stopped.
func (w *Worker) Stop() {
	w.mu.Lock()
	if w.state != stateRunning {
		w.mu.Unlock()
		return
	}
	w.state = stateDraining
	cancel := w.cancel
	done := w.done
	w.mu.Unlock()

	deadline := time.NewTimer(w.drainTimeout)
	defer deadline.Stop()
	poll := time.NewTicker(drainPollInterval)
	defer poll.Stop()

drain:
	for len(w.queue) > 0 {
		select {
		case <-deadline.C:
			w.log.Warn("drain timeout exceeded, abandoning queued events",
				zap.Int("remaining", len(w.queue)))
			break drain
		case <-poll.C:
		}
	}

	cancel()
	<-done

	w.mu.Lock()
	w.state = stateStopped
	w.mu.Unlock()
	w.log.Info("event worker stopped", zap.Int64("processed", w.processed.Load()))
}

// Enqueue offers an event to the queue without blocking. It reports
// whether the event was accepted; a full queue drops the event.
func (w *Worker) Enqueue(event domain.Event) bool {
	select {
	case w.queue <- event:
		metrics.EventQueueDepth.Set(float64(len(w.queue)))
		return true
	default:
		w.dropped.Add(1)
		metrics.EventsDroppedTotal.Inc()
		w.log.Warn("event queue full, dropping event",
			zap.String("event_type", event.Type),
			zap.String("session_id", event.SessionID))
		return false
	}
}

// Track builds an event from its parts and enqueues it.
func (w *Worker) Track(eventType, sessionID string, payload map[string]any) bool {
	return w.Enqueue(domain.NewEvent(eventType, sessionID, payload))
}

// Processed returns how many events have been persisted since process start.
func (w *Worker) Processed() int64 { return w.processed.Load() }

// Dropped returns how many events were rejected by a full queue.
func (w *Worker) Dropped() int64 { return w.dropped.Load() }

func (w *Worker) consume(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		select {
		case event := <-w.queue:
			metrics.EventQueueDepth.Set(float64(len(w.queue)))
			// Persistence uses its own context so an in-flight write is
			// not aborted mid-drain.
			if err := w.store.Record(context.Background(), event); err != nil {
				w.log.Error("failed to persist event",
					zap.String("event_id", event.ID),
					zap.String("event_type", event.Type),
					zap.Error(err))
				continue
			}
			w.processed.Add(1)
			metrics.EventsProcessedTotal.Inc()
		case <-ctx.Done():
			return
		}
	}
}
