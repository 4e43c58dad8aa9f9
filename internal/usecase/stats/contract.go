package stats

import (
	"context"

	"github.com/shopgrid/querykit/internal/domain"
)

// ProductLister enumerates the stored catalog.
type ProductLister interface {
	IDs(ctx context.Context) ([]string, error)
}

// BehaviorReader aggregates behavior signals per product.
type BehaviorReader interface {
	Metrics(ctx context.Context, productIDs []string) (map[string]domain.BehaviorMetric, error)
}

// QueueCounters exposes the event pipeline's lifetime counters.
type QueueCounters interface {
	Processed() int64
	Dropped() int64
}
