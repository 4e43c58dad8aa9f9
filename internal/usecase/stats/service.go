// Package stats reports operational counts: catalog size, event pipeline
// throughput and per-product behavior aggregates.
package stats

import (
	"context"
	"fmt"

	"github.com/shopgrid/querykit/internal/domain"
)

// Report is an operational snapshot.
type Report struct {
	ProductCount    int
	EventsProcessed int64
	EventsDropped   int64
}

type Service struct {
	products ProductLister
	behavior BehaviorReader
	queue    QueueCounters
}

func New(products ProductLister, behavior BehaviorReader, queue QueueCounters) *Service {
	return &Service{products: products, behavior: behavior, queue: queue}
}

// Overview returns the catalog size and event pipeline counters.
func (s *Service) Overview(ctx context.Context) (Report, error) {
	ids, err := s.products.IDs(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("count products: %w", err)
	}
	return Report{
		ProductCount:    len(ids),
		EventsProcessed: s.queue.Processed(),
		EventsDropped:   s.queue.Dropped(),
	}, nil
}

// ProductMetrics returns clicks and impressions for the given products.
func (s *Service) ProductMetrics(ctx context.Context, productIDs []string) (map[string]domain.BehaviorMetric, error) {
	if len(productIDs) == 0 {
		return map[string]domain.BehaviorMetric{}, nil
	}
	m, err := s.behavior.Metrics(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("behavior metrics: %w", err)
	}
	return m, nil
}
