package ranking

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/shopgrid/querykit/internal/domain/search/result"
)

const (
	// defaultAlphaClick is the score boost contributed by a single click.
	defaultAlphaClick = 0.05
	// defaultMaxBoost caps the total behavioral boost so popularity can
	// never drown out semantic relevance.
	defaultMaxBoost = 0.5
	// defaultMaxBatch bounds how many ids go into one click lookup.
	defaultMaxBatch = 500
)

// Service reweights search results with aggregated click behavior and
// re-sorts them by the adjusted score.
type Service struct {
	behavior BehaviorReader
	alpha    float64
	maxBoost float64
	maxBatch int
}

func New(behavior BehaviorReader) *Service {
	return &Service{
		behavior: behavior,
		alpha:    defaultAlphaClick,
		maxBoost: defaultMaxBoost,
		maxBatch: defaultMaxBatch,
	}
}

// WithBoost overrides the per-click increment and the boost cap.
// Non-positive values are ignored.
func (s *Service) WithBoost(alpha, max float64) *Service {
	if alpha > 0 {
		s.alpha = alpha
	}
	if max > 0 {
		s.maxBoost = max
	}
	return s
}

// WithBatchSize overrides how many ids a single click lookup may carry.
// Values below 1 are ignored.
func (s *Service) WithBatchSize(n int) *Service {
	if n >= 1 {
		s.maxBatch = n
	}
	return s
}

func (s *Service) Rerank(ctx context.Context, results []result.Result) ([]result.Result, error) {
	if len(results) == 0 {
		return results, nil
	}

	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.ID()
	}
	clicks, err := s.aggregateClicks(ctx, ids)
	if err != nil {
		return nil, err
	}

	reranked := make([]result.Result, len(results))
	for i, r := range results {
		reranked[i] = r.WithScore(round4(r.Score() + s.boost(clicks[r.ID()])))
	}

	// Stable: ties keep the semantic ordering produced upstream.
	sort.SliceStable(reranked, func(i, j int) bool {
		return reranked[i].Score() > reranked[j].Score()
	})
	return reranked, nil
}

// aggregateClicks batches the behavior lookup so oversized result sets
// stay within the store's IN-clause budget.
func (s *Service) aggregateClicks(ctx context.Context, ids []string) (map[string]int, error) {
	clicks := make(map[string]int, len(ids))
	for start := 0; start < len(ids); start += s.maxBatch {
		end := start + s.maxBatch
		if end > len(ids) {
			end = len(ids)
		}
		part, err := s.behavior.AggregateClicks(ctx, ids[start:end])
		if err != nil {
			return nil, fmt.Errorf("aggregate clicks: %w", err)
		}
		for id, n := range part {
			clicks[id] = n
		}
	}
	return clicks, nil
}

func (s *Service) boost(clicks int) float64 {
	return math.Min(s.maxBoost, float64(clicks)*s.alpha)
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
