package search

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/shopgrid/querykit/internal/domain"
	"github.com/shopgrid/querykit/internal/domain/search/request"
	"github.com/shopgrid/querykit/internal/domain/search/result"
	"github.com/shopgrid/querykit/internal/logger"
	"github.com/shopgrid/querykit/internal/metrics"
	intentuc "github.com/shopgrid/querykit/internal/usecase/intent"
)

// defaultOversample controls how many nearest neighbors are pulled per
// requested result. Post-retrieval filtering discards candidates, so the
// index is asked for limit*oversample and results are cut back afterwards.
const defaultOversample = 10

// Service orchestrates a search request end to end: query understanding,
// vectorization, nearest-neighbor retrieval, filtering, behavioral
// reranking and explanation.
type Service struct {
	index      VectorIndex
	products   ProductReader
	embedder   Embedder
	ranker     Reranker
	explainer  Explainer
	oversample int
}

func New(index VectorIndex, products ProductReader, embedder Embedder, ranker Reranker, explainer Explainer) *Service {
	return &Service{
		index:      index,
		products:   products,
		embedder:   embedder,
		ranker:     ranker,
		explainer:  explainer,
		oversample: defaultOversample,
	}
}

// WithOversample overrides the retrieval oversampling factor. Values
// below 1 are ignored.
func (s *Service) WithOversample(n int) *Service {
	if n >= 1 {
		s.oversample = n
	}
	return s
}

func (s *Service) Search(ctx context.Context, req *request.Request) ([]result.Result, error) {
	start := time.Now()
	defer func() { metrics.SearchDuration.Observe(time.Since(start).Seconds()) }()

	extracted := intentuc.Extract(req.Query())
	merged := mergeFilters(extracted.Constraints, req.Filters())

	if merged.Conflict() {
		metrics.SearchConflictsTotal.Inc()
		logger.FromContext(ctx).Warn("conflicting price bounds, filtering disabled for this query",
			zap.String("query", req.Query()))
	}

	emb, err := s.embedder.Embed(ctx, extracted.SemanticQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	candidates, err := s.index.Search(ctx, emb.Embedding, req.Limit()*s.oversample)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	results := make([]result.Result, 0, req.Limit())
	matched := make(map[string]domain.Product, req.Limit())
	for _, cand := range candidates {
		if len(results) >= req.Limit() {
			break
		}
		product, err := s.products.Get(ctx, cand.ProductID)
		if errors.Is(err, domain.ErrProductNotFound) {
			// The index can briefly run ahead of the product store.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load product %s: %w", cand.ProductID, err)
		}
		if !passesFilters(product, merged) {
			metrics.SearchCandidatesFiltered.Inc()
			continue
		}
		results = append(results, result.New(
			product.ID, product.Title, product.Description, product.Category,
			product.Price, product.Rating, similarity(cand.Distance),
		))
		matched[product.ID] = product
	}
	if len(results) == 0 {
		return results, nil
	}

	results, err = s.ranker.Rerank(ctx, results)
	if err != nil {
		return nil, fmt.Errorf("rerank: %w", err)
	}

	for i, r := range results {
		results[i] = r.WithExplanation(s.explainer.Explain(req.Query(), matched[r.ID()], r.Score()))
	}
	return results, nil
}

// similarity maps a raw L2 distance into (0, 1], higher is closer.
func similarity(distance float64) float64 {
	return round4(1 / (1 + distance))
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
