package search

import (
	"context"

	"github.com/shopgrid/querykit/internal/domain"
	"github.com/shopgrid/querykit/internal/domain/search/result"
)

// VectorIndex is the nearest-neighbor retrieval contract. Candidates come
// back ordered by ascending distance; an empty index yields an empty
// slice, not an error.
type VectorIndex interface {
	Search(ctx context.Context, vector []float32, k int) ([]domain.Candidate, error)
}

// ProductReader fetches product records by id.
type ProductReader interface {
	Get(ctx context.Context, id string) (domain.Product, error)
}

// Embedder vectorizes the semantic query.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Reranker re-orders results using behavioral signals.
type Reranker interface {
	Rerank(ctx context.Context, results []result.Result) ([]result.Result, error)
}

// Explainer derives a short grounded rationale for one result. It is
// total: it returns a generic fallback rather than failing.
type Explainer interface {
	Explain(query string, product domain.Product, score float64) string
}
