package search

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopgrid/querykit/internal/domain"
	"github.com/shopgrid/querykit/internal/domain/search/filter"
	"github.com/shopgrid/querykit/internal/domain/search/request"
	"github.com/shopgrid/querykit/internal/domain/search/result"
)

type mockIndex struct {
	candidates []domain.Candidate
	err        error
	gotK       int
}

func (m *mockIndex) Search(_ context.Context, _ []float32, k int) ([]domain.Candidate, error) {
	m.gotK = k
	if m.err != nil {
		return nil, m.err
	}
	if len(m.candidates) > k {
		return m.candidates[:k], nil
	}
	return m.candidates, nil
}

type mockProducts struct {
	byID map[string]domain.Product
}

func (m *mockProducts) Get(_ context.Context, id string) (domain.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return domain.Product{}, fmt.Errorf("product %s: %w", id, domain.ErrProductNotFound)
	}
	return p, nil
}

type mockEmbedder struct {
	gotText string
	err     error
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.gotText = text
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}}, nil
}

type passthroughRanker struct{ called bool }

func (r *passthroughRanker) Rerank(_ context.Context, results []result.Result) ([]result.Result, error) {
	r.called = true
	return results, nil
}

type staticExplainer struct{}

func (staticExplainer) Explain(_ string, p domain.Product, _ float64) string {
	return "because " + p.ID
}

func catalog(n int) *mockProducts {
	byID := make(map[string]domain.Product, n)
	for i := 0; i < n; i++ {
		price := float64(1000 + i*500)
		rating := 4.0
		id := fmt.Sprintf("p%d", i)
		byID[id] = domain.Product{
			ID:       id,
			Title:    fmt.Sprintf("Product %d", i),
			Category: "shoes",
			Brand:    "Nike",
			Price:    &price,
			Rating:   &rating,
		}
	}
	return &mockProducts{byID: byID}
}

func candidates(n int) []domain.Candidate {
	out := make([]domain.Candidate, n)
	for i := range out {
		out[i] = domain.Candidate{ProductID: fmt.Sprintf("p%d", i), Distance: float64(i) * 0.1}
	}
	return out
}

func newRequest(t *testing.T, query string, filters *filter.CallerFilters, limit int) *request.Request {
	t.Helper()
	req, err := request.New(query, filters, limit)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return &req
}

func TestSearch_OversamplesAndCutsToLimit(t *testing.T) {
	idx := &mockIndex{candidates: candidates(30)}
	svc := New(idx, catalog(30), &mockEmbedder{}, &passthroughRanker{}, staticExplainer{})

	results, err := svc.Search(context.Background(), newRequest(t, "running shoes", nil, 3))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if idx.gotK != 30 {
		t.Errorf("expected index asked for 30 neighbors, got %d", idx.gotK)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
}

func TestSearch_EmbedsCleanedQuery(t *testing.T) {
	emb := &mockEmbedder{}
	svc := New(&mockIndex{}, catalog(0), emb, &passthroughRanker{}, staticExplainer{})

	if _, err := svc.Search(context.Background(), newRequest(t, "Nike shoes under 3000", nil, 5)); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if emb.gotText != "Nike shoes" {
		t.Errorf("embedded text = %q, want %q", emb.gotText, "Nike shoes")
	}
}

func TestSearch_FiltersExcludeCandidates(t *testing.T) {
	// Prices run 1000, 1500, 2000, ... so "under 1600" keeps two of five.
	svc := New(&mockIndex{candidates: candidates(5)}, catalog(5),
		&mockEmbedder{}, &passthroughRanker{}, staticExplainer{})

	results, err := svc.Search(context.Background(), newRequest(t, "shoes under 1600", nil, 10))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if *r.Price() > 1600 {
			t.Errorf("result %s violates price bound: %v", r.ID(), *r.Price())
		}
	}
}

func TestSearch_SkipsMissingProducts(t *testing.T) {
	cands := candidates(3)
	products := catalog(3)
	delete(products.byID, "p1")
	svc := New(&mockIndex{candidates: cands}, products,
		&mockEmbedder{}, &passthroughRanker{}, staticExplainer{})

	results, err := svc.Search(context.Background(), newRequest(t, "shoes", nil, 10))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected missing product to be skipped, got %d results", len(results))
	}
}

func TestSearch_SimilarityFromDistance(t *testing.T) {
	cands := []domain.Candidate{{ProductID: "p0", Distance: 0.5}}
	svc := New(&mockIndex{candidates: cands}, catalog(1),
		&mockEmbedder{}, &passthroughRanker{}, staticExplainer{})

	results, err := svc.Search(context.Background(), newRequest(t, "shoes", nil, 1))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got := results[0].Score(); got != 0.6667 {
		t.Errorf("score = %v, want 0.6667", got)
	}
}

func TestSearch_ExplanationsAttachedAfterRerank(t *testing.T) {
	ranker := &passthroughRanker{}
	svc := New(&mockIndex{candidates: candidates(2)}, catalog(2),
		&mockEmbedder{}, ranker, staticExplainer{})

	results, err := svc.Search(context.Background(), newRequest(t, "shoes", nil, 2))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !ranker.called {
		t.Fatal("reranker was not invoked")
	}
	for _, r := range results {
		if r.Explanation() != "because "+r.ID() {
			t.Errorf("explanation %q not attached for %s", r.Explanation(), r.ID())
		}
	}
}

func TestSearch_EmptyIndexReturnsEmptySlice(t *testing.T) {
	ranker := &passthroughRanker{}
	svc := New(&mockIndex{}, catalog(0), &mockEmbedder{}, ranker, staticExplainer{})

	results, err := svc.Search(context.Background(), newRequest(t, "anything", nil, 5))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", results)
	}
	if ranker.called {
		t.Error("reranker must not run with zero survivors")
	}
}

func TestSearch_EmbedderFailurePropagates(t *testing.T) {
	wantErr := errors.New("provider down")
	svc := New(&mockIndex{}, catalog(0), &mockEmbedder{err: wantErr},
		&passthroughRanker{}, staticExplainer{})

	_, err := svc.Search(context.Background(), newRequest(t, "shoes", nil, 5))
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected embedder error, got %v", err)
	}
}

func TestSearch_ConflictReturnsUnfilteredResults(t *testing.T) {
	svc := New(&mockIndex{candidates: candidates(5)}, catalog(5),
		&mockEmbedder{}, &passthroughRanker{}, staticExplainer{})

	results, err := svc.Search(context.Background(),
		newRequest(t, "shoes over 5000 under 100", nil, 10))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("conflict must fail open, got %d results", len(results))
	}
}
