// Package vector maintains the product nearest-neighbor index: one hash
// per product under the vec: prefix, searched with FT.SEARCH KNN. The
// index is append-only; replacing a vector is an upsert of its hash.
package vector

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/shopgrid/querykit/internal/db"
	"github.com/shopgrid/querykit/internal/domain"
)

const (
	indexName    = "idx:product_vectors"
	keyPrefix    = "vec:"
	fieldVector  = "vector"
	fieldProduct = "product_id"
	scoreField   = "__vector_score"
)

// store is the consumer interface for the vector index (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// HNSW build defaults.
const (
	defaultHNSWM           = 16
	defaultHNSWEFConstruct = 200
)

// Repo implements the search and ingest vector contracts.
type Repo struct {
	store       store
	dim         int
	m           int
	efConstruct int
}

// New creates a vector repository for embeddings of the given dimension.
func New(s store, dim int) *Repo {
	return &Repo{store: s, dim: dim, m: defaultHNSWM, efConstruct: defaultHNSWEFConstruct}
}

// WithHNSW overrides the HNSW build parameters. Non-positive values are
// ignored.
func (r *Repo) WithHNSW(m, efConstruct int) *Repo {
	if m > 0 {
		r.m = m
	}
	if efConstruct > 0 {
		r.efConstruct = efConstruct
	}
	return r
}

// EnsureIndex creates the KNN index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, indexName)
	if err != nil {
		return fmt.Errorf("probe index: %w", err)
	}
	if exists {
		return nil
	}

	def := db.NewIndex(indexName).
		Prefix(keyPrefix).
		Tag(fieldProduct).
		VectorHNSW(fieldVector, r.dim, db.DistanceL2, r.m, r.efConstruct).
		MustBuild()

	if err := r.store.CreateIndex(ctx, def); err != nil {
		// Concurrent startup can race the existence probe.
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// Add stores a product vector, replacing any previous one for the id.
func (r *Repo) Add(ctx context.Context, id string, vec []float32) error {
	if len(vec) != r.dim {
		return fmt.Errorf("vector for %s has dim %d, index expects %d: %w",
			id, len(vec), r.dim, domain.ErrVectorDimMismatch)
	}
	fields := map[string]string{
		fieldProduct: id,
		fieldVector:  vectorToBytes(vec),
	}
	if err := r.store.HSet(ctx, vectorKey(id), fields); err != nil {
		return fmt.Errorf("store vector %s: %w", id, err)
	}
	return nil
}

// Search returns up to k candidates ordered by ascending L2 distance.
func (r *Repo) Search(ctx context.Context, vec []float32, k int) ([]domain.Candidate, error) {
	if len(vec) != r.dim {
		return nil, fmt.Errorf("query vector has dim %d, index expects %d: %w",
			len(vec), r.dim, domain.ErrVectorDimMismatch)
	}

	res, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    indexName,
		Vector:       vec,
		K:            k,
		ReturnFields: []string{fieldProduct, scoreField},
		RawScores:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("knn search: %w", err)
	}

	candidates := make([]domain.Candidate, 0, len(res.Entries))
	for _, entry := range res.Entries {
		id := entry.Fields[fieldProduct]
		if id == "" {
			id = entry.Key[len(keyPrefix):]
		}
		candidates = append(candidates, domain.Candidate{
			ProductID: id,
			Distance:  entry.Score,
		})
	}
	return candidates, nil
}

func vectorKey(id string) string {
	return keyPrefix + id
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
