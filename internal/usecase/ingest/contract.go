package ingest

import (
	"context"

	"github.com/shopgrid/querykit/internal/domain"
)

// ProductStore persists and lists product records.
type ProductStore interface {
	UpsertMulti(ctx context.Context, products []domain.Product) error
	IDs(ctx context.Context) ([]string, error)
	GetMulti(ctx context.Context, ids []string) ([]domain.Product, error)
}

// BatchEmbedder vectorizes many texts in one provider call.
type BatchEmbedder interface {
	BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error)
}

// VectorWriter adds product vectors to the nearest-neighbor index.
type VectorWriter interface {
	Add(ctx context.Context, id string, vector []float32) error
}
