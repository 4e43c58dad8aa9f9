// Package ingest loads product records into the product store and the
// vector index so they become searchable.
package ingest

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/shopgrid/querykit/internal/domain"
	"github.com/shopgrid/querykit/internal/logger"
)

type Service struct {
	products ProductStore
	embedder BatchEmbedder
	vectors  VectorWriter
}

func New(products ProductStore, embedder BatchEmbedder, vectors VectorWriter) *Service {
	return &Service{products: products, embedder: embedder, vectors: vectors}
}

// Ingest validates, stores and indexes a batch of products. The batch is
// embedded in a single provider call; the index text is the title joined
// with the description, which is what queries are matched against.
func (s *Service) Ingest(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}
	for i, p := range products {
		if strings.TrimSpace(p.ID) == "" {
			return fmt.Errorf("product [%d] has no id: %w", i, domain.ErrInvalidRequest)
		}
		if strings.TrimSpace(p.Title) == "" {
			return fmt.Errorf("product %s has no title: %w", p.ID, domain.ErrInvalidRequest)
		}
	}

	if err := s.products.UpsertMulti(ctx, products); err != nil {
		return fmt.Errorf("store products: %w", err)
	}

	texts := make([]string, len(products))
	for i, p := range products {
		texts[i] = indexText(p)
	}
	batch, err := s.embedder.BatchEmbed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed products: %w", err)
	}
	if len(batch.Embeddings) != len(products) {
		return fmt.Errorf("embedding count mismatch: got %d for %d products: %w",
			len(batch.Embeddings), len(products), domain.ErrEmbeddingProviderError)
	}

	for i, p := range products {
		if err := s.vectors.Add(ctx, p.ID, batch.Embeddings[i]); err != nil {
			return fmt.Errorf("index product %s: %w", p.ID, err)
		}
	}

	logger.FromContext(ctx).Info("products ingested",
		zap.Int("count", len(products)),
		zap.Int("prompt_tokens", batch.PromptTokens))
	return nil
}

// List returns the whole stored catalog.
func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	ids, err := s.products.IDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list product ids: %w", err)
	}
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}
	products, err := s.products.GetMulti(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	return products, nil
}

func indexText(p domain.Product) string {
	if strings.TrimSpace(p.Description) == "" {
		return p.Title
	}
	return p.Title + ". " + p.Description
}
