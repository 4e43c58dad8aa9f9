// Package product persists product records as Redis hashes under the
// product: key prefix.
package product

import (
	"context"
	"fmt"

	"github.com/shopgrid/querykit/internal/db"
	"github.com/shopgrid/querykit/internal/domain"
)

const keyPrefix = "product:"

// store is the consumer interface for product persistence (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements the product reader and writer contracts.
type Repo struct {
	store store
}

// New creates a product repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Get returns a product by id.
func (r *Repo) Get(ctx context.Context, id string) (domain.Product, error) {
	fields, err := r.store.HGetAll(ctx, productKey(id))
	if err != nil {
		return domain.Product{}, fmt.Errorf("hgetall %s: %w", id, err)
	}
	// HGETALL on a missing key returns an empty map, not an error.
	if len(fields) == 0 {
		return domain.Product{}, fmt.Errorf("product %s: %w", id, domain.ErrProductNotFound)
	}
	return parseHashFields(id, fields), nil
}

// GetMulti returns the products for the given ids in one pipelined
// round-trip. Ids with no stored record are skipped, not errors.
func (r *Repo) GetMulti(ctx context.Context, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productKey(id)
	}
	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi: %w", err)
	}
	products := make([]domain.Product, 0, len(ids))
	for i, fields := range maps {
		if len(fields) == 0 {
			continue
		}
		products = append(products, parseHashFields(ids[i], fields))
	}
	return products, nil
}

// UpsertMulti stores a batch of products in one pipelined round-trip.
func (r *Repo) UpsertMulti(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}
	items := make([]db.HashSetItem, len(products))
	for i, p := range products {
		items[i] = db.HashSetItem{Key: productKey(p.ID), Fields: buildHashFields(p)}
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("hset multi: %w", err)
	}
	return nil
}

// IDs lists all stored product ids.
func (r *Repo) IDs(ctx context.Context) ([]string, error) {
	keys, err := r.store.Scan(ctx, keyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan products: %w", err)
	}
	ids := make([]string, len(keys))
	for i, k := range keys {
		ids[i] = k[len(keyPrefix):]
	}
	return ids, nil
}

func productKey(id string) string {
	return keyPrefix + id
}
