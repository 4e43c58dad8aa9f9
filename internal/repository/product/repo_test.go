package product

import (
	"context"
	"errors"
	"testing"

	"github.com/shopgrid/querykit/internal/db"
	"github.com/shopgrid/querykit/internal/domain"
)

type mockStore struct {
	hashes map[string]map[string]string
	err    error
}

func newMockStore() *mockStore {
	return &mockStore{hashes: make(map[string]map[string]string)}
}

func (m *mockStore) HSetMulti(_ context.Context, items []db.HashSetItem) error {
	if m.err != nil {
		return m.err
	}
	for _, item := range items {
		m.hashes[item.Key] = item.Fields
	}
	return nil
}

func (m *mockStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	fields, ok := m.hashes[key]
	if !ok {
		return map[string]string{}, nil
	}
	return fields, nil
}

func (m *mockStore) HGetAllMulti(_ context.Context, keys []string) ([]map[string]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]map[string]string, len(keys))
	for i, key := range keys {
		fields, ok := m.hashes[key]
		if !ok {
			fields = map[string]string{}
		}
		out[i] = fields
	}
	return out, nil
}

func (m *mockStore) Scan(_ context.Context, _ string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	keys := make([]string, 0, len(m.hashes))
	for k := range m.hashes {
		keys = append(keys, k)
	}
	return keys, nil
}

func sample() domain.Product {
	price := 2999.5
	rating := 4.3
	return domain.Product{
		ID:          "p1",
		Title:       "Runner Pro",
		Description: "Lightweight running shoe",
		Category:    "shoes",
		Brand:       "Nike",
		Attributes:  map[string]string{"color": "red", "size": "M"},
		Price:       &price,
		Rating:      &rating,
	}
}

func TestRepo_UpsertGetRoundTrip(t *testing.T) {
	repo := New(newMockStore())
	want := sample()

	if err := repo.UpsertMulti(context.Background(), []domain.Product{want}); err != nil {
		t.Fatalf("UpsertMulti: %v", err)
	}
	got, err := repo.Get(context.Background(), "p1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if got.Title != want.Title || got.Category != want.Category || got.Brand != want.Brand {
		t.Errorf("fields lost in round trip: %+v", got)
	}
	if got.Price == nil || *got.Price != *want.Price {
		t.Errorf("price = %v, want %v", got.Price, *want.Price)
	}
	if got.Rating == nil || *got.Rating != *want.Rating {
		t.Errorf("rating = %v, want %v", got.Rating, *want.Rating)
	}
	if got.Attributes["color"] != "red" || got.Attributes["size"] != "M" {
		t.Errorf("attributes = %v", got.Attributes)
	}
}

func TestRepo_OptionalFieldsStayNil(t *testing.T) {
	repo := New(newMockStore())

	if err := repo.UpsertMulti(context.Background(), []domain.Product{{ID: "p2", Title: "Mystery"}}); err != nil {
		t.Fatalf("UpsertMulti: %v", err)
	}
	got, err := repo.Get(context.Background(), "p2")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Price != nil || got.Rating != nil {
		t.Errorf("absent numeric fields must stay nil, got price=%v rating=%v", got.Price, got.Rating)
	}
	if got.Attributes != nil {
		t.Errorf("absent attributes must stay nil, got %v", got.Attributes)
	}
}

func TestRepo_GetMissing(t *testing.T) {
	repo := New(newMockStore())

	_, err := repo.Get(context.Background(), "nope")
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRepo_UpsertMultiAndIDs(t *testing.T) {
	repo := New(newMockStore())
	batch := []domain.Product{
		{ID: "p1", Title: "A"},
		{ID: "p2", Title: "B"},
	}

	if err := repo.UpsertMulti(context.Background(), batch); err != nil {
		t.Fatalf("UpsertMulti: %v", err)
	}
	ids, err := repo.IDs(context.Background())
	if err != nil {
		t.Fatalf("IDs: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("ids = %v, want 2 entries", ids)
	}
	for _, id := range ids {
		if id != "p1" && id != "p2" {
			t.Errorf("unexpected id %q", id)
		}
	}
}

func TestRepo_GetMulti(t *testing.T) {
	repo := New(newMockStore())
	batch := []domain.Product{
		{ID: "p1", Title: "A"},
		{ID: "p2", Title: "B"},
	}
	if err := repo.UpsertMulti(context.Background(), batch); err != nil {
		t.Fatalf("UpsertMulti: %v", err)
	}

	// Missing ids are skipped, not errors.
	got, err := repo.GetMulti(context.Background(), []string{"p1", "ghost", "p2"})
	if err != nil {
		t.Fatalf("GetMulti: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d products, want 2", len(got))
	}
	if got[0].ID != "p1" || got[1].ID != "p2" {
		t.Errorf("products = %v", got)
	}
}

func TestRepo_GetMultiEmptyInput(t *testing.T) {
	repo := New(newMockStore())

	got, err := repo.GetMulti(context.Background(), nil)
	if err != nil {
		t.Fatalf("GetMulti: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d products, want 0", len(got))
	}
}

func TestRepo_StoreErrorsWrapped(t *testing.T) {
	storeErr := errors.New("connection reset")
	repo := New(&mockStore{err: storeErr})

	if _, err := repo.Get(context.Background(), "p1"); !errors.Is(err, storeErr) {
		t.Errorf("Get must wrap store error, got %v", err)
	}
	if err := repo.UpsertMulti(context.Background(), []domain.Product{sample()}); !errors.Is(err, storeErr) {
		t.Errorf("UpsertMulti must wrap store error, got %v", err)
	}
}
