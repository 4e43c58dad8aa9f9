package behavior

import (
	"context"
	"testing"

	"github.com/shopgrid/querykit/internal/domain"
)

func openTestRepo(t *testing.T) *Repo {
	t.Helper()
	repo, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func click(productID string) domain.Event {
	return domain.NewEvent(domain.EventTypeClick, "s1", map[string]any{"product_id": productID})
}

func TestRecordAndAggregateClicks(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := repo.Record(ctx, click("p1")); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if err := repo.Record(ctx, click("p2")); err != nil {
		t.Fatalf("Record: %v", err)
	}

	clicks, err := repo.AggregateClicks(ctx, []string{"p1", "p2", "p3"})
	if err != nil {
		t.Fatalf("AggregateClicks: %v", err)
	}
	if clicks["p1"] != 3 {
		t.Errorf("p1 clicks = %d, want 3", clicks["p1"])
	}
	if clicks["p2"] != 1 {
		t.Errorf("p2 clicks = %d, want 1", clicks["p2"])
	}
	if _, ok := clicks["p3"]; ok {
		t.Error("unclicked product must be absent from the result")
	}
}

func TestAggregateClicks_IgnoresOtherEventTypes(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	if err := repo.Record(ctx, domain.NewEvent(domain.EventTypeImpression, "s1",
		map[string]any{"product_id": "p1"})); err != nil {
		t.Fatalf("Record: %v", err)
	}

	clicks, err := repo.AggregateClicks(ctx, []string{"p1"})
	if err != nil {
		t.Fatalf("AggregateClicks: %v", err)
	}
	if len(clicks) != 0 {
		t.Errorf("impressions must not count as clicks: %v", clicks)
	}
}

func TestAggregateClicks_EmptyInput(t *testing.T) {
	repo := openTestRepo(t)

	clicks, err := repo.AggregateClicks(context.Background(), nil)
	if err != nil {
		t.Fatalf("AggregateClicks: %v", err)
	}
	if len(clicks) != 0 {
		t.Errorf("expected empty map, got %v", clicks)
	}
}

func TestRecord_EventWithoutProductID(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	event := domain.NewEvent("page_view", "s1", map[string]any{"page": "/search"})
	if err := repo.Record(ctx, event); err != nil {
		t.Fatalf("Record: %v", err)
	}

	clicks, err := repo.AggregateClicks(ctx, []string{""})
	if err != nil {
		t.Fatalf("AggregateClicks: %v", err)
	}
	if clicks[""] != 0 {
		t.Errorf("events without product id must not aggregate, got %v", clicks)
	}
}

func TestMetrics_CountsClicksAndImpressions(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := repo.Record(ctx, click("p1")); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	for i := 0; i < 5; i++ {
		if err := repo.Record(ctx, domain.NewEvent(domain.EventTypeImpression, "s1",
			map[string]any{"product_id": "p1"})); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	metrics, err := repo.Metrics(ctx, []string{"p1"})
	if err != nil {
		t.Fatalf("Metrics: %v", err)
	}
	if m := metrics["p1"]; m.Clicks != 2 || m.Impressions != 5 {
		t.Errorf("metrics = %+v, want 2 clicks, 5 impressions", m)
	}
}

func TestPing(t *testing.T) {
	repo := openTestRepo(t)
	if err := repo.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}
