package ranking

import "context"

// BehaviorReader aggregates click counts per product. Products without
// recorded clicks are simply absent from the returned map.
type BehaviorReader interface {
	AggregateClicks(ctx context.Context, productIDs []string) (map[string]int, error)
}
