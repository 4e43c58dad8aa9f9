package health

import "context"

// IndexPinger checks vector index and product store availability.
type IndexPinger interface {
	Ping(ctx context.Context) error
}

// BehaviorPinger checks the behavior event store.
type BehaviorPinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}
