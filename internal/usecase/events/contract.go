package events

import (
	"context"

	"github.com/shopgrid/querykit/internal/domain"
)

// Store persists behavior events durably.
type Store interface {
	Record(ctx context.Context, event domain.Event) error
}
