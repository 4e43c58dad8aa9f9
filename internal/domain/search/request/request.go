// Package request validates and normalizes inbound search parameters.
package request

import (
	"fmt"
	"strings"

	"github.com/shopgrid/querykit/internal/domain"
	"github.com/shopgrid/querykit/internal/domain/search/filter"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 4096
	DefaultLimit   = 10
	MaxLimit       = 100
)

// Request is a validated search query.
type Request struct {
	query   string
	filters *filter.CallerFilters
	limit   int
}

// Limits bounds the result count a caller may request.
type Limits struct {
	Default int
	Max     int
}

// DefaultLimits returns the built-in result bounds.
func DefaultLimits() Limits {
	return Limits{Default: DefaultLimit, Max: MaxLimit}
}

// New validates and normalizes search parameters with the built-in
// limits. Filters may be nil.
func New(query string, filters *filter.CallerFilters, limit int) (Request, error) {
	return NewWithLimits(query, filters, limit, DefaultLimits())
}

// NewWithLimits validates and normalizes search parameters. A missing
// limit takes l.Default; anything above l.Max is clamped. Zero-valued
// bounds fall back to the built-in ones.
func NewWithLimits(query string, filters *filter.CallerFilters, limit int, l Limits) (Request, error) {
	if strings.TrimSpace(query) == "" {
		return Request{}, fmt.Errorf("%w: query is required", domain.ErrInvalidRequest)
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidRequest, MaxQueryLength)
	}
	if l.Default <= 0 {
		l.Default = DefaultLimit
	}
	if l.Max <= 0 {
		l.Max = MaxLimit
	}
	if limit <= 0 {
		limit = l.Default
	}
	if limit > l.Max {
		limit = l.Max
	}

	return Request{query: query, filters: filters, limit: limit}, nil
}

// Query returns the raw query text.
func (r *Request) Query() string { return r.query }

// Filters returns the caller-supplied filters (nil when none were sent).
func (r *Request) Filters() *filter.CallerFilters { return r.filters }

// Limit returns the maximum results to return.
func (r *Request) Limit() int { return r.limit }
