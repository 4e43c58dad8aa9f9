// Package filter holds the structured filter types used by retrieval:
// the caller-supplied filters and the canonical merged set.
package filter

import "strings"

// CallerFilters are the structured filters a caller may send alongside a
// query. Any field may be absent; an absent, blank or zero field never
// overrides an NLP-derived constraint.
type CallerFilters struct {
	PriceMin  *float64 `json:"price_min,omitempty"`
	PriceMax  *float64 `json:"price_max,omitempty"`
	MaxPrice  *float64 `json:"max_price,omitempty"` // deprecated alias for price_max
	RatingMin *float64 `json:"rating_min,omitempty"`
	Category  string   `json:"category,omitempty"`
	Brand     string   `json:"brand,omitempty"`
	Color     string   `json:"color,omitempty"`
	Size      string   `json:"size,omitempty"`
}

// HasPriceBound reports whether the caller supplied any price bound,
// counting the legacy max_price alias.
func (f *CallerFilters) HasPriceBound() bool {
	if f == nil {
		return false
	}
	return !EmptyNumber(f.PriceMin) || !EmptyNumber(f.PriceMax) || !EmptyNumber(f.MaxPrice)
}

// EmptyNumber reports whether a numeric filter value is "no filter":
// absent or zero.
func EmptyNumber(v *float64) bool {
	return v == nil || *v == 0
}

// EmptyString reports whether a string filter value is "no filter":
// absent or whitespace-only (e.g. an "All Categories" placeholder).
func EmptyString(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Merged is the canonical constraint set used for retrieval filtering.
// It is created once per query by the filter merger and never mutated.
type Merged struct {
	priceMin  *float64
	priceMax  *float64
	ratingMin *float64
	category  string
	brand     string
	color     string
	size      string

	approximatePrice bool
	fuzzyPrice       bool
	conflict         bool

	// categoryIsSemanticHint is true when the effective category came
	// from the intent extractor rather than the caller; such categories
	// guide retrieval but are not enforced as a hard filter.
	categoryIsSemanticHint bool
}

// NewMerged constructs a merged filter set. Intended for the filter
// merger and for tests.
func NewMerged(
	priceMin, priceMax, ratingMin *float64,
	category, brand, color, size string,
	approximatePrice, fuzzyPrice, conflict, categoryIsSemanticHint bool,
) Merged {
	return Merged{
		priceMin: priceMin, priceMax: priceMax, ratingMin: ratingMin,
		category: category, brand: brand, color: color, size: size,
		approximatePrice: approximatePrice, fuzzyPrice: fuzzyPrice,
		conflict: conflict, categoryIsSemanticHint: categoryIsSemanticHint,
	}
}

// PriceMin returns the minimum price bound (nil when unset).
func (m *Merged) PriceMin() *float64 { return m.priceMin }

// PriceMax returns the maximum price bound (nil when unset).
func (m *Merged) PriceMax() *float64 { return m.priceMax }

// RatingMin returns the minimum rating bound (nil when unset).
func (m *Merged) RatingMin() *float64 { return m.ratingMin }

// Category returns the effective category filter.
func (m *Merged) Category() string { return m.category }

// Brand returns the effective brand filter.
func (m *Merged) Brand() string { return m.brand }

// Color returns the effective color filter.
func (m *Merged) Color() string { return m.color }

// Size returns the effective size filter.
func (m *Merged) Size() string { return m.size }

// ApproximatePrice reports whether the price bounds came from an
// "around N" phrase.
func (m *Merged) ApproximatePrice() bool { return m.approximatePrice }

// FuzzyPrice reports vague price intent (cheap, premium, ...).
func (m *Merged) FuzzyPrice() bool { return m.fuzzyPrice }

// Conflict reports contradictory price bounds (min > max).
func (m *Merged) Conflict() bool { return m.conflict }

// CategoryIsSemanticHint reports whether the category originated from
// the intent extractor rather than the caller.
func (m *Merged) CategoryIsSemanticHint() bool { return m.categoryIsSemanticHint }
