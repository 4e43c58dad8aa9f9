package search

import (
	"strings"

	"github.com/shopgrid/querykit/internal/domain"
	"github.com/shopgrid/querykit/internal/domain/search/filter"
)

// passesFilters reports whether a candidate product satisfies the merged
// constraints. When the price bounds conflict the whole predicate fails
// open so the user still sees semantically relevant results.
func passesFilters(p domain.Product, f filter.Merged) bool {
	if f.Conflict() {
		return true
	}
	if min := f.PriceMin(); min != nil {
		if p.Price == nil || *p.Price < *min {
			return false
		}
	}
	if max := f.PriceMax(); max != nil {
		if p.Price == nil || *p.Price > *max {
			return false
		}
	}
	if rmin := f.RatingMin(); rmin != nil {
		if p.Rating == nil || *p.Rating < *rmin {
			return false
		}
	}
	if f.Category() != "" && !f.CategoryIsSemanticHint() {
		if !containsFold(p.Category, f.Category()) {
			return false
		}
	}
	if f.Brand() != "" && !containsFold(p.Brand, f.Brand()) {
		return false
	}
	if f.Color() != "" || f.Size() != "" {
		text := p.Title + " " + p.Description
		if f.Color() != "" && !containsFold(text, f.Color()) {
			return false
		}
		if f.Size() != "" && !containsFold(text, f.Size()) {
			return false
		}
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
