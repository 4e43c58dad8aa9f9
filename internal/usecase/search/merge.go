package search

import (
	"github.com/shopgrid/querykit/internal/domain/intent"
	"github.com/shopgrid/querykit/internal/domain/search/filter"
)

// mergeFilters combines constraints mined from the query text with the
// caller-supplied structured filters. Callers win on every field they
// actually set; extracted values only fill the gaps.
func mergeFilters(c intent.Constraints, caller *filter.CallerFilters) filter.Merged {
	priceMin := c.PriceMin
	priceMax := c.PriceMax
	ratingMin := c.RatingMin
	category := c.Category
	brand := c.Brand
	color := c.Color
	size := c.Size

	callerMin := false
	callerMax := false
	if caller != nil {
		if !filter.EmptyNumber(caller.PriceMin) {
			priceMin = caller.PriceMin
			callerMin = true
		}
		if !filter.EmptyNumber(caller.PriceMax) {
			priceMax = caller.PriceMax
			callerMax = true
		} else if !filter.EmptyNumber(caller.MaxPrice) {
			priceMax = caller.MaxPrice
			callerMax = true
		}
		if !filter.EmptyNumber(caller.RatingMin) {
			ratingMin = caller.RatingMin
		}
		if !filter.EmptyString(caller.Category) {
			category = caller.Category
		}
		if !filter.EmptyString(caller.Brand) {
			brand = caller.Brand
		}
		if !filter.EmptyString(caller.Color) {
			color = caller.Color
		}
		if !filter.EmptyString(caller.Size) {
			size = caller.Size
		}
	}

	// A caller price bound is authoritative. If the text-extracted half of
	// the pair contradicts it, drop the extracted half instead of flagging
	// a conflict the caller never asked for.
	if caller != nil && caller.HasPriceBound() &&
		priceMin != nil && priceMax != nil && *priceMin > *priceMax {
		if !callerMin {
			priceMin = nil
		}
		if !callerMax {
			priceMax = nil
		}
	}

	conflict := priceMin != nil && priceMax != nil && *priceMin > *priceMax

	// A category that came only from query text is a soft hint: it steers
	// ranking but never excludes candidates.
	semanticHint := category != "" && category == c.Category &&
		(caller == nil || filter.EmptyString(caller.Category))

	return filter.NewMerged(
		priceMin, priceMax, ratingMin,
		category, brand, color, size,
		c.ApproximatePrice, c.FuzzyPrice, conflict, semanticHint,
	)
}
