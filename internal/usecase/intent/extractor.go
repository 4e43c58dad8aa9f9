// Package intent turns free-form product queries into a cleaned semantic
// query plus structured constraints. Extraction is deterministic, has no
// side effects, and never fails: the worst case is empty constraints and
// the trimmed input as semantic query.
package intent

import (
	"regexp"
	"sort"
	"strings"

	domintent "github.com/shopgrid/querykit/internal/domain/intent"
)

// span marks a half-open [start, end) byte range of the query that was
// consumed by a constraint pattern and must not reach the embedding step.
type span struct {
	start, end int
}

// Extract parses query into an Intent. All pattern matching runs against
// an ASCII-lowered copy so byte offsets stay valid in the original text.
func Extract(query string) domintent.Intent {
	lower := lowerASCII(query)

	var c domintent.Constraints
	var removals []span

	// The rating runs first so its span can mask price matching: numeric
	// rating phrases ("rated above 4") reuse the same comparative words
	// as price bounds.
	var ratingSpans []span
	if r, ok := extractRating(lower); ok {
		c.RatingMin = &r.value
		ratingSpans = append(ratingSpans, r.span)
		removals = append(removals, r.span)
	}

	if p, ok := extractPrice(lower, ratingSpans); ok {
		c.PriceMin = p.min
		c.PriceMax = p.max
		c.ApproximatePrice = p.approximate
		removals = append(removals, p.spans...)
	}

	// Category, brand and color stay in the semantic query: they carry
	// meaning for retrieval, unlike pure numeric constraints.
	c.Category = extractCategory(lower)
	c.Brand = extractBrand(lower)
	c.Color = extractColor(lower)

	if s, ok := extractSize(lower); ok {
		c.Size = s.value
		removals = append(removals, s.span)
	}

	c.FuzzyPrice = hasFuzzyPriceKeyword(lower)

	if c.PriceMin != nil && c.PriceMax != nil && *c.PriceMin > *c.PriceMax {
		c.Conflict = true
	}

	return domintent.Intent{
		SemanticQuery: cleanSemanticQuery(query, removals),
		Constraints:   c,
	}
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// cleanSemanticQuery excises the removal spans from the original-case
// query, collapses whitespace and trims. An empty result falls back to
// the generic term "products" so the embedding input is never blank.
func cleanSemanticQuery(query string, removals []span) string {
	// Remove from the end backwards so earlier offsets stay valid.
	sort.Slice(removals, func(i, j int) bool {
		return removals[i].start > removals[j].start
	})

	result := query
	for _, sp := range removals {
		start, end := sp.start, sp.end
		// Spans may overlap (the same words can satisfy a rating and a
		// price pattern); clamp against the already-shortened string.
		if start > len(result) {
			start = len(result)
		}
		if end > len(result) {
			end = len(result)
		}
		result = result[:start] + result[end:]
	}

	result = strings.TrimSpace(whitespaceRun.ReplaceAllString(result, " "))
	if result == "" {
		result = "products"
	}
	return result
}

// lowerASCII lowercases A-Z only, leaving byte offsets identical to the
// input (strings.ToLower can change byte lengths for non-ASCII runes).
func lowerASCII(s string) string {
	b := []byte(s)
	for i, ch := range b {
		if ch >= 'A' && ch <= 'Z' {
			b[i] = ch + ('a' - 'A')
		}
	}
	return string(b)
}
