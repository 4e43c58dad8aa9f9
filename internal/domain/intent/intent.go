// Package intent holds the structured output of natural-language query
// understanding: a cleaned semantic query plus typed constraints.
package intent

// Constraints are the typed filter values recognized in free text.
// Numeric fields are nil when the query carries no such constraint.
type Constraints struct {
	PriceMin  *float64
	PriceMax  *float64
	RatingMin *float64

	Category string
	Brand    string
	Color    string
	Size     string

	// ApproximatePrice is set when the price bounds came from an
	// "around N" style phrase (±15% band).
	ApproximatePrice bool
	// FuzzyPrice is set by vague price words (cheap, premium, ...)
	// that never translate into numeric bounds.
	FuzzyPrice bool
	// Conflict is true exactly when both price bounds are set and
	// PriceMin > PriceMax.
	Conflict bool
}

// Intent is the full extraction result for one query.
type Intent struct {
	// SemanticQuery is the query text with constraint-bearing fragments
	// removed, used for embedding. Never empty.
	SemanticQuery string
	Constraints   Constraints
}
