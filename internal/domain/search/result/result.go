// Package result holds the immutable per-query search result value.
package result

// Result is a single ranked search hit. Results are immutable: the
// ranking adjuster and the explanation step derive new values via
// WithScore / WithExplanation instead of mutating shared state.
type Result struct {
	id          string
	title       string
	description string
	category    string
	price       *float64
	rating      *float64
	score       float64
	explanation string
}

// New creates a search result.
func New(
	id, title, description, category string,
	price, rating *float64, score float64,
) Result {
	return Result{
		id: id, title: title, description: description, category: category,
		price: price, rating: rating, score: score,
	}
}

// ID returns the product identifier.
func (r *Result) ID() string { return r.id }

// Title returns the product title.
func (r *Result) Title() string { return r.title }

// Description returns the product description.
func (r *Result) Description() string { return r.description }

// Category returns the product category.
func (r *Result) Category() string { return r.category }

// Price returns the product price (nil when unknown).
func (r *Result) Price() *float64 { return r.price }

// Rating returns the product rating (nil when unknown).
func (r *Result) Rating() *float64 { return r.rating }

// Score returns the similarity score, possibly behavior-adjusted.
func (r *Result) Score() float64 { return r.score }

// Explanation returns the grounded rationale for this hit.
func (r *Result) Explanation() string { return r.explanation }

// WithScore returns a copy with the given score.
func (r Result) WithScore(score float64) Result {
	r.score = score
	return r
}

// WithExplanation returns a copy with the given explanation.
func (r Result) WithExplanation(explanation string) Result {
	r.explanation = explanation
	return r
}
