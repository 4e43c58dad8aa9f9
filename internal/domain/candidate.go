package domain

// Candidate is a nearest-neighbor hit from the vector index: a product id
// plus its distance to the query vector. Candidate lists are ordered by
// ascending distance (closest first) and live only for the duration of a
// single query.
type Candidate struct {
	ProductID string
	Distance  float64
}
