package domain

// Product is a catalog record. Owned by the product store; the search
// pipeline only reads it.
type Product struct {
	ID          string
	Title       string
	Description string
	Category    string
	Brand       string
	Attributes  map[string]string
	Price       *float64
	Rating      *float64
}
