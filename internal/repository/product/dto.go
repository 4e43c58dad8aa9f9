package product

import (
	"encoding/json"
	"strconv"

	"github.com/shopgrid/querykit/internal/domain"
)

// Reserved hash field names; attribute keys never collide because
// attributes are stored as one JSON blob.
const (
	fieldTitle       = "title"
	fieldDescription = "description"
	fieldCategory    = "category"
	fieldBrand       = "brand"
	fieldPrice       = "price"
	fieldRating      = "rating"
	fieldAttributes  = "attributes"
)

// buildHashFields converts a domain Product into a flat map[string]string for HSET.
func buildHashFields(p domain.Product) map[string]string {
	m := map[string]string{
		fieldTitle:       p.Title,
		fieldDescription: p.Description,
		fieldCategory:    p.Category,
		fieldBrand:       p.Brand,
	}
	if p.Price != nil {
		m[fieldPrice] = strconv.FormatFloat(*p.Price, 'f', -1, 64)
	}
	if p.Rating != nil {
		m[fieldRating] = strconv.FormatFloat(*p.Rating, 'f', -1, 64)
	}
	if len(p.Attributes) > 0 {
		if data, err := json.Marshal(p.Attributes); err == nil {
			m[fieldAttributes] = string(data)
		}
	}
	return m
}

// parseHashFields converts a flat hash map back into a domain Product.
func parseHashFields(id string, m map[string]string) domain.Product {
	p := domain.Product{
		ID:          id,
		Title:       m[fieldTitle],
		Description: m[fieldDescription],
		Category:    m[fieldCategory],
		Brand:       m[fieldBrand],
	}
	if v, ok := m[fieldPrice]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			p.Price = &f
		}
	}
	if v, ok := m[fieldRating]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			p.Rating = &f
		}
	}
	if v, ok := m[fieldAttributes]; ok && v != "" {
		var attrs map[string]string
		if err := json.Unmarshal([]byte(v), &attrs); err == nil {
			p.Attributes = attrs
		}
	}
	return p
}
