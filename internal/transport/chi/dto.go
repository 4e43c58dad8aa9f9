package chi

import (
	"github.com/shopgrid/querykit/internal/domain"
	"github.com/shopgrid/querykit/internal/domain/search/filter"
	"github.com/shopgrid/querykit/internal/domain/search/result"
)

type searchRequest struct {
	Query   string                `json:"query"`
	Filters *filter.CallerFilters `json:"filters,omitempty"`
	Limit   int                   `json:"limit,omitempty"`
}

type searchResponse struct {
	Results []searchResultDTO `json:"results"`
	Count   int               `json:"count"`
}

type searchResultDTO struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	Score       float64  `json:"similarity_score"`
	Explanation string   `json:"explanation,omitempty"`
}

func resultToDTO(r result.Result) searchResultDTO {
	return searchResultDTO{
		ID:          r.ID(),
		Title:       r.Title(),
		Description: r.Description(),
		Category:    r.Category(),
		Price:       r.Price(),
		Rating:      r.Rating(),
		Score:       r.Score(),
		Explanation: r.Explanation(),
	}
}

type eventRequest struct {
	EventType string         `json:"event_type"`
	SessionID string         `json:"session_id"`
	Payload   map[string]any `json:"payload,omitempty"`
}

type eventResponse struct {
	Accepted bool `json:"accepted"`
}

type productDTO struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Category    string            `json:"category,omitempty"`
	Brand       string            `json:"brand,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	Price       *float64          `json:"price,omitempty"`
	Rating      *float64          `json:"rating,omitempty"`
}

type ingestRequest struct {
	Products []productDTO `json:"products"`
}

type ingestResponse struct {
	Ingested int `json:"ingested"`
}

type listProductsResponse struct {
	Products []productDTO `json:"products"`
	Count    int          `json:"count"`
}

type behaviorMetricDTO struct {
	Clicks      int `json:"clicks"`
	Impressions int `json:"impressions"`
}

type statsResponse struct {
	ProductCount    int                          `json:"product_count"`
	EventsProcessed int64                        `json:"events_processed"`
	EventsDropped   int64                        `json:"events_dropped"`
	Products        map[string]behaviorMetricDTO `json:"products,omitempty"`
}

func productFromDTO(p productDTO) domain.Product {
	return domain.Product{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Brand:       p.Brand,
		Attributes:  p.Attributes,
		Price:       p.Price,
		Rating:      p.Rating,
	}
}

func productToDTO(p domain.Product) productDTO {
	return productDTO{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Brand:       p.Brand,
		Attributes:  p.Attributes,
		Price:       p.Price,
		Rating:      p.Rating,
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes returned by the API.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeProviderError    = "embedding_provider_error"
	codeInternalError    = "internal_error"
)
