package intent

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// number matches an amount with optional thousands separators and decimals.
const number = `(\d+(?:,\d{3})*(?:\.\d+)?)`

// approxBand is the ±15% band applied around "around N" style prices.
const approxBand = 0.15

var approxPricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`around\s+` + number),
	regexp.MustCompile(`approx(?:imately)?\s+` + number),
	regexp.MustCompile(`about\s+` + number),
	regexp.MustCompile(`near\s+` + number),
}

var rangePricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`between\s+` + number + `\s+(?:and|to)\s+` + number),
	regexp.MustCompile(`from\s+` + number + `\s+to\s+` + number),
	regexp.MustCompile(number + `\s*[-–]\s*` + number),
	regexp.MustCompile(`in\s+the\s+range\s+of\s+` + number + `\s+to\s+` + number),
	regexp.MustCompile(`budget\s+(?:of\s+)?` + number + `\s+to\s+` + number),
}

var upperPricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`under\s+` + number),
	regexp.MustCompile(`below\s+` + number),
	regexp.MustCompile(`less\s+than\s+` + number),
	regexp.MustCompile(`cheaper\s+than\s+` + number),
	regexp.MustCompile(`within\s+` + number),
	regexp.MustCompile(`max(?:imum)?\s+` + number),
	regexp.MustCompile(`up\s*to\s+` + number),
	regexp.MustCompile(`not\s+more\s+than\s+` + number),
}

var lowerPricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`over\s+` + number),
	regexp.MustCompile(`above\s+` + number),
	regexp.MustCompile(`more\s+than\s+` + number),
	regexp.MustCompile(`starting\s+from\s+` + number),
	regexp.MustCompile(`minimum\s+` + number),
	regexp.MustCompile(`at\s+least\s+` + number),
}

type priceMatch struct {
	min, max    *float64
	approximate bool
	spans       []span
}

// extractPrice recognizes approximate, range, upper-bound and lower-bound
// price phrases, in that order of priority. Upper and lower bounds are
// independent: a single query may set both ("over 5000 under 2000"),
// which is how contradictory bounds arise. Matches overlapping an exclude
// span are skipped: "rated above 4" must not double as a price floor.
func extractPrice(query string, exclude []span) (priceMatch, bool) {
	for _, re := range approxPricePatterns {
		m := findOutside(re, query, exclude)
		if m == nil {
			continue
		}
		price := parseAmount(query[m[2]:m[3]])
		margin := price * approxBand
		return priceMatch{
			min:         ptr(round2(price - margin)),
			max:         ptr(round2(price + margin)),
			approximate: true,
			spans:       []span{{m[0], m[1]}},
		}, true
	}

	for _, re := range rangePricePatterns {
		m := findOutside(re, query, exclude)
		if m == nil {
			continue
		}
		return priceMatch{
			min:   ptr(parseAmount(query[m[2]:m[3]])),
			max:   ptr(parseAmount(query[m[4]:m[5]])),
			spans: []span{{m[0], m[1]}},
		}, true
	}

	var pm priceMatch
	for _, re := range upperPricePatterns {
		m := findOutside(re, query, exclude)
		if m == nil {
			continue
		}
		pm.max = ptr(parseAmount(query[m[2]:m[3]]))
		pm.spans = append(pm.spans, span{m[0], m[1]})
		break // keep scanning for an independent lower bound
	}
	// The span the upper match consumed is masked too: "not more than 800"
	// must not double as a lower bound via its "more than 800" suffix.
	lowerExclude := append(append([]span(nil), exclude...), pm.spans...)
	for _, re := range lowerPricePatterns {
		m := findOutside(re, query, lowerExclude)
		if m == nil {
			continue
		}
		pm.min = ptr(parseAmount(query[m[2]:m[3]]))
		pm.spans = append(pm.spans, span{m[0], m[1]})
		break
	}

	if pm.min == nil && pm.max == nil {
		return priceMatch{}, false
	}
	return pm, true
}

// findOutside returns the first match of re whose full extent does not
// overlap any exclude span, or nil.
func findOutside(re *regexp.Regexp, query string, exclude []span) []int {
	for _, m := range re.FindAllStringSubmatchIndex(query, -1) {
		if !overlapsAny(span{m[0], m[1]}, exclude) {
			return m
		}
	}
	return nil
}

func overlapsAny(s span, spans []span) bool {
	for _, other := range spans {
		if s.start < other.end && other.start < s.end {
			return true
		}
	}
	return false
}

// parseAmount converts a matched amount to a float. The pattern guarantees
// a valid literal, so the error path cannot trigger.
func parseAmount(s string) float64 {
	v, _ := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	return v
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func ptr(v float64) *float64 { return &v }
