package intent

import (
	"regexp"
	"strings"
)

// categorySynonyms maps colloquial terms to catalog categories. Checked
// in order, before the known-category set.
var categorySynonyms = []struct {
	term, category string
}{
	{"sneakers", "shoes"},
	{"footwear", "shoes"},
	{"earphones", "headphones"},
	{"mobile", "electronics"},
	{"smartphone", "electronics"},
	{"phone", "electronics"},
}

var knownCategories = []string{
	"accessories", "bags", "books", "clothing", "electronics",
	"furniture", "headphones", "laptop", "shoes", "watches",
}

var knownBrands = []string{
	"adidas", "apple", "asus", "boat", "bose", "dell", "hp",
	"jbl", "lenovo", "lg", "nike", "realme", "samsung", "sony",
}

var knownColors = []string{
	"black", "blue", "brown", "gold", "gray", "green", "grey",
	"orange", "pink", "purple", "red", "silver", "white", "yellow",
}

// fuzzyPriceKeywords express vague price intent and are never converted
// into numeric bounds.
var fuzzyPriceKeywords = []string{
	"affordable", "budget", "cheap", "economical", "expensive",
	"high-end", "inexpensive", "luxury", "premium",
}

// wordPatterns caches whole-word regexes for the fixed vocabularies.
var wordPatterns = buildWordPatterns()

func buildWordPatterns() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp)
	add := func(words ...string) {
		for _, w := range words {
			if _, ok := m[w]; !ok {
				m[w] = regexp.MustCompile(`\b` + regexp.QuoteMeta(w) + `\b`)
			}
		}
	}
	for _, s := range categorySynonyms {
		add(s.term)
	}
	add(knownCategories...)
	add(knownBrands...)
	add(knownColors...)
	add(fuzzyPriceKeywords...)
	return m
}

func containsWord(query, word string) bool {
	return wordPatterns[word].MatchString(query)
}

func extractCategory(query string) string {
	for _, s := range categorySynonyms {
		if containsWord(query, s.term) {
			return s.category
		}
	}
	for _, cat := range knownCategories {
		if containsWord(query, cat) {
			return cat
		}
	}
	return ""
}

// extractBrand matches the known-brand set case-insensitively (the query
// is already lowered) and normalizes to capitalized form.
func extractBrand(query string) string {
	for _, brand := range knownBrands {
		if containsWord(query, brand) {
			return capitalize(brand)
		}
	}
	return ""
}

func extractColor(query string) string {
	for _, color := range knownColors {
		if containsWord(query, color) {
			return color
		}
	}
	return ""
}

func hasFuzzyPriceKeyword(query string) bool {
	for _, kw := range fuzzyPriceKeywords {
		if containsWord(query, kw) {
			return true
		}
	}
	return false
}

var sizePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bsize\s+(\d+|[smlx]+)\b`),
	regexp.MustCompile(`\b(small|medium|large|x-?large|xx-?large)\b`),
	regexp.MustCompile(`\b(xxl|xl|s|m|l)\b`),
}

type sizeMatch struct {
	value string
	span  span
}

// extractSize recognizes numeric ("size 9"), word ("large") and
// short-code ("XL") sizes, normalized to upper case. Unlike category and
// color, the matched text is removed from the semantic query: a bare
// size code carries no retrieval meaning.
func extractSize(query string) (sizeMatch, bool) {
	for _, re := range sizePatterns {
		m := re.FindStringSubmatchIndex(query)
		if m == nil {
			continue
		}
		return sizeMatch{
			value: strings.ToUpper(query[m[2]:m[3]]),
			span:  span{m[0], m[1]},
		}, true
	}
	return sizeMatch{}, false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
