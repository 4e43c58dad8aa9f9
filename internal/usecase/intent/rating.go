package intent

import "regexp"

// elevatedRating is the floor implied by "highly rated" / "best rated".
const elevatedRating = 4.5

const ratingNumber = `(\d+(?:\.\d+)?)`

var elevatedRatingPattern = regexp.MustCompile(`\b(?:highly|best)\s+rated\b`)

var ratingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`rated\s+above\s+` + ratingNumber),
	regexp.MustCompile(`rating\s+(?:more\s+than|above|over)\s+` + ratingNumber),
	regexp.MustCompile(`at\s+least\s+` + ratingNumber + `\s+stars?`),
	regexp.MustCompile(ratingNumber + `\+\s+rating`),
	regexp.MustCompile(`rating\s+(?:of\s+)?` + ratingNumber + `\+`),
}

type ratingMatch struct {
	value float64
	span  span
}

// extractRating recognizes a minimum-rating phrase. The keyword forms
// ("highly rated", "best rated") win over numeric patterns.
func extractRating(query string) (ratingMatch, bool) {
	if m := elevatedRatingPattern.FindStringIndex(query); m != nil {
		return ratingMatch{value: elevatedRating, span: span{m[0], m[1]}}, true
	}

	for _, re := range ratingPatterns {
		m := re.FindStringSubmatchIndex(query)
		if m == nil {
			continue
		}
		return ratingMatch{
			value: parseAmount(query[m[2]:m[3]]),
			span:  span{m[0], m[1]},
		}, true
	}

	return ratingMatch{}, false
}
