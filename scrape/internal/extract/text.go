package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hazyhaar/lgshelf/scrape/product"
)

var (
	reSuperscript = regexp.MustCompile(`[\x{00B9}\x{00B2}\x{00B3}\x{2070}-\x{209F}]`)
	reMarks       = regexp.MustCompile(`[\x{00AE}\x{2122}\x{00A9}]`)
	reWhitespace  = regexp.MustCompile(`\s+`)

	rePrice = regexp.MustCompile(`\$\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)

	// Rating patterns, strictest first. A bare number never qualifies;
	// it must sit next to a star/rating marker.
	reRatingOutOf = regexp.MustCompile(`(?i)(\d(?:\.\d+)?)\s*(?:out of\s*5|/\s*5)`)
	reRatingStars = regexp.MustCompile(`(?i)(\d(?:\.\d+)?)\s*stars?\b`)
	reRatingLabel = regexp.MustCompile(`(?i)ratings?\s*[:of]*\s*(\d(?:\.\d+)?)`)
)

var quoteReplacer = strings.NewReplacer(
	"‘", "'", "’", "'",
	"“", `"`, "”", `"`,
	"–", "-", "—", "-",
)

// CleanText normalises marketing copy: strips superscripts and ®/™/©
// marks, straightens smart quotes and dashes, collapses whitespace.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	s = reSuperscript.ReplaceAllString(s, "")
	s = reMarks.ReplaceAllString(s, "")
	s = quoteReplacer.Replace(s)
	return strings.TrimSpace(reWhitespace.ReplaceAllString(s, " "))
}

// PriceFromText finds the first currency-prefixed number in the text.
// "$1,299.00" yields decimal 1299.00.
func PriceFromText(text string) (decimal.Decimal, bool) {
	m := rePrice.FindStringSubmatch(text)
	if m == nil {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// StockFromText maps known availability phrases to the stock enum.
// Out-of-stock phrases are checked first; no phrase means unknown.
func StockFromText(text string) product.StockStatus {
	lower := strings.ToLower(text)

	for _, phrase := range []string{"out of stock", "sold out", "currently unavailable", "discontinued"} {
		if strings.Contains(lower, phrase) {
			return product.StockOut
		}
	}
	for _, phrase := range []string{"in stock", "add to cart", "add to bag"} {
		if strings.Contains(lower, phrase) {
			return product.StockIn
		}
	}
	return product.StockUnknown
}

// RatingFromText finds a star rating in the rendered text: a number in
// [0, 5] adjacent to an "out of 5", "stars" or "rating" marker, e.g.
// "3.8 out of 5 stars". Returns false when no marker matches; the caller
// records nil, never a fabricated default.
func RatingFromText(text string) (float64, bool) {
	for _, re := range []*regexp.Regexp{reRatingOutOf, reRatingStars, reRatingLabel} {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil || v < 0 || v > 5 {
			continue
		}
		return v, true
	}
	return 0, false
}
