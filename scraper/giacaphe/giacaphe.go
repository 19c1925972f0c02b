// Package giacaphe extracts regional Vietnamese robusta prices from
// giacaphe.com, which breaks quotes down by growing region.
package giacaphe

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"coffee-tracker/models"
	"coffee-tracker/scraper/parse"
)

const (
	SourceName = "giacaphe.com"
	URL        = "https://giacaphe.com/gia-ca-phe-noi-dia/"
)

// Region markers in surrounding text decide which sub-market a price
// belongs to; unmarked prices fall back to the national key.
var regions = []struct {
	marker    string
	marketKey string
	location  string
}{
	{"miền nam", "robusta_vietnam_south", "Miền Nam"},
	{"miền trung", "robusta_vietnam_central", "Miền Trung"},
}

var contextKeywords = []string{"cà phê", "robusta", "giá"}

// Extract pulls per-region domestic prices. A candidate number only
// counts when its parent element talks about coffee, which filters out
// the unrelated figures these aggregator pages are full of.
func Extract(html string, score func(price float64, marketKey string) float64) []*models.PricePoint {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var points []*models.PricePoint
	found := map[string]bool{}

	doc.Find("div, span, td").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if len(text) == 0 || len(text) > 120 {
			return
		}

		context := text
		if parent := sel.Parent(); parent.Length() > 0 {
			context = parent.Text()
		}
		context = strings.ToLower(context)

		if !containsAny(context, contextKeywords) {
			return
		}

		price, ok := parse.PriceInRange(text, 30000, 150000)
		if !ok {
			return
		}

		marketKey := "robusta_vietnam"
		location := ""
		for _, r := range regions {
			if strings.Contains(context, r.marker) {
				marketKey = r.marketKey
				location = r.location
				break
			}
		}

		if found[marketKey] {
			return
		}

		point, err := models.NewPricePoint(SourceName, price, "VND/kg", marketKey, text)
		if err != nil {
			return
		}
		point = point.WithConfidence(score(price, marketKey))
		if location != "" {
			point = point.WithLocation(location)
		}
		points = append(points, point)
		found[marketKey] = true
	})

	return points
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
