// Package cafef extracts Vietnamese domestic robusta prices from cafef.vn.
package cafef

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"coffee-tracker/models"
	"coffee-tracker/scraper/parse"
)

const (
	SourceName = "cafef.vn"
	URL        = "https://cafef.vn/hang-hoa/ca-phe-robusta.chn"
)

// Selector fallback list: CafeF has moved its price between differently
// named containers over time.
var priceSelectors = []string{
	`[class*="price"]`,
	`[class*="gia"]`,
	`[class*="value"]`,
}

// Extract pulls the domestic robusta price out of a CafeF page. The score
// callback attaches per-point confidence.
func Extract(html string, score func(price float64, marketKey string) float64) []*models.PricePoint {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var points []*models.PricePoint

	for _, selector := range priceSelectors {
		doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			text := strings.TrimSpace(sel.Text())
			price, ok := parse.PriceInRange(text, 40000, 120000)
			if !ok {
				return true
			}

			point, err := models.NewPricePoint(SourceName, price, "VND/kg", "robusta_vietnam", text)
			if err != nil {
				return true
			}
			points = append(points, point.WithConfidence(score(price, "robusta_vietnam")))
			return false
		})

		if len(points) > 0 {
			break
		}
	}

	return points
}
