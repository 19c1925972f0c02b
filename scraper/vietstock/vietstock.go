// Package vietstock extracts international coffee futures quotes from the
// vietstock.vn commodity tables.
package vietstock

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"coffee-tracker/models"
	"coffee-tracker/scraper/parse"
)

const (
	SourceName = "vietstock.vn"
	URL        = "https://vietstock.vn/hang-hoa-ca-phe.htm"
)

var coffeeKeywords = []string{"cà phê", "coffee", "robusta", "arabica"}

// Extract walks every table row mentioning coffee and classifies each
// numeric cell by price range: 2000-8000 reads as USD/tonne robusta,
// 100-400 as cents/lb arabica. The ranges do not overlap, which is the
// only reason this inference is safe.
func Extract(html string, score func(price float64, marketKey string) float64) []*models.PricePoint {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var points []*models.PricePoint
	found := map[string]bool{}

	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		rowText := strings.ToLower(row.Text())
		if !containsAny(rowText, coffeeKeywords) {
			return
		}

		row.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			text := strings.TrimSpace(cell.Text())

			if price, ok := parse.PriceInRange(text, 2000, 8000); ok && !found["robusta_london"] {
				if point, err := models.NewPricePoint(SourceName, price, "USD/tonne", "robusta_london", text); err == nil {
					points = append(points, point.WithConfidence(score(price, "robusta_london")))
					found["robusta_london"] = true
				}
				return
			}

			if price, ok := parse.PriceInRange(text, 100, 400); ok && !found["arabica_newyork"] {
				if point, err := models.NewPricePoint(SourceName, price, "cents/lb", "arabica_newyork", text); err == nil {
					points = append(points, point.WithConfidence(score(price, "arabica_newyork")))
					found["arabica_newyork"] = true
				}
			}
		})
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
