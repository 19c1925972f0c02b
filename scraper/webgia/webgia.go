// Package webgia extracts world and domestic coffee prices from webgia.com.
// The international page assembles its quotes with JavaScript, so it must be
// fetched through the rendering fetcher rather than plain HTTP.
package webgia

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"coffee-tracker/models"
	"coffee-tracker/scraper/parse"
)

const (
	SourceName = "webgia.com"
	WorldURL   = "https://webgia.com/gia-hang-hoa/ca-phe-the-gioi/"
	VietnamURL = "https://webgia.com/gia-hang-hoa/ca-phe-viet-nam/"
)

var worldSelectors = []string{
	`table tr`,
	`[class*="price"]`,
	`[class*="gia"]`,
}

// ExtractWorld pulls London robusta and New York arabica quotes out of a
// rendered world-prices page, classifying by the same non-overlapping
// ranges the table mixes together.
func ExtractWorld(html string, score func(price float64, marketKey string) float64) []*models.PricePoint {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var points []*models.PricePoint
	found := map[string]bool{}

	for _, selector := range worldSelectors {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			rowText := strings.ToLower(sel.Text())
			if !strings.Contains(rowText, "robusta") && !strings.Contains(rowText, "arabica") &&
				!strings.Contains(rowText, "cà phê") {
				return
			}

			text := strings.TrimSpace(sel.Text())

			if strings.Contains(rowText, "robusta") && !found["robusta_london"] {
				if price, ok := parse.PriceInRange(text, 2000, 8000); ok {
					if point, err := models.NewPricePoint(SourceName, price, "USD/tonne", "robusta_london", text); err == nil {
						points = append(points, point.WithConfidence(score(price, "robusta_london")))
						found["robusta_london"] = true
					}
				}
			}

			if strings.Contains(rowText, "arabica") && !found["arabica_newyork"] {
				if price, ok := parse.PriceInRange(text, 100, 400); ok {
					if point, err := models.NewPricePoint(SourceName, price, "cents/lb", "arabica_newyork", text); err == nil {
						points = append(points, point.WithConfidence(score(price, "arabica_newyork")))
						found["arabica_newyork"] = true
					}
				}
			}
		})

		if len(found) == 2 {
			break
		}
	}

	return points
}

// ExtractVietnam pulls the domestic robusta price from the Vietnam page.
// When no marked-up price survives, it falls back to scanning the page
// text for bare digit runs in the plausible VND/kg band at reduced
// confidence.
func ExtractVietnam(html string, score func(price float64, marketKey string) float64) []*models.PricePoint {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	const marketKey = "robusta_vietnam"
	var points []*models.PricePoint

	doc.Find("div, span, td, th").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if len(text) == 0 || len(text) > 120 {
			return true
		}

		context := strings.ToLower(text)
		if parent := sel.Parent(); parent.Length() > 0 {
			context = strings.ToLower(parent.Text())
		}
		if !strings.Contains(context, "cà phê") && !strings.Contains(context, "robusta") &&
			!strings.Contains(context, "giá") {
			return true
		}

		price, ok := parse.PriceInRange(text, 40000, 150000)
		if !ok {
			return true
		}

		point, err := models.NewPricePoint(SourceName, price, "VND/kg", marketKey, text)
		if err != nil {
			return true
		}
		points = append(points, point.WithConfidence(score(price, marketKey)))
		return false
	})

	if len(points) > 0 {
		return points
	}

	// Pattern-match fallback over the raw page text. These matches have no
	// coffee context around them, so their confidence is discounted.
	if price, ok := parse.BareDigitsInRange(doc.Text(), 45000, 120000); ok {
		if point, err := models.NewPricePoint(SourceName, price, "VND/kg", marketKey, "pattern match"); err == nil {
			points = append(points, point.WithConfidence(score(price, marketKey)*0.8))
		}
	}

	return points
}
