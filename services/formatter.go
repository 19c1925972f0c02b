package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"coffee-tracker/config"
	"coffee-tracker/models"
)

// Pounds per metric tonne, for the cents/lb -> USD/tonne display conversion.
const poundsPerTonne = 2204.62

// Formatter renders reconciliation output into the Vietnamese-language
// Telegram report. It only reads the comparisons; conversions (USD->VND,
// cents/lb->USD/tonne) happen here for display, never in the engine.
type Formatter struct {
	catalog *config.Catalog
	vndRate float64
	now     func() time.Time
}

// NewFormatter creates a Formatter using the given catalog and USD->VND rate.
func NewFormatter(catalog *config.Catalog, vndRate float64) *Formatter {
	return &Formatter{catalog: catalog, vndRate: vndRate, now: time.Now}
}

// Format builds the full report for one cycle. changes carries the
// day-over-day movement per market and may be nil when no history backend
// is configured.
func (f *Formatter) Format(comparisons map[string]*models.PriceComparison, changes map[string]models.PriceChange, summary *models.CycleSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "☕ *BÁO GIÁ CÀ PHÊ*\n")
	fmt.Fprintf(&b, "📅 %s (GMT+7)\n\n", f.now().Format("02/01/2006 15:04"))

	if len(comparisons) == 0 {
		b.WriteString("❌ Không thể cập nhật dữ liệu từ các nguồn\n")
		b.WriteString("\n🤖 Hệ thống so sánh giá GiaNongSan Bot")
		return b.String()
	}

	for _, key := range f.orderedKeys(comparisons) {
		comp := comparisons[key]
		market, known := f.catalog.Get(key)
		if known && market.Domestic {
			continue
		}
		f.writeInternational(&b, comp, changes, market, known)
	}

	domestic := f.domesticComparisons(comparisons)
	if len(domestic) > 0 {
		b.WriteString("🇻🇳 *GIÁ CÀ PHÊ TRONG NƯỚC*\n\n")
		for _, comp := range domestic {
			f.writeDomestic(&b, comp, changes)
		}
	}

	f.writeReliabilitySummary(&b, comparisons)

	if summary != nil && len(summary.SourcesUsed) > 0 {
		sources := summary.SourcesUsed
		if len(sources) > 2 {
			fmt.Fprintf(&b, "📡 Nguồn: %s +%d nguồn khác\n",
				strings.Join(sources[:2], ", "), len(sources)-2)
		} else {
			fmt.Fprintf(&b, "📡 Nguồn: %s\n", strings.Join(sources, ", "))
		}
	}

	b.WriteString("\n🤖 Hệ thống so sánh giá GiaNongSan Bot")
	return b.String()
}

func (f *Formatter) writeInternational(b *strings.Builder, comp *models.PriceComparison, changes map[string]models.PriceChange, market config.Market, known bool) {
	price := comp.Primary.Price

	title := comp.MarketKey
	unit := comp.Primary.Unit
	if known {
		title = market.Name
		unit = market.Unit
	}

	switch comp.MarketKey {
	case "robusta_london":
		fmt.Fprintf(b, "🌱 *ROBUSTA (London)*\n")
		fmt.Fprintf(b, "💰 Giá: $%s/tấn\n", formatThousands(price, 2))
		fmt.Fprintf(b, "💸 VND: %s/tấn\n", formatThousands(price*f.vndRate, 0))
	case "arabica_newyork":
		fmt.Fprintf(b, "☕ *ARABICA (New York)*\n")
		if unit == "cents/lb" {
			usdTonne := (price / 100) * poundsPerTonne
			fmt.Fprintf(b, "💰 Giá: %.2f cents/lb\n", price)
			fmt.Fprintf(b, "💰 USD: $%s/tấn\n", formatThousands(usdTonne, 2))
			fmt.Fprintf(b, "💸 VND: %s/tấn\n", formatThousands(usdTonne*f.vndRate, 0))
		} else {
			fmt.Fprintf(b, "💰 Giá: $%s/tấn\n", formatThousands(price, 2))
			fmt.Fprintf(b, "💸 VND: %s/tấn\n", formatThousands(price*f.vndRate, 0))
		}
	default:
		fmt.Fprintf(b, "📈 *%s*\n", title)
		fmt.Fprintf(b, "💰 Giá: %s %s\n", formatThousands(price, 2), unit)
	}

	if ch, ok := changes[comp.MarketKey]; ok {
		b.WriteString(changeLine(ch, 2))
	}
	fmt.Fprintf(b, "📊 Độ tin cậy: %.0f%%\n", comp.ReliabilityScore*100)
	if comp.SourceCount() > 1 {
		fmt.Fprintf(b, "📈 Khoảng giá: %s - %s\n",
			formatThousands(comp.Range.Min, 0), formatThousands(comp.Range.Max, 0))
		fmt.Fprintf(b, "🔍 %d nguồn\n", comp.SourceCount())
	}
	fmt.Fprintf(b, "💬 %s\n\n", comp.Recommendation)
}

func (f *Formatter) writeDomestic(b *strings.Builder, comp *models.PriceComparison, changes map[string]models.PriceChange) {
	name := comp.MarketKey
	if market, ok := f.catalog.Get(comp.MarketKey); ok {
		name = market.NameVI
	}

	fmt.Fprintf(b, "📍 *%s*\n", name)
	fmt.Fprintf(b, "💰 Giá: %s VND/kg\n", formatThousands(comp.Primary.Price, 0))
	if ch, ok := changes[comp.MarketKey]; ok {
		b.WriteString(changeLine(ch, 0))
	}
	fmt.Fprintf(b, "📊 Độ tin cậy: %.0f%%\n", comp.ReliabilityScore*100)
	if comp.SourceCount() > 1 {
		fmt.Fprintf(b, "📈 Khoảng giá: %s - %s VND/kg\n",
			formatThousands(comp.Range.Min, 0), formatThousands(comp.Range.Max, 0))
	}
	fmt.Fprintf(b, "💬 %s\n\n", comp.Recommendation)
}

func (f *Formatter) writeReliabilitySummary(b *strings.Builder, comparisons map[string]*models.PriceComparison) {
	if len(comparisons) == 0 {
		return
	}

	var sum float64
	highConfidence := 0
	for _, comp := range comparisons {
		sum += comp.ReliabilityScore
		if comp.ReliabilityScore > 0.7 {
			highConfidence++
		}
	}
	avg := sum / float64(len(comparisons))

	var emoji, status string
	switch {
	case avg > 0.7:
		emoji, status = "✅", "Dữ liệu chất lượng cao"
	case avg > 0.5:
		emoji, status = "⚠️", "Dữ liệu tương đối tin cậy"
	default:
		emoji, status = "❌", "Cần xác minh thêm"
	}

	fmt.Fprintf(b, "%s *TỔNG QUAN*\n", emoji)
	fmt.Fprintf(b, "📊 Độ tin cậy trung bình: %.0f%%\n", avg*100)
	fmt.Fprintf(b, "🎯 %d/%d thị trường tin cậy cao\n", highConfidence, len(comparisons))
	fmt.Fprintf(b, "💬 %s\n\n", status)
}

// orderedKeys returns market keys in catalog registration order first, then
// any unconfigured keys alphabetically, so the report layout is stable.
func (f *Formatter) orderedKeys(comparisons map[string]*models.PriceComparison) []string {
	var keys []string
	for _, key := range f.catalog.Keys() {
		if _, ok := comparisons[key]; ok {
			keys = append(keys, key)
		}
	}

	var extra []string
	for key := range comparisons {
		if _, known := f.catalog.Get(key); !known {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}

func (f *Formatter) domesticComparisons(comparisons map[string]*models.PriceComparison) []*models.PriceComparison {
	var out []*models.PriceComparison
	for _, key := range f.orderedKeys(comparisons) {
		if market, ok := f.catalog.Get(key); ok && market.Domestic {
			out = append(out, comparisons[key])
		}
	}
	return out
}

// changeLine renders the day-over-day movement with a direction marker.
func changeLine(ch models.PriceChange, decimals int) string {
	emoji := "➡️"
	if ch.Absolute > 0 {
		emoji = "📈"
	} else if ch.Absolute < 0 {
		emoji = "📉"
	}
	return fmt.Sprintf("%s Thay đổi: %+.*f (%+.2f%%)\n", emoji, decimals, ch.Absolute, ch.Percent)
}

// formatThousands renders 4226.67 as "4,226.67" (decimals=2) or "4,227" (0).
func formatThousands(v float64, decimals int) string {
	s := fmt.Sprintf("%.*f", decimals, v)

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}

	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	out := strings.Join(groups, ",") + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
