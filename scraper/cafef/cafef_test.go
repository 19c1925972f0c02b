package cafef

import "testing"

func fixedScore(price float64, marketKey string) float64 {
	return 0.9
}

func TestExtract(t *testing.T) {
	html := `<html><body>
		<div class="market-header">Giá cà phê Robusta hôm nay</div>
		<div class="market-price">58.000 đ/kg</div>
		<div class="market-change">+500</div>
	</body></html>`

	points := Extract(html, fixedScore)
	if len(points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(points))
	}

	p := points[0]
	if p.Source != SourceName {
		t.Errorf("source: got %q, want %q", p.Source, SourceName)
	}
	if p.Price != 58000 {
		t.Errorf("price: got %v, want 58000", p.Price)
	}
	if p.MarketKey != "robusta_vietnam" || p.Unit != "VND/kg" {
		t.Errorf("market/unit: got %s/%s", p.MarketKey, p.Unit)
	}
	if p.Confidence != 0.9 {
		t.Errorf("confidence: got %v, want the scorer's 0.9", p.Confidence)
	}
}

func TestExtractSelectorFallback(t *testing.T) {
	// No *price* class anywhere; the Vietnamese "gia" class should still hit.
	html := `<html><body>
		<span class="gia-hien-tai">Giá hiện tại: 61.200</span>
	</body></html>`

	points := Extract(html, fixedScore)
	if len(points) != 1 {
		t.Fatalf("expected 1 point from fallback selector, got %d", len(points))
	}
	if points[0].Price != 61200 {
		t.Errorf("price: got %v, want 61200", points[0].Price)
	}
}

func TestExtractIgnoresImplausibleNumbers(t *testing.T) {
	html := `<html><body>
		<div class="price">Cập nhật 02/06/2025</div>
		<div class="price">Mã CK: 1234</div>
	</body></html>`

	if points := Extract(html, fixedScore); len(points) != 0 {
		t.Errorf("expected no points for out-of-band numbers, got %d", len(points))
	}
}

func TestExtractBrokenHTML(t *testing.T) {
	if points := Extract("<<<not html", fixedScore); len(points) != 0 {
		t.Errorf("expected no points from garbage input, got %d", len(points))
	}
}
