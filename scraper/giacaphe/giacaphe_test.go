package giacaphe

import "testing"

func fixedScore(price float64, marketKey string) float64 {
	return 1.0
}

func TestExtractRegions(t *testing.T) {
	html := `<html><body><table>
		<tr><td>Giá cà phê Miền Nam</td><td>58.500</td></tr>
		<tr><td>Giá cà phê Miền Trung</td><td>57.200</td></tr>
	</table></body></html>`

	points := Extract(html, fixedScore)
	if len(points) != 2 {
		t.Fatalf("expected 2 regional points, got %d", len(points))
	}

	byMarket := map[string]float64{}
	locations := map[string]string{}
	for _, p := range points {
		byMarket[p.MarketKey] = p.Price
		locations[p.MarketKey] = p.Location
		if p.Unit != "VND/kg" {
			t.Errorf("unit: got %q, want VND/kg", p.Unit)
		}
	}

	if byMarket["robusta_vietnam_south"] != 58500 {
		t.Errorf("south price: got %v, want 58500", byMarket["robusta_vietnam_south"])
	}
	if byMarket["robusta_vietnam_central"] != 57200 {
		t.Errorf("central price: got %v, want 57200", byMarket["robusta_vietnam_central"])
	}
	if locations["robusta_vietnam_south"] != "Miền Nam" {
		t.Errorf("south location: got %q", locations["robusta_vietnam_south"])
	}
	if locations["robusta_vietnam_central"] != "Miền Trung" {
		t.Errorf("central location: got %q", locations["robusta_vietnam_central"])
	}
}

func TestExtractNationalFallback(t *testing.T) {
	html := `<html><body><table>
		<tr><td>Giá cà phê hôm nay</td><td>58.000 đ/kg</td></tr>
	</table></body></html>`

	points := Extract(html, fixedScore)
	if len(points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(points))
	}
	if points[0].MarketKey != "robusta_vietnam" {
		t.Errorf("market: got %q, want national robusta_vietnam", points[0].MarketKey)
	}
	if points[0].Location != "" {
		t.Errorf("unmarked price should carry no location, got %q", points[0].Location)
	}
}

func TestExtractRequiresCoffeeContext(t *testing.T) {
	html := `<html><body><table>
		<tr><td>Vàng SJC</td><td>79.500</td></tr>
	</table></body></html>`

	if points := Extract(html, fixedScore); len(points) != 0 {
		t.Errorf("expected no points without coffee context, got %d", len(points))
	}
}

func TestExtractDeduplicatesPerRegion(t *testing.T) {
	html := `<html><body><table>
		<tr><td>Giá cà phê miền nam sáng</td><td>58.500</td></tr>
		<tr><td>Giá cà phê miền nam chiều</td><td>58.700</td></tr>
	</table></body></html>`

	points := Extract(html, fixedScore)
	if len(points) != 1 {
		t.Fatalf("expected 1 point after per-region dedupe, got %d", len(points))
	}
	if points[0].Price != 58500 {
		t.Errorf("first observation should win: got %v", points[0].Price)
	}
}
