package parse

import "testing"

func TestPrice(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
		ok   bool
	}{
		{"plain integer", "58000", 58000, true},
		{"vietnamese dot grouping", "58.000", 58000, true},
		{"vietnamese grouping with suffix", "Giá: 58.000 đ/kg", 58000, true},
		{"international comma grouping", "4,280", 4280, true},
		{"comma grouping with decimals", "4,280.50", 4280.50, true},
		{"dot grouping with comma decimals", "4.280,50", 4280.50, true},
		{"plain decimal", "246.8", 246.8, true},
		{"comma as decimal mark", "246,8", 246.8, true},
		{"embedded in prose", "Robusta hôm nay đạt 4.280 USD/tấn", 4280, true},
		{"single digit", "7", 7, true},
		{"no number", "không có dữ liệu", 0, false},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Price(tt.text)
			if ok != tt.ok {
				t.Fatalf("Price(%q) ok = %v, want %v", tt.text, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("Price(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestPriceInRange(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		min, max float64
		want     float64
		ok       bool
	}{
		{"picks in-range value over earlier out-of-range", "giá 120 điểm, robusta 4.280 USD", 2000, 8000, 4280, true},
		{"skips year-like numbers", "năm 2025 giá 58.000", 45000, 120000, 58000, true},
		{"first in-range wins", "4.280 rồi 4.300", 2000, 8000, 4280, true},
		{"nothing in range", "12 34 56", 2000, 8000, 0, false},
		{"boundary inclusive", "2000", 2000, 8000, 2000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PriceInRange(tt.text, tt.min, tt.max)
			if ok != tt.ok {
				t.Fatalf("PriceInRange(%q) ok = %v, want %v", tt.text, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("PriceInRange(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestBareDigitsInRange(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		min, max float64
		want     float64
		ok       bool
	}{
		{"finds bare run", "gia ca phe 58000 dong", 45000, 120000, 58000, true},
		{"ignores short runs", "ma 123 khong phai gia", 45000, 120000, 0, false},
		{"ignores out-of-range runs", "nam 2025", 45000, 120000, 0, false},
		{"first plausible run wins", "2025 57500 58000", 45000, 120000, 57500, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := BareDigitsInRange(tt.text, tt.min, tt.max)
			if ok != tt.ok {
				t.Fatalf("BareDigitsInRange(%q) ok = %v, want %v", tt.text, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("BareDigitsInRange(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
