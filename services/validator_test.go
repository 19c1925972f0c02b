package services

import (
	"testing"

	"coffee-tracker/config"
)

func testCatalog() *config.Catalog {
	return config.NewCatalog(config.Market{
		Key:          "robusta_london",
		Name:         "Robusta Coffee (London)",
		Unit:         "USD/tonne",
		MinPlausible: 2000,
		MaxPlausible: 8000,
		Estimate:     4275,
	})
}

func TestScoreTiers(t *testing.T) {
	v := NewValidator(testCatalog())

	tests := []struct {
		name  string
		price float64
		want  float64
	}{
		{"well inside range", 4280, 1.0},
		{"exactly at min", 2000, 1.0},
		{"exactly at max", 8000, 1.0},
		{"slightly below min", 1700, 0.7},
		{"at 0.8*min boundary", 1600, 0.7},
		{"slightly above max", 9000, 0.7},
		{"at 1.2*max boundary", 9600, 0.7},
		{"questionable low", 1100, 0.4},
		{"at 0.5*min boundary", 1000, 0.4},
		{"questionable high", 11000, 0.4},
		{"at 1.5*max boundary", 12000, 0.4},
		{"far below", 500, 0.1},
		{"far above", 50000, 0.1},
		{"zero", 0, 0.1},
		{"negative", -100, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.Score(tt.price, "robusta_london")
			if got != tt.want {
				t.Errorf("Score(%.0f) = %.1f, want %.1f", tt.price, got, tt.want)
			}
		})
	}
}

func TestScoreUnknownMarket(t *testing.T) {
	v := NewValidator(testCatalog())

	if got := v.Score(5000, "nonexistent_market"); got != 0.5 {
		t.Errorf("Score on unknown market = %.1f, want neutral 0.5", got)
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	v := NewValidator(config.DefaultCatalog())

	first := v.Score(57500, "robusta_vietnam")
	for i := 0; i < 10; i++ {
		if got := v.Score(57500, "robusta_vietnam"); got != first {
			t.Fatalf("Score varied between calls: %.2f vs %.2f", got, first)
		}
	}
	if first != 1.0 {
		t.Errorf("Score(57500, robusta_vietnam) = %.1f, want 1.0", first)
	}
}
