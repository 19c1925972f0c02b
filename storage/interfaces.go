package storage

import (
	"time"

	"coffee-tracker/models"
)

// PriceHistory is one stored observation, newest first in FetchHistory results.
type PriceHistory struct {
	MarketKey   string
	Price       float64
	Unit        string
	Source      string
	Reliability float64
	ObservedAt  time.Time
}

// HistoryStore is the interface any price-history backend must satisfy:
// it persists each cycle's comparisons and serves past primaries back for
// day-over-day change reporting.
type HistoryStore interface {
	WriteComparisons(comparisons map[string]*models.PriceComparison) error
	WriteRunLog(summary *models.CycleSummary) error
	FetchHistory(marketKey string, days int) ([]PriceHistory, error)
	Close() error
}

// RawPointWriter is the interface for persisting unprocessed observations.
type RawPointWriter interface {
	WriteRaw(points []*models.PricePoint) error
	Close() error
}
