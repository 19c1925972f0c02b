package models

import (
	"fmt"
	"math"
	"time"
)

// PricePoint is a single price observation from one source for one market.
// Points are immutable once constructed; downstream stages only aggregate them.
type PricePoint struct {
	Source     string
	Price      float64
	Unit       string
	MarketKey  string
	Confidence float64
	ObservedAt time.Time
	RawText    string
	Location   string
}

// NewPricePoint validates the observation at the boundary so the
// reconciliation engine never has to defend against malformed prices.
func NewPricePoint(source string, price float64, unit, marketKey, rawText string) (*PricePoint, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return nil, fmt.Errorf("price point %s/%s: price is not finite", source, marketKey)
	}
	if price <= 0 {
		return nil, fmt.Errorf("price point %s/%s: price %.2f is not positive", source, marketKey, price)
	}

	return &PricePoint{
		Source:     source,
		Price:      price,
		Unit:       unit,
		MarketKey:  marketKey,
		ObservedAt: time.Now().UTC(),
		RawText:    rawText,
	}, nil
}

// WithConfidence returns a copy of the point carrying the given confidence.
func (p *PricePoint) WithConfidence(confidence float64) *PricePoint {
	cp := *p
	cp.Confidence = confidence
	return &cp
}

// WithLocation returns a copy of the point tagged with a sub-region.
func (p *PricePoint) WithLocation(location string) *PricePoint {
	cp := *p
	cp.Location = location
	return &cp
}

// PriceChange is the movement of a market's primary price against the
// previous stored observation.
type PriceChange struct {
	Previous float64
	Absolute float64
	Percent  float64
}

// NewPriceChange derives the movement from the previous stored price to
// the current primary. Reports ok=false when no usable previous price
// exists, so first-ever observations simply carry no change line.
func NewPriceChange(previous, current float64) (PriceChange, bool) {
	if math.IsNaN(previous) || math.IsInf(previous, 0) || previous <= 0 || current <= 0 {
		return PriceChange{}, false
	}

	abs := current - previous
	return PriceChange{
		Previous: previous,
		Absolute: abs,
		Percent:  abs / previous * 100,
	}, true
}

// RecommendationLevel classifies cross-source agreement for a market.
type RecommendationLevel int

const (
	// SingleSource means only one observation existed for the market.
	SingleSource RecommendationLevel = iota
	// Consistent means the spread across sources was under 5%.
	Consistent
	// ReasonableVariance means the spread was between 5% and 15%.
	ReasonableVariance
	// HighVariance means the spread was 15% or more.
	HighVariance
)

func (l RecommendationLevel) String() string {
	switch l {
	case SingleSource:
		return "single_source"
	case Consistent:
		return "consistent"
	case ReasonableVariance:
		return "reasonable_variance"
	case HighVariance:
		return "high_variance"
	default:
		return "unknown"
	}
}

// PriceRange is the (min, max) of observed prices for one market.
type PriceRange struct {
	Min float64
	Max float64
}

// PriceComparison is the reconciliation result for one market in one cycle.
// It exclusively owns the All slice; nothing mutates the points afterwards.
type PriceComparison struct {
	MarketKey        string
	Primary          *PricePoint
	All              []*PricePoint
	Range            PriceRange
	Average          float64
	Median           float64
	Variance         float64
	ReliabilityScore float64
	Level            RecommendationLevel
	Recommendation   string
}

// SourceCount returns how many observations backed this comparison.
func (c *PriceComparison) SourceCount() int {
	return len(c.All)
}

// CycleSummary captures the outcome of one scrape cycle for logging,
// storage and the report footer.
type CycleSummary struct {
	StartedAt   time.Time
	Duration    time.Duration
	SourcesUsed []string
	TotalPoints int
	Errors      []string
}
