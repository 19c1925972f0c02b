package services

import (
	"fmt"
	"sort"

	"coffee-tracker/models"
)

// TieBreak selects which of two equal-confidence points wins the primary slot.
type TieBreak int

const (
	// PreferEarliest picks the earliest-observed point on exact confidence
	// ties, which favors the first-registered source. This mirrors the
	// historical behavior and is the default.
	PreferEarliest TieBreak = iota
	// PreferLatest picks the most recently observed point instead.
	PreferLatest
)

// Reconciler groups one cycle's price points by market, computes summary
// statistics and selects a primary value per market. It is stateless: each
// Reconcile call operates only on the snapshot it is handed.
type Reconciler struct {
	// TieBreak controls primary selection on exact confidence ties.
	TieBreak TieBreak
}

// NewReconciler creates a Reconciler with the default earliest-first tie-break.
func NewReconciler() *Reconciler {
	return &Reconciler{TieBreak: PreferEarliest}
}

// Reconcile partitions points by market key and produces one PriceComparison
// per market present in the input. Empty input yields an empty map.
//
// Callers must hand in only well-formed points (finite, positive prices);
// the models.NewPricePoint constructor enforces this at the boundary. Points
// must not be mutated after being passed in.
func (r *Reconciler) Reconcile(points []*models.PricePoint) map[string]*models.PriceComparison {
	comparisons := make(map[string]*models.PriceComparison)

	groups := make(map[string][]*models.PricePoint)
	for _, p := range points {
		groups[p.MarketKey] = append(groups[p.MarketKey], p)
	}

	for marketKey, group := range groups {
		ordered := make([]*models.PricePoint, len(group))
		copy(ordered, group)
		r.order(ordered)

		comparisons[marketKey] = r.compare(marketKey, ordered)
	}

	return comparisons
}

// order sorts by confidence descending with a deterministic tie-break so the
// primary pick is reproducible given identical inputs, regardless of the
// order points arrived in.
func (r *Reconciler) order(points []*models.PricePoint) {
	sort.SliceStable(points, func(i, j int) bool {
		a, b := points[i], points[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if !a.ObservedAt.Equal(b.ObservedAt) {
			if r.TieBreak == PreferLatest {
				return a.ObservedAt.After(b.ObservedAt)
			}
			return a.ObservedAt.Before(b.ObservedAt)
		}
		// Last resort: source name, so identical timestamps stay stable too.
		return a.Source < b.Source
	})
}

func (r *Reconciler) compare(marketKey string, ordered []*models.PricePoint) *models.PriceComparison {
	primary := ordered[0]

	if len(ordered) == 1 {
		return &models.PriceComparison{
			MarketKey:        marketKey,
			Primary:          primary,
			All:              ordered,
			Range:            models.PriceRange{Min: primary.Price, Max: primary.Price},
			Average:          primary.Price,
			Median:           primary.Price,
			Variance:         0,
			ReliabilityScore: primary.Confidence,
			Level:            models.SingleSource,
			Recommendation:   fmt.Sprintf("single source: %s", primary.Source),
		}
	}

	prices := make([]float64, len(ordered))
	var confidenceSum float64
	for i, p := range ordered {
		prices[i] = p.Price
		confidenceSum += p.Confidence
	}

	min, max := prices[0], prices[0]
	var sum float64
	for _, v := range prices {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}
	average := sum / float64(len(prices))
	median := medianOf(prices)

	// Population variance: the group is the entire observed population for
	// this cycle, not a sample, so divide by N.
	var variance float64
	for _, v := range prices {
		d := v - average
		variance += d * d
	}
	variance /= float64(len(prices))

	// Agreement term. Floored at zero so the combined reliability score
	// stays within [0,1] even for wildly spread groups.
	consistency := 0.0
	if average > 0 {
		consistency = 1.0 - variance/(average*average)
		if consistency < 0 {
			consistency = 0
		}
	}
	reliability := (confidenceSum/float64(len(ordered)) + consistency) / 2.0

	spread := 0.0
	if average > 0 {
		spread = (max - min) / average
	}

	var level models.RecommendationLevel
	var recommendation string
	switch {
	case spread < 0.05:
		level = models.Consistent
		recommendation = fmt.Sprintf("consistent across %d sources", len(ordered))
	case spread < 0.15:
		level = models.ReasonableVariance
		recommendation = "reasonable variance across sources"
	default:
		level = models.HighVariance
		recommendation = "high variance - verify manually"
	}

	return &models.PriceComparison{
		MarketKey:        marketKey,
		Primary:          primary,
		All:              ordered,
		Range:            models.PriceRange{Min: min, Max: max},
		Average:          average,
		Median:           median,
		Variance:         variance,
		ReliabilityScore: reliability,
		Level:            level,
		Recommendation:   recommendation,
	}
}

// medianOf returns the statistical median; even-count groups average the two
// middle values. The input is not assumed sorted by price.
func medianOf(prices []float64) float64 {
	sorted := make([]float64, len(prices))
	copy(sorted, prices)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
