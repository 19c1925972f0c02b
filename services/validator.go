package services

import (
	"coffee-tracker/config"
)

// Confidence tiers returned by the validator. Out-of-range prices are
// scored low rather than rejected so they still surface in diagnostics.
const (
	scorePerfect      = 1.0
	scoreClose        = 0.7
	scoreQuestionable = 0.4
	scoreSuspicious   = 0.1
	scoreUnknown      = 0.5
)

// Validator scores a single observed price against the plausible range
// configured for its market. It is a total, deterministic function with
// no side effects.
type Validator struct {
	catalog *config.Catalog
}

// NewValidator creates a Validator over the given market catalog.
func NewValidator(catalog *config.Catalog) *Validator {
	return &Validator{catalog: catalog}
}

// Score returns a confidence in [0,1] for price on marketKey.
//
// Tiers:
//
//	within [min, max]            -> 1.0 (perfect range)
//	within [0.8*min, 1.2*max]    -> 0.7 (close to range)
//	within [0.5*min, 1.5*max]    -> 0.4 (questionable but possible)
//	otherwise                    -> 0.1 (very suspicious)
//
// An unknown marketKey yields the neutral 0.5 rather than an error.
func (v *Validator) Score(price float64, marketKey string) float64 {
	m, ok := v.catalog.Get(marketKey)
	if !ok {
		return scoreUnknown
	}

	switch {
	case price >= m.MinPlausible && price <= m.MaxPlausible:
		return scorePerfect
	case price >= m.MinPlausible*0.8 && price <= m.MaxPlausible*1.2:
		return scoreClose
	case price >= m.MinPlausible*0.5 && price <= m.MaxPlausible*1.5:
		return scoreQuestionable
	default:
		return scoreSuspicious
	}
}
