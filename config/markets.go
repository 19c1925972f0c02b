package config

// Market describes one commodity/exchange pairing tracked by the system.
// The plausible range bounds the validator's scoring tiers; Estimate is the
// last-resort synthetic price injected when no live source covers the market.
type Market struct {
	Key          string
	Name         string
	NameVI       string
	Unit         string
	Symbol       string
	MinPlausible float64
	MaxPlausible float64
	Estimate     float64
	Domestic     bool
}

// Catalog is the immutable set of known markets, built once at startup and
// passed explicitly to the validator, reconciler and formatter.
type Catalog struct {
	markets map[string]Market
	order   []string
}

// NewCatalog builds a catalog from the given markets, preserving their order.
func NewCatalog(markets ...Market) *Catalog {
	c := &Catalog{markets: make(map[string]Market, len(markets))}
	for _, m := range markets {
		if _, dup := c.markets[m.Key]; dup {
			continue
		}
		c.markets[m.Key] = m
		c.order = append(c.order, m.Key)
	}
	return c
}

// DefaultCatalog returns the coffee markets the tracker reports on.
func DefaultCatalog() *Catalog {
	return NewCatalog(
		Market{
			Key:          "robusta_london",
			Name:         "Robusta Coffee (London)",
			NameVI:       "Cà phê Robusta London",
			Unit:         "USD/tonne",
			Symbol:       "LCF",
			MinPlausible: 2000,
			MaxPlausible: 8000,
			Estimate:     4275,
		},
		Market{
			Key:          "arabica_newyork",
			Name:         "Arabica Coffee (NYC)",
			NameVI:       "Cà phê Arabica New York",
			Unit:         "cents/lb",
			Symbol:       "KC",
			MinPlausible: 100,
			MaxPlausible: 400,
			Estimate:     246.8,
		},
		Market{
			Key:          "robusta_vietnam",
			Name:         "Robusta Vietnam National",
			NameVI:       "Cà phê Robusta Việt Nam",
			Unit:         "VND/kg",
			Symbol:       "VN-ROB",
			MinPlausible: 45000,
			MaxPlausible: 120000,
			Estimate:     57000,
			Domestic:     true,
		},
		Market{
			Key:          "robusta_vietnam_south",
			Name:         "Robusta Vietnam South",
			NameVI:       "Cà phê Robusta miền Nam",
			Unit:         "VND/kg",
			Symbol:       "VN-ROB-S",
			MinPlausible: 45000,
			MaxPlausible: 120000,
			Estimate:     58000,
			Domestic:     true,
		},
		Market{
			Key:          "robusta_vietnam_central",
			Name:         "Robusta Vietnam Central",
			NameVI:       "Cà phê Robusta miền Trung",
			Unit:         "VND/kg",
			Symbol:       "VN-ROB-C",
			MinPlausible: 45000,
			MaxPlausible: 120000,
			Estimate:     56000,
			Domestic:     true,
		},
	)
}

// Get returns the market for key, if known.
func (c *Catalog) Get(key string) (Market, bool) {
	m, ok := c.markets[key]
	return m, ok
}

// Keys returns market keys in registration order.
func (c *Catalog) Keys() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of configured markets.
func (c *Catalog) Len() int {
	return len(c.order)
}
