// Package scraper drives one scrape cycle: it fans out over the configured
// sources, turns pages into validated price points and guarantees the
// headline markets are never empty by injecting static estimates last.
package scraper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"coffee-tracker/config"
	"coffee-tracker/models"
	"coffee-tracker/scraper/cafef"
	"coffee-tracker/scraper/giacaphe"
	"coffee-tracker/scraper/vietstock"
	"coffee-tracker/scraper/webgia"
	"coffee-tracker/services"
	"coffee-tracker/utils"
)

// Synthetic fallback points carry a fixed low confidence so the engine
// discounts them whenever any live source disagrees.
const (
	estimateSource     = "static_estimate"
	estimateConfidence = 0.4
)

// Fetcher returns page text for a URL or an explicit failure.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// ExtractFunc is a pure per-site extractor; the score callback attaches
// validator confidence to each candidate.
type ExtractFunc func(html string, score func(price float64, marketKey string) float64) []*models.PricePoint

// Source is one configured site, in priority order.
type Source struct {
	Name    string
	URL     string
	Extract ExtractFunc
	// Dynamic sources assemble prices with JavaScript and need the
	// rendering fetcher.
	Dynamic bool
}

// DefaultSources lists the sites the tracker scrapes, highest priority first.
func DefaultSources() []Source {
	return []Source{
		{Name: cafef.SourceName, URL: cafef.URL, Extract: cafef.Extract},
		{Name: vietstock.SourceName, URL: vietstock.URL, Extract: vietstock.Extract},
		{Name: giacaphe.SourceName, URL: giacaphe.URL, Extract: giacaphe.Extract},
		{Name: webgia.SourceName + "/world", URL: webgia.WorldURL, Extract: webgia.ExtractWorld, Dynamic: true},
		{Name: webgia.SourceName + "/vietnam", URL: webgia.VietnamURL, Extract: webgia.ExtractVietnam},
	}
}

// Scraper coordinates fetching and extraction for one cycle.
type Scraper struct {
	cfg       *config.Config
	catalog   *config.Catalog
	validator *services.Validator
	static    Fetcher
	browser   Fetcher
	sources   []Source
	logger    *utils.Logger
}

// New creates a Scraper over the default source list.
func New(cfg *config.Config, catalog *config.Catalog, validator *services.Validator,
	static, browser Fetcher, logger *utils.Logger) *Scraper {
	return &Scraper{
		cfg:       cfg,
		catalog:   catalog,
		validator: validator,
		static:    static,
		browser:   browser,
		sources:   DefaultSources(),
		logger:    logger,
	}
}

// WithSources replaces the source list; tests use it to point the scraper
// at fixtures.
func (s *Scraper) WithSources(sources []Source) *Scraper {
	s.sources = sources
	return s
}

// ScrapeAll fetches every source concurrently (bounded, rate-limited) and
// returns the validated points plus a cycle summary. The reconciliation
// engine must only be invoked with the returned snapshot, after this call
// has fully completed.
func (s *Scraper) ScrapeAll(ctx context.Context) ([]*models.PricePoint, *models.CycleSummary) {
	start := time.Now()
	s.logger.Info("[scraper] Starting cycle with %d sources", len(s.sources))

	pool := utils.NewWorkerPool(s.cfg.MaxConcurrency, s.cfg.RateLimitMs)
	seen := utils.NewSeenSet()

	var mu sync.Mutex
	var points []*models.PricePoint
	var sourcesUsed []string
	var errs []string

	for _, src := range s.sources {
		src := src
		pool.Submit(func() {
			srcPoints, err := s.scrapeSource(ctx, src)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", src.Name, err))
				return
			}

			kept := 0
			for _, p := range srcPoints {
				key := fmt.Sprintf("%s|%s|%.2f", p.Source, p.MarketKey, p.Price)
				if !seen.Add(key) {
					continue
				}
				points = append(points, p)
				kept++
			}

			if kept > 0 {
				sourcesUsed = append(sourcesUsed, src.Name)
				s.logger.Info("[scraper] %s contributed %d points", src.Name, kept)
			} else {
				s.logger.Warn("[scraper] %s returned no usable prices", src.Name)
			}
		})
	}
	pool.Wait()

	points = append(points, s.estimatePoints(points)...)

	summary := &models.CycleSummary{
		StartedAt:   start.UTC(),
		Duration:    time.Since(start),
		SourcesUsed: sourcesUsed,
		TotalPoints: len(points),
		Errors:      errs,
	}

	s.logger.Info("[scraper] Cycle done: %d points from %d sources in %v (%d errors)",
		len(points), len(sourcesUsed), summary.Duration.Round(time.Millisecond), len(errs))
	return points, summary
}

func (s *Scraper) scrapeSource(ctx context.Context, src Source) ([]*models.PricePoint, error) {
	fetcher := s.static
	if src.Dynamic {
		fetcher = s.browser
	}

	html, err := fetcher.Fetch(ctx, src.URL)
	if err != nil {
		return nil, err
	}

	return src.Extract(html, s.validator.Score), nil
}

// estimatePoints builds static_estimate points for configured markets no
// live source covered, so every headline market still flows through the
// normal validate/reconcile pipeline.
func (s *Scraper) estimatePoints(live []*models.PricePoint) []*models.PricePoint {
	if !s.cfg.EnableEstimates {
		return nil
	}

	covered := make(map[string]bool, len(live))
	for _, p := range live {
		covered[p.MarketKey] = true
	}

	var estimates []*models.PricePoint
	for _, key := range s.catalog.Keys() {
		if covered[key] {
			continue
		}
		market, _ := s.catalog.Get(key)
		if market.Estimate <= 0 {
			continue
		}

		point, err := models.NewPricePoint(estimateSource, market.Estimate, market.Unit, key,
			fmt.Sprintf("static estimate %.0f %s", market.Estimate, market.Unit))
		if err != nil {
			continue
		}
		estimates = append(estimates, point.WithConfidence(estimateConfidence))
		s.logger.Warn("[scraper] No live data for %s, using static estimate %.0f %s",
			key, market.Estimate, market.Unit)
	}
	return estimates
}
