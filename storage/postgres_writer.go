package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"coffee-tracker/models"
)

// PostgresWriter persists reconciled prices and scrape run logs, building
// the history used for day-over-day change reporting.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 5; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS coffee_prices (
			id            SERIAL PRIMARY KEY,
			market_key    VARCHAR(50)   NOT NULL,
			price         NUMERIC(14,2) NOT NULL,
			unit          VARCHAR(20)   NOT NULL,
			source        TEXT          NOT NULL,
			confidence    NUMERIC(4,2)  NOT NULL DEFAULT 0,
			reliability   NUMERIC(4,2)  NOT NULL DEFAULT 0,
			source_count  INT           NOT NULL DEFAULT 1,
			price_min     NUMERIC(14,2) NOT NULL DEFAULT 0,
			price_max     NUMERIC(14,2) NOT NULL DEFAULT 0,
			recommendation TEXT         NOT NULL DEFAULT '',
			raw_text      TEXT          NOT NULL DEFAULT '',
			observed_at   TIMESTAMPTZ   NOT NULL,
			created_at    TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_coffee_prices_market   ON coffee_prices(market_key);
		CREATE INDEX IF NOT EXISTS idx_coffee_prices_observed ON coffee_prices(observed_at);

		CREATE TABLE IF NOT EXISTS scrape_runs (
			id            SERIAL PRIMARY KEY,
			started_at    TIMESTAMPTZ NOT NULL,
			duration_ms   BIGINT      NOT NULL,
			total_points  INT         NOT NULL,
			sources_used  TEXT        NOT NULL DEFAULT '',
			errors        TEXT        NOT NULL DEFAULT '',
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	return err
}

// WriteComparisons stores one row per market: the primary price plus the
// cross-source statistics for that cycle.
func (pw *PostgresWriter) WriteComparisons(comparisons map[string]*models.PriceComparison) error {
	if len(comparisons) == 0 {
		return nil
	}

	valueStrings := make([]string, 0, len(comparisons))
	valueArgs := make([]interface{}, 0, len(comparisons)*12)

	idx := 0
	for _, comp := range comparisons {
		base := idx * 12
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6,
				base+7, base+8, base+9, base+10, base+11, base+12))
		valueArgs = append(valueArgs,
			comp.MarketKey,
			comp.Primary.Price,
			comp.Primary.Unit,
			comp.Primary.Source,
			comp.Primary.Confidence,
			comp.ReliabilityScore,
			comp.SourceCount(),
			comp.Range.Min,
			comp.Range.Max,
			comp.Recommendation,
			comp.Primary.RawText,
			comp.Primary.ObservedAt,
		)
		idx++
	}

	query := fmt.Sprintf(`
		INSERT INTO coffee_prices (
			market_key, price, unit, source, confidence, reliability,
			source_count, price_min, price_max, recommendation, raw_text, observed_at
		) VALUES %s
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	if err != nil {
		return fmt.Errorf("postgres: insert comparisons: %w", err)
	}
	return nil
}

// WriteRunLog records the outcome of one scrape cycle.
func (pw *PostgresWriter) WriteRunLog(summary *models.CycleSummary) error {
	_, err := pw.db.Exec(`
		INSERT INTO scrape_runs (started_at, duration_ms, total_points, sources_used, errors)
		VALUES ($1, $2, $3, $4, $5)
	`,
		summary.StartedAt,
		summary.Duration.Milliseconds(),
		summary.TotalPoints,
		strings.Join(summary.SourcesUsed, ","),
		strings.Join(summary.Errors, "; "),
	)
	if err != nil {
		return fmt.Errorf("postgres: insert run log: %w", err)
	}
	return nil
}

// FetchHistory returns stored prices for a market over the last `days` days.
func (pw *PostgresWriter) FetchHistory(marketKey string, days int) ([]PriceHistory, error) {
	rows, err := pw.db.Query(`
		SELECT market_key, price, unit, source, reliability, observed_at
		FROM coffee_prices
		WHERE market_key = $1 AND observed_at >= NOW() - ($2 || ' days')::interval
		ORDER BY observed_at DESC
	`, marketKey, days)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch history: %w", err)
	}
	defer rows.Close()

	var history []PriceHistory
	for rows.Next() {
		var h PriceHistory
		if err := rows.Scan(&h.MarketKey, &h.Price, &h.Unit, &h.Source, &h.Reliability, &h.ObservedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
