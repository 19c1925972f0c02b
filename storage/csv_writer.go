package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"coffee-tracker/models"
)

// CSVWriter keeps a raw audit trail of every observation the extractors
// produced, before reconciliation touched them. It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)

	if err := w.Write([]string{
		"source", "market_key", "price", "unit", "confidence", "location", "raw_text", "observed_at",
	}); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// WriteRaw appends one row per observed price point.
func (c *CSVWriter) WriteRaw(points []*models.PricePoint) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range points {
		row := []string{
			p.Source,
			p.MarketKey,
			strconv.FormatFloat(p.Price, 'f', 2, 64),
			p.Unit,
			strconv.FormatFloat(p.Confidence, 'f', 2, 64),
			p.Location,
			p.RawText,
			p.ObservedAt.Format(time.RFC3339),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
