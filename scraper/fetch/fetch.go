// Package fetch retrieves raw page text for the extractors. It owns
// retries, timeouts and browser-like headers; callers only ever see a
// page body or an explicit failure.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"coffee-tracker/config"
	"coffee-tracker/utils"
)

// ErrUnavailable marks a source that could not produce usable page text
// this cycle (network failure, bad status, or a near-empty body).
var ErrUnavailable = errors.New("source unavailable")

// ErrChallenge marks a page hidden behind an anti-bot challenge.
var ErrChallenge = errors.New("anti-bot challenge page")

// User agents rotated between attempts, mirroring a normal browser mix.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1.2 Safari/605.1.15",
}

// Client fetches static pages over plain HTTP.
type Client struct {
	http         *http.Client
	retry        *utils.RetryConfig
	logger       *utils.Logger
	minBodyBytes int
	pick         func(n int) int
}

// NewClient creates a Client from the application config.
func NewClient(cfg *config.Config, logger *utils.Logger) *Client {
	return &Client{
		http: &http.Client{
			Timeout: time.Duration(cfg.FetchTimeoutSec) * time.Second,
		},
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   time.Second,
			Logger:      logger,
		},
		logger:       logger,
		minBodyBytes: cfg.MinBodyBytes,
		pick:         rand.Intn,
	}
}

// Fetch returns the page body for url, retrying with a fresh User-Agent on
// each attempt. Bodies shorter than the configured minimum are rejected:
// they are almost always anti-bot interstitials, not real content.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	var body string

	err := c.retry.Do(fmt.Sprintf("fetch %s", url), func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		c.setHeaders(req)

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		text := string(raw)
		if IsChallenge(text) {
			return ErrChallenge
		}
		if len(text) < c.minBodyBytes {
			return fmt.Errorf("%w: body too short (%d bytes)", ErrUnavailable, len(text))
		}

		body = text
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrChallenge) {
			return "", ErrChallenge
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return body, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", userAgents[c.pick(len(userAgents))])
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "vi-VN,vi;q=0.9,en;q=0.8")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
}

// IsChallenge reports whether the body looks like an anti-bot challenge
// page rather than real content.
func IsChallenge(body string) bool {
	lower := strings.ToLower(body)
	return strings.Contains(lower, "just a moment") ||
		strings.Contains(lower, "checking your browser") ||
		strings.Contains(lower, "cf-challenge")
}
