package fetch

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"coffee-tracker/config"
	"coffee-tracker/utils"
)

// Browser fetches pages that assemble their prices with JavaScript
// (webgia.com in particular), by rendering them in headless Chrome and
// returning the settled DOM.
type Browser struct {
	opts         []chromedp.ExecAllocatorOption
	retry        *utils.RetryConfig
	logger       *utils.Logger
	minBodyBytes int
}

// NewBrowser prepares a headless-Chrome backed fetcher. The browser itself
// is launched lazily per fetch.
func NewBrowser(cfg *config.Config, logger *utils.Logger) *Browser {
	chromeBin := findChromeBinary(cfg.ChromeBin)
	if chromeBin != "" {
		logger.Debug("[fetch] Using browser binary: %s", chromeBin)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(userAgents[0]),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	return &Browser{
		opts: opts,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
		logger:       logger,
		minBodyBytes: cfg.MinBodyBytes,
	}
}

// Fetch renders url and returns the resulting document HTML.
func (b *Browser) Fetch(ctx context.Context, url string) (string, error) {
	var html string

	err := b.retry.Do(fmt.Sprintf("render %s", url), func() error {
		allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, b.opts...)
		defer cancelAlloc()

		// Suppress chromedp log noise
		browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
			chromedp.WithLogf(func(string, ...interface{}) {}))
		defer cancelBrowser()

		runCtx, cancelTimeout := context.WithTimeout(browserCtx, 60*time.Second)
		defer cancelTimeout()

		var rendered string
		err := chromedp.Run(runCtx,
			chromedp.Navigate(url),
			chromedp.Sleep(4*time.Second),
			chromedp.OuterHTML("html", &rendered),
		)
		if err != nil {
			return fmt.Errorf("chromedp render: %w", err)
		}

		if IsChallenge(rendered) {
			return ErrChallenge
		}
		if len(rendered) < b.minBodyBytes {
			return fmt.Errorf("%w: rendered body too short (%d bytes)", ErrUnavailable, len(rendered))
		}

		html = rendered
		return nil
	})

	if err != nil {
		return "", err
	}
	return html, nil
}

// findChromeBinary locates the Chrome/Chromium binary to drive.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
