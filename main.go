package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"coffee-tracker/config"
	"coffee-tracker/models"
	"coffee-tracker/notifier"
	"coffee-tracker/scheduler"
	"coffee-tracker/scraper"
	"coffee-tracker/scraper/fetch"
	"coffee-tracker/services"
	"coffee-tracker/storage"
	"coffee-tracker/utils"
)

var onceFlag = flag.Bool("once", false, "run a single scrape cycle and exit")

type app struct {
	cfg        *config.Config
	logger     *utils.Logger
	scraper    *scraper.Scraper
	reconciler *services.Reconciler
	formatter  *services.Formatter
	telegram   *notifier.Telegram
	rawWriter  storage.RawPointWriter
	history    storage.HistoryStore
}

func main() {
	flag.Parse()

	cfg := config.Load()
	logger := utils.NewLogger(utils.ParseLevel(cfg.LogLevel))

	logger.Info("=== Coffee Price Tracker starting ===")
	logger.Info("Config — concurrency: %d | rate: %dms | retries: %d | estimates: %v",
		cfg.MaxConcurrency, cfg.RateLimitMs, cfg.MaxRetries, cfg.EnableEstimates)

	catalog := config.DefaultCatalog()
	validator := services.NewValidator(catalog)

	a := &app{
		cfg:        cfg,
		logger:     logger,
		scraper:    scraper.New(cfg, catalog, validator, fetch.NewClient(cfg, logger), fetch.NewBrowser(cfg, logger), logger),
		reconciler: services.NewReconciler(),
		formatter:  services.NewFormatter(catalog, cfg.USDToVNDRate),
	}

	csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath)
	if err != nil {
		logger.Error("Failed to create CSV writer: %v", err)
		os.Exit(1)
	}
	defer csvWriter.Close()
	a.rawWriter = csvWriter

	// Price history is best-effort: a missed report is worse than missed
	// history, so a down database only degrades to a warning.
	if cfg.PostgresEnabled {
		pgWriter, err := storage.NewPostgresWriter(cfg.DSN())
		if err != nil {
			logger.Warn("PostgreSQL unavailable, continuing without history: %v", err)
		} else {
			defer pgWriter.Close()
			a.history = pgWriter
		}
	}

	if cfg.TelegramConfigured() {
		tg, err := notifier.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID, logger)
		if err != nil {
			logger.Error("Telegram setup failed: %v", err)
			os.Exit(1)
		}
		a.telegram = tg
	} else {
		logger.Warn("TELEGRAM_BOT_TOKEN/TELEGRAM_CHAT_ID not set — reports print to stdout only")
	}

	if *onceFlag {
		a.runCycle("manual")
		return
	}

	sched, err := scheduler.New(cfg.MorningSchedule, cfg.EveningSchedule, a.runCycle, logger)
	if err != nil {
		logger.Error("Scheduler setup failed: %v", err)
		os.Exit(1)
	}
	if err := sched.AddMarketHours(scheduler.DefaultMarketHours()); err != nil {
		logger.Error("Market-hours setup failed: %v", err)
		os.Exit(1)
	}

	if a.telegram != nil {
		if err := a.telegram.SendStartup(cfg.MorningSchedule, cfg.EveningSchedule); err != nil {
			logger.Warn("Startup notification failed: %v", err)
		}
	}

	sched.Start()
	defer sched.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	logger.Info("Shutting down")
}

// runCycle executes one full scrape → reconcile → report pass.
func (a *app) runCycle(trigger string) {
	a.logger.Info("=== Cycle start (%s) ===", trigger)
	ctx := context.Background()

	points, summary := a.scraper.ScrapeAll(ctx)

	if err := a.rawWriter.WriteRaw(points); err != nil {
		a.logger.Warn("CSV audit write failed: %v", err)
	}

	comparisons := a.reconciler.Reconcile(points)
	a.logComparisons(comparisons)

	// Change lookup must happen before this cycle's rows land, or every
	// change would compare the cycle against itself.
	var changes map[string]models.PriceChange
	if a.history != nil {
		changes = a.priceChanges(comparisons)

		if err := a.history.WriteComparisons(comparisons); err != nil {
			a.logger.Warn("History write failed: %v", err)
		}
		if err := a.history.WriteRunLog(summary); err != nil {
			a.logger.Warn("Run log write failed: %v", err)
		}
	}

	report := a.formatter.Format(comparisons, changes, summary)

	if a.telegram != nil {
		if err := a.telegram.Send(report); err != nil {
			a.logger.Error("Report delivery failed: %v", err)
			if notifyErr := a.telegram.SendError("báo giá cà phê", err); notifyErr != nil {
				a.logger.Error("Error notification also failed: %v", notifyErr)
			}
		}
	} else {
		fmt.Printf("\n%s\n\n", report)
	}

	a.logger.Info("=== Cycle done (%s): %d markets, %d points ===",
		trigger, len(comparisons), summary.TotalPoints)
}

// priceChanges derives each market's day-over-day movement from the last
// stored primary.
func (a *app) priceChanges(comparisons map[string]*models.PriceComparison) map[string]models.PriceChange {
	changes := make(map[string]models.PriceChange)
	for key, comp := range comparisons {
		rows, err := a.history.FetchHistory(key, 7)
		if err != nil {
			a.logger.Warn("History lookup failed for %s: %v", key, err)
			continue
		}
		if len(rows) == 0 {
			continue
		}
		if ch, ok := models.NewPriceChange(rows[0].Price, comp.Primary.Price); ok {
			changes[key] = ch
		}
	}
	return changes
}

func (a *app) logComparisons(comparisons map[string]*models.PriceComparison) {
	for key, comp := range comparisons {
		a.logger.Info("[reconcile] %s: primary %.2f %s from %s (reliability %.2f, %d sources) — %s",
			key, comp.Primary.Price, comp.Primary.Unit, comp.Primary.Source,
			comp.ReliabilityScore, comp.SourceCount(), comp.Recommendation)
	}
}
