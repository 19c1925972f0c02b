// Package scheduler runs the report cycle on the configured cron schedules
// in Vietnam local time, plus weekday market-hours jobs evaluated in each
// exchange's own timezone.
package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"coffee-tracker/utils"
)

// Vietnam is the timezone all schedules are evaluated in; the audience of
// the report lives there regardless of where the process runs.
const vietnamTZ = "Asia/Ho_Chi_Minh"

// Scheduler wraps a cron runner with the daily report jobs and the
// per-exchange market-hours jobs.
type Scheduler struct {
	cron     *cron.Cron
	runCycle func(trigger string)
	logger   *utils.Logger
}

// MarketHours describes one exchange's trading window, in the exchange's
// own timezone. Times are "HH:MM" on a 24h clock.
type MarketHours struct {
	Name          string
	Timezone      string
	Open          string
	Close         string
	PreMarketLead time.Duration
}

// DefaultMarketHours lists the exchanges the tracked futures trade on.
func DefaultMarketHours() []MarketHours {
	return []MarketHours{
		{
			Name:          "ICE Europe (London)",
			Timezone:      "Europe/London",
			Open:          "09:00",
			Close:         "17:30",
			PreMarketLead: 30 * time.Minute,
		},
		{
			Name:          "ICE US (New York)",
			Timezone:      "America/New_York",
			Open:          "09:15",
			Close:         "14:30",
			PreMarketLead: 30 * time.Minute,
		},
	}
}

// New builds a Scheduler that invokes runCycle at the morning and evening
// cron schedules (standard 5-field expressions, Vietnam local time).
func New(morning, evening string, runCycle func(trigger string), logger *utils.Logger) (*Scheduler, error) {
	loc, err := time.LoadLocation(vietnamTZ)
	if err != nil {
		return nil, fmt.Errorf("scheduler: load timezone: %w", err)
	}

	c := cron.New(cron.WithLocation(loc))

	if _, err := c.AddFunc(morning, func() { runCycle("morning") }); err != nil {
		return nil, fmt.Errorf("scheduler: morning schedule %q: %w", morning, err)
	}
	if _, err := c.AddFunc(evening, func() { runCycle("evening") }); err != nil {
		return nil, fmt.Errorf("scheduler: evening schedule %q: %w", evening, err)
	}

	logger.Info("[scheduler] Jobs registered: morning=%q evening=%q (%s)", morning, evening, vietnamTZ)
	return &Scheduler{cron: c, runCycle: runCycle, logger: logger}, nil
}

// AddMarketHours registers weekday-only jobs at each exchange's pre-market,
// open and close times. Weekends are excluded at the cron level; each job
// is evaluated in its exchange's timezone, not Vietnam's.
func (s *Scheduler) AddMarketHours(markets []MarketHours) error {
	for _, m := range markets {
		events := []struct {
			trigger string
			at      string
			lead    time.Duration
		}{
			{"pre-market " + m.Name, m.Open, m.PreMarketLead},
			{"open " + m.Name, m.Open, 0},
			{"close " + m.Name, m.Close, 0},
		}

		for _, ev := range events {
			spec, err := weekdaySpec(m.Timezone, ev.at, ev.lead)
			if err != nil {
				return fmt.Errorf("scheduler: %s: %w", m.Name, err)
			}
			trigger := ev.trigger
			if _, err := s.cron.AddFunc(spec, func() { s.runCycle(trigger) }); err != nil {
				return fmt.Errorf("scheduler: register %q: %w", trigger, err)
			}
		}

		s.logger.Info("[scheduler] Market-hours jobs registered for %s (%s, %s-%s)",
			m.Name, m.Timezone, m.Open, m.Close)
	}
	return nil
}

// weekdaySpec builds a Mon-Fri cron expression for hhmm minus lead, pinned
// to the given timezone via the CRON_TZ prefix.
func weekdaySpec(tz, hhmm string, lead time.Duration) (string, error) {
	at, err := time.Parse("15:04", hhmm)
	if err != nil {
		return "", fmt.Errorf("parse time %q: %w", hhmm, err)
	}
	at = at.Add(-lead)
	return fmt.Sprintf("CRON_TZ=%s %d %d * * 1-5", tz, at.Minute(), at.Hour()), nil
}

// Start launches the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("[scheduler] Running, next runs: %v", s.nextRuns())
}

// Stop halts scheduling and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("[scheduler] Stopped")
}

func (s *Scheduler) nextRuns() []time.Time {
	var next []time.Time
	for _, entry := range s.cron.Entries() {
		next = append(next, entry.Next)
	}
	return next
}
