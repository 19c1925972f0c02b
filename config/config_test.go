package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.MaxConcurrency != 3 {
		t.Errorf("MaxConcurrency: got %d, want 3", cfg.MaxConcurrency)
	}
	if cfg.RateLimitMs != 1000 {
		t.Errorf("RateLimitMs: got %d, want 1000", cfg.RateLimitMs)
	}
	if cfg.USDToVNDRate != 26000 {
		t.Errorf("USDToVNDRate: got %v, want 26000", cfg.USDToVNDRate)
	}
	if !cfg.EnableEstimates {
		t.Error("EnableEstimates should default to true")
	}
	if cfg.MorningSchedule != "0 8 * * *" || cfg.EveningSchedule != "0 17 * * *" {
		t.Errorf("schedules: got %q / %q", cfg.MorningSchedule, cfg.EveningSchedule)
	}
	if cfg.TelegramConfigured() {
		t.Error("telegram should not be configured without env vars")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MAX_CONCURRENCY", "7")
	t.Setenv("USD_TO_VND_RATE", "25500.5")
	t.Setenv("ENABLE_ESTIMATES", "false")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123")

	cfg := Load()

	if cfg.MaxConcurrency != 7 {
		t.Errorf("MaxConcurrency: got %d, want 7", cfg.MaxConcurrency)
	}
	if cfg.USDToVNDRate != 25500.5 {
		t.Errorf("USDToVNDRate: got %v, want 25500.5", cfg.USDToVNDRate)
	}
	if cfg.EnableEstimates {
		t.Error("EnableEstimates should be off")
	}
	if !cfg.TelegramConfigured() {
		t.Error("telegram should be configured")
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("MAX_RETRIES", "many")
	t.Setenv("USD_TO_VND_RATE", "a lot")

	cfg := Load()

	if cfg.MaxRetries != 2 {
		t.Errorf("MaxRetries: got %d, want fallback 2", cfg.MaxRetries)
	}
	if cfg.USDToVNDRate != 26000 {
		t.Errorf("USDToVNDRate: got %v, want fallback 26000", cfg.USDToVNDRate)
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		PostgresHost:     "db",
		PostgresPort:     "5433",
		PostgresUser:     "coffee",
		PostgresPassword: "secret",
		PostgresDB:       "prices",
		PostgresSSLMode:  "disable",
	}

	want := "host=db port=5433 user=coffee password=secret dbname=prices sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN: got %q, want %q", got, want)
	}
}
