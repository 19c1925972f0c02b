package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	TelegramBotToken string
	TelegramChatID   string

	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	MaxConcurrency  int
	RateLimitMs     int
	MaxRetries      int
	FetchTimeoutSec int
	MinBodyBytes    int

	USDToVNDRate    float64
	EnableEstimates bool

	MorningSchedule string
	EveningSchedule string

	CSVOutputPath string
	ChromeBin     string
	LogLevel      string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   getEnv("TELEGRAM_CHAT_ID", ""),

		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "coffee"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "coffee123"),
		PostgresDB:       getEnv("POSTGRES_DB", "coffee_prices"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		MaxConcurrency:  getEnvInt("MAX_CONCURRENCY", 3),
		RateLimitMs:     getEnvInt("RATE_LIMIT_MS", 1000),
		MaxRetries:      getEnvInt("MAX_RETRIES", 2),
		FetchTimeoutSec: getEnvInt("FETCH_TIMEOUT_SEC", 12),
		MinBodyBytes:    getEnvInt("MIN_BODY_BYTES", 500),

		USDToVNDRate:    getEnvFloat("USD_TO_VND_RATE", 26000),
		EnableEstimates: getEnvBool("ENABLE_ESTIMATES", true),

		// Cron expressions evaluated in Asia/Ho_Chi_Minh: 8AM and 5PM local.
		MorningSchedule: getEnv("MORNING_SCHEDULE", "0 8 * * *"),
		EveningSchedule: getEnv("EVENING_SCHEDULE", "0 17 * * *"),

		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", "./output/raw_prices.csv"),
		ChromeBin:     getEnv("CHROME_BIN", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// TelegramConfigured reports whether delivery credentials are present.
func (c *Config) TelegramConfigured() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
