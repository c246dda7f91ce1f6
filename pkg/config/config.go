package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: every environment variable is read here and nowhere else
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Redis
	Redis RedisConfig

	// Upstream data providers
	Finnhub    FinnhubConfig
	Yahoo      YahooConfig
	StockTwits StockTwitsConfig
	Reddit     RedditConfig

	// HTTPTimeout bounds every upstream request
	HTTPTimeout time.Duration

	// Reports
	Reports ReportsConfig

	// ProfilePath points at the YAML analysis profile (empty = built-in defaults)
	ProfilePath string

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// FinnhubConfig holds Finnhub API configuration
type FinnhubConfig struct {
	APIKey  string
	BaseURL string
}

// YahooConfig holds Yahoo Finance endpoints
type YahooConfig struct {
	ChartURL      string
	QuoteURL      string
	TimeseriesURL string
}

// StockTwitsConfig holds StockTwits configuration
type StockTwitsConfig struct {
	BaseURL string
}

// RedditConfig holds Reddit configuration.
// Public JSON listings only need a descriptive User-Agent.
type RedditConfig struct {
	BaseURL   string
	UserAgent string
}

// ReportsConfig controls where reports are written and how long they live
type ReportsConfig struct {
	Dir             string
	RetentionDays   int
	CleanupSchedule string // cron expression with seconds field
}

// Load reads configuration from environment variables
// ⭐ SSOT: the only function that calls os.Getenv()
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Finnhub: FinnhubConfig{
			APIKey:  getEnv("FINNHUB_API_KEY", ""),
			BaseURL: getEnv("FINNHUB_BASE_URL", "https://finnhub.io/api/v1"),
		},

		Yahoo: YahooConfig{
			ChartURL:      getEnv("YAHOO_CHART_URL", "https://query1.finance.yahoo.com/v8/finance/chart"),
			QuoteURL:      getEnv("YAHOO_QUOTE_URL", "https://finance.yahoo.com/quote"),
			TimeseriesURL: getEnv("YAHOO_TIMESERIES_URL", "https://query2.finance.yahoo.com/ws/fundamentals-timeseries/v1/finance/timeseries"),
		},

		StockTwits: StockTwitsConfig{
			BaseURL: getEnv("STOCKTWITS_BASE_URL", "https://api.stocktwits.com/api/2"),
		},

		Reddit: RedditConfig{
			BaseURL:   getEnv("REDDIT_BASE_URL", "https://www.reddit.com"),
			UserAgent: getEnv("REDDIT_USER_AGENT", "InvestoBot:1.0 (by u/Investo)"),
		},

		HTTPTimeout: getEnvAsDuration("HTTP_TIMEOUT", "12s"),

		Reports: ReportsConfig{
			Dir:             getEnv("REPORTS_DIR", "reports/generated"),
			RetentionDays:   getEnvAsInt("REPORTS_RETENTION_DAYS", 7),
			CleanupSchedule: getEnv("REPORTS_CLEANUP_SCHEDULE", "0 0 3 * * *"),
		},

		ProfilePath: getEnv("ANALYSIS_PROFILE", ""),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),

		// Monitoring
		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Reports.RetentionDays <= 0 {
		return fmt.Errorf("REPORTS_RETENTION_DAYS must be positive")
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}

	return nil
}

// HasFinnhub reports whether Finnhub calls can be made at all
func (c *Config) HasFinnhub() bool {
	return c.Finnhub.APIKey != ""
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	// Try paths in order of priority
	paths := []string{
		".env",        // Current directory
		"config/.env", // Project config dir
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
