package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string
	Env  string

	// Staleness cadence per asset class
	PriceMaxAge     time.Duration
	QuarterlyMaxAge time.Duration
	AnnualMaxAge    time.Duration
	// Which statement cadence the vendor delivers: "annual" or "quarterly"
	StatementCadence string

	// Metrics
	MetricsWindow   int
	MinObservations int
	PeriodsPerYear  int
	MarketIndex     string
	HistoryRange    string

	// Vendor gateway
	VendorBaseURL   string
	VendorTimeout   time.Duration
	VendorRateLimit float64

	// Batch refresh daemon
	RefreshCron    string
	RefreshWorkers int
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		PriceMaxAge:      getDuration("PRICE_MAX_AGE", 6*time.Hour),
		QuarterlyMaxAge:  getDuration("QUARTERLY_MAX_AGE", 30*24*time.Hour),
		AnnualMaxAge:     getDuration("ANNUAL_MAX_AGE", 120*24*time.Hour),
		StatementCadence: getEnv("STATEMENT_CADENCE", "annual"),

		MetricsWindow:   getInt("METRICS_WINDOW", 60),
		MinObservations: getInt("MIN_OBSERVATIONS", 2),
		PeriodsPerYear:  getInt("PERIODS_PER_YEAR", 252),
		MarketIndex:     getEnv("MARKET_INDEX", "^GSPC"),
		HistoryRange:    getEnv("HISTORY_RANGE", "1y"),

		VendorBaseURL:   getEnv("VENDOR_BASE_URL", ""),
		VendorTimeout:   getDuration("VENDOR_TIMEOUT", 30*time.Second),
		VendorRateLimit: getFloat("VENDOR_RATE_LIMIT", 5),

		RefreshCron:    getEnv("REFRESH_CRON", "@every 6h"),
		RefreshWorkers: getInt("REFRESH_WORKERS", 4),
	}

	if config.MinObservations < 2 {
		log.Printf("Warning: MIN_OBSERVATIONS %d below minimum, using 2\n", config.MinObservations)
		config.MinObservations = 2
	}
	if config.StatementCadence != "annual" && config.StatementCadence != "quarterly" {
		log.Printf("Warning: invalid STATEMENT_CADENCE %q, falling back to annual\n", config.StatementCadence)
		config.StatementCadence = "annual"
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration parses a duration environment variable or returns a default value
func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}

// getInt parses an integer environment variable or returns a default value
func getInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, raw, defaultValue)
		return defaultValue
	}
	return n
}

// getFloat parses a float environment variable or returns a default value
func getFloat(key string, defaultValue float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %g\n", key, raw, defaultValue)
		return defaultValue
	}
	return f
}
