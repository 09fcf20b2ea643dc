package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"airbnb-reviews/utils"
)

// DefaultUserAgent is sent by both the browser and the HTTP tiers.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config holds all application configuration loaded from environment variables.
type Config struct {
	BaseURL   string
	UserAgent string
	ChromeBin string

	RenderedEnabled bool
	ParsedEnabled   bool

	RenderedMaxAttempts int
	ParsedMaxAttempts   int
	RetryBaseDelayMs    int
	RenderedTimeoutMs   int
	HTTPTimeoutMs       int
	RequestsPerSecond   float64

	Port              int
	MaxAnalyzeReviews int

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	MaxConcurrency int
	RateLimitMs    int
	CSVOutputPath  string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current process environment only.
func FromEnv() *Config {
	return &Config{
		BaseURL:   getEnv("AIRBNB_BASE_URL", "https://www.airbnb.com"),
		UserAgent: getEnv("USER_AGENT", DefaultUserAgent),
		ChromeBin: getEnv("CHROME_BIN", ""),

		RenderedEnabled: getEnvBool("RENDERED_ENABLED", true),
		ParsedEnabled:   getEnvBool("PARSED_ENABLED", true),

		RenderedMaxAttempts: getEnvInt("RENDERED_MAX_ATTEMPTS", 3),
		ParsedMaxAttempts:   getEnvInt("PARSED_MAX_ATTEMPTS", 2),
		RetryBaseDelayMs:    getEnvInt("RETRY_BASE_DELAY_MS", 2000),
		RenderedTimeoutMs:   getEnvInt("RENDERED_TIMEOUT_MS", 30000),
		HTTPTimeoutMs:       getEnvInt("HTTP_TIMEOUT_MS", 15000),
		RequestsPerSecond:   getEnvFloat("REQUESTS_PER_SECOND", 2),

		Port:              getEnvInt("PORT", 3000),
		MaxAnalyzeReviews: getEnvInt("MAX_ANALYZE_REVIEWS", 50),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "reviews_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 3),
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 2000),
		CSVOutputPath:  getEnv("CSV_OUTPUT_PATH", "./output/reviews.csv"),
	}
}

// RenderedPolicy is the retry policy for browser rendering attempts.
func (c *Config) RenderedPolicy() utils.RetryPolicy {
	return utils.RetryPolicy{
		MaxAttempts:    c.RenderedMaxAttempts,
		BaseDelay:      c.RetryBaseDelay(),
		AttemptTimeout: time.Duration(c.RenderedTimeoutMs) * time.Millisecond,
		Backoff:        utils.LinearBackoff,
	}
}

// ParsedRequestsPerAttempt is the longest sequential request chain in one
// direct HTTP attempt: three structured endpoints, the reviews page and the
// listing page.
const ParsedRequestsPerAttempt = 5

// ParsedPolicy is the retry policy for direct HTTP attempts. The attempt
// timeout leaves room for every request in the chain to use its full timeout.
func (c *Config) ParsedPolicy() utils.RetryPolicy {
	return utils.RetryPolicy{
		MaxAttempts:    c.ParsedMaxAttempts,
		BaseDelay:      c.RetryBaseDelay(),
		AttemptTimeout: ParsedRequestsPerAttempt * c.HTTPTimeout(),
		Backoff:        utils.LinearBackoff,
	}
}

// RetryBaseDelay is the linear backoff unit.
func (c *Config) RetryBaseDelay() time.Duration {
	return time.Duration(c.RetryBaseDelayMs) * time.Millisecond
}

// HTTPTimeout bounds a single network operation.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutMs) * time.Millisecond
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
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
}
