// Package config содержит загрузку и валидацию конфигурации.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"maiq/internal/exporter"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Адреса страниц расписания по умолчанию
const (
	DefaultTodayURL = "https://rsp.chemk.org/4korp/today.htm"
	DefaultNextURL  = "https://rsp.chemk.org/4korp/tomorrow.htm"
)

// Config представляет конфигурацию приложения
type Config struct {
	// Database
	DatabaseURL string

	// Telegram
	BotToken      string
	AdminUsername string

	// Timetable
	Groups      []string
	TodayURL    string
	NextURL     string
	PollCron    string
	DefaultsDir string
	SnapshotTTL time.Duration
	SnapshotDir string
	Bells       string

	// Health
	HealthPort         string
	HealthCheckEnabled bool

	// Rate limit
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Workers
	Workers   int
	QueueSize int

	// Logging
	LogLevel string

	// Timezone
	Timezone string

	// App Data Directory
	AppDataDir string

	// Scraper
	ScraperConfig ScraperConfig
}

// ScraperConfig представляет конфигурацию загрузчика страниц
type ScraperConfig struct {
	HTTPClientConfig HTTPClientConfig
	RetryConfig      RetryConfig
	RequestDelay     time.Duration
	RequestTimeout   time.Duration
	UserAgent        string
}

// HTTPClientConfig представляет конфигурацию HTTP клиента
type HTTPClientConfig struct {
	MaxIdleConns          int
	MaxIdleConnsPerHost   int
	IdleConnTimeout       time.Duration
	TLSHandshakeTimeout   time.Duration
	ResponseHeaderTimeout time.Duration
	DisableKeepAlives     bool
}

// RetryConfig представляет конфигурацию retry механизма
type RetryConfig struct {
	MaxRetries        int
	InitialDelay      time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64
}

// Load загружает конфигурацию из переменных окружения и проверяет общие поля.
// Поля, нужные только боту, проверяет ValidateBot.
func Load() (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	config := FromEnv()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// FromEnv читает конфигурацию из окружения без валидации
func FromEnv() *Config {
	appDataDir := getEnv("APP_DATA_DIR", "./data")

	return &Config{
		DatabaseURL:        getEnv("DB_DSN", ""),
		BotToken:           getEnv("BOT_TOKEN", ""),
		AdminUsername:      strings.TrimPrefix(getEnv("ADMIN_USERNAME", ""), "@"),
		Groups:             ParseGroups(getEnv("GROUPS", "")),
		TodayURL:           getEnv("TODAY_URL", DefaultTodayURL),
		NextURL:            getEnv("NEXT_URL", DefaultNextURL),
		PollCron:           getEnv("POLL_CRON", "*/10 * * * *"),
		DefaultsDir:        getEnv("DEFAULTS_DIR", ""),
		SnapshotTTL:        getEnvDuration("SNAPSHOT_TTL", 10*time.Minute),
		SnapshotDir:        getEnv("SNAPSHOT_DIR", ""),
		Bells:              getEnv("BELLS", exporter.DefaultBells),
		HealthPort:         getEnv("HEALTH_PORT", "8080"),
		HealthCheckEnabled: getEnvBool("HEALTH_CHECK_ENABLED", true),
		RateLimitEnabled:   getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests:  getEnvInt("RATE_LIMIT_REQUESTS", 10),
		RateLimitWindow:    getEnvDuration("RATE_LIMIT_WINDOW", 60*time.Second),
		Workers:            getEnvInt("WORKERS", 4),
		QueueSize:          getEnvInt("QUEUE_SIZE", 100),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		Timezone:           getEnv("TIMEZONE", "Europe/Moscow"),
		AppDataDir:         appDataDir,
		ScraperConfig: ScraperConfig{
			HTTPClientConfig: HTTPClientConfig{
				MaxIdleConns:          getEnvInt("SCRAPER_MAX_IDLE_CONNS", 10),
				MaxIdleConnsPerHost:   getEnvInt("SCRAPER_MAX_IDLE_CONNS_PER_HOST", 2),
				IdleConnTimeout:       getEnvDuration("SCRAPER_IDLE_CONN_TIMEOUT", 90*time.Second),
				TLSHandshakeTimeout:   getEnvDuration("SCRAPER_TLS_HANDSHAKE_TIMEOUT", 10*time.Second),
				ResponseHeaderTimeout: getEnvDuration("SCRAPER_RESPONSE_HEADER_TIMEOUT", 30*time.Second),
				DisableKeepAlives:     getEnvBool("SCRAPER_DISABLE_KEEP_ALIVES", false),
			},
			RetryConfig: RetryConfig{
				MaxRetries:        getEnvInt("SCRAPER_MAX_RETRIES", 3),
				InitialDelay:      getEnvDuration("SCRAPER_INITIAL_DELAY", 1*time.Second),
				MaxDelay:          getEnvDuration("SCRAPER_MAX_DELAY", 30*time.Second),
				BackoffMultiplier: getEnvFloat("SCRAPER_BACKOFF_MULTIPLIER", 2.0),
			},
			RequestDelay:   getEnvDuration("SCRAPER_REQUEST_DELAY", 0),
			RequestTimeout: getEnvDuration("SCRAPER_REQUEST_TIMEOUT", 30*time.Second),
			UserAgent:      getEnv("SCRAPER_USER_AGENT", ""),
		},
	}
}

// GetAppDataDir возвращает директорию данных приложения
func (c *Config) GetAppDataDir() string {
	return c.AppDataDir
}

// Location возвращает часовой пояс расписания
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Validate проверяет поля, общие для бота и CLI
func (c *Config) Validate() error {
	for key, raw := range map[string]string{"TODAY_URL": c.TodayURL, "NEXT_URL": c.NextURL} {
		if raw == "" {
			return fmt.Errorf("%s is required", key)
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL: %q", key, raw)
		}
	}

	if _, err := cron.ParseStandard(c.PollCron); err != nil {
		return fmt.Errorf("invalid POLL_CRON %q: %w", c.PollCron, err)
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	if _, err := exporter.ParseBells(c.Bells); err != nil {
		return fmt.Errorf("invalid BELLS: %w", err)
	}

	if c.SnapshotTTL <= 0 {
		return fmt.Errorf("SNAPSHOT_TTL must be positive")
	}

	if c.RateLimitEnabled && (c.RateLimitRequests <= 0 || c.RateLimitWindow <= 0) {
		return fmt.Errorf("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive")
	}

	if c.Workers <= 0 || c.QueueSize <= 0 {
		return fmt.Errorf("WORKERS and QUEUE_SIZE must be positive")
	}

	if c.HealthCheckEnabled {
		port, err := strconv.Atoi(c.HealthPort)
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("invalid HEALTH_PORT %q", c.HealthPort)
		}
	}

	return nil
}

// ValidateBot дополнительно проверяет поля, без которых бот не запустится
func (c *Config) ValidateBot() error {
	if err := c.Validate(); err != nil {
		return err
	}

	if c.DatabaseURL == "" {
		return fmt.Errorf("DB_DSN is required")
	}

	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}

	return nil
}

// ParseGroups разбирает список групп, разделенных ";"
func ParseGroups(raw string) []string {
	var groups []string
	seen := make(map[string]bool)
	for _, g := range strings.Split(raw, ";") {
		g = strings.TrimSpace(g)
		if g == "" || seen[g] {
			continue
		}
		seen[g] = true
		groups = append(groups, g)
	}
	return groups
}

// getEnv получает переменную окружения с значением по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает переменную окружения как int
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration получает переменную окружения как time.Duration
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvBool получает переменную окружения как bool
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvFloat получает переменную окружения как float64
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
