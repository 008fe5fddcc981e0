// Package scraper загружает страницы расписания.
package scraper

import (
	"context"
	"time"
)

// Fetcher определяет интерфейс загрузки страницы расписания
type Fetcher interface {
	// Fetch возвращает тело страницы в UTF-8
	Fetch(ctx context.Context, url string) (string, error)
}

// Config представляет конфигурацию загрузчика
type Config struct {
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

// RandomUserAgent в SCRAPER_USER_AGENT включает случайный User-Agent на каждый запрос
const RandomUserAgent = "random"

// DefaultUserAgent используется, если в конфигурации не задан свой
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() Config {
	return Config{
		HTTPClientConfig: HTTPClientConfig{
			MaxIdleConns:          10,
			MaxIdleConnsPerHost:   2,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 15 * time.Second,
		},
		RetryConfig: RetryConfig{
			MaxRetries:        3,
			InitialDelay:      time.Second,
			MaxDelay:          10 * time.Second,
			BackoffMultiplier: 2.0,
		},
		RequestDelay:   0,
		RequestTimeout: 30 * time.Second,
		UserAgent:      DefaultUserAgent,
	}
}
