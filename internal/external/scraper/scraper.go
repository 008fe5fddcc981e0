package scraper

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/extensions"
	"go.uber.org/zap"
)

// fetcherImpl реализует интерфейс Fetcher поверх colly
type fetcherImpl struct {
	config    Config
	logger    *zap.Logger
	transport http.RoundTripper
}

// NewFetcher создает новый экземпляр Fetcher
func NewFetcher(config Config, logger *zap.Logger) Fetcher {
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	return &fetcherImpl{
		config:    config,
		logger:    logger,
		transport: NewTransport(config.HTTPClientConfig),
	}
}

// Fetch загружает страницу с повторами при временных ошибках
func (f *fetcherImpl) Fetch(ctx context.Context, url string) (string, error) {
	var body string
	err := WithRetry(ctx, f.logger, f.config.RetryConfig, func() error {
		var err error
		body, err = f.fetchOnce(ctx, url)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	return body, nil
}

func (f *fetcherImpl) fetchOnce(ctx context.Context, url string) (string, error) {
	collector := f.newCollector(ctx)

	var (
		body       string
		decodeErr  error
		statusCode int
	)

	collector.OnResponse(func(r *colly.Response) {
		statusCode = r.StatusCode
		if declaresCharset(r.Headers) {
			body = string(r.Body)
			return
		}
		body, decodeErr = Decode1251(r.Body)
	})

	collector.OnError(func(r *colly.Response, err error) {
		if r != nil {
			statusCode = r.StatusCode
		}
		f.logger.Warn("Request failed",
			zap.String("url", url),
			zap.Int("status", statusCode),
			zap.Error(err))
	})

	if err := collector.Visit(url); err != nil {
		// 4xx не исправится повтором
		if statusCode >= 400 && statusCode < 500 {
			return "", Permanent(fmt.Errorf("status %d: %w", statusCode, err))
		}
		return "", err
	}
	if decodeErr != nil {
		return "", decodeErr
	}

	return body, nil
}

// newCollector создает коллектор с настроенным транспортом и задержками
func (f *fetcherImpl) newCollector(ctx context.Context) *colly.Collector {
	collector := colly.NewCollector(
		colly.UserAgent(f.config.UserAgent),
		colly.MaxDepth(1),
		colly.AllowURLRevisit(),
		colly.StdlibContext(ctx),
	)

	collector.WithTransport(f.transport)
	if f.config.UserAgent == RandomUserAgent {
		extensions.RandomUserAgent(collector)
	}
	if f.config.RequestTimeout > 0 {
		collector.SetRequestTimeout(f.config.RequestTimeout)
	}

	_ = collector.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		Delay:       f.config.RequestDelay,
	})

	collector.OnRequest(func(r *colly.Request) {
		f.logger.Debug("Making request", zap.String("url", r.URL.String()))
	})

	collector.OnResponse(func(r *colly.Response) {
		f.logger.Debug("Received response",
			zap.String("url", r.Request.URL.String()),
			zap.Int("status", r.StatusCode),
			zap.Int("size", len(r.Body)))
	})

	return collector
}
