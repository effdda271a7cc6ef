package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"modkeeper/internal/config"
	"modkeeper/internal/logger"
	"modkeeper/internal/models"
)

const (
	DefaultTimeout         = 5 * time.Second
	DefaultFallbackTimeout = 10 * time.Second
)

/**
 * Fetcher downloads the ModLinks catalog, retrying once against a mirror
 */
type Fetcher struct {
	mu              sync.RWMutex
	Client          *http.Client
	Url             string
	FallbackUrl     string
	Timeout         time.Duration
	FallbackTimeout time.Duration
}

func NewFetcher(cfg config.CatalogConfig) *Fetcher {
	f := &Fetcher{Client: &http.Client{}}
	f.Configure(cfg)
	return f
}

/**
 * Replace catalog locations and timeouts
 * @param {config.CatalogConfig} cfg - Catalog section, non-positive timeouts fall back to the defaults
 * @description
 * - A fetch already running keeps the values it started with
 */
func (f *Fetcher) Configure(cfg config.CatalogConfig) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Url = cfg.Url
	f.FallbackUrl = cfg.FallbackUrl
	f.Timeout = cfg.Timeout
	f.FallbackTimeout = cfg.FallbackTimeout
	if f.Timeout <= 0 {
		f.Timeout = DefaultTimeout
	}
	if f.FallbackTimeout <= 0 {
		f.FallbackTimeout = DefaultFallbackTimeout
	}
}

/**
 * Fetch and parse the catalog
 * @param {context.Context} ctx - Parent context, its cancellation is never retried
 * @returns {*models.ModLinks} Parsed catalog
 * @returns {error} Fallback error when both sources fail, or parse errors
 */
func (f *Fetcher) FetchContent(ctx context.Context) (*models.ModLinks, error) {
	raw, err := f.fetchWithFallback(ctx)
	if err != nil {
		return nil, err
	}
	return ParseModLinks(raw)
}

func (f *Fetcher) fetchWithFallback(ctx context.Context) ([]byte, error) {
	f.mu.RLock()
	url, fallback := f.Url, f.FallbackUrl
	timeout, fallbackTimeout := f.Timeout, f.FallbackTimeout
	f.mu.RUnlock()

	raw, err := f.fetch(ctx, url, timeout)
	if err == nil {
		return raw, nil
	}
	if ctx.Err() != nil || fallback == "" {
		return nil, err
	}
	logger.Warnf("Fetch catalog from '%s' failed, trying '%s': %v", url, fallback, err)
	raw, ferr := f.fetch(ctx, fallback, fallbackTimeout)
	if ferr != nil {
		return nil, fmt.Errorf("%w (primary: %v)", ferr, err)
	}
	return raw, nil
}

func (f *Fetcher) fetch(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog '%s': %w", url, err)
	}
	req.Header.Set("Cache-Control", "no-cache, must-revalidate")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog '%s': %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch catalog '%s': unexpected status %s", url, resp.Status)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog '%s': %w", url, err)
	}
	return raw, nil
}
