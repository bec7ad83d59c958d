package catalogapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"vendor-catalog-core/internal/ports"

	"github.com/rs/zerolog"
)

// maxPages caps cursor pagination so a broken next-page pointer cannot loop
// forever.
const maxPages = 1000

// Client fetches catalog rows from vendor REST APIs with retry on
// transient failures.
type Client struct {
	httpClient  *http.Client
	retryConfig RetryConfig
	logger      zerolog.Logger
}

// NewClient creates a new catalog API client.
func NewClient(logger zerolog.Logger) ports.CatalogAPIClient {
	return NewClientWithOptions(&http.Client{Timeout: 60 * time.Second}, DefaultRetryConfig(), logger)
}

// NewClientWithOptions creates a client with explicit HTTP and retry
// configuration.
func NewClientWithOptions(httpClient *http.Client, retryConfig RetryConfig, logger zerolog.Logger) ports.CatalogAPIClient {
	return &Client{
		httpClient:  httpClient,
		retryConfig: retryConfig,
		logger:      logger,
	}
}

// FetchRows retrieves all catalog rows from the configured API, following
// cursor pagination when enabled. Row keys are lowercased.
func (c *Client) FetchRows(ctx context.Context, cfg ports.APISourceConfig) ([]map[string]any, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("api url is required")
	}

	requestURL, err := buildURL(cfg)
	if err != nil {
		return nil, err
	}

	var rows []map[string]any
	for page := 0; requestURL != ""; page++ {
		if page >= maxPages {
			return nil, fmt.Errorf("pagination exceeded %d pages", maxPages)
		}

		payload, err := c.fetch(ctx, requestURL, cfg)
		if err != nil {
			return nil, err
		}

		items, err := extractItems(payload, cfg.ItemsPath)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			row := make(map[string]any, len(obj))
			for k, v := range obj {
				row[strings.ToLower(k)] = v
			}
			rows = append(rows, row)
		}

		requestURL = ""
		if cfg.Paginated {
			requestURL = nextPageURL(payload, cfg.NextPagePath)
		}
	}

	c.logger.Info().
		Str("url", cfg.URL).
		Int("rows", len(rows)).
		Msg("Fetched catalog rows from API")

	return rows, nil
}

// fetch performs one GET with auth headers and retry on transient
// failures.
func (c *Client) fetch(ctx context.Context, requestURL string, cfg ports.APISourceConfig) (any, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retryConfig.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retryConfig.backoff(attempt)
			c.logger.Debug().
				Int("attempt", attempt).
				Dur("delay", delay).
				Msg("Retrying API request")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		payload, retryable, err := c.doRequest(ctx, requestURL, cfg)
		if err == nil {
			return payload, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}
	return nil, fmt.Errorf("api request failed after %d retries: %w", c.retryConfig.MaxRetries, lastErr)
}

func (c *Client) doRequest(ctx context.Context, requestURL string, cfg ports.APISourceConfig) (payload any, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range cfg.Headers {
		req.Header.Set(k, v)
	}
	switch cfg.AuthType {
	case "basic":
		req.SetBasicAuth(cfg.Username, cfg.Password)
	case "bearer":
		req.Header.Set("Authorization", "Bearer "+cfg.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("api request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("failed to read api response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, true, fmt.Errorf("api returned status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("api returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, false, fmt.Errorf("api response is not valid json: %w", err)
	}
	return payload, false, nil
}

func buildURL(cfg ports.APISourceConfig) (string, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return "", fmt.Errorf("invalid api url: %w", err)
	}
	if len(cfg.Params) > 0 {
		q := u.Query()
		for k, v := range cfg.Params {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// extractItems walks a dot-separated path into the decoded payload and
// returns the array found there. An empty path expects the payload itself
// to be the array.
func extractItems(payload any, itemsPath string) ([]any, error) {
	v := lookupPath(payload, itemsPath)
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("no item array at path %q", itemsPath)
	}
	return items, nil
}

// nextPageURL resolves the next page pointer, or "" when pagination ends.
func nextPageURL(payload any, nextPagePath string) string {
	next, _ := lookupPath(payload, nextPagePath).(string)
	return next
}

func lookupPath(payload any, path string) any {
	if path == "" {
		return payload
	}
	current := payload
	for _, key := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = obj[key]
	}
	return current
}
