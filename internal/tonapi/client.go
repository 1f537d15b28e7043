package tonapi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fystack/jetton-buy-notifier/pkg/common/constant"
	"github.com/fystack/jetton-buy-notifier/pkg/ratelimiter"
)

const (
	eventsPath     = "/v2/events/"
	maxErrorBody   = 2048
	defaultTimeout = 10 * time.Second
)

// StatusError is returned when the explorer answers with anything but 200.
type StatusError struct {
	Code int
	URL  string
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s: %s", e.Code, e.URL, e.Body)
}

type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	RPS     int
	Burst   int
}

// Client fetches events from tonapi. It is safe for concurrent use.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	rateLimiter *ratelimiter.RateLimiter
	logger      *slog.Logger
}

func NewClient(cfg ClientConfig, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = constant.DefaultExplorerURL
	}
	if logger == nil {
		logger = slog.Default()
	}

	var rl *ratelimiter.RateLimiter
	if cfg.RPS > 0 {
		rl = ratelimiter.NewRateLimiterFromRPS(cfg.RPS, cfg.Burst)
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     baseURL,
		apiKey:      cfg.APIKey,
		rateLimiter: rl,
		logger:      logger,
	}
}

// EventURL builds the lookup URL for a transaction hash.
func (c *Client) EventURL(txHash string) string {
	return c.baseURL + eventsPath + url.PathEscape(txHash)
}

// GetEvent fetches and decodes the event for txHash. A non-200 answer is
// reported as *StatusError.
func (c *Client) GetEvent(ctx context.Context, txHash string) (*Event, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	endpoint := c.EventURL(txHash)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get event %s: %w", txHash, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("HTTP request completed", "url", endpoint, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{Code: resp.StatusCode, URL: endpoint, Body: string(body)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read event %s: %w", txHash, err)
	}
	return DecodeEvent(data)
}
