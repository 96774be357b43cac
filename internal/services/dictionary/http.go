package dictionary

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPConfig holds settings for the remote dictionary lookup
type HTTPConfig struct {
	// BaseURL is joined with the lowercased word: GET {BaseURL}/{word}
	BaseURL string

	// Timeout bounds a single lookup
	Timeout time.Duration
}

// DefaultHTTPConfig returns sensible defaults for the remote dictionary
func DefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		BaseURL: "https://api.dictionaryapi.dev/api/v2/entries/en",
		Timeout: 5 * time.Second,
	}
}

// HTTPChecker checks word existence against a remote dictionary service
type HTTPChecker struct {
	cfg    HTTPConfig
	client *http.Client
	logger *slog.Logger
}

// NewHTTPChecker creates a new HTTPChecker
func NewHTTPChecker(cfg HTTPConfig, logger *slog.Logger) *HTTPChecker {
	return &HTTPChecker{
		cfg:    cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
			// a redirect answers the lookup by its own status
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger: logger.With(slog.String("component", "dictionary")),
	}
}

// Exists performs a single lookup; a 2xx or 3xx status means the word exists
func (c *HTTPChecker) Exists(ctx context.Context, word string) bool {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return false
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/" + url.PathEscape(word)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Warn("dictionary request build failed", slog.String("word", word), slog.Any("error", err))
		return false
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("dictionary lookup failed", slog.String("word", word), slog.Any("error", err))
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode >= 200 && resp.StatusCode < 400
}

var _ Checker = (*HTTPChecker)(nil)
