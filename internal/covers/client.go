// Package covers resolves book cover URLs from the external cover service.
package covers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker"

	"library-api/internal/htmlentity"
	"library-api/internal/logging"
)

var (
	// ErrNoCover is returned when the service answers with an "error" key.
	ErrNoCover = errors.New("cover not found")

	// ErrNotConfigured is returned when no service URL is set.
	ErrNotConfigured = errors.New("cover service not configured")
)

const maxBodyBytes = 64 << 10

var coverLookups = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "library_cover_lookups_total",
		Help: "Cover service lookups by result",
	},
	[]string{"result"},
)

// Client calls the cover service. It holds no per-request state and is
// safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	breaker    *gobreaker.CircuitBreaker
}

// NewClient creates a cover client for baseURL. An empty baseURL yields a
// client whose lookups always miss.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		breaker:    newBreaker(),
	}
}

func newBreaker() *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "cover-service",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		// A "no match" answer means the service is healthy.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNoCover)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	})
}

// LookupURL builds the request URL. Title and author are entity-escaped with
// spaces turned into '+', and appended without further percent-encoding.
func (c *Client) LookupURL(title, author string) string {
	return fmt.Sprintf("%s?book_title=%s&author_name=%s",
		c.baseURL,
		htmlentity.EncodeQueryValue(title),
		htmlentity.EncodeQueryValue(author))
}

// Lookup asks the cover service for the cover of a book.
func (c *Client) Lookup(ctx context.Context, title, author string) (string, error) {
	if c.baseURL == "" {
		return "", ErrNotConfigured
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, c.LookupURL(title, author))
	})

	switch {
	case err == nil:
		coverLookups.WithLabelValues("found").Inc()
		return result.(string), nil
	case errors.Is(err, ErrNoCover):
		coverLookups.WithLabelValues("not_found").Inc()
	default:
		coverLookups.WithLabelValues("error").Inc()
	}
	return "", err
}

// Cover is Lookup with every failure folded into an empty cover.
func (c *Client) Cover(ctx context.Context, title, author string) string {
	url, err := c.Lookup(ctx, title, author)
	if err != nil && !errors.Is(err, ErrNoCover) && !errors.Is(err, ErrNotConfigured) {
		logging.FromContext(ctx).Warn("cover lookup failed",
			slog.String("title", title),
			slog.String("author", author),
			slog.Any("error", err))
	}
	return url
}

func (c *Client) fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch cover: %w", err)
	}
	defer resp.Body.Close()

	var body map[string]any
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body); err != nil {
		return "", fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if _, ok := body["error"]; ok {
		return "", ErrNoCover
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	url, ok := body["url"].(string)
	if !ok {
		return "", errors.New("response has no url")
	}
	return url, nil
}
