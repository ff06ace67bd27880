package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/liuran001/tunebot/bot"
	"github.com/liuran001/tunebot/bot/session"
	"github.com/sony/gobreaker"
)

// DefaultBaseURL is the YouTube Data API v3 root.
const DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

// ErrMissingAPIKey is returned by Search when no API key is configured.
var ErrMissingAPIKey = errors.New("youtube: api key required")

// Options configures a Client.
type Options struct {
	APIKey     string
	BaseURL    string
	MaxResults int
	Timeout    time.Duration
	MaxRetries int
	Logger     bot.Logger
}

// Client searches videos with retry and circuit breaker.
type Client struct {
	apiKey     string
	baseURL    string
	maxResults int
	retry      *retryablehttp.Client
	breaker    *gobreaker.CircuitBreaker
	maxRetries int
	minBackoff time.Duration
	maxBackoff time.Duration
	logger     bot.Logger
}

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title string `json:"title"`
		} `json:"snippet"`
	} `json:"items"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// statusError reports a non-2xx API answer.
type statusError struct {
	code    int
	message string
}

func (e *statusError) Error() string {
	if e.message == "" {
		return fmt.Sprintf("youtube: http %d", e.code)
	}
	return fmt.Sprintf("youtube: http %d: %s", e.code, e.message)
}

// New creates a search client.
func New(opts Options) *Client {
	client := retryablehttp.NewClient()
	// withRetry drives the attempts so the breaker sees one outcome per search.
	client.RetryMax = 0
	client.Logger = nil
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client.HTTPClient.Timeout = timeout

	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 2
	}
	maxResults := opts.MaxResults
	if maxResults <= 0 || maxResults > 50 {
		maxResults = 50
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	settings := gobreaker.Settings{
		Name:        "youtube-search",
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	}

	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		maxResults: maxResults,
		retry:      client,
		breaker:    gobreaker.NewCircuitBreaker(settings),
		maxRetries: maxRetries,
		minBackoff: 200 * time.Millisecond,
		maxBackoff: 2 * time.Second,
		logger:     opts.Logger,
	}
}

// Search returns up to MaxResults videos matching query, in API order.
func (c *Client) Search(ctx context.Context, query string) ([]session.Result, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if c.logger != nil {
		c.logger.Debug("searching youtube", "query", query)
	}

	var results []session.Result
	err := c.execute(ctx, func() error {
		data, err := c.search(ctx, query)
		if err != nil {
			return err
		}
		results = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (c *Client) search(ctx context.Context, query string) ([]session.Result, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("maxResults", strconv.Itoa(c.maxResults))
	params.Set("q", query)
	params.Set("key", c.apiKey)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.retry.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}

	var payload searchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		if resp.StatusCode/100 != 2 {
			return nil, &statusError{code: resp.StatusCode}
		}
		return nil, fmt.Errorf("youtube: decode response: %w", err)
	}
	if resp.StatusCode/100 != 2 || payload.Error != nil {
		serr := &statusError{code: resp.StatusCode}
		if payload.Error != nil {
			serr.message = payload.Error.Message
		}
		return nil, serr
	}

	results := make([]session.Result, 0, len(payload.Items))
	for _, item := range payload.Items {
		if item.ID.VideoID == "" {
			continue
		}
		results = append(results, session.Result{
			VideoID: item.ID.VideoID,
			Title:   html.UnescapeString(item.Snippet.Title),
		})
	}
	return results, nil
}

func (c *Client) execute(ctx context.Context, fn func() error) error {
	if fn == nil {
		return nil
	}

	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.withRetry(ctx, fn)
	})
	return err
}

func (c *Client) withRetry(ctx context.Context, fn func() error) error {
	if fn == nil {
		return nil
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable(err) || attempt == c.maxRetries {
			break
		}

		wait := c.retry.Backoff(c.minBackoff, c.maxBackoff, attempt, nil)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	if lastErr == nil {
		lastErr = errors.New("youtube: retry failed")
	}
	return lastErr
}

// retryable reports whether another attempt could succeed. Client errors such as
// a bad key or an exhausted quota will not.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var serr *statusError
	if errors.As(err, &serr) {
		return serr.code == http.StatusTooManyRequests || serr.code >= 500
	}
	return true
}
