package audiobookshelf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"abscomp/core/catalog"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrTransferCorrupted is returned when a response body is not a valid items payload.
var ErrTransferCorrupted = errors.New("invalid JSON data, library may have disconnected mid-transfer")

// StatusError reports a non-2xx response.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.StatusCode, e.URL)
}

// retryable reports whether a retry may succeed.
func (e *StatusError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// itemSort matches the order the web UI lists books in.
const itemSort = "media.metadata.authorName"

// Client fetches one Audiobookshelf library.
type Client struct {
	name       string
	lib        LibraryConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	pageSize   int
	maxRetries int
	backoff    time.Duration
	logger     *zap.Logger
}

// NewClient creates a client for one library. name identifies it in logs and errors.
func NewClient(name string, lib LibraryConfig, cfg FetchConfig, logger *zap.Logger) *Client {
	connectTimeout := time.Duration(cfg.ConnectTimeoutSeconds) * time.Second
	if connectTimeout <= 0 {
		connectTimeout = 10 * time.Second
	}
	responseTimeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if responseTimeout <= 0 {
		responseTimeout = 30 * time.Second
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   connectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   connectTimeout,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: responseTimeout,
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		name:       name,
		lib:        lib,
		httpClient: &http.Client{Transport: transport},
		limiter:    rate.NewLimiter(limit, 1),
		pageSize:   cfg.PageSize,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Second,
		logger:     logger.With(zap.String("library", name)),
	}
}

// Name returns the library name given at construction.
func (c *Client) Name() string {
	return c.name
}

// itemsResponse is the body of GET /api/libraries/:id/items.
type itemsResponse struct {
	Results []map[string]any `json:"results"`
	Total   int              `json:"total"`
	Limit   int              `json:"limit"`
	Page    int              `json:"page"`
}

// FetchCatalog downloads every item of the library and returns them keyed by item ID
// in server order.
func (c *Client) FetchCatalog(ctx context.Context) (*catalog.Catalog, error) {
	lib := catalog.New(0)

	for page := 0; ; page++ {
		resp, err := c.fetchPage(ctx, page)
		if err != nil {
			return nil, err
		}

		for i, item := range resp.Results {
			book, err := catalog.NewBook(flatten(item))
			if err != nil {
				return nil, fmt.Errorf("item %d of page %d: %w", i, page, err)
			}
			lib.Set(book.ID, book)
		}

		c.logger.Debug("Fetched library page",
			zap.Int("page", page),
			zap.Int("items", len(resp.Results)),
			zap.Int("total", resp.Total),
		)

		if c.pageSize <= 0 || len(resp.Results) == 0 || (page+1)*c.pageSize >= resp.Total {
			break
		}
	}

	return lib, nil
}

// Ping checks that the server answers its health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	var body struct {
		Success bool `json:"success"`
	}
	if err := c.get(ctx, c.baseURL()+"/ping", &body); err != nil {
		return err
	}
	if !body.Success {
		return fmt.Errorf("server at %s did not report success", c.lib.URL)
	}
	return nil
}

func (c *Client) baseURL() string {
	return strings.TrimRight(c.lib.URL, "/")
}

func (c *Client) itemsURL(page int) string {
	q := url.Values{}
	q.Set("sort", itemSort)
	if c.pageSize > 0 {
		q.Set("limit", strconv.Itoa(c.pageSize))
		q.Set("page", strconv.Itoa(page))
	}
	return fmt.Sprintf("%s/api/libraries/%s/items?%s", c.baseURL(), url.PathEscape(c.lib.Library), q.Encode())
}

func (c *Client) fetchPage(ctx context.Context, page int) (*itemsResponse, error) {
	var resp itemsResponse
	if err := c.get(ctx, c.itemsURL(page), &resp); err != nil {
		return nil, err
	}
	if resp.Results == nil {
		return nil, fmt.Errorf("%w: response has no results", ErrTransferCorrupted)
	}
	return &resp, nil
}

// get performs a GET with rate limiting and retries, decoding the JSON body into target.
func (c *Client) get(ctx context.Context, rawURL string, target any) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Backoff: 1s, 2s, 4s...
			backoff := time.Duration(1<<uint(attempt-1)) * c.backoff
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			c.logger.Warn("Retrying request", zap.Int("attempt", attempt), zap.Error(lastErr))
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		err := c.do(ctx, rawURL, target)
		if err == nil {
			return nil
		}
		lastErr = err

		var statusErr *StatusError
		if errors.As(err, &statusErr) && !statusErr.retryable() {
			return err
		}
		if errors.Is(err, ErrTransferCorrupted) || ctx.Err() != nil {
			return err
		}
	}
	if c.maxRetries == 0 {
		return lastErr
	}
	return fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}

func (c *Client) do(ctx context.Context, rawURL string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.lib.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{StatusCode: resp.StatusCode, URL: redact(rawURL)}
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(target); err != nil {
		return fmt.Errorf("%w: %v", ErrTransferCorrupted, err)
	}
	return nil
}

// redact strips the query string from a URL for error messages.
func redact(rawURL string) string {
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}
