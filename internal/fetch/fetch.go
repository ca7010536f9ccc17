package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Mode selects the request method for a fetch.
type Mode int

const (
	// ModeGet retrieves the full body.
	ModeGet Mode = iota
	// ModeHead checks resource existence without requesting a body.
	ModeHead
)

func (m Mode) method() string {
	if m == ModeHead {
		return http.MethodHead
	}
	return http.MethodGet
}

// Client wraps http.Client for a single bounded fetch. Exactly one request is
// issued per call: no retries, and redirects follow the transport default.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	// Timeout bounds the entire request, connect through read. Zero means
	// no bound beyond the underlying client's own.
	Timeout time.Duration
}

// Result is a completed fetch: either a 2xx response with its body, or a 304
// with NotModified set and no body. Elapsed is wall-clock whole seconds and
// is also carried on every error this package returns.
type Result struct {
	Body        []byte
	StatusCode  int
	NotModified bool
	Elapsed     int
}

// NetworkError reports a transport-level failure: DNS, connect, TLS, or
// timeout. There is no HTTP status to carry.
type NetworkError struct {
	URL     string
	Elapsed int
	Err     error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError reports a response with a status outside 2xx (and not 304).
type HTTPError struct {
	URL        string
	StatusCode int
	Message    string
	Elapsed    int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Message)
}

// Do issues one request and classifies the outcome. Classification order:
// transport failure, then 304, then non-2xx, then success with full body.
// A HEAD response legitimately has an empty body.
func (c *Client) Do(ctx context.Context, rawURL string, mode Mode) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, mode.method(), rawURL, nil)
	if err != nil {
		return Result{}, &NetworkError{URL: rawURL, Err: err}
	}
	if req.URL == nil || !isHTTPScheme(req.URL) {
		return Result{}, &NetworkError{URL: rawURL, Err: fmt.Errorf("unsupported URL scheme: %q", rawURL)}
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(req.Context(), c.Timeout)
		defer cancel()
		req = req.WithContext(ctx)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: c.Timeout}
	}

	start := time.Now()
	resp, err := httpClient.Do(req)
	elapsed := wholeSeconds(start)
	if err != nil {
		return Result{}, &NetworkError{URL: rawURL, Elapsed: elapsed, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		// No body on 304; the caller reports an unchanged resource.
		return Result{StatusCode: resp.StatusCode, NotModified: true, Elapsed: elapsed}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, &HTTPError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("request failed: %s", resp.Status),
			Elapsed:    elapsed,
		}
	}

	body, err := io.ReadAll(resp.Body)
	elapsed = wholeSeconds(start)
	if err != nil {
		return Result{}, &NetworkError{URL: rawURL, Elapsed: elapsed, Err: fmt.Errorf("read body: %w", err)}
	}
	return Result{Body: body, StatusCode: resp.StatusCode, Elapsed: elapsed}, nil
}

func wholeSeconds(start time.Time) int {
	return int(time.Since(start) / time.Second)
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}
