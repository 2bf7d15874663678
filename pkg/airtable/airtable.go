// Package airtable is a client for the Airtable REST API. It exposes typed
// accessors for bases, tables and records, handles bearer authentication,
// offset pagination, request batching and rate-limit backoff.
package airtable

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/airbase-go/airbase/pkg/common"
	"github.com/airbase-go/airbase/pkg/context"
)

const (
	// DefaultBaseURL is the versioned Airtable REST endpoint.
	DefaultBaseURL = "https://api.airtable.com/v0"

	// apiKeyEnv is consulted when no token is passed to New.
	apiKeyEnv = "AIRTABLE_API_KEY"

	// maxRecordsPerRequest is Airtable's cap on records per write request.
	maxRecordsPerRequest = 10

	// requestsPerSecond is Airtable's documented per-base rate limit.
	requestsPerSecond = 5

	// defaultMaxRetries matches Airtable's guidance to back off and retry a
	// handful of times on 429 responses.
	defaultMaxRetries = 5
)

// Client is an authenticated session against the Airtable API. It is safe
// for concurrent use.
type Client struct {
	baseURL   string
	token     string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
	batchSize int
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint. Mostly useful for tests and
// proxies.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the underlying HTTP client. The caller is then
// responsible for retry behavior.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithRateLimit replaces the client-side throttle. Use rate.Inf to disable.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(limit, burst) }
}

// WithMaxRecordsPerRequest lowers the write batch size below the API's cap of
// 10. Values outside [1, 10] are ignored.
func WithMaxRecordsPerRequest(n int) Option {
	return func(c *Client) {
		if n >= 1 && n <= maxRecordsPerRequest {
			c.batchSize = n
		}
	}
}

// New returns a Client authenticated with token. An empty token falls back
// to the AIRTABLE_API_KEY environment variable.
func New(token string, opts ...Option) *Client {
	if token == "" {
		token = os.Getenv(apiKeyEnv)
	}
	c := &Client{
		baseURL:   DefaultBaseURL,
		token:     token,
		userAgent: common.DefaultUserAgent,
		http: common.RetryableHTTPClient(
			common.WithMaxRetries(defaultMaxRetries),
			common.WithCheckRetry(checkRetry),
		),
		limiter:   rate.NewLimiter(rate.Every(time.Second/requestsPerSecond), 1),
		batchSize: maxRecordsPerRequest,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Whoami returns the identity and scopes of the token owner.
func (c *Client) Whoami(ctx context.Context) (*UserInfo, error) {
	var info UserInfo
	if err := c.do(ctx, http.MethodGet, whoamiPath(), nil, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Bases lists every base the token can access, following the offset cursor
// until the listing is exhausted.
func (c *Client) Bases(ctx context.Context) ([]*Base, error) {
	var bases []*Base
	query := url.Values{}
	for {
		var page baseList
		if err := c.do(ctx, http.MethodGet, basesPath(), query, nil, &page); err != nil {
			return nil, err
		}
		for _, info := range page.Bases {
			bases = append(bases, &Base{
				ID:              info.ID,
				Name:            info.Name,
				PermissionLevel: info.PermissionLevel,
				client:          c,
			})
		}
		if page.Offset == "" {
			break
		}
		query.Set("offset", page.Offset)
	}
	ctx.Logger().V(1).Info("fetched bases", "count", len(bases))
	return bases, nil
}

// Base resolves a base by id or name. A value that looks like a base id is
// used directly without a listing round trip.
func (c *Client) Base(ctx context.Context, idOrName string) (*Base, error) {
	if isBaseID(idOrName) {
		return c.BaseByID(idOrName), nil
	}
	bases, err := c.Bases(ctx)
	if err != nil {
		return nil, err
	}
	for _, b := range bases {
		if b.ID == idOrName || b.Name == idOrName {
			return b, nil
		}
	}
	return nil, fmt.Errorf("base %q not found", idOrName)
}

// BaseByID returns a handle for a known base id without a network call.
func (c *Client) BaseByID(id string) *Base {
	return &Base{ID: id, client: c}
}

// do issues one API request: it waits on the client throttle, attaches the
// auth headers, surfaces non-2xx responses as *Error and decodes the body
// into out when provided.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var payload io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		payload = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, payload)
	if err != nil {
		return fmt.Errorf("creating %s %s request: %w", method, path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	ctx.Logger().V(2).Info("airtable request", "method", method, "path", path)

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return newError(res)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

// isBaseID reports whether v has the shape of an Airtable base id.
func isBaseID(v string) bool {
	return len(v) == 17 && strings.HasPrefix(v, "app")
}
