package hibp

import (
	"context"
	"crypto/sha1" //nolint:gosec // the range protocol is defined over SHA-1
	"encoding/hex"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// CountUnknown signals that a breach check failed (timeout, non-2xx,
// transport error). Callers must distinguish it from 0, which means the
// password was checked and is absent from the corpus.
const CountUnknown = -1

// hashPrefixLen is the number of leading hash characters sent to the range
// endpoint. This is the k-anonymity boundary of the protocol.
const hashPrefixLen = 5

// Client queries a breach corpus range endpoint.
//
// Design decision: the http.Client is injected rather than constructed
// internally. Transport configuration belongs to the caller, connection
// pooling is shared, and tests swap in an httptest server.
type Client struct {
	// client is the underlying HTTP client.
	client *http.Client

	// endpoint is the base range URL, e.g.
	// https://api.pwnedpasswords.com/range.
	endpoint string

	// timeout bounds each individual range request.
	timeout time.Duration

	// userAgent is sent with every request; the public API requires one.
	userAgent string

	// maxBodySize limits how much of a response body is read.
	maxBodySize int64
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint sets the base range URL.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = strings.TrimSuffix(endpoint, "/")
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size.
func WithMaxBodySize(size int64) Option {
	return func(c *Client) {
		c.maxBodySize = size
	}
}

// NewClient creates a Client around the given HTTP client.
func NewClient(client *http.Client, opts ...Option) *Client {
	c := &Client{
		client:      client,
		endpoint:    "https://api.pwnedpasswords.com/range",
		timeout:     10 * time.Second,
		userAgent:   "fetch-audit/1.0 (+https://github.com/j-555/fetch-audit)",
		maxBodySize: 1 * 1024 * 1024, // 1MB
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Check returns the breach count for a password, consulting and updating
// the per-run cache so each distinct password is looked up at most once.
// Returns 0 when the password is absent from the corpus and CountUnknown
// when the lookup fails.
func (c *Client) Check(ctx context.Context, password string, cache *Cache) int {
	if count, ok := cache.Get(password); ok {
		return count
	}

	count := c.lookup(ctx, password)
	cache.Put(password, count)
	return count
}

// lookup performs one range query. All failure paths collapse to
// CountUnknown; the protocol carries no error detail the caller could act
// on, and breach status is advisory.
func (c *Client) lookup(ctx context.Context, password string) int {
	sum := sha1.Sum([]byte(password)) //nolint:gosec // protocol-mandated hash
	hash := strings.ToUpper(hex.EncodeToString(sum[:]))
	prefix, suffix := hash[:hashPrefixLen], hash[hashPrefixLen:]

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/"+prefix, nil)
	if err != nil {
		return CountUnknown
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return CountUnknown
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return CountUnknown
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return CountUnknown
	}

	return matchSuffix(string(body), suffix)
}

// matchSuffix scans the newline-delimited SUFFIX:COUNT body for an exact
// suffix match. No match means the password is not in the corpus, which is
// a definitive 0, not an unknown. Malformed lines are skipped.
func matchSuffix(body, suffix string) int {
	for _, line := range strings.Split(body, "\n") {
		candidate, countText, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok {
			continue
		}
		if !strings.EqualFold(candidate, suffix) {
			continue
		}
		count, err := strconv.Atoi(strings.TrimSpace(countText))
		if err != nil || count < 0 {
			continue
		}
		return count
	}
	return 0
}
