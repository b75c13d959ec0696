// Package op implements a client for the OpenProject API v3.
//
// The API speaks HAL+JSON: every response is a document with plain
// attributes plus `_links` and `_embedded` sections. Rather than model
// each entity with a rigid struct, responses are decoded into Resource
// (a raw document) with accessors for the fields tools actually render.
// Mutating methods return structured errors (RequestError) classified as
// transient or client-error so the bulk engine can decide retryability.
package op

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Version is reported in the User-Agent header.
const Version = "1.0.0"

const defaultTimeout = 30 * time.Second

// Client talks to one OpenProject instance. It is safe for concurrent
// use; bulk operations issue up to 50 in-flight requests against it.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	log     *slog.Logger
}

// Options configures a Client.
type Options struct {
	// BaseURL is the root of the OpenProject instance, e.g.
	// "https://community.openproject.org". Trailing slashes are stripped.
	BaseURL string

	// APIKey authenticates as Basic "apikey:<APIKey>".
	APIKey string

	// Proxy is an optional HTTP proxy URL.
	Proxy string

	// Timeout bounds each request. Defaults to 30s.
	Timeout time.Duration

	Logger *slog.Logger
}

// New creates a Client. BaseURL and APIKey are required.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("op: base URL is required")
	}
	if opts.APIKey == "" {
		return nil, fmt.Errorf("op: API key is required")
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.Proxy != "" {
		proxyURL, err := url.Parse(opts.Proxy)
		if err != nil {
			return nil, fmt.Errorf("op: parsing proxy URL: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		apiKey:  opts.APIKey,
		httpc:   &http.Client{Timeout: timeout, Transport: transport},
		log:     logger,
	}, nil
}

// BaseURL returns the configured instance root.
func (c *Client) BaseURL() string { return c.baseURL }

// request executes one API call against /api/v3 and decodes the response.
// An empty response body (204s from DELETE) yields an empty Resource.
func (c *Client) request(ctx context.Context, method, endpoint string, body any) (Resource, error) {
	u := c.baseURL + "/api/v3" + endpoint

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("op: encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("op: building request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+c.basicAuth())
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "openproject-mcp/"+Version)

	c.log.Debug("API request", "method", method, "url", u)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, newTransportError(fmt.Errorf("accessing %s: %w", u, err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newTransportError(fmt.Errorf("reading response from %s: %w", u, err))
	}

	c.log.Debug("API response", "status", resp.StatusCode, "url", u)

	if resp.StatusCode >= 400 {
		return nil, newStatusError(resp.StatusCode, apiErrorMessage(respBody))
	}

	if len(respBody) == 0 {
		return Resource{}, nil
	}

	var doc Resource
	if err := json.Unmarshal(respBody, &doc); err != nil {
		// Non-JSON success body; treat as empty rather than failing the call.
		c.log.Warn("non-JSON response body", "url", u, "status", resp.StatusCode)
		return Resource{}, nil
	}
	return doc, nil
}

func (c *Client) basicAuth() string {
	return base64.StdEncoding.EncodeToString([]byte("apikey:" + c.apiKey))
}

// apiErrorMessage extracts the human-readable message from an error body.
// OpenProject error documents carry a top-level "message"; fall back to
// the raw body, truncated.
func apiErrorMessage(body []byte) string {
	var doc struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &doc); err == nil && doc.Message != "" {
		return doc.Message
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}

// TestConnection verifies the instance is reachable and the key is valid.
// Returns the API root document (instance name and core version).
func (c *Client) TestConnection(ctx context.Context) (Resource, error) {
	return c.request(ctx, http.MethodGet, "", nil)
}
