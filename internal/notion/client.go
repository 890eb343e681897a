package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

// Default client settings.
const (
	// defaultBaseURL is the workspace origin used for RPC calls and for
	// building browseable page URLs.
	defaultBaseURL = "https://www.notion.so"

	// apiPrefix is the path prefix of the v3 RPC endpoints.
	apiPrefix = "/api/v3/"

	// defaultHTTPTimeout bounds a single RPC round trip. Imports are
	// bounded separately because the server-side task can take much
	// longer than one request.
	defaultHTTPTimeout = 30 * time.Second

	// defaultImportTimeout bounds the whole upload-and-import flow for
	// one page.
	defaultImportTimeout = 60 * time.Second

	// defaultPollInterval is the delay between import task status checks.
	defaultPollInterval = 500 * time.Millisecond

	// defaultUserAgent identifies the exporter to the API.
	defaultUserAgent = "notiontree/1.0"

	// maxErrorBodySize limits how much of an error response body is kept
	// for diagnostics.
	maxErrorBodySize = 1024
)

// tokenCookie is the session cookie the v3 API authenticates with.
const tokenCookie = "token_v2"

// Client is an authenticated caller of the Notion v3 RPC API.
// It implements the workspace operations the exporter needs and nothing
// more. All methods take a context and are safe for concurrent use.
//
// Design decision: One Client per run, passed explicitly to the components
// that need it. The session token is bound at construction time, so a run's
// credentials cannot change midway and tests can swap the whole client for
// a fake.
type Client struct {
	// httpClient performs all RPC and upload requests.
	httpClient *http.Client

	// baseURL is the workspace origin, without a trailing slash.
	baseURL string

	// token is the token_v2 session cookie value.
	token string

	// userAgent is sent with every request.
	userAgent string

	// proxyAddress optionally routes all traffic through a SOCKS5 proxy
	// in "host:port" format.
	proxyAddress string

	// httpTimeout bounds a single request round trip.
	httpTimeout time.Duration

	// importTimeout bounds the upload-and-import flow for one page.
	importTimeout time.Duration

	// pollInterval is the delay between import task status checks.
	pollInterval time.Duration

	// logger receives debug records for every RPC mutation.
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the workspace origin. Used by tests to point the
// client at a local server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithHTTPTimeout sets the timeout for a single RPC round trip.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpTimeout = timeout
		}
	}
}

// WithImportTimeout sets the deadline for one page's import task.
func WithImportTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.importTimeout = timeout
		}
	}
}

// WithPollInterval sets the delay between import task status checks.
func WithPollInterval(interval time.Duration) Option {
	return func(c *Client) {
		if interval > 0 {
			c.pollInterval = interval
		}
	}
}

// WithUserAgent sets the User-Agent header for all requests.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithProxy routes all traffic through a SOCKS5 proxy at the given
// "host:port" address.
func WithProxy(address string) Option {
	return func(c *Client) {
		c.proxyAddress = address
	}
}

// WithLogger sets the logger for RPC debug records.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client authenticated with the given token_v2 session
// token. The token usually comes from the NOTION_TOKEN environment variable.
//
// This function validates the token's presence but not its validity. The
// first RPC call reports ErrUnauthorized when the token is rejected.
//
// Design decision: We don't probe the API in the constructor because:
//  1. It separates object creation from network operations
//  2. The resolve call at the start of a run already verifies the token
//  3. It allows for better testing with local servers
func NewClient(token string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}

	c := &Client{
		baseURL:       defaultBaseURL,
		token:         token,
		userAgent:     defaultUserAgent,
		httpTimeout:   defaultHTTPTimeout,
		importTimeout: defaultImportTimeout,
		pollInterval:  defaultPollInterval,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		transport, err := c.newTransport()
		if err != nil {
			return nil, err
		}
		c.httpClient = &http.Client{
			Transport: transport,
			Timeout:   c.httpTimeout,
		}
	}

	return c, nil
}

// newTransport builds the HTTP transport, routing through the SOCKS5 proxy
// when one is configured.
func (c *Client) newTransport() (*http.Transport, error) {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,
	}

	if c.proxyAddress != "" {
		// We use nil for auth because SOCKS5 proxies used for this
		// purpose typically don't require it.
		dialer, err := proxy.SOCKS5("tcp", c.proxyAddress, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		transport.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		}
	}

	return transport, nil
}

// post sends a JSON RPC request to the given v3 endpoint and decodes the
// response into result. A nil result discards the response body.
func (c *Client) post(ctx context.Context, endpoint string, payload, result any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+apiPrefix+endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.AddCookie(&http.Cookie{Name: tokenCookie, Value: c.token})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", endpoint, err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close errors are not actionable

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%s: %w", endpoint, ErrUnauthorized)
	}
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize)) //nolint:errcheck // best-effort diagnostic
		return fmt.Errorf("%s returned status %d: %s", endpoint, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}

// blockRecord is the subset of a block record the exporter reads.
type blockRecord struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	ParentID    string `json:"parent_id"`
	ParentTable string `json:"parent_table"`
	Alive       bool   `json:"alive"`
}

// recordValuesRequest is the getRecordValues request body.
type recordValuesRequest struct {
	Requests []recordPointer `json:"requests"`
}

// recordPointer identifies one record to fetch.
type recordPointer struct {
	Table string `json:"table"`
	ID    string `json:"id"`
}

// recordValuesResponse is the getRecordValues response body.
type recordValuesResponse struct {
	Results []struct {
		Role  string       `json:"role"`
		Value *blockRecord `json:"value"`
	} `json:"results"`
}

// getRecord fetches the block record for the given ID.
func (c *Client) getRecord(ctx context.Context, id string) (*blockRecord, error) {
	request := recordValuesRequest{
		Requests: []recordPointer{{Table: tableBlock, ID: id}},
	}

	var response recordValuesResponse
	if err := c.post(ctx, "getRecordValues", request, &response); err != nil {
		return nil, err
	}

	// Role "none" means the record exists but the token's user cannot
	// read it. Both cases are a missing page from the exporter's view.
	if len(response.Results) == 0 || response.Results[0].Value == nil || response.Results[0].Role == "none" {
		return nil, fmt.Errorf("%w: %s", ErrPageNotFound, id)
	}
	return response.Results[0].Value, nil
}

// Resolve turns a browseable page URL into the page's block ID. It verifies
// that the block exists and is readable with the client's token.
func (c *Client) Resolve(ctx context.Context, pageURL string) (string, error) {
	id, err := ParsePageURL(pageURL)
	if err != nil {
		return "", err
	}

	record, err := c.getRecord(ctx, id)
	if err != nil {
		return "", err
	}

	c.logger.DebugContext(ctx, "resolved page", "url", pageURL, "id", record.ID)
	return record.ID, nil
}
