package twse

import (
	"net/http"
)

const (
	// DefaultEndpoint is the TWSE market information system quote endpoint.
	DefaultEndpoint = "https://mis.twse.com.tw/stock/api/getStockInfo.jsp"

	// BrowserUserAgent and BrowserReferer satisfy the upstream bot filter.
	BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	BrowserReferer   = "https://mis.twse.com.tw/"
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=twse_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a client for the TWSE real-time quote API.
type Client struct {
	// endpoint is the getStockInfo URL without query.
	endpoint string
	// httpClient is the HTTP httpClient.
	httpClient HTTPClient
	// header contains additional headers to be sent with each request.
	header http.Header
	// zeroPad left-pads identifiers to four digits before querying.
	zeroPad bool
	// strictStatus rejects non-2xx responses before decoding.
	strictStatus bool
}

// ClientOption is a configuration option for the TWSE client.
type ClientOption func(*Client)

// WithEndpoint sets the quote endpoint.
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithHTTPClient sets the HTTP client for the API.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) ClientOption {
	return func(c *Client) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// WithBrowserHeaders sends a browser-like User-Agent and the TWSE Referer.
func WithBrowserHeaders() ClientOption {
	return WithHeader(http.Header{
		"User-Agent": []string{BrowserUserAgent},
		"Referer":    []string{BrowserReferer},
	})
}

// WithZeroPad toggles left-padding identifiers to four digits.
func WithZeroPad(on bool) ClientOption {
	return func(c *Client) {
		c.zeroPad = on
	}
}

// WithStrictStatus toggles rejecting non-2xx responses.
func WithStrictStatus(on bool) ClientOption {
	return func(c *Client) {
		c.strictStatus = on
	}
}

// NewClient creates a new TWSE client. Without options it zero-pads
// identifiers, checks the HTTP status and sends no extra headers.
func NewClient(options ...ClientOption) *Client {
	var client = &Client{
		endpoint:     DefaultEndpoint,
		httpClient:   http.DefaultClient,
		header:       http.Header{},
		zeroPad:      true,
		strictStatus: true,
	}
	for _, option := range options {
		option(client)
	}
	return client
}

// Name implements provider.Provider.
func (c *Client) Name() string { return "TWSE" }
