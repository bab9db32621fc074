// Package gateway implements an October CMS Gateway V1 API client with
// HMAC-SHA512 request signing.
package gateway

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://octobercms.com"
	APIVersion     = "v1"

	defaultTimeout = 30 * time.Second
)

// Credentials authenticate signed requests. Secret is base64 text; its
// decoded bytes are the HMAC key.
type Credentials struct {
	Key         string
	Secret      string
	ProjectHash string
}

func (c Credentials) complete() bool {
	return c.Key != "" && c.Secret != ""
}

// Doer sends an HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Options configures a Client.
type Options struct {
	BaseURL     string
	Credentials Credentials
	Timeout     time.Duration
	HTTPClient  Doer
	Logger      *slog.Logger
	Now         func() time.Time
}

// Response is a decoded gateway answer.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       map[string]any
}

// Client is an October CMS Gateway V1 API client.
type Client struct {
	baseURL string
	creds   Credentials
	timeout time.Duration
	http    Doer
	log     *slog.Logger
	nonces  *nonceSource
}

// New creates a new Client. It never fails; missing credentials surface on
// the first signed call.
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				TLSClientConfig:     &tls.Config{MinVersion: tls.VersionTLS12},
				TLSHandshakeTimeout: 10 * time.Second,
			},
		}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		creds:   opts.Credentials,
		timeout: opts.Timeout,
		http:    opts.HTTPClient,
		log:     opts.Logger,
		nonces:  newNonceSource(opts.Now),
	}
}

// SetCredentials replaces the stored API key and secret.
func (c *Client) SetCredentials(key, secret string) *Client {
	c.creds.Key = key
	c.creds.Secret = secret
	return c
}

// Credentials returns the credentials the client signs with.
func (c *Client) Credentials() Credentials {
	return c.creds
}

// BaseURL returns the endpoint root, without the version prefix.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Call issues a signed POST to endpoint with params and decodes the reply.
func (c *Client) Call(ctx context.Context, endpoint string, params *Params) (*Response, error) {
	if !c.creds.complete() {
		return nil, ErrMissingCredentials
	}

	signed, err := c.sign(params)
	if err != nil {
		return nil, err
	}

	headers := http.Header{}
	headers.Set("Rest-Key", c.creds.Key)
	headers.Set("Rest-Sign", signed.signature)

	return c.do(ctx, endpoint, signed.body, headers)
}

func (c *Client) url(endpoint string) string {
	return c.baseURL + "/" + APIVersion + "/" + strings.TrimLeft(endpoint, "/")
}

func (c *Client) do(ctx context.Context, endpoint, body string, extra http.Header) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(endpoint), bytes.NewBufferString(body))
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	for k, vs := range extra {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	start := time.Now()
	c.log.DebugContext(ctx, "dispatching request", "endpoint", endpoint, "url", req.URL.String())

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.DebugContext(ctx, "request failed", "endpoint", endpoint, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response body: %v", ErrTransport, err)
	}

	c.log.DebugContext(ctx, "received response",
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"duration", time.Since(start),
	)

	return parseResponse(resp.StatusCode, resp.Header, raw)
}

// parseResponse decodes a raw reply and classifies status >= 400 as an
// APIError whenever the body is valid JSON, object or not. A non-object
// body on a success status is a decode error.
func parseResponse(status int, header http.Header, raw []byte) (*Response, error) {
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, decodeError(raw, err)
	}
	body, ok := decoded.(map[string]any)

	if status >= 400 {
		// newAPIError falls back to the default code and message for a
		// nil body.
		return nil, newAPIError(status, body)
	}
	if !ok {
		return nil, decodeError(raw, nil)
	}

	return &Response{
		StatusCode: status,
		Headers:    flattenHeaders(header),
		Body:       body,
	}, nil
}

// flattenHeaders reduces a multi-valued header to one value per name; the
// last occurrence of a duplicate wins.
func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vs := range h {
		if len(vs) == 0 {
			continue
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(vs[len(vs)-1])
	}
	return out
}
