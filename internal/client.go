package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dcoutinho96/spotify-gateway/spotify"
	"go.uber.org/zap/buffer"
	"golang.org/x/oauth2"
)

// _buffers reduces GC.
var _buffers = buffer.NewPool()

// ClientFactory creates upstream clients bound to a base URL. It holds no
// per-request state and is safe for concurrent use.
type ClientFactory struct {
	base      *url.URL
	transport http.RoundTripper
	timeout   time.Duration
}

// NewClientFactory returns a factory for clients rooted at baseURL, which
// defaults to the public Spotify API. A nil transport uses
// http.DefaultTransport.
func NewClientFactory(baseURL string, transport http.RoundTripper, timeout time.Duration) (*ClientFactory, error) {
	if baseURL == "" {
		baseURL = spotify.DefaultBaseURL
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: expected an absolute URL", baseURL)
	}
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &ClientFactory{base: base, transport: transport, timeout: timeout}, nil
}

// New creates a client for a single request. A non-empty token is sent as a
// bearer token on every request; otherwise no Authorization header is sent.
func (f *ClientFactory) New(token string) *Client {
	var rt http.RoundTripper = statusTransport{metricsTransport{f.transport}}
	rt = HeaderTransport{Key: "Accept", Value: "application/json", RoundTripper: rt}

	if token != "" {
		rt = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   rt,
		}
	}

	return &Client{
		base: f.base,
		http: &http.Client{Transport: rt, Timeout: f.timeout},
	}
}

// Client issues requests to the upstream on behalf of one caller. Failed
// responses surface as a *StatusError somewhere in the returned error chain.
type Client struct {
	base *url.URL
	http *http.Client
}

// Get decodes the JSON response of a GET request into out.
func (c *Client) Get(ctx context.Context, endpoint string, params url.Values, out any) error {
	return c.do(ctx, http.MethodGet, endpoint, params, nil, out)
}

// Post sends body as JSON and decodes the response into out.
func (c *Client) Post(ctx context.Context, endpoint string, body any, out any) error {
	return c.do(ctx, http.MethodPost, endpoint, nil, body, out)
}

func (c *Client) do(ctx context.Context, method, endpoint string, params url.Values, body any, out any) error {
	// Appended rather than joined so dot segments are never cleaned.
	u := *c.base
	u.RawPath = strings.TrimSuffix(c.base.EscapedPath(), "/") + endpoint
	p, err := url.PathUnescape(u.RawPath)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	u.Path = p
	u.RawQuery = params.Encode()

	var reqBody io.Reader
	if body != nil {
		byt, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(byt)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	buf := _buffers.Get()
	defer buf.Free()

	if _, err := io.Copy(buf, resp.Body); err != nil {
		return fmt.Errorf("reading %s: %w", endpoint, err)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(buf.Bytes(), out); err != nil {
		return fmt.Errorf("decoding %s: %w", endpoint, err)
	}
	return nil
}

// FetchResource loads a single upstream resource. Failures are classified.
func FetchResource[T any](ctx context.Context, c *Client, endpoint string) (*T, error) {
	var out T
	if err := c.Get(ctx, endpoint, nil, &out); err != nil {
		return nil, classified(ctx, err)
	}
	return &out, nil
}
