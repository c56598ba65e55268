package internal

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/dcoutinho96/spotify-gateway/spotify"
)

// HeaderTransport adds a header to all requests.
type HeaderTransport struct {
	Key   string
	Value string
	http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t HeaderTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set(t.Key, t.Value)
	return t.RoundTripper.RoundTrip(r)
}

// statusTransport turns upstream error responses into a *StatusError so
// callers never need to inspect raw responses to classify a failure.
type statusTransport struct {
	http.RoundTripper
}

// _maxErrorBody bounds how much of an error response we read.
const _maxErrorBody = 64 << 10

// RoundTrip implements http.RoundTripper.
func (t statusTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	resp, err := t.RoundTripper.RoundTrip(r)
	if err != nil || resp.StatusCode < http.StatusBadRequest {
		return resp, err
	}
	defer func() { _ = resp.Body.Close() }()

	se := &StatusError{StatusCode: resp.StatusCode, Endpoint: r.URL.Path}

	var body spotify.ErrorBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, _maxErrorBody)).Decode(&body); err == nil {
		se.Message = body.Error.Message
	}

	return nil, se
}

// metricsTransport records upstream request counts and latency.
type metricsTransport struct {
	http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t metricsTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.RoundTripper.RoundTrip(r)
	_upstreamDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())

	outcome := "error"
	if err == nil {
		outcome = strconv.Itoa(resp.StatusCode/100) + "xx"
	}
	_upstreamRequests.WithLabelValues(r.Method, outcome).Inc()

	return resp, err
}
