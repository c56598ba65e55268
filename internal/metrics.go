package internal

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const _namespace = "spotify_gateway"

var (
	_upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: _namespace,
		Name:      "upstream_requests_total",
		Help:      "Requests issued to the upstream, by method and outcome.",
	}, []string{"method", "outcome"})

	_upstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: _namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Latency of upstream requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})

	_classifiedErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: _namespace,
		Name:      "classified_errors_total",
		Help:      "Upstream failures surfaced to clients, by error code.",
	}, []string{"code"})

	_operations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: _namespace,
		Name:      "operations_total",
		Help:      "GraphQL operations executed.",
	}, []string{"introspection"})
)
