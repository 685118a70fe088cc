package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APICallsTotal tracks remote API calls per method
	APICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adsmcp_api_calls_total",
			Help: "Total number of Google Ads API calls",
		},
		[]string{"method"},
	)

	// APIErrorsTotal tracks classified API failures
	APIErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adsmcp_api_errors_total",
			Help: "Total number of Google Ads API failures by classified kind",
		},
		[]string{"kind"},
	)

	// APILatency tracks remote call latency
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "adsmcp_api_latency_seconds",
			Help:    "Google Ads API call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// RetriesTotal tracks scheduled retries by failure kind
	RetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adsmcp_retries_total",
			Help: "Total number of retries scheduled",
		},
		[]string{"kind"},
	)

	// OperationsTotal tracks terminal operation outcomes
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adsmcp_operations_total",
			Help: "Total number of logical operations by kind and terminal status",
		},
		[]string{"kind", "status"},
	)

	// TokenRefreshTotal tracks credential refresh exchanges
	TokenRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adsmcp_token_refresh_total",
			Help: "Total number of OAuth token refresh exchanges",
		},
		[]string{"result"},
	)

	// CredentialExpirySeconds tracks remaining credential lifetime
	CredentialExpirySeconds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "adsmcp_credential_expiry_seconds",
			Help: "Seconds until the cached credential expires",
		},
	)
)
