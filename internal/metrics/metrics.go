package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RPCRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "torrentctl",
		Name:      "rpc_requests_total",
		Help:      "Total RPC calls to the daemon by method and outcome.",
	}, []string{"method", "outcome"})

	RPCRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "torrentctl",
		Name:      "rpc_request_duration_seconds",
		Help:      "RPC round-trip duration in seconds.",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.3, 0.5, 1, 2, 5, 10},
	}, []string{"method"})

	SessionRetries = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "torrentctl",
		Name:      "session_token_refreshes_total",
		Help:      "Total times the daemon demanded a fresh session token.",
	})

	CachedTorrents = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "torrentctl",
		Name:      "cached_torrents",
		Help:      "Number of torrents currently held in the client cache.",
	})
)

func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		RPCRequestsTotal,
		RPCRequestDuration,
		SessionRetries,
		CachedTorrents,
	)
}
