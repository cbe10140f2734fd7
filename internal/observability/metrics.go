package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce sync.Once

	framesEncoded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "devlink",
			Subsystem: "frame",
			Name:      "encoded_total",
			Help:      "Frames encoded to the wire.",
		},
	)
	framesDecoded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "devlink",
			Subsystem: "frame",
			Name:      "decoded_total",
			Help:      "Frames decoded from the wire.",
		},
	)
	wireBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "devlink",
			Subsystem: "frame",
			Name:      "bytes_total",
			Help:      "Bytes moved through the frame codec.",
		},
		[]string{"direction"},
	)
	messagesDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "devlink",
			Subsystem: "dispatch",
			Name:      "dropped_total",
			Help:      "Messages dropped before dispatch.",
		},
		[]string{"reason"},
	)
	pingSilence = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "devlink",
			Subsystem: "ping",
			Name:      "silence_seconds",
			Help:      "Silence observed past the unanswered-ping threshold.",
			Buckets:   prometheus.DefBuckets,
		},
	)
	pingRoundTrip = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "devlink",
			Subsystem: "ping",
			Name:      "round_trip_seconds",
			Help:      "Ping to pong round-trip time.",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			framesEncoded, framesDecoded, wireBytes,
			messagesDropped, pingSilence, pingRoundTrip,
		)
	})
}

// ServeMetrics exposes the process registry over HTTP at /metrics. Blocks
// until the listener fails.
func ServeMetrics(addr string) error {
	RegisterMetrics()
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}

func RecordFrameEncoded(bytes int) {
	RegisterMetrics()
	framesEncoded.Inc()
	wireBytes.WithLabelValues("out").Add(float64(bytes))
}

func RecordFrameDecoded(bytes int) {
	RegisterMetrics()
	framesDecoded.Inc()
	wireBytes.WithLabelValues("in").Add(float64(bytes))
}

func RecordMessageDropped(reason string) {
	RegisterMetrics()
	messagesDropped.WithLabelValues(reason).Inc()
}

func RecordPingSilence(d time.Duration) {
	RegisterMetrics()
	pingSilence.Observe(d.Seconds())
}

func RecordPingRoundTrip(d time.Duration) {
	RegisterMetrics()
	pingRoundTrip.Observe(d.Seconds())
}
