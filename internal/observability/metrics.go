package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FlightsParsed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flightlog_flights_parsed_total",
		Help: "Total IGC files parsed successfully",
	})
	FixesDecoded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flightlog_fixes_decoded_total",
		Help: "Total B-records decoded into fixes",
	})
	VoidFixesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flightlog_void_fixes_skipped_total",
		Help: "Total B-records skipped for a void validity flag",
	})
	ParseErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flightlog_parse_errors_total",
		Help: "Total IGC parses aborted by a structural error",
	})
	ParseLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "flightlog_parse_latency_seconds",
		Help:    "Latency of a full IGC file parse",
		Buckets: prometheus.DefBuckets,
	})
)

func ObserveParseLatency(start time.Time) {
	ParseLatency.Observe(time.Since(start).Seconds())
}
