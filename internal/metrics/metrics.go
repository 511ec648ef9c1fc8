// Package metrics provides Prometheus metrics for transcript replay and the
// web view.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	commandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aoc_day7_commands_total",
			Help: "Total number of transcript commands replayed",
		},
		[]string{"command"},
	)

	entriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aoc_day7_listing_entries_total",
			Help: "Total number of listing entries replayed",
		},
		[]string{"kind"},
	)

	parseErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aoc_day7_parse_errors_total",
			Help: "Total number of transcripts rejected by the parser",
		},
	)

	sizeConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aoc_day7_size_conflicts_total",
			Help: "Total number of repeated file listings with a different size",
		},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aoc_day7_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "status"},
	)
)

// RecordCommand counts one replayed command.
func RecordCommand(name string) {
	commandsTotal.WithLabelValues(name).Inc()
}

// RecordEntry counts one replayed listing entry.
func RecordEntry(kind string) {
	entriesTotal.WithLabelValues(kind).Inc()
}

// RecordParseError counts one rejected transcript.
func RecordParseError() {
	parseErrorsTotal.Inc()
}

// RecordSizeConflict counts one ignored size mismatch.
func RecordSizeConflict() {
	sizeConflictsTotal.Inc()
}

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(path string, status int) {
	httpRequestsTotal.WithLabelValues(path, strconv.Itoa(status)).Inc()
}

// Handler returns the Prometheus metrics handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
