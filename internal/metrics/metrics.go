// Package metrics holds the Prometheus instruments for one pageidmap run.
// A batch job has no /metrics endpoint to scrape, so the registry is
// written in node_exporter textfile format when a path is configured.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yanizio/pageidmap/internal/pagemap"
)

// Registry collects every instrument below.  It is separate from the
// default registry so the textfile carries no Go runtime series.
var Registry = prometheus.NewRegistry()

var (
	RecordsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pageidmap_records_total",
			Help: "Page records read from the source.",
		})

	MappingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pageidmap_mappings_total",
			Help: "Page records by URL disposition.",
		}, []string{"disposition"})

	MalformedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pageidmap_malformed_lines_total",
			Help: "Input lines skipped as unparsable.",
		})

	RunDuration = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pageidmap_run_duration_seconds",
			Help: "Wall time of the last run.",
		})

	LastSuccess = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pageidmap_last_success_timestamp_seconds",
			Help: "Unix time the last successful run finished.",
		})
)

func init() {
	Registry.MustRegister(
		RecordsTotal,
		MappingsTotal,
		MalformedTotal,
		RunDuration,
		LastSuccess,
	)
}

// Observe records the outcome of a finished run.
func Observe(s pagemap.Stats, malformed int, elapsed time.Duration) {
	RecordsTotal.Add(float64(s.Records))
	MappingsTotal.WithLabelValues(pagemap.SearchURL.String()).Add(float64(s.Search))
	MappingsTotal.WithLabelValues(pagemap.DisplayURL.String()).Add(float64(s.Display))
	MappingsTotal.WithLabelValues(pagemap.NoRewrite.String()).Add(float64(s.Skipped))
	MalformedTotal.Add(float64(malformed))
	RunDuration.Set(elapsed.Seconds())
}

// WriteTextfile marks the run successful and writes the registry to path.
func WriteTextfile(path string) error {
	LastSuccess.SetToCurrentTime()
	return prometheus.WriteToTextfile(path, Registry)
}
