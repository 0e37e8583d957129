package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the counters exposed at /metrics.
type Metrics struct {
	ReportsGenerated prometheus.Counter
	ReportsFailed    *prometheus.CounterVec
	UnmappedEvents   prometheus.Counter
	EpisodesCounted  prometheus.Counter
}

// NewMetrics registers the report counters with the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ReportsGenerated: factory.NewCounter(prometheus.CounterOpts{
			Name: "trialcli_reports_generated_total",
			Help: "Number of summary reports generated successfully.",
		}),
		ReportsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trialcli_reports_failed_total",
			Help: "Number of report runs that failed, by error code.",
		}, []string{"error_code"}),
		UnmappedEvents: factory.NewCounter(prometheus.CounterOpts{
			Name: "trialcli_unmapped_events_total",
			Help: "Diarrheal events whose participant id had no enrollment record.",
		}),
		EpisodesCounted: factory.NewCounter(prometheus.CounterOpts{
			Name: "trialcli_episodes_counted_total",
			Help: "Distinct diarrheal episodes counted across all generated reports.",
		}),
	}
}
