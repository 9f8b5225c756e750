package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is what the services and the scoring ingest report to.
type Metrics interface {
	IncActionsRecorded(source string)
	IncDuplicateActions()
	IncUnmappedActions()
	IncIngestErrors(event string)
	ObserveIngestDuration(seconds float64)
	IncResultsSubmitted(status string)
	AddMatchesGenerated(kind string, n int)
	IncMedalsAwarded(medal string)
}

// Service holds all Prometheus collectors of the process.
type Service struct {
	ActionsRecorded  *prometheus.CounterVec
	DuplicateActions prometheus.Counter
	UnmappedActions  prometheus.Counter
	IngestErrors     *prometheus.CounterVec
	IngestDuration   prometheus.Histogram
	ResultsSubmitted *prometheus.CounterVec
	MatchesGenerated *prometheus.CounterVec
	MedalsAwarded    *prometheus.CounterVec
}

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the collectors.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		ActionsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tkd_match_actions_recorded_total",
			Help: "Match actions persisted, by source.",
		}, []string{"source"}),
		DuplicateActions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tkd_match_actions_duplicate_total",
			Help: "Match actions dropped as duplicates.",
		}),
		UnmappedActions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tkd_pss_unmapped_actions_total",
			Help: "PSS actions rejected because the device code has no mapping.",
		}),
		IngestErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tkd_pss_ingest_errors_total",
			Help: "PSS messages that failed to process, by event.",
		}, []string{"event"}),
		IngestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tkd_pss_ingest_duration_seconds",
			Help:    "Time to process one PSS message.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		ResultsSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tkd_match_results_submitted_total",
			Help: "Match results recorded, by result status.",
		}, []string{"status"}),
		MatchesGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tkd_matches_generated_total",
			Help: "Matches created by the bracket and pool generators.",
		}, []string{"kind"}),
		MedalsAwarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tkd_medals_awarded_total",
			Help: "Medal rows written by the result finalizer.",
		}, []string{"medal"}),
	}

	reg.MustRegister(
		s.ActionsRecorded,
		s.DuplicateActions,
		s.UnmappedActions,
		s.IngestErrors,
		s.IngestDuration,
		s.ResultsSubmitted,
		s.MatchesGenerated,
		s.MedalsAwarded,
	)

	return s
}

func (s *Service) IncActionsRecorded(source string) {
	s.ActionsRecorded.WithLabelValues(source).Inc()
}

func (s *Service) IncDuplicateActions() {
	s.DuplicateActions.Inc()
}

func (s *Service) IncUnmappedActions() {
	s.UnmappedActions.Inc()
}

func (s *Service) IncIngestErrors(event string) {
	s.IngestErrors.WithLabelValues(event).Inc()
}

func (s *Service) ObserveIngestDuration(seconds float64) {
	s.IngestDuration.Observe(seconds)
}

func (s *Service) IncResultsSubmitted(status string) {
	s.ResultsSubmitted.WithLabelValues(status).Inc()
}

func (s *Service) AddMatchesGenerated(kind string, n int) {
	s.MatchesGenerated.WithLabelValues(kind).Add(float64(n))
}

func (s *Service) IncMedalsAwarded(medal string) {
	s.MedalsAwarded.WithLabelValues(medal).Inc()
}
