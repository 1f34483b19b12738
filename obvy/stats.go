package vimshottari

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StatsInternal is the app's own prometheus registry.
// One instance is created at startup and attached to the View,
// everything it exports is served on /metrics.
type StatsInternal struct {
	Registry    *prometheus.Registry
	BuildTimer  prometheus.Histogram
	ScanTimer   prometheus.Histogram
	WWWCount    *prometheus.CounterVec
	QueryCount  *prometheus.CounterVec
	SandhiCount *prometheus.CounterVec
}

// NewStatsInternal creates the registry and all instruments
func NewStatsInternal() *StatsInternal {
	reg := prometheus.NewRegistry()

	s := &StatsInternal{
		Registry: reg,
		BuildTimer: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "vimshottari_timeline_build_seconds",
			Help:    "Time to build one chart's full timeline",
			Buckets: prometheus.DefBuckets,
		}),
		ScanTimer: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "vimshottari_sandhi_scan_seconds",
			Help:    "Time for one supervisor pass over all charts",
			Buckets: prometheus.DefBuckets,
		}),
		WWWCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vimshottari_http_requests_total",
			Help: "API requests by status and method",
		}, []string{"status", "method"}),
		QueryCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vimshottari_queries_total",
			Help: "Timeline queries by level",
		}, []string{"level"}),
		SandhiCount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vimshottari_sandhi_detected_total",
			Help: "Detected junctions by level",
		}, []string{"level"}),
	}

	reg.MustRegister(s.BuildTimer, s.ScanTimer, s.WWWCount, s.QueryCount, s.SandhiCount)

	return s
}

// Handler serves the attached registry for the /metrics endpoint
func (s *StatsInternal) Handler() http.Handler {
	return promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{})
}

// RecBuildTimer records one timeline construction in seconds
func (s *StatsInternal) RecBuildTimer(seconds float64) {
	s.BuildTimer.Observe(seconds)
}

// RecScanTimer records one supervisor scan pass in seconds
func (s *StatsInternal) RecScanTimer(seconds float64) {
	s.ScanTimer.Observe(seconds)
}

// RecWWW counts an API request
func (s *StatsInternal) RecWWW(status, method string) {
	s.WWWCount.WithLabelValues(status, method).Inc()
}

// RecQuery counts a timeline query at a level
func (s *StatsInternal) RecQuery(level string) {
	s.QueryCount.WithLabelValues(level).Inc()
}

// RecSandhi counts a detected junction at a level
func (s *StatsInternal) RecSandhi(level string) {
	s.SandhiCount.WithLabelValues(level).Inc()
}
