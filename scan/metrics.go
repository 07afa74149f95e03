// SPDX-License-Identifier: MIT

package scan

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "rulial"
	scanSubsystem    = "scan"
)

// Metrics are the scanner's Prometheus instruments.
type Metrics struct {
	// Analyzed counts classified rules by sheaf_type.
	Analyzed *prometheus.CounterVec
	// Fallbacks counts substituted solver stages by stage.
	Fallbacks *prometheus.CounterVec
	Skipped   prometheus.Counter
	Failed    prometheus.Counter
	InFlight  prometheus.Gauge
	Duration  prometheus.Histogram
}

// NewMetrics registers the scanner metrics with reg.
// Use prometheus.NewRegistry() in tests to avoid global collisions.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		Analyzed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: scanSubsystem,
			Name:      "rules_analyzed_total",
			Help:      "Rules classified, by sheaf type",
		}, []string{"sheaf_type"}),
		Fallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: scanSubsystem,
			Name:      "solver_fallbacks_total",
			Help:      "Analysis stages replaced by a fallback after a solver failure",
		}, []string{"stage"}),
		Skipped: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: scanSubsystem,
			Name:      "rules_skipped_total",
			Help:      "Rules skipped because the atlas already holds them",
		}),
		Failed: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: scanSubsystem,
			Name:      "rules_failed_total",
			Help:      "Rules whose analysis returned an error",
		}),
		InFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: scanSubsystem,
			Name:      "rules_in_flight",
			Help:      "Rules currently being analyzed",
		}),
		Duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: scanSubsystem,
			Name:      "rule_duration_seconds",
			Help:      "Wall time of one rule analysis",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}
