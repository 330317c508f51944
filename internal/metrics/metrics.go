// Package metrics provides Prometheus metrics for the generation pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names
const (
	MetricGenerationsTotal      = "brand_generations_total"
	MetricStageFailuresTotal    = "brand_generation_stage_failures_total"
	MetricGenerationDuration    = "brand_generation_duration_seconds"
	MetricPaletteFallbacksTotal = "brand_palette_fallbacks_total"
)

// Status labels
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Palette fallback layers
const (
	LayerBase    = "base"
	LayerHarmony = "harmony"
	LayerManual  = "manual"
	LayerPalette = "palette"
)

// Pipeline contains Prometheus metrics for brand generation.
// All operations are thread-safe.
type Pipeline struct {
	generations      *prometheus.CounterVec
	stageFailures    *prometheus.CounterVec
	duration         prometheus.Histogram
	paletteFallbacks *prometheus.CounterVec
}

// NewPipeline creates a Pipeline with all collectors initialized. The
// metrics are not registered; call Register.
func NewPipeline() *Pipeline {
	return &Pipeline{
		generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricGenerationsTotal,
				Help: "Total number of brand generations by status",
			},
			[]string{"status"},
		),
		stageFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricStageFailuresTotal,
				Help: "Total number of failed generations by stage and error kind",
			},
			[]string{"stage", "kind"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    MetricGenerationDuration,
				Help:    "Histogram of end-to-end generation duration in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 15, 20, 30, 60, 120},
			},
		),
		paletteFallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricPaletteFallbacksTotal,
				Help: "Total number of color resolutions that used a fallback, by layer",
			},
			[]string{"layer"},
		),
	}
}

// Register registers all metrics with the given registry
func (m *Pipeline) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveSuccess records a finished generation
func (m *Pipeline) ObserveSuccess(seconds float64) {
	m.generations.WithLabelValues(StatusSuccess).Inc()
	m.duration.Observe(seconds)
}

// ObserveFailure records a generation that stopped at stage
func (m *Pipeline) ObserveFailure(stage, kind string, seconds float64) {
	m.generations.WithLabelValues(StatusFailure).Inc()
	m.stageFailures.WithLabelValues(stage, kind).Inc()
	m.duration.Observe(seconds)
}

// IncPaletteFallback counts a color fallback at layer
func (m *Pipeline) IncPaletteFallback(layer string) {
	m.paletteFallbacks.WithLabelValues(layer).Inc()
}

// Collectors returns all Prometheus collectors
func (m *Pipeline) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.generations,
		m.stageFailures,
		m.duration,
		m.paletteFallbacks,
	}
}
