package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// imagery pipelines.
type Metrics struct {
	FramesRendered prometheus.Counter
	FramesSkipped  prometheus.Counter
	WarningsDrawn  prometheus.Counter
	CitiesDrawn    prometheus.Counter
	RunActive      prometheus.Gauge

	FetchErrors *prometheus.CounterVec // labels: source={radar,warnings,gazetteer,scene}

	FrameRenderDuration prometheus.Histogram
	SceneFetchDuration  prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FramesRendered,
		m.FramesSkipped,
		m.WarningsDrawn,
		m.CitiesDrawn,
		m.RunActive,
		m.FetchErrors,
		m.FrameRenderDuration,
		m.SceneFetchDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FramesRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_imagery",
			Name:      "frames_rendered_total",
			Help:      "Total frames rendered and persisted.",
		}),
		FramesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_imagery",
			Name:      "frames_skipped_total",
			Help:      "Total frames skipped after a resolution or render failure.",
		}),
		WarningsDrawn: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_imagery",
			Name:      "warnings_drawn_total",
			Help:      "Total warning polygons drawn across all renders.",
		}),
		CitiesDrawn: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_imagery",
			Name:      "cities_drawn_total",
			Help:      "Total city labels drawn across all renders.",
		}),
		RunActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "storm_imagery",
			Name:      "run_active",
			Help:      "1 while a pipeline run is in progress, 0 otherwise.",
		}),
		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storm_imagery",
			Name:      "fetch_errors_total",
			Help:      "External fetch failures by data source.",
		}, []string{"source"}),
		FrameRenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "storm_imagery",
			Name:      "frame_render_duration_seconds",
			Help:      "Duration of a complete fetch-render-persist cycle for one frame.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		SceneFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "storm_imagery",
			Name:      "scene_fetch_duration_seconds",
			Help:      "Duration of satellite scene retrieval.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}
