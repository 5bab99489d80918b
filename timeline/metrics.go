package timeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records statistics about layout passes. A nil *Metrics records nothing.
type Metrics struct {
	passes   *prometheus.CounterVec
	duration *prometheus.HistogramVec
	entries  *prometheus.GaugeVec
	levels   *prometheus.GaugeVec
	markers  *prometheus.GaugeVec
}

// NewMetrics creates layout metrics and registers them with reg. It panics if registration fails.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		passes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tracelayout_layout_passes_total",
			Help: "Number of layout passes",
		}, []string{"provider"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tracelayout_layout_pass_duration_seconds",
			Help:    "Duration of layout passes",
			Buckets: prometheus.ExponentialBuckets(1e-5, 4, 10),
		}, []string{"provider"}),
		entries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tracelayout_entries",
			Help: "Number of entries produced by the last layout pass",
		}, []string{"provider"}),
		levels: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tracelayout_levels",
			Help: "Number of levels used by the last layout pass",
		}, []string{"provider"}),
		markers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tracelayout_markers",
			Help: "Number of markers collected by the last layout pass",
		}, []string{"provider"}),
	}
	reg.MustRegister(m.passes, m.duration, m.entries, m.levels, m.markers)
	return m
}

func (m *Metrics) observe(provider string, d time.Duration, l *Layout, levels int) {
	if m == nil {
		return
	}
	m.passes.WithLabelValues(provider).Inc()
	m.duration.WithLabelValues(provider).Observe(d.Seconds())
	m.entries.WithLabelValues(provider).Set(float64(l.Entries.Len()))
	m.levels.WithLabelValues(provider).Set(float64(levels))
	m.markers.WithLabelValues(provider).Set(float64(len(l.Markers)))
}
