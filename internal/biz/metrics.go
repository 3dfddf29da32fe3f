package biz

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MatchMetrics instruments donor matching.
type MatchMetrics struct {
	requests   *prometheus.CounterVec
	duration   prometheus.Histogram
	candidates prometheus.Histogram
}

// NewMatchMetrics registers the matching collectors on reg.
func NewMatchMetrics(reg prometheus.Registerer) *MatchMetrics {
	factory := promauto.With(reg)
	return &MatchMetrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "donorlane_match_requests_total",
			Help: "Donor matching requests by event focus.",
		}, []string{"focus"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "donorlane_match_duration_seconds",
			Help:    "Time spent scoring a donor pool.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		candidates: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "donorlane_match_candidates",
			Help:    "Size of the donor pool scored per request.",
			Buckets: prometheus.ExponentialBuckets(10, 4, 7),
		}),
	}
}

func (m *MatchMetrics) observe(focus EventFocus, poolSize int, seconds float64) {
	if m == nil {
		return
	}
	if _, ok := weightProfiles[focus]; !ok {
		focus = FocusFundraising
	}
	m.requests.WithLabelValues(string(focus)).Inc()
	m.duration.Observe(seconds)
	m.candidates.Observe(float64(poolSize))
}
