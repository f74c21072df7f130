package scoring

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Analysis outcomes used as the "outcome" label.
const (
	OutcomeOK              = "ok"
	OutcomeValidationError = "validation_error"
	OutcomeInternalError   = "internal_error"
)

// Metrics records analyzer activity. A nil *Metrics records nothing.
type Metrics struct {
	analyses     *prometheus.CounterVec
	scores       prometheus.Histogram
	significance *prometheus.CounterVec
}

// NewMetrics creates the analyzer collectors and registers them with reg.
// A nil reg leaves the collectors unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "impactoia",
			Name:      "analyses_total",
			Help:      "Analyses performed, by outcome.",
		}, []string{"outcome"}),
		scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "impactoia",
			Name:      "score",
			Help:      "Distribution of produced impact scores.",
			Buckets:   []float64{25, 50, 75, 100},
		}),
		significance: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "impactoia",
			Name:      "significance_checks_total",
			Help:      "Significance checks, by result.",
		}, []string{"significant"}),
	}
	if reg != nil {
		reg.MustRegister(m.analyses, m.scores, m.significance)
	}
	return m
}

func (m *Metrics) observeOutcome(outcome string) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeScore(score float64) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(OutcomeOK).Inc()
	m.scores.Observe(score)
}

func (m *Metrics) observeSignificance(significant bool) {
	if m == nil {
		return
	}
	m.significance.WithLabelValues(strconv.FormatBool(significant)).Inc()
}
