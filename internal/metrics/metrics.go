// Package metrics exports engine events as Prometheus metrics.
//
// Metrics are registered on a caller-supplied registry, never the global
// default, so independent engines in one process never share collectors.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/roach88/matchup/internal/ir"
)

const namespace = "matchup"

// Observer implements engine.Observer by updating Prometheus collectors.
type Observer struct {
	observations        *prometheus.CounterVec
	scenariosRemaining  prometheus.Gauge
	filterDuration      prometheus.Histogram
	generationDuration  prometheus.Histogram
	probabilityDuration prometheus.Histogram
}

// NewObserver creates the collectors and registers them on reg.
// Registering twice on the same registry panics, as promauto does.
func NewObserver(reg prometheus.Registerer) *Observer {
	factory := promauto.With(reg)
	return &Observer{
		// observations counts applied observations.
		// Labels: kind (exact-match, count-match)
		observations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "observations_total",
			Help:      "Total observations applied, by kind",
		}, []string{"kind"}),

		scenariosRemaining: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scenarios_remaining",
			Help:      "Candidate scenarios consistent with every applied observation",
		}),

		filterDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "filter_duration_seconds",
			Help:      "Time to filter the candidate set for one observation",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),

		generationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Time to enumerate every pairing",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),

		probabilityDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "probability_duration_seconds",
			Help:      "Time to compute the probability table",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
	}
}

func (o *Observer) ScenariosGenerated(_, count int, elapsed time.Duration) {
	o.generationDuration.Observe(elapsed.Seconds())
	o.scenariosRemaining.Set(float64(count))
}

func (o *Observer) ObservationApplied(obs ir.Observation, _, after int, elapsed time.Duration) {
	o.observations.WithLabelValues(string(obs.Kind)).Inc()
	o.filterDuration.Observe(elapsed.Seconds())
	o.scenariosRemaining.Set(float64(after))
}

func (o *Observer) ProbabilitiesCalculated(_ int, elapsed time.Duration) {
	o.probabilityDuration.Observe(elapsed.Seconds())
}

// SetScenariosRemaining records the size of a candidate set rebuilt from
// stored history. Replayed observations are not counted as applied.
func (o *Observer) SetScenariosRemaining(n int) {
	o.scenariosRemaining.Set(float64(n))
}

// WriteTextfile writes every metric gathered from g to path in the
// Prometheus text exposition format.
func WriteTextfile(g prometheus.Gatherer, path string) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
