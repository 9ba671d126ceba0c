package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/roach88/matchup/internal/ir"
)

// Observer receives engine events. Implementations must be cheap; they run
// inline on the caller's goroutine.
type Observer interface {
	// ScenariosGenerated fires once per engine after the candidate table is built.
	ScenariosGenerated(n, count int, elapsed time.Duration)

	// ObservationApplied fires after the candidate set is filtered and the
	// record is appended.
	ObservationApplied(obs ir.Observation, before, after int, elapsed time.Duration)

	// ProbabilitiesCalculated fires after a successful recomputation.
	ProbabilitiesCalculated(scenarios int, elapsed time.Duration)
}

// NopObserver discards every event.
type NopObserver struct{}

func (NopObserver) ScenariosGenerated(int, int, time.Duration) {}
func (NopObserver) ObservationApplied(ir.Observation, int, int, time.Duration) {}
func (NopObserver) ProbabilitiesCalculated(int, time.Duration) {}

// LogObserver writes events as structured slog records at debug level.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates an observer that logs to logger.
func NewLogObserver(logger *slog.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (o *LogObserver) ScenariosGenerated(n, count int, elapsed time.Duration) {
	o.logger.LogAttrs(context.Background(), slog.LevelDebug, "generated scenarios",
		slog.Int("participants", n),
		slog.Int("scenarios", count),
		slog.Duration("elapsed", elapsed),
	)
}

func (o *LogObserver) ObservationApplied(obs ir.Observation, before, after int, elapsed time.Duration) {
	o.logger.LogAttrs(context.Background(), slog.LevelDebug, "applied observation",
		slog.Int64("seq", obs.Seq),
		slog.String("kind", string(obs.Kind)),
		slog.Int("before", before),
		slog.Int("remaining", after),
		slog.Duration("elapsed", elapsed),
	)
}

func (o *LogObserver) ProbabilitiesCalculated(scenarios int, elapsed time.Duration) {
	o.logger.LogAttrs(context.Background(), slog.LevelDebug, "calculated probabilities",
		slog.Int("scenarios", scenarios),
		slog.Duration("elapsed", elapsed),
	)
}

// MultiObserver fans events out to several observers in order.
type MultiObserver []Observer

func (m MultiObserver) ScenariosGenerated(n, count int, elapsed time.Duration) {
	for _, o := range m {
		o.ScenariosGenerated(n, count, elapsed)
	}
}

func (m MultiObserver) ObservationApplied(obs ir.Observation, before, after int, elapsed time.Duration) {
	for _, o := range m {
		o.ObservationApplied(obs, before, after, elapsed)
	}
}

func (m MultiObserver) ProbabilitiesCalculated(scenarios int, elapsed time.Duration) {
	for _, o := range m {
		o.ProbabilitiesCalculated(scenarios, elapsed)
	}
}
