package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"reflect"

	"github.com/roach88/matchup/internal/engine"
	"github.com/roach88/matchup/internal/ir"
	"github.com/roach88/matchup/internal/store"
)

// Harness executes one scenario against a live engine and a scratch store.
type Harness struct {
	store  *store.Store
	group  store.Group
	engine *engine.Engine
	logger *slog.Logger
}

// Option configures a scenario run.
type Option func(*runConfig)

type runConfig struct {
	logger *slog.Logger
}

// WithLogger routes engine events and step logs to logger.
// By default they are discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(c *runConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Create fresh in-memory database and engine
// 2. Execute steps, checking expect clauses and persisting observations
// 3. Recompute probabilities once
// 4. Replay the stored record and compare it with the live engine
// 5. Evaluate assertions
//
// An error is returned only when the scenario cannot run at all; failed
// expectations are reported in the result.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	cfg := runConfig{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&cfg)
	}

	st, err := store.Open(":memory:", store.WithIDGenerator(store.NewFixedGenerator("scenario-"+scenario.Name)))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	eng, err := engine.New(scenario.ParticipantsA, scenario.ParticipantsB,
		engine.WithObserver(engine.NewLogObserver(cfg.logger)))
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	ctx := context.Background()
	group, err := st.CreateGroup(ctx, scenario.Name, scenario.ParticipantsA, scenario.ParticipantsB)
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	h := &Harness{
		store:  st,
		group:  group,
		engine: eng,
		logger: cfg.logger,
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		if err := h.executeStep(ctx, i, step, result); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
	}

	result.Scenarios = eng.NumScenarios()
	if err := eng.CalculateProbabilities(); err != nil {
		result.FinalError = errorCode(err)
	} else {
		result.Probabilities, _ = eng.CachedProbabilities()
	}

	if err := h.verifyReplay(ctx); err != nil {
		result.AddError(err.Error())
	}

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}

	return result, nil
}

// executeStep applies one step and checks its expect clause.
// Only store failures are returned; engine errors are step outcomes.
func (h *Harness) executeStep(ctx context.Context, index int, step Step, result *Result) error {
	event := TraceEvent{Step: index, Op: step.Op(), Args: stepArgs(step)}

	var stepErr error
	var ratio *float64
	switch {
	case step.Exact != nil:
		_, stepErr = h.engine.ApplyExactMatch(step.Exact.A, step.Exact.B, step.Exact.Match, engine.DeferRecompute())
		event.Scenarios = h.engine.NumScenarios()

	case step.Count != nil:
		_, stepErr = h.engine.ApplyCountMatch(step.Count.Pairs, step.Count.Expected, engine.DeferRecompute())
		event.Scenarios = h.engine.NumScenarios()

	case step.Try != nil:
		hyp, err := h.engine.TryPartial(step.Try.Matches, step.Try.NonMatches)
		stepErr = err
		if err == nil {
			event.Scenarios = hyp.Count
			event.Ratio = FormatProbability(hyp.Ratio)
			ratio = &hyp.Ratio
		}

	case step.Calculate:
		stepErr = h.engine.CalculateProbabilities()
		event.Scenarios = h.engine.NumScenarios()
	}

	if stepErr == nil && (step.Exact != nil || step.Count != nil) {
		history := h.engine.History()
		obs := history[len(history)-1]
		if _, err := h.store.AppendObservation(ctx, h.group.ID, obs); err != nil {
			return err
		}
		event.Seq = obs.Seq
	}
	if stepErr != nil {
		event.Error = errorCode(stepErr)
	}
	result.Trace = append(result.Trace, event)

	for _, msg := range checkExpect(index, event, step.Expect, stepErr, ratio) {
		result.AddError(msg)
	}

	h.logger.Debug("scenario step completed",
		"step", index,
		"op", event.Op,
		"scenarios", event.Scenarios,
		"error", event.Error,
	)
	return nil
}

// checkExpect compares a step outcome with its expect clause.
func checkExpect(index int, event TraceEvent, expect *ExpectClause, stepErr error, ratio *float64) []string {
	var errs []string
	prefix := fmt.Sprintf("steps[%d] (%s)", index, event.Op)

	if expect == nil || expect.Error == "" {
		if stepErr != nil {
			errs = append(errs, fmt.Sprintf("%s: unexpected error: %v", prefix, stepErr))
			return errs
		}
	} else {
		if stepErr == nil {
			errs = append(errs, fmt.Sprintf("%s: expected error %s, step succeeded", prefix, expect.Error))
		} else if event.Error != expect.Error {
			errs = append(errs, fmt.Sprintf("%s: expected error %s, got %v", prefix, expect.Error, stepErr))
		}
		return errs
	}

	if expect == nil {
		return errs
	}
	if expect.Scenarios != nil && *expect.Scenarios != event.Scenarios {
		errs = append(errs, fmt.Sprintf("%s: expected %d scenarios, got %d", prefix, *expect.Scenarios, event.Scenarios))
	}
	if expect.Ratio != nil && ratio != nil && math.Abs(*expect.Ratio-*ratio) > DefaultTolerance {
		errs = append(errs, fmt.Sprintf("%s: expected ratio %v, got %v", prefix, *expect.Ratio, *ratio))
	}
	return errs
}

// verifyReplay loads the stored record into a fresh engine and compares it
// with the live one.
func (h *Harness) verifyReplay(ctx context.Context) error {
	rec, err := h.store.ReadRecord(ctx, h.group.Name)
	if err != nil {
		return fmt.Errorf("persistence: read record: %w", err)
	}
	replayed, err := engine.Load(rec)
	if err != nil {
		return fmt.Errorf("persistence: replay failed: %w", err)
	}

	if replayed.Fingerprint() != h.engine.Fingerprint() {
		return fmt.Errorf("persistence: replayed candidate set differs (%d vs %d scenarios)",
			replayed.NumScenarios(), h.engine.NumScenarios())
	}
	want, err := ir.RecordHash(h.engine.Serialize())
	if err != nil {
		return fmt.Errorf("persistence: %w", err)
	}
	got, err := ir.RecordHash(replayed.Serialize())
	if err != nil {
		return fmt.Errorf("persistence: %w", err)
	}
	if got != want {
		return fmt.Errorf("persistence: replayed history differs")
	}
	// The hash compares NFC forms; stored names must also keep their spelling.
	if !reflect.DeepEqual(replayed.Serialize(), h.engine.Serialize()) {
		return fmt.Errorf("persistence: replayed record changed name spelling")
	}
	return nil
}

// errorCode extracts the engine error code, or "ERROR" for other errors.
func errorCode(err error) string {
	var ee *engine.Error
	if errors.As(err, &ee) {
		return string(ee.Code)
	}
	return "ERROR"
}
