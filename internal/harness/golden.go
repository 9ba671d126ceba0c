package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/matchup/internal/ir"
)

// TraceSnapshot captures a scenario run for golden comparison.
// Probabilities are fixed-precision strings so the snapshot is canonical JSON.
type TraceSnapshot struct {
	ScenarioName  string
	ParticipantsA []string
	ParticipantsB []string
	Trace         []TraceEvent
	Scenarios     int
	FinalError    string
	Probabilities [][]string
}

// NewTraceSnapshot builds the snapshot of a finished run.
func NewTraceSnapshot(scenario *Scenario, result *Result) *TraceSnapshot {
	s := &TraceSnapshot{
		ScenarioName:  scenario.Name,
		ParticipantsA: scenario.ParticipantsA,
		ParticipantsB: scenario.ParticipantsB,
		Trace:         result.Trace,
		Scenarios:     result.Scenarios,
		FinalError:    result.FinalError,
	}
	if result.Probabilities != nil {
		for _, row := range result.Probabilities.Rows() {
			cells := make([]string, len(row))
			for j, p := range row {
				cells[j] = FormatProbability(p)
			}
			s.Probabilities = append(s.Probabilities, cells)
		}
	}
	return s
}

// toCanonicalMap converts a TraceSnapshot to a map[string]any for canonical JSON serialization.
// This is required because ir.MarshalCanonical only handles primitives, maps and slices.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	traceList := make([]any, len(s.Trace))
	for i, event := range s.Trace {
		eventMap := map[string]any{
			"step":      event.Step,
			"op":        event.Op,
			"scenarios": event.Scenarios,
		}
		if event.Args != nil {
			eventMap["args"] = event.Args
		}
		if event.Seq != 0 {
			eventMap["seq"] = event.Seq
		}
		if event.Ratio != "" {
			eventMap["ratio"] = event.Ratio
		}
		if event.Error != "" {
			eventMap["error"] = event.Error
		}
		traceList[i] = eventMap
	}

	final := map[string]any{"scenarios": s.Scenarios}
	if s.FinalError != "" {
		final["error"] = s.FinalError
	} else {
		rows := make([]any, len(s.Probabilities))
		for i, row := range s.Probabilities {
			rows[i] = row
		}
		final["probabilities"] = rows
	}

	return map[string]any{
		"scenario_name":  s.ScenarioName,
		"participants_a": s.ParticipantsA,
		"participants_b": s.ParticipantsB,
		"trace":          traceList,
		"final":          final,
	}
}

// MarshalCanonical renders the snapshot as canonical JSON.
func (s *TraceSnapshot) MarshalCanonical() ([]byte, error) {
	return ir.MarshalCanonical(s.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if trace doesn't match golden file.
func RunWithGolden(t *testing.T, scenario *Scenario, opts ...Option) (*Result, error) {
	t.Helper()

	result, err := Run(scenario, opts...)
	if err != nil {
		return nil, err
	}

	traceJSON, err := NewTraceSnapshot(scenario, result).MarshalCanonical()
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, traceJSON)

	return result, nil
}
