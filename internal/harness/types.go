package harness

import (
	"strconv"

	"github.com/roach88/matchup/internal/engine"
	"github.com/roach88/matchup/internal/ir"
)

// TraceEvent records the outcome of one scenario step.
type TraceEvent struct {
	Step int            `json:"step"`
	Op   string         `json:"op"`
	Args map[string]any `json:"args,omitempty"`

	// Seq is the history seq of an applied observation.
	Seq int64 `json:"seq,omitempty"`

	// Scenarios is the remaining count after the step, or the consistent
	// count for try.
	Scenarios int `json:"scenarios"`

	// Ratio is the try ratio, formatted with FormatProbability.
	Ratio string `json:"ratio,omitempty"`

	// Error is the engine error code the step failed with.
	Error string `json:"error,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every expect clause, assertion and the persistence check hold.
	Pass bool `json:"pass"`

	// Trace contains one event per step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Scenarios is the final candidate count.
	Scenarios int `json:"scenarios"`

	// FinalError is the error code of the final recomputation, if it failed.
	FinalError string `json:"final_error,omitempty"`

	// Probabilities is the final table; nil when FinalError is set.
	Probabilities *engine.Table `json:"probabilities,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// FormatProbability renders a probability with fixed precision so traces
// compare byte-for-byte.
func FormatProbability(p float64) string {
	return strconv.FormatFloat(p, 'f', 4, 64)
}

func pairsArg(pairs []ir.Pair) []any {
	out := make([]any, len(pairs))
	for i, p := range pairs {
		out[i] = map[string]any{"a": p.A, "b": p.B}
	}
	return out
}

// stepArgs converts a step's parameters to canonical-JSON-safe values.
func stepArgs(s Step) map[string]any {
	switch {
	case s.Exact != nil:
		return map[string]any{"a": s.Exact.A, "b": s.Exact.B, "match": s.Exact.Match}
	case s.Count != nil:
		return map[string]any{"pairs": pairsArg(s.Count.Pairs), "expected": s.Count.Expected}
	case s.Try != nil:
		return map[string]any{"matches": pairsArg(s.Try.Matches), "non_matches": pairsArg(s.Try.NonMatches)}
	default:
		return nil
	}
}
