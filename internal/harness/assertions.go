package harness

import (
	"fmt"
	"math"
	"strings"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// EvaluateAssertions checks every assertion against the final result and
// returns one message per failure.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluateAssertion(result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluateAssertion(result *Result, a Assertion) error {
	tolerance := a.Tolerance
	if tolerance == 0 {
		tolerance = DefaultTolerance
	}

	switch a.Type {
	case AssertScenarios:
		return assertScenarios(result, a)
	case AssertProbability:
		return assertProbability(result, a, tolerance)
	case AssertRow:
		return assertRow(result, a, tolerance)
	case AssertStochastic:
		return assertStochastic(result, tolerance)
	default:
		return fmt.Errorf("unknown assertion type: %s", a.Type)
	}
}

func assertScenarios(result *Result, a Assertion) error {
	if result.Scenarios != *a.Count {
		return &AssertionError{
			Type:     AssertScenarios,
			Expected: fmt.Sprintf("%d scenarios", *a.Count),
			Actual:   fmt.Sprintf("%d scenarios", result.Scenarios),
		}
	}
	return nil
}

// requireTable reports a failed assertion when no table could be computed.
func requireTable(result *Result, kind string) error {
	if result.Probabilities == nil {
		return &AssertionError{
			Type:     kind,
			Expected: "a probability table",
			Actual:   fmt.Sprintf("no table (%s)", result.FinalError),
		}
	}
	return nil
}

func assertProbability(result *Result, a Assertion, tolerance float64) error {
	if err := requireTable(result, AssertProbability); err != nil {
		return err
	}
	got, err := result.Probabilities.Get(a.A, a.B)
	if err != nil {
		return err
	}
	if math.Abs(got-*a.Value) > tolerance {
		return &AssertionError{
			Type:     AssertProbability,
			Expected: fmt.Sprintf("P(%s, %s) = %v", a.A, a.B, *a.Value),
			Actual:   fmt.Sprintf("P(%s, %s) = %v", a.A, a.B, got),
		}
	}
	return nil
}

func assertRow(result *Result, a Assertion, tolerance float64) error {
	if err := requireTable(result, AssertRow); err != nil {
		return err
	}
	got, err := result.Probabilities.Row(a.A)
	if err != nil {
		return err
	}

	mismatch := len(got) != len(a.Values)
	for i := 0; !mismatch && i < len(got); i++ {
		mismatch = math.Abs(got[i]-a.Values[i]) > tolerance
	}
	if mismatch {
		return &AssertionError{
			Type:     AssertRow,
			Expected: fmt.Sprintf("%s: %v", a.A, a.Values),
			Actual:   fmt.Sprintf("%s: %v", a.A, got),
		}
	}
	return nil
}

func assertStochastic(result *Result, tolerance float64) error {
	if err := requireTable(result, AssertStochastic); err != nil {
		return err
	}
	rows := result.Probabilities.Rows()
	for i := range rows {
		var rowSum, colSum float64
		for j := range rows {
			rowSum += rows[i][j]
			colSum += rows[j][i]
		}
		if math.Abs(rowSum-1) > tolerance {
			return &AssertionError{
				Type:     AssertStochastic,
				Expected: fmt.Sprintf("row %d sums to 1", i),
				Actual:   fmt.Sprintf("sum %v", rowSum),
			}
		}
		if math.Abs(colSum-1) > tolerance {
			return &AssertionError{
				Type:     AssertStochastic,
				Expected: fmt.Sprintf("column %d sums to 1", i),
				Actual:   fmt.Sprintf("sum %v", colSum),
			}
		}
	}
	return nil
}
