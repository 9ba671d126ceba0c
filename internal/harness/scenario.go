package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/matchup/internal/ir"
)

// Scenario defines one executable matchup test.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	ParticipantsA []string `yaml:"participants_a"`
	ParticipantsB []string `yaml:"participants_b"`

	// Steps are applied in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final engine state.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one scenario step. Exactly one of Exact, Count, Try or Calculate
// is set.
type Step struct {
	Exact     *ExactStep `yaml:"exact,omitempty"`
	Count     *CountStep `yaml:"count,omitempty"`
	Try       *TryStep   `yaml:"try,omitempty"`
	Calculate bool       `yaml:"calculate,omitempty"`

	// Expect checks the step outcome. If nil, the step must succeed.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExactStep is an exact-match observation.
type ExactStep struct {
	A     string `yaml:"a"`
	B     string `yaml:"b"`
	Match bool   `yaml:"match"`
}

// CountStep is a count-match observation.
type CountStep struct {
	Pairs    []ir.Pair `yaml:"pairs"`
	Expected int       `yaml:"expected"`
}

// TryStep is a hypothetical query.
type TryStep struct {
	Matches    []ir.Pair `yaml:"matches,omitempty"`
	NonMatches []ir.Pair `yaml:"non_matches,omitempty"`
}

// ExpectClause specifies the expected step outcome.
type ExpectClause struct {
	// Scenarios is the expected remaining (or consistent, for try) count.
	Scenarios *int `yaml:"scenarios,omitempty"`

	// Ratio is the expected try ratio.
	Ratio *float64 `yaml:"ratio,omitempty"`

	// Error is the engine error code the step must fail with,
	// e.g. "UNKNOWN_PARTICIPANT".
	Error string `yaml:"error,omitempty"`
}

// Op names the step type.
func (s Step) Op() string {
	switch {
	case s.Exact != nil:
		return OpExact
	case s.Count != nil:
		return OpCount
	case s.Try != nil:
		return OpTry
	case s.Calculate:
		return OpCalculate
	default:
		return ""
	}
}

// Step operation names.
const (
	OpExact     = "exact"
	OpCount     = "count"
	OpTry       = "try"
	OpCalculate = "calculate"
)

// Assertion validates the final engine state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "probability": A and B name a cell, Value is its probability
	// - "row": A names a row, Values is its distribution
	// - "scenarios": Count is the final candidate count
	// - "stochastic": rows and columns of the table sum to 1
	Type string `yaml:"type"`

	A      string    `yaml:"a,omitempty"`
	B      string    `yaml:"b,omitempty"`
	Value  *float64  `yaml:"value,omitempty"`
	Values []float64 `yaml:"values,omitempty"`
	Count  *int      `yaml:"count,omitempty"`

	// Tolerance is the allowed absolute error. Defaults to DefaultTolerance.
	Tolerance float64 `yaml:"tolerance,omitempty"`
}

// Assertion type constants.
const (
	AssertProbability = "probability"
	AssertRow         = "row"
	AssertScenarios   = "scenarios"
	AssertStochastic  = "stochastic"
)

// DefaultTolerance is the absolute error allowed by numeric assertions.
const DefaultTolerance = 1e-9

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
// Participant lists are validated by the engine when the scenario runs.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.ParticipantsA) == 0 || len(s.ParticipantsB) == 0 {
		return fmt.Errorf("participants_a and participants_b are required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(index int, s Step) error {
	set := 0
	if s.Exact != nil {
		set++
	}
	if s.Count != nil {
		set++
	}
	if s.Try != nil {
		set++
	}
	if s.Calculate {
		set++
	}
	if set != 1 {
		return fmt.Errorf("steps[%d]: exactly one of exact, count, try or calculate is required", index)
	}

	if s.Exact != nil && (s.Exact.A == "" || s.Exact.B == "") {
		return fmt.Errorf("steps[%d].exact: a and b are required", index)
	}

	if s.Expect != nil {
		if s.Expect.Ratio != nil && s.Try == nil {
			return fmt.Errorf("steps[%d].expect: ratio is only valid for try", index)
		}
		if s.Expect.Error != "" && (s.Expect.Scenarios != nil || s.Expect.Ratio != nil) {
			return fmt.Errorf("steps[%d].expect: error excludes scenarios and ratio", index)
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	if a.Tolerance < 0 {
		return fmt.Errorf("assertions[%d]: tolerance must be non-negative", index)
	}

	switch a.Type {
	case AssertProbability:
		if a.A == "" || a.B == "" || a.Value == nil {
			return fmt.Errorf("assertions[%d]: a, b and value are required for probability", index)
		}
	case AssertRow:
		if a.A == "" || len(a.Values) == 0 {
			return fmt.Errorf("assertions[%d]: a and values are required for row", index)
		}
	case AssertScenarios:
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: non-negative count is required for scenarios", index)
		}
	case AssertStochastic:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
