package engine

import (
	"github.com/roach88/matchup/internal/candidates"
	"github.com/roach88/matchup/internal/ir"
)

// Hypothesis is the outcome of a what-if query.
type Hypothesis struct {
	// Count is the number of current scenarios consistent with the query.
	Count int `json:"count"`

	// Ratio is Count divided by the current number of scenarios: the
	// conditional probability that the hypothetical holds.
	Ratio float64 `json:"ratio"`

	// Probabilities is the table computed over the consistent scenarios only.
	Probabilities *Table `json:"probabilities"`
}

// TryPartial evaluates a hypothetical over a copy of the current candidate
// set. Every pair in matches must hold simultaneously; every pair in
// nonMatches is excluded independently. Neither the candidate set, the
// history nor the cached probabilities are touched.
func (e *Engine) TryPartial(matches, nonMatches []ir.Pair) (*Hypothesis, error) {
	if len(matches) == 0 && len(nonMatches) == 0 {
		return nil, NewInvalidQueryError()
	}

	joint, err := e.buildAssignment(matches)
	if err != nil {
		return nil, err
	}
	exclusions := make([]candidates.Assignment, 0, len(nonMatches))
	for _, p := range nonMatches {
		a, err := e.resolve(SideA, p.A)
		if err != nil {
			return nil, err
		}
		b, err := e.resolve(SideB, p.B)
		if err != nil {
			return nil, err
		}
		exclusions = append(exclusions, candidates.Single(a, b))
	}

	total := e.set.Len()
	subset := e.set.Clone()
	if joint.Len() > 0 {
		subset.RetainWhere(joint, joint.Len())
	}
	for _, x := range exclusions {
		subset.RetainWhere(x, 0)
	}

	table, err := e.compute(subset)
	if err != nil {
		return nil, err
	}
	return &Hypothesis{
		Count:         subset.Len(),
		Ratio:         float64(subset.Len()) / float64(total),
		Probabilities: table,
	}, nil
}
