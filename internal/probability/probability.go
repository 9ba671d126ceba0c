// Package probability computes marginal pair probabilities over a set of
// candidate scenarios.
package probability

import (
	"errors"

	"github.com/roach88/matchup/internal/candidates"
)

// ErrNoCandidates is returned when probabilities are requested over an empty
// candidate set. It means the applied observations contradict each other (or
// a hypothetical is infeasible); it is never silently turned into zeros.
var ErrNoCandidates = errors.New("no candidate scenarios remain")

// Matrix is a dense N×N table of probabilities indexed by
// (participant-A id, participant-B id).
type Matrix struct {
	n     int
	cells []float64
}

// N returns the number of participants per side.
func (m *Matrix) N() int { return m.n }

// At returns the probability that A id a is paired with B id b.
func (m *Matrix) At(a, b int) float64 {
	return m.cells[a*m.n+b]
}

// Row returns the distribution over B ids for A id a.
// The slice aliases the matrix and must not be modified.
func (m *Matrix) Row(a int) []float64 {
	return m.cells[a*m.n : (a+1)*m.n]
}

// Rows returns a copy of the matrix as nested slices.
func (m *Matrix) Rows() [][]float64 {
	out := make([][]float64, m.n)
	for a := range out {
		out[a] = append([]float64(nil), m.Row(a)...)
	}
	return out
}

// Compute tallies, for every A id, how many candidates place each B id at
// that position, and divides by the number of candidates.
func Compute(set *candidates.Set) (*Matrix, error) {
	total := set.Len()
	if total == 0 {
		return nil, ErrNoCandidates
	}

	n := set.N()
	counts := make([]int, n*n)
	for i := 0; i < total; i++ {
		for a, b := range set.Row(i) {
			counts[a*n+int(b)]++
		}
	}

	cells := make([]float64, n*n)
	denom := float64(total)
	for i, c := range counts {
		cells[i] = float64(c) / denom
	}
	return &Matrix{n: n, cells: cells}, nil
}
