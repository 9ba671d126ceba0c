// Package candidates holds the set of scenarios that are still consistent
// with every observation applied so far.
//
// A Set only ever shrinks: RetainWhere compacts the surviving rows in place,
// preserving their relative order, so replaying the same observations over
// the same generated table reproduces byte-identical state.
package candidates

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/roach88/matchup/internal/permute"
)

// Set is a dense row-major table of surviving scenarios.
// Row i maps participant-A id j to participant-B id Row(i)[j].
type Set struct {
	n     int
	cells []uint8
}

// New wraps a generated permutation table. The set takes ownership of the
// table's cells.
func New(t *permute.Table) *Set {
	return &Set{n: t.N, cells: t.Cells}
}

// N returns the number of participants per side.
func (s *Set) N() int { return s.n }

// Len returns the number of surviving scenarios.
func (s *Set) Len() int {
	if s.n == 0 {
		return 0
	}
	return len(s.cells) / s.n
}

// Row returns the i-th surviving scenario. The slice aliases the set and
// must not be modified.
func (s *Set) Row(i int) []uint8 {
	return s.cells[i*s.n : (i+1)*s.n]
}

// Clone returns an independent copy of the set.
func (s *Set) Clone() *Set {
	cells := make([]uint8, len(s.cells))
	copy(cells, s.cells)
	return &Set{n: s.n, cells: cells}
}

// RetainWhere keeps exactly the scenarios that agree with the assignment in
// expected positions, and returns the number of survivors.
//
// Only assigned positions are compared. Filtering cannot fail part way: the
// whole table is scanned once and compacted in place.
func (s *Set) RetainWhere(a Assignment, expected int) int {
	n := s.n
	rows := s.Len()
	w := 0
	for r := 0; r < rows; r++ {
		row := s.cells[r*n : r*n+n]
		if a.Agreement(row) != expected {
			continue
		}
		if w != r {
			copy(s.cells[w*n:w*n+n], row)
		}
		w++
	}

	s.cells = s.cells[:w*n]
	// Release the backing array once most of it is dead.
	if cap(s.cells) > 4*len(s.cells) {
		s.cells = append([]uint8(nil), s.cells...)
	}
	return w
}

// Fingerprint returns a SHA-256 digest over the surviving rows in order.
// Two sets built from the same generated table and the same sequence of
// filters have equal fingerprints.
func (s *Set) Fingerprint() string {
	h := sha256.New()
	fmt.Fprintf(h, "matchup/candidates/v1\x00%d\x00", s.n)
	h.Write(s.cells)
	return hex.EncodeToString(h.Sum(nil))
}
