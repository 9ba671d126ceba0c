// Package permute generates the full candidate space of pairings: every
// permutation of 0..N-1 as a dense, row-major table of uint8 cells.
package permute

import (
	"fmt"
	"math"
)

// MaxParticipants is the largest N whose factorial fits in an int64.
// Practical use stays far below it: 12! rows already need ~5.7 GB.
const MaxParticipants = 20

// Table holds N! permutation rows of N columns each.
// Row r occupies Cells[r*N : (r+1)*N].
type Table struct {
	N     int
	Rows  int
	Cells []uint8
}

// Row returns the r-th permutation. The slice aliases the table.
func (t *Table) Row(r int) []uint8 {
	return t.Cells[r*t.N : (r+1)*t.N]
}

// Factorial returns n! for 0 <= n <= MaxParticipants.
func Factorial(n int) (int, error) {
	if n < 0 || n > MaxParticipants {
		return 0, fmt.Errorf("factorial of %d out of range [0, %d]", n, MaxParticipants)
	}
	f := 1
	for i := 2; i <= n; i++ {
		f *= i
	}
	return f, nil
}

// Generate returns every permutation of 0..n-1.
//
// The table is built incrementally. Given the i! permutations of the first i
// values in block 0, value i is placed in the last column of block 0 and then,
// for each insertion column split = i-j (j = 1..i), block j is filled by
// copying block 0's prefix columns [0,split) and shifting its columns
// [split,i) right by one around the inserted value. No row is derived from
// scratch and the row order is identical for every call with the same n.
func Generate(n int) (*Table, error) {
	if n < 1 {
		return nil, fmt.Errorf("generate permutations: n must be >= 1, got %d", n)
	}
	total, err := Factorial(n)
	if err != nil {
		return nil, fmt.Errorf("generate permutations: %w", err)
	}
	if total > math.MaxInt/n {
		return nil, fmt.Errorf("generate permutations: %d! rows of %d cells overflow the table size", n, n)
	}

	cells := make([]uint8, total*n)
	rows := 1 // permutations of the first i values currently in block 0

	for i := 1; i < n; i++ {
		v := uint8(i)
		for r := 0; r < rows; r++ {
			cells[r*n+i] = v
		}
		for j := 1; j <= i; j++ {
			split := i - j
			for r := 0; r < rows; r++ {
				src := cells[r*n : r*n+n]
				dst := cells[(j*rows+r)*n : (j*rows+r)*n+n]
				copy(dst[:split], src[:split])
				dst[split] = v
				copy(dst[split+1:i+1], src[split:i])
			}
		}
		rows *= i + 1
	}

	return &Table{N: n, Rows: total, Cells: cells}, nil
}
