// Package testutil provides fixtures shared by the package tests: participant
// name lists, seating plans and scratch database paths.
package testutil

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/roach88/matchup/internal/ir"
)

// Names returns prefix1, prefix2, ... prefixN.
func Names(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%d", prefix, i+1)
	}
	return out
}

// Group returns the side lists A1..An and B1..Bn.
func Group(n int) (a, b []string) {
	return Names("A", n), Names("B", n)
}

// Diagonal seats a[i] with b[i] for every i.
// Panics if the lists differ in length.
func Diagonal(a, b []string) []ir.Pair {
	if len(a) != len(b) {
		panic(fmt.Sprintf("Diagonal: %d and %d names", len(a), len(b)))
	}
	pairs := make([]ir.Pair, len(a))
	for i := range a {
		pairs[i] = ir.Pair{A: a[i], B: b[i]}
	}
	return pairs
}

// Shifted seats a[i] with b[(i+k) mod n]: the diagonal rotated by k places.
func Shifted(a, b []string, k int) []ir.Pair {
	pairs := Diagonal(a, b)
	n := len(b)
	for i := range pairs {
		pairs[i].B = b[((i+k)%n+n)%n]
	}
	return pairs
}

// TempDBPath returns a SQLite file path inside a directory removed when
// the test ends.
func TempDBPath(t testing.TB) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.db")
}
