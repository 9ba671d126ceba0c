package candidates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/matchup/internal/permute"
)

// newTestSet creates the full candidate set for n participants.
func newTestSet(t *testing.T, n int) *Set {
	t.Helper()
	tbl, err := permute.Generate(n)
	require.NoError(t, err)
	return New(tbl)
}

func diagonal(n int) Assignment {
	a := NewAssignment(n)
	for i := 0; i < n; i++ {
		a.Assign(i, i)
	}
	return a
}

func TestSet_New(t *testing.T) {
	s := newTestSet(t, 5)
	assert.Equal(t, 5, s.N())
	assert.Equal(t, 120, s.Len())
}

func TestSet_RetainWhere_ExactMatch(t *testing.T) {
	s := newTestSet(t, 5)

	remaining := s.RetainWhere(Single(0, 0), 1)
	assert.Equal(t, 24, remaining)
	assert.Equal(t, 24, s.Len())
	for i := 0; i < s.Len(); i++ {
		assert.Equal(t, uint8(0), s.Row(i)[0])
	}
}

func TestSet_RetainWhere_NonMatch(t *testing.T) {
	s := newTestSet(t, 5)

	remaining := s.RetainWhere(Single(0, 0), 0)
	assert.Equal(t, 96, remaining)
	for i := 0; i < s.Len(); i++ {
		assert.NotEqual(t, uint8(0), s.Row(i)[0])
	}
}

func TestSet_RetainWhere_CountMatch(t *testing.T) {
	tests := []struct {
		name     string
		expected int
		want     int
	}{
		// permutations of 5 with exactly k fixed points: C(5,k) * D(5-k)
		{"zero fixed points", 0, 44},
		{"one fixed point", 1, 45},
		{"two fixed points", 2, 20},
		{"three fixed points", 3, 10},
		{"four fixed points", 4, 0},
		{"five fixed points", 5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSet(t, 5)
			assert.Equal(t, tt.want, s.RetainWhere(diagonal(5), tt.expected))
		})
	}
}

func TestSet_RetainWhere_UnassignedPositionsIgnored(t *testing.T) {
	s := newTestSet(t, 4)
	a := NewAssignment(2)
	a.Assign(0, 1)
	a.Assign(2, 3)

	// Exactly one of two assigned positions agrees: 2 * (3! - 2!) = 8
	assert.Equal(t, 8, s.RetainWhere(a, 1))
}

func TestSet_RetainWhere_Monotone(t *testing.T) {
	s := newTestSet(t, 6)
	prev := s.Len()

	filters := []struct {
		a        Assignment
		expected int
	}{
		{Single(0, 3), 0},
		{diagonal(6), 2},
		{Single(1, 1), 1},
		{Single(2, 5), 0},
	}
	for _, f := range filters {
		got := s.RetainWhere(f.a, f.expected)
		assert.LessOrEqual(t, got, prev)
		prev = got
	}
}

func TestSet_RetainWhere_PreservesOrder(t *testing.T) {
	s := newTestSet(t, 4)
	before := make([]string, 0, s.Len())
	for i := 0; i < s.Len(); i++ {
		if s.Row(i)[1] != 2 {
			before = append(before, string(s.Row(i)))
		}
	}

	s.RetainWhere(Single(1, 2), 0)

	require.Equal(t, len(before), s.Len())
	for i := range before {
		assert.Equal(t, before[i], string(s.Row(i)))
	}
}

func TestSet_RetainWhere_ToEmpty(t *testing.T) {
	s := newTestSet(t, 3)
	s.RetainWhere(Single(0, 0), 1)
	assert.Equal(t, 0, s.RetainWhere(Single(0, 0), 0))
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.RetainWhere(Single(1, 1), 1))
}

func TestSet_Clone_Independent(t *testing.T) {
	s := newTestSet(t, 5)
	c := s.Clone()

	c.RetainWhere(Single(0, 0), 1)
	assert.Equal(t, 120, s.Len())
	assert.Equal(t, 24, c.Len())
}

func TestSet_Fingerprint(t *testing.T) {
	a := newTestSet(t, 5)
	b := newTestSet(t, 5)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	a.RetainWhere(Single(2, 3), 1)
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())

	b.RetainWhere(Single(2, 3), 1)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}

func TestAssignment_Agreement(t *testing.T) {
	a := NewAssignment(3)
	a.Assign(0, 2)
	a.Assign(1, 0)
	a.Assign(2, 1)

	assert.Equal(t, 3, a.Agreement([]uint8{2, 0, 1}))
	assert.Equal(t, 1, a.Agreement([]uint8{2, 1, 0}))
	assert.Equal(t, 0, a.Agreement([]uint8{0, 1, 2}))
	assert.Equal(t, 3, a.Len())
	assert.Equal(t, "{0:2 1:0 2:1}", a.String())
}

func BenchmarkRetainWhere(b *testing.B) {
	tbl, err := permute.Generate(10)
	if err != nil {
		b.Fatal(err)
	}
	base := New(tbl)
	diag := diagonal(10)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		s := base.Clone()
		b.StartTimer()
		s.RetainWhere(diag, 3)
	}
}
