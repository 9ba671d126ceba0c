package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/matchup/internal/ir"
)

// seedEngine applies a fixed mix of exact and count observations.
func seedEngine(t *testing.T) *Engine {
	t.Helper()
	e := newTestEngine(t)
	_, err := e.ApplyExactMatch("A1", "B2", false, DeferRecompute())
	require.NoError(t, err)
	_, err = e.ApplyCountMatch(diagonalPairs(), 1, DeferRecompute())
	require.NoError(t, err)
	_, err = e.ApplyExactMatch("A3", "B3", true)
	require.NoError(t, err)
	return e
}

func TestSerialize(t *testing.T) {
	e := seedEngine(t)
	rec := e.Serialize()

	assert.Equal(t, ir.FormatVersion, rec.FormatVersion)
	assert.Equal(t, testA, rec.ParticipantsA)
	assert.Equal(t, testB, rec.ParticipantsB)
	require.Len(t, rec.History, 3)
	for i, obs := range rec.History {
		assert.Equal(t, int64(i+1), obs.Seq)
	}
	assert.Equal(t, ir.KindCountMatch, rec.History[1].Kind)
	assert.Equal(t, diagonalPairs(), rec.History[1].Pairs)
	assert.Equal(t, 1, rec.History[1].ExpectedCount)

	// The returned record is a copy.
	rec.History[0].NameA = "changed"
	assert.Equal(t, "A1", e.History()[0].NameA)
}

func TestLoad_RoundTrip(t *testing.T) {
	original := seedEngine(t)
	want, err := original.Probabilities()
	require.NoError(t, err)

	loaded, err := Load(original.Serialize())
	require.NoError(t, err)

	assert.Equal(t, original.NumScenarios(), loaded.NumScenarios())
	assert.Equal(t, original.Fingerprint(), loaded.Fingerprint())
	assert.Equal(t, original.History(), loaded.History())

	got, ok := loaded.CachedProbabilities()
	require.True(t, ok, "load recomputes once at the end")
	assert.True(t, EqualTables(want, got))
}

func TestLoad_EmptyHistory(t *testing.T) {
	e, err := Load(ir.Record{ParticipantsA: testA, ParticipantsB: testB})
	require.NoError(t, err)
	assert.Equal(t, 120, e.NumScenarios())
	assert.Empty(t, e.History())
	assert.Equal(t, ir.FormatVersion, e.Serialize().FormatVersion, "an omitted version is read as version 1")
}

func TestLoad_Contradiction(t *testing.T) {
	rec := ir.Record{
		FormatVersion: ir.FormatVersion,
		ParticipantsA: testA,
		ParticipantsB: testB,
		History: []ir.Observation{
			ir.ExactMatch("A1", "B1", true),
			ir.ExactMatch("A1", "B1", false),
		},
	}

	e, err := Load(rec)
	require.NoError(t, err)
	assert.Equal(t, 0, e.NumScenarios())
	assert.Len(t, e.History(), 2)

	_, ok := e.CachedProbabilities()
	assert.False(t, ok)
	assert.True(t, IsImpossibleScenario(e.CalculateProbabilities()))
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name  string
		rec   ir.Record
		check func(error) bool
	}{
		{
			name:  "future format version",
			rec:   ir.Record{FormatVersion: ir.FormatVersion + 1, ParticipantsA: testA, ParticipantsB: testB},
			check: IsInvalidObservation,
		},
		{
			name:  "unequal participants",
			rec:   ir.Record{ParticipantsA: testA, ParticipantsB: testB[:4]},
			check: IsInvalidParticipants,
		},
		{
			name: "unknown participant in history",
			rec: ir.Record{ParticipantsA: testA, ParticipantsB: testB, History: []ir.Observation{
				ir.ExactMatch("A1", "B9", true),
			}},
			check: IsUnknownParticipant,
		},
		{
			name: "unknown kind",
			rec: ir.Record{ParticipantsA: testA, ParticipantsB: testB, History: []ir.Observation{
				{Kind: "truth-booth"},
			}},
			check: IsInvalidObservation,
		},
		{
			name: "seq out of order",
			rec: ir.Record{ParticipantsA: testA, ParticipantsB: testB, History: []ir.Observation{
				{Seq: 2, Kind: ir.KindExactMatch, NameA: "A1", NameB: "B1"},
			}},
			check: IsInvalidObservation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := Load(tt.rec)
			assert.Nil(t, e)
			assert.True(t, tt.check(err), "got %v", err)
		})
	}
}

func TestVerify(t *testing.T) {
	rec := seedEngine(t).Serialize()

	v, err := Verify(rec)
	require.NoError(t, err)
	assert.True(t, v.Deterministic)
	assert.Empty(t, v.Mismatches)
	assert.Equal(t, 3, v.Observations)

	loaded, err := Load(rec)
	require.NoError(t, err)
	assert.Equal(t, loaded.NumScenarios(), v.Scenarios)
	assert.Equal(t, loaded.Fingerprint(), v.Fingerprint)

	hash, err := ir.RecordHash(rec)
	require.NoError(t, err)
	assert.Equal(t, hash, v.RecordHash)
}

func TestVerify_InvalidRecord(t *testing.T) {
	_, err := Verify(ir.Record{ParticipantsA: testA})
	require.Error(t, err)
	assert.True(t, IsInvalidParticipants(err))
}

func TestEqualTables(t *testing.T) {
	a := newTestEngine(t)
	b := newTestEngine(t)
	ta, err := a.Probabilities()
	require.NoError(t, err)
	tb, err := b.Probabilities()
	require.NoError(t, err)

	assert.True(t, EqualTables(ta, tb))
	assert.True(t, EqualTables(nil, nil))
	assert.False(t, EqualTables(ta, nil))

	_, err = b.ApplyExactMatch("A1", "B1", true)
	require.NoError(t, err)
	tb, err = b.Probabilities()
	require.NoError(t, err)
	assert.False(t, EqualTables(ta, tb))
}
