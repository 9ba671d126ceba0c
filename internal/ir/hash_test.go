package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord() Record {
	booth := ExactMatch("A1", "B1", true)
	booth.Seq = 1
	ceremony := CountMatch([]Pair{{A: "A1", B: "B1"}, {A: "A2", B: "B2"}}, 1)
	ceremony.Seq = 2
	return Record{
		FormatVersion: FormatVersion,
		ParticipantsA: []string{"A1", "A2"},
		ParticipantsB: []string{"B1", "B2"},
		History:       []Observation{booth, ceremony},
	}
}

func TestObservationIDDeterminism(t *testing.T) {
	obs := ExactMatch("A1", "B1", false)
	obs.Seq = 3

	id1, err := ObservationID("group-1", obs)
	require.NoError(t, err)
	id2, err := ObservationID("group-1", obs)
	require.NoError(t, err)

	assert.Equal(t, id1, id2, "ObservationID must be deterministic")
	assert.Len(t, id1, 64, "SHA-256 hex is 64 characters")
}

func TestObservationIDChangesWithInput(t *testing.T) {
	obs := ExactMatch("A1", "B1", false)
	obs.Seq = 1

	base := MustObservationID("group-1", obs)

	other := obs
	other.Seq = 2
	flipped := obs
	flipped.IsMatch = true

	assert.NotEqual(t, base, MustObservationID("group-2", obs), "different groups")
	assert.NotEqual(t, base, MustObservationID("group-1", other), "different seq")
	assert.NotEqual(t, base, MustObservationID("group-1", flipped), "different outcome")
}

func TestRecordHash(t *testing.T) {
	rec := testRecord()

	h1, err := RecordHash(rec)
	require.NoError(t, err)
	h2, err := RecordHash(rec.Clone())
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	changed := rec.Clone()
	changed.History[1].ExpectedCount = 2
	h3, err := RecordHash(changed)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}

func TestRecordCloneIsDeep(t *testing.T) {
	rec := testRecord()
	c := rec.Clone()
	c.ParticipantsA[0] = "X"
	c.History[1].Pairs[0].A = "X"

	assert.Equal(t, "A1", rec.ParticipantsA[0])
	assert.Equal(t, "A1", rec.History[1].Pairs[0].A)
}

func TestNameKey(t *testing.T) {
	assert.Equal(t, NameKey("Jos\u00e9"), NameKey("Jose\u0301"))
	assert.Equal(t, "Ana", NameKey("  Ana "))
	assert.NotEqual(t, NameKey("ana"), NameKey("Ana"))
}

func TestKindValid(t *testing.T) {
	assert.True(t, KindExactMatch.Valid())
	assert.True(t, KindCountMatch.Valid())
	assert.False(t, Kind("truth_booth").Valid())
}
