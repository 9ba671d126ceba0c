package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/matchup/internal/ir"
)

func TestParsePair(t *testing.T) {
	tests := []struct {
		in      string
		want    ir.Pair
		wantErr bool
	}{
		{in: "A1=B1", want: ir.Pair{A: "A1", B: "B1"}},
		{in: " Ann = Dan ", want: ir.Pair{A: "Ann", B: "Dan"}},
		{in: "A=B=C", want: ir.Pair{A: "A", B: "B=C"}},
		{in: "A1", wantErr: true},
		{in: "=B1", wantErr: true},
		{in: "A1=", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parsePair(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, errInvalidArgs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePairs(t *testing.T) {
	pairs, err := parsePairs([]string{"A1=B2", "A2=B1"})
	require.NoError(t, err)
	assert.Equal(t, []ir.Pair{{A: "A1", B: "B2"}, {A: "A2", B: "B1"}}, pairs)

	pairs, err = parsePairs(nil)
	require.NoError(t, err)
	assert.Empty(t, pairs)

	_, err = parsePairs([]string{"A1=B2", "bad"})
	require.Error(t, err)
}

func TestTrimNames(t *testing.T) {
	assert.Equal(t, []string{"Ann", "Bea", ""}, trimNames([]string{" Ann", "Bea ", "  "}))
}

func TestCheckGroupSize(t *testing.T) {
	opts := &RootOptions{MaxParticipants: 2}
	assert.NoError(t, checkGroupSize(opts, []string{"A1", "A2"}, []string{"B1", "B2"}))

	err := checkGroupSize(opts, []string{"A1", "A2"}, []string{"B1", "B2", "B3"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errInvalidArgs)
	assert.Contains(t, err.Error(), "exceeds --max-participants 2")
}

func TestMetricsOut(t *testing.T) {
	db := testDB(t)
	newGroup(t, db, "season1")
	metricsPath := filepath.Join(t.TempDir(), "matchup.prom")

	r := runCLI(t, "--db", db, "--metrics-out", metricsPath, "booth", "season1", "A1", "B1", "--match")
	require.NoError(t, r.Err)

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `matchup_observations_total{kind="exact-match"} 1`)
	assert.Contains(t, text, "matchup_scenarios_remaining 2")
	assert.Contains(t, text, "matchup_generation_duration_seconds")
}

func TestMetricsOut_StoredHistoryNotCounted(t *testing.T) {
	db := testDB(t)
	newGroup(t, db, "season1")
	require.NoError(t, runCLI(t, "--db", db, "booth", "season1", "A1", "B1", "--match").Err)
	require.NoError(t, runCLI(t, "--db", db, "ceremony", "season1", "A2=B2", "A3=B3", "--count", "2").Err)
	metricsPath := filepath.Join(t.TempDir(), "matchup.prom")

	// A1=B1 leaves {B1 B2 B3} and {B1 B3 B2}; the ceremony keeps the first.
	r := runCLI(t, "--db", db, "--metrics-out", metricsPath, "booth", "season1", "A2", "B2", "--match")
	require.NoError(t, r.Err)

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `matchup_observations_total{kind="exact-match"} 1`)
	assert.NotContains(t, text, `kind="count-match"`)
	assert.Contains(t, text, "matchup_filter_duration_seconds_count 1")
	assert.Contains(t, text, "matchup_scenarios_remaining 1")

	r = runCLI(t, "--db", db, "--metrics-out", metricsPath, "probs", "season1")
	require.NoError(t, r.Err)
	data, err = os.ReadFile(metricsPath)
	require.NoError(t, err)
	text = string(data)
	assert.NotContains(t, text, "matchup_observations_total{")
	assert.Contains(t, text, "matchup_scenarios_remaining 1")
}

func TestVerboseLogging(t *testing.T) {
	db := testDB(t)
	newGroup(t, db, "season1")

	r := runCLI(t, "--db", db, "-v", "booth", "season1", "A1", "B1")
	require.NoError(t, r.Err)
	assert.Contains(t, r.Stderr, "applied observation")
	assert.Contains(t, r.Stderr, "observation recorded")

	r = runCLI(t, "--db", db, "booth", "season1", "A2", "B2")
	require.NoError(t, r.Err)
	assert.NotContains(t, r.Stderr, "applied observation")
	assert.Contains(t, r.Stderr, "observation recorded")
}
