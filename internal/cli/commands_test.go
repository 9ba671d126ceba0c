package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCommand(t *testing.T) {
	db := testDB(t)

	r := runCLI(t, "--db", db, "new", "season1", "-a", "A1,A2,A3", "-b", "B1,B2,B3")
	require.NoError(t, r.Err)
	assert.Contains(t, r.Stdout, "Created group season1 with 3 participants per side.")
	assert.Contains(t, r.Stdout, "6 scenarios possible.")
}

func TestNewCommandJSON(t *testing.T) {
	db := testDB(t)

	r := runCLI(t, "--db", db, "--format", "json", "new", "season1",
		"--side-a", "A1", "--side-a", "A2", "--side-b", "B1", "--side-b", "B2")
	require.NoError(t, r.Err)

	resp, data := decodeResponse(t, r.Stdout)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, float64(2), data["scenarios"])
	group := data["group"].(map[string]any)
	assert.Equal(t, "season1", group["name"])
	assert.Equal(t, []any{"A1", "A2"}, group["participants_a"])
}

func TestNewCommandErrors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode string
	}{
		{"unequal sizes", []string{"new", "g", "-a", "A1,A2", "-b", "B1"}, "INVALID_PARTICIPANTS"},
		{"duplicate name", []string{"new", "g", "-a", "A1,A1", "-b", "B1,B2"}, "INVALID_PARTICIPANTS"},
		{"too many", []string{"--max-participants", "2", "new", "g", "-a", "A1,A2,A3", "-b", "B1,B2,B3"}, CodeInvalidArgs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--db", testDB(t), "--format", "json"}, tt.args...)
			r := runCLI(t, args...)
			require.Error(t, r.Err)
			assert.Equal(t, ExitCommandError, GetExitCode(r.Err))

			resp, _ := decodeResponse(t, r.Stdout)
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestNewCommandDuplicateGroup(t *testing.T) {
	db := testDB(t)
	newGroup(t, db, "season1")

	r := runCLI(t, "--db", db, "--format", "json", "new", "season1", "-a", "A1", "-b", "B1")
	require.Error(t, r.Err)
	resp, _ := decodeResponse(t, r.Stdout)
	assert.Equal(t, CodeGroupExists, resp.Error.Code)
}

func TestNewCommandMissingFlags(t *testing.T) {
	r := runCLI(t, "--db", testDB(t), "new", "season1", "-a", "A1")
	require.Error(t, r.Err)
	assert.Contains(t, r.Err.Error(), "required flag")
}

func TestBoothCommand(t *testing.T) {
	db := testDB(t)
	newGroup(t, db, "season1")

	r := runCLI(t, "--db", db, "booth", "season1", "A1", "B1", "--match")
	require.NoError(t, r.Err)
	assert.Contains(t, r.Stdout, "#1 A1 and B1 are a match.")
	assert.Contains(t, r.Stdout, "2 scenarios remain.")

	r = runCLI(t, "--db", db, "booth", "season1", "A2", "B3")
	require.NoError(t, r.Err)
	assert.Contains(t, r.Stdout, "#2 A2 and B3 are not a match.")
	assert.Contains(t, r.Stdout, "1 scenarios remain.")
}

func TestBoothCommandJSON(t *testing.T) {
	db := testDB(t)
	newGroup(t, db, "season1")

	r := runCLI(t, "--db", db, "--format", "json", "booth", "season1", "A1", "B2")
	require.NoError(t, r.Err)

	_, data := decodeResponse(t, r.Stdout)
	assert.Equal(t, "season1", data["group"])
	assert.Equal(t, float64(4), data["scenarios"])
	obs := data["observation"].(map[string]any)
	assert.Equal(t, "exact-match", obs["kind"])
	assert.Equal(t, float64(1), obs["seq"])
}

func TestBoothCommandUnknownParticipant(t *testing.T) {
	db := testDB(t)
	newGroup(t, db, "season1")

	r := runCLI(t, "--db", db, "--format", "json", "booth", "season1", "A1", "B9")
	require.Error(t, r.Err)
	assert.Equal(t, ExitCommandError, GetExitCode(r.Err))

	resp, _ := decodeResponse(t, r.Stdout)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UNKNOWN_PARTICIPANT", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "B1 B2 B3")

	// Nothing was stored.
	r = runCLI(t, "--db", db, "history", "season1")
	require.NoError(t, r.Err)
	assert.Contains(t, r.Stdout, "season1 has no observations.")
}

func TestBoothCommandUnknownGroup(t *testing.T) {
	r := runCLI(t, "--db", testDB(t), "--format", "json", "booth", "nope", "A1", "B1")
	require.Error(t, r.Err)
	assert.Equal(t, ExitCommandError, GetExitCode(r.Err))

	resp, _ := decodeResponse(t, r.Stdout)
	assert.Equal(t, CodeGroupNotFound, resp.Error.Code)
}

func TestBoothCommandContradiction(t *testing.T) {
	db := testDB(t)
	newGroup(t, db, "season1")

	r := runCLI(t, "--db", db, "booth", "season1", "A1", "B1", "--match")
	require.NoError(t, r.Err)

	r = runCLI(t, "--db", db, "booth", "season1", "A1", "B1")
	require.Error(t, r.Err)
	assert.Equal(t, ExitFailure, GetExitCode(r.Err))
	assert.Contains(t, r.Err.Error(), "contradictory")

	// The rejected observation was not appended.
	r = runCLI(t, "--db", db, "--format", "json", "history", "season1")
	require.NoError(t, r.Err)
	_, data := decodeResponse(t, r.Stdout)
	assert.Len(t, data["observations"], 1)
}

func TestCeremonyCommand(t *testing.T) {
	db := testDB(t)
	newGroup(t, db, "season1")

	r := runCLI(t, "--db", db, "ceremony", "season1", "A1=B1", "A2=B2", "A3=B3", "--count", "0")
	require.NoError(t, r.Err)
	assert.Contains(t, r.Stdout, "#1 0 of 3 pairs correct.")
	// Derangements of three.
	assert.Contains(t, r.Stdout, "2 scenarios remain.")
}

func TestCeremonyCommandErrors(t *testing.T) {
	db := testDB(t)
	newGroup(t, db, "season1")

	tests := []struct {
		name     string
		args     []string
		wantCode string
	}{
		{"malformed pair", []string{"A1-B1", "--count", "0"}, CodeInvalidArgs},
		{"empty side", []string{"A1=", "--count", "0"}, CodeInvalidArgs},
		{"seated twice", []string{"A1=B1", "A1=B2", "--count", "1"}, "INVALID_OBSERVATION"},
		{"count too high", []string{"A1=B1", "--count", "2"}, "INVALID_OBSERVATION"},
		{"negative count", []string{"A1=B1", "--count", "-1"}, "INVALID_OBSERVATION"},
		{"unknown name", []string{"A1=B1", "A4=B2", "--count", "1"}, "UNKNOWN_PARTICIPANT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--db", db, "--format", "json", "ceremony", "season1"}, tt.args...)
			r := runCLI(t, args...)
			require.Error(t, r.Err)
			assert.Equal(t, ExitCommandError, GetExitCode(r.Err))

			resp, _ := decodeResponse(t, r.Stdout)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestProbsCommand(t *testing.T) {
	db := testDB(t)
	newGroup(t, db, "season1")
	require.NoError(t, runCLI(t, "--db", db, "booth", "season1", "A1", "B1", "--match").Err)

	r := runCLI(t, "--db", db, "probs", "season1")
	require.NoError(t, r.Err)
	assert.Contains(t, r.Stdout, "season1: 2 scenarios remain.")
	assert.Contains(t, r.Stdout, "1.0000")
	assert.Contains(t, r.Stdout, "0.5000")
}

func TestProbsCommandJSON(t *testing.T) {
	db := testDB(t)
	newGroup(t, db, "season1")

	r := runCLI(t, "--db", db, "--format", "json", "probs", "season1")
	require.NoError(t, r.Err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Scenarios     int `json:"scenarios"`
			Probabilities struct {
				ParticipantsA []string    `json:"participants_a"`
				ParticipantsB []string    `json:"participants_b"`
				Probabilities [][]float64 `json:"probabilities"`
			} `json:"probabilities"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(r.Stdout), &resp))
	assert.Equal(t, 6, resp.Data.Scenarios)
	assert.Equal(t, []string{"A1", "A2", "A3"}, resp.Data.Probabilities.ParticipantsA)
	for _, row := range resp.Data.Probabilities.Probabilities {
		for _, p := range row {
			assert.InDelta(t, 1.0/3, p, 1e-9)
		}
	}
}

func TestProbsCommandRow(t *testing.T) {
	db := testDB(t)
	newGroup(t, db, "season1")
	require.NoError(t, runCLI(t, "--db", db, "booth", "season1", "A1", "B3").Err)

	r := runCLI(t, "--db", db, "--format", "json", "probs", "season1", "--row", "A1")
	require.NoError(t, r.Err)
	_, data := decodeResponse(t, r.Stdout)
	row := data["row"].(map[string]any)
	probs := row["probabilities"].(map[string]any)
	assert.InDelta(t, 0.5, probs["B1"], 1e-9)
	assert.InDelta(t, 0.5, probs["B2"], 1e-9)
	assert.InDelta(t, 0.0, probs["B3"], 1e-9)

	r = runCLI(t, "--db", db, "probs", "season1", "--row", "A9")
	require.Error(t, r.Err)
	assert.Equal(t, ExitCommandError, GetExitCode(r.Err))
}

func TestTryCommand(t *testing.T) {
	db := testDB(t)
	newGroup(t, db, "season1")

	r := runCLI(t, "--db", db, "try", "season1", "--match", "A1=B1", "--table")
	require.NoError(t, r.Err)
	assert.Contains(t, r.Stdout, "If A1 = B1:")
	assert.Contains(t, r.Stdout, "2 of 6 scenarios (0.3333)")
	assert.Contains(t, r.Stdout, "0.5000")

	// Nothing was recorded.
	r = runCLI(t, "--db", db, "--format", "json", "probs", "season1")
	require.NoError(t, r.Err)
	_, data := decodeResponse(t, r.Stdout)
	assert.Equal(t, float64(6), data["scenarios"])
}

func TestTryCommandJSON(t *testing.T) {
	db := testDB(t)
	newGroup(t, db, "season1")

	r := runCLI(t, "--db", db, "--format", "json", "try", "season1", "--match", "A1=B1", "--not", "A2=B2")
	require.NoError(t, r.Err)
	_, data := decodeResponse(t, r.Stdout)
	h := data["hypothesis"].(map[string]any)
	assert.Equal(t, float64(1), h["count"])
	assert.InDelta(t, 1.0/6, h["ratio"], 1e-9)
}

func TestTryCommandInvalidQuery(t *testing.T) {
	db := testDB(t)
	newGroup(t, db, "season1")

	r := runCLI(t, "--db", db, "--format", "json", "try", "season1")
	require.Error(t, r.Err)
	resp, _ := decodeResponse(t, r.Stdout)
	assert.Equal(t, "INVALID_QUERY", resp.Error.Code)
}

func TestHistoryCommand(t *testing.T) {
	db := testDB(t)
	newGroup(t, db, "season1")
	require.NoError(t, runCLI(t, "--db", db, "booth", "season1", "A1", "B1", "--match").Err)
	require.NoError(t, runCLI(t, "--db", db, "ceremony", "season1", "A2=B3", "A3=B2", "--count", "2").Err)

	r := runCLI(t, "--db", db, "history", "season1")
	require.NoError(t, r.Err)
	assert.Contains(t, r.Stdout, "#1 exact-match A1=B1: match")
	assert.Contains(t, r.Stdout, "#2 count-match A2=B3 A3=B2: 2 correct")
}

func TestHistoryCommand_KeepsSpelling(t *testing.T) {
	db := testDB(t)
	require.NoError(t, runCLI(t, "--db", db, "new", "accents", "-a", "Jose\u0301,Ana", "-b", "B1,B2").Err)
	require.NoError(t, runCLI(t, "--db", db, "booth", "accents", "Jose\u0301", "B1", "--match").Err)

	r := runCLI(t, "--db", db, "--format", "json", "history", "accents")
	require.NoError(t, r.Err)
	var resp struct {
		Data HistoryResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(r.Stdout), &resp), r.Stdout)
	require.Len(t, resp.Data.Observations, 1)
	assert.Equal(t, "Jose\u0301", resp.Data.Observations[0].NameA)

	r = runCLI(t, "--db", db, "--format", "json", "export", "accents")
	require.NoError(t, r.Err)
	assert.Contains(t, r.Stdout, "Jose\u0301")
	assert.NotContains(t, r.Stdout, "Jos\u00e9")
}

func TestGroupsCommand(t *testing.T) {
	db := testDB(t)

	r := runCLI(t, "--db", db, "groups")
	require.NoError(t, r.Err)
	assert.Contains(t, r.Stdout, "No groups found")

	newGroup(t, db, "beta")
	newGroup(t, db, "alpha")

	r = runCLI(t, "--db", db, "groups", "list")
	require.NoError(t, r.Err)
	assert.Contains(t, r.Stdout, "GROUP")
	assert.Less(t, strings.Index(r.Stdout, "alpha"), strings.Index(r.Stdout, "beta"))

	r = runCLI(t, "--db", db, "--format", "json", "groups")
	require.NoError(t, r.Err)
	_, data := decodeResponse(t, r.Stdout)
	assert.Len(t, data["groups"], 2)
}

func TestGroupsDeleteCommand(t *testing.T) {
	db := testDB(t)
	newGroup(t, db, "season1")

	r := runCLI(t, "--db", db, "groups", "delete", "season1")
	require.NoError(t, r.Err)
	assert.Contains(t, r.Stdout, "Deleted season1")

	r = runCLI(t, "--db", db, "--format", "json", "groups", "delete", "season1")
	require.Error(t, r.Err)
	resp, _ := decodeResponse(t, r.Stdout)
	assert.Equal(t, CodeGroupNotFound, resp.Error.Code)
}
