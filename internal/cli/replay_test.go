package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplayEmptyDatabase(t *testing.T) {
	r := runCLI(t, "--db", testDB(t), "replay")
	require.NoError(t, r.Err)
	assert.Contains(t, r.Stdout, "No groups found")
}

func TestReplayEmptyDatabaseJSON(t *testing.T) {
	r := runCLI(t, "--db", testDB(t), "--format", "json", "replay")
	require.NoError(t, r.Err)

	resp, data := decodeResponse(t, r.Stdout)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, true, data["all_deterministic"])
	assert.Equal(t, float64(0), data["total_groups"])
}

func TestReplayAllGroups(t *testing.T) {
	db := testDB(t)
	newGroup(t, db, "alpha")
	newGroup(t, db, "beta")
	require.NoError(t, runCLI(t, "--db", db, "booth", "alpha", "A1", "B1", "--match").Err)
	require.NoError(t, runCLI(t, "--db", db, "ceremony", "beta", "A1=B2", "A2=B1", "--count", "1").Err)

	r := runCLI(t, "--db", db, "replay", "-v")
	require.NoError(t, r.Err)
	assert.Contains(t, r.Stdout, "Replay Summary: 2 group(s)")
	assert.Contains(t, r.Stdout, "✓ Group: alpha")
	assert.Contains(t, r.Stdout, "✓ Group: beta")
	assert.Contains(t, r.Stdout, "Record hash:")
	assert.Contains(t, r.Stdout, "✓ All groups replay deterministically")
}

func TestReplaySingleGroupJSON(t *testing.T) {
	db := testDB(t)
	newGroup(t, db, "alpha")
	require.NoError(t, runCLI(t, "--db", db, "booth", "alpha", "A1", "B1", "--match").Err)

	r := runCLI(t, "--db", db, "--format", "json", "replay", "alpha")
	require.NoError(t, r.Err)

	_, data := decodeResponse(t, r.Stdout)
	assert.Equal(t, true, data["all_deterministic"])
	groups := data["groups"].([]any)
	require.Len(t, groups, 1)
	g := groups[0].(map[string]any)
	assert.Equal(t, "alpha", g["group"])
	assert.Equal(t, float64(1), g["observations"])
	assert.Equal(t, float64(2), g["scenarios"])
	assert.NotEmpty(t, g["fingerprint"])
}

func TestReplayUnknownGroup(t *testing.T) {
	r := runCLI(t, "--db", testDB(t), "--format", "json", "replay", "nope")
	require.Error(t, r.Err)
	assert.Equal(t, ExitCommandError, GetExitCode(r.Err))

	resp, _ := decodeResponse(t, r.Stdout)
	assert.Equal(t, CodeGroupNotFound, resp.Error.Code)
}
