package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/matchup/internal/testutil"
)

// cliRun is the captured outcome of one CLI invocation.
type cliRun struct {
	Stdout string
	Stderr string
	Err    error
}

// runCLI executes the root command with args against an isolated command tree.
func runCLI(t *testing.T, args ...string) cliRun {
	t.Helper()
	cmd := NewRootCommand()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return cliRun{Stdout: stdout.String(), Stderr: stderr.String(), Err: err}
}

// testDB returns a fresh database path inside the test's temp dir.
func testDB(t *testing.T) string {
	t.Helper()
	return testutil.TempDBPath(t)
}

// newGroup creates a 3x3 group A1..A3 / B1..B3 named name.
func newGroup(t *testing.T, db, name string) {
	t.Helper()
	r := runCLI(t, "--db", db, "new", name, "-a", "A1,A2,A3", "-b", "B1,B2,B3")
	require.NoError(t, r.Err, r.Stderr)
}

// decodeResponse parses a JSON CLIResponse with an object payload.
func decodeResponse(t *testing.T, out string) (CLIResponse, map[string]any) {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	data, _ := resp.Data.(map[string]any)
	return resp, data
}
