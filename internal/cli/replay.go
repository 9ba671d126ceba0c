package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/matchup/internal/engine"
)

// ReplayGroupResult holds the replay result for a single group.
type ReplayGroupResult struct {
	Group         string   `json:"group"`
	Observations  int      `json:"observations"`
	Scenarios     int      `json:"scenarios"`
	RecordHash    string   `json:"record_hash"`
	Fingerprint   string   `json:"fingerprint"`
	Deterministic bool     `json:"deterministic"`
	Mismatches    []string `json:"mismatches,omitempty"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Groups           []ReplayGroupResult `json:"groups"`
	TotalGroups      int                 `json:"total_groups"`
	AllDeterministic bool                `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay [group]",
		Short: "Replay stored histories and verify determinism",
		Long: `Rebuild each group from its stored history twice and compare the results.

The surviving scenarios, the probability table and the serialized history
must be identical across both replays. Without a group argument every
group in the database is checked.

Exit codes:
  0 - All groups are deterministic
  1 - Determinism verification failed (differences detected)
  2 - Command error (database not found, group unknown, etc.)

Examples:
  matchup replay
  matchup replay season1 --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			group := ""
			if len(args) == 1 {
				group = args[0]
			}
			return runReplay(rootOpts, group, cmd)
		},
	}
	return cmd
}

func runReplay(opts *RootOptions, group string, cmd *cobra.Command) error {
	ctx := cmd.Context()

	s, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	// Get group names to process
	var names []string
	if group != "" {
		names = []string{group}
	} else {
		groups, err := s.store.ListGroups(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list groups", err)
		}
		for _, g := range groups {
			names = append(names, g.Name)
		}
	}

	if len(names) == 0 {
		if opts.Format == "json" {
			result := ReplayResult{
				Groups:           []ReplayGroupResult{},
				TotalGroups:      0,
				AllDeterministic: true,
			}
			return outputReplayJSON(cmd, result)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No groups found in database.")
		return nil
	}

	result := ReplayResult{
		Groups:           make([]ReplayGroupResult, 0, len(names)),
		TotalGroups:      len(names),
		AllDeterministic: true,
	}

	for _, name := range names {
		groupResult, err := replayAndVerifyGroup(ctx, s, name)
		if err != nil {
			return s.out.fail(fmt.Sprintf("failed to replay group %s", name), err)
		}

		result.Groups = append(result.Groups, groupResult)
		if !groupResult.Deterministic {
			result.AllDeterministic = false
		}
	}

	if opts.Format == "json" {
		return outputReplayJSON(cmd, result)
	}

	return outputReplayText(cmd, result, opts.Verbose)
}

// replayAndVerifyGroup loads a group's record and replays it twice.
func replayAndVerifyGroup(ctx context.Context, s *session, name string) (ReplayGroupResult, error) {
	rec, err := s.store.ReadRecord(ctx, name)
	if err != nil {
		return ReplayGroupResult{}, err
	}

	v, err := engine.Verify(rec, engine.WithObserver(s.replayObserver))
	if err != nil {
		return ReplayGroupResult{}, err
	}
	s.logger.Debug("group replayed", "group", name, "deterministic", v.Deterministic)

	return ReplayGroupResult{
		Group:         name,
		Observations:  v.Observations,
		Scenarios:     v.Scenarios,
		RecordHash:    v.RecordHash,
		Fingerprint:   v.Fingerprint,
		Deterministic: v.Deterministic,
		Mismatches:    v.Mismatches,
	}, nil
}

// outputReplayJSON outputs the replay result as JSON.
func outputReplayJSON(cmd *cobra.Command, result ReplayResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}

	if !result.AllDeterministic {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    "NON_DETERMINISTIC",
			Message: "determinism verification failed",
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if !result.AllDeterministic {
		// Determinism failure = exit code 1
		return NewExitError(ExitFailure, "determinism verification failed")
	}
	return nil
}

// outputReplayText outputs the replay result as text.
func outputReplayText(cmd *cobra.Command, result ReplayResult, verbose bool) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Replay Summary: %d group(s)\n", result.TotalGroups)
	fmt.Fprintln(w)

	for _, g := range result.Groups {
		status := "✓"
		if !g.Deterministic {
			status = "✗"
		}

		fmt.Fprintf(w, "%s Group: %s\n", status, g.Group)
		fmt.Fprintf(w, "  Observations: %d, scenarios remaining: %d\n", g.Observations, g.Scenarios)
		if verbose {
			fmt.Fprintf(w, "  Record hash: %s\n", g.RecordHash)
			fmt.Fprintf(w, "  Fingerprint: %s\n", g.Fingerprint)
		}
		for _, m := range g.Mismatches {
			fmt.Fprintf(w, "  %s\n", m)
		}
	}

	fmt.Fprintln(w)
	if !result.AllDeterministic {
		fmt.Fprintln(w, "✗ Determinism verification failed")
		return NewExitError(ExitFailure, "determinism verification failed")
	}

	fmt.Fprintln(w, "✓ All groups replay deterministically")
	return nil
}
