package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/matchup/internal/engine"
)

// BoothOptions holds flags for the booth command.
type BoothOptions struct {
	*RootOptions
	Match bool
}

// NewBoothCommand creates the booth command.
func NewBoothCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BoothOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "booth <group> <name-a> <name-b>",
		Short: "Record whether one pair is a confirmed match",
		Long: `Record an exact-match result for a single pair. Without --match the
pair is recorded as not a match.

Exit codes:
  0 - Observation recorded
  1 - Observation contradicts the history (nothing recorded)
  2 - Command error (unknown group or name, etc.)

Examples:
  matchup booth season1 Ann Dan --match
  matchup booth season1 Bea Eli`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBooth(opts, args[0], args[1], args[2], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Match, "match", false, "the pair is a confirmed match")

	return cmd
}

func runBooth(opts *BoothOptions, group, nameA, nameB string, cmd *cobra.Command) error {
	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	result, err := s.record(cmd.Context(), group, func(eng *engine.Engine) (int, error) {
		return eng.ApplyExactMatch(nameA, nameB, opts.Match)
	})
	if err != nil {
		return s.out.fail("observation not recorded", err)
	}

	if opts.Format == "json" {
		return s.out.Success(result)
	}

	verdict := "not a match"
	if opts.Match {
		verdict = "a match"
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "#%d %s and %s are %s.\n", result.Observation.Seq, nameA, nameB, verdict)
	fmt.Fprintf(w, "%d scenarios remain.\n", result.Scenarios)
	return nil
}
