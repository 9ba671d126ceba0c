package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/matchup/internal/engine"
)

// CeremonyOptions holds flags for the ceremony command.
type CeremonyOptions struct {
	*RootOptions
	Count int
}

// NewCeremonyCommand creates the ceremony command.
func NewCeremonyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CeremonyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "ceremony <group> <a=b>...",
		Short: "Record how many of a set of seated pairs are correct",
		Long: `Record a count-match result: the listed pairs were seated together
and exactly --count of them are true matches. Each participant may be
seated at most once.

Exit codes:
  0 - Observation recorded
  1 - Observation contradicts the history (nothing recorded)
  2 - Command error (unknown group or name, repeated seat, bad count)

Examples:
  matchup ceremony season1 Ann=Dan Bea=Eli Cat=Fox --count 1`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCeremony(opts, args[0], args[1:], cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Count, "count", "c", 0, "number of correct pairs (required)")
	_ = cmd.MarkFlagRequired("count")

	return cmd
}

func runCeremony(opts *CeremonyOptions, group string, pairArgs []string, cmd *cobra.Command) error {
	out := newFormatter(opts.RootOptions, cmd)
	pairs, err := parsePairs(pairArgs)
	if err != nil {
		return out.fail("observation not recorded", err)
	}

	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	result, err := s.record(cmd.Context(), group, func(eng *engine.Engine) (int, error) {
		return eng.ApplyCountMatch(pairs, opts.Count)
	})
	if err != nil {
		return out.fail("observation not recorded", err)
	}

	if opts.Format == "json" {
		return out.Success(result)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "#%d %d of %d pairs correct.\n", result.Observation.Seq, opts.Count, len(pairs))
	fmt.Fprintf(w, "%d scenarios remain.\n", result.Scenarios)
	return nil
}
