package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/matchup/internal/engine"
)

// TryOptions holds flags for the try command.
type TryOptions struct {
	*RootOptions
	Matches    []string
	NonMatches []string
	ShowTable  bool
}

// TryResult is the data payload of the try command.
type TryResult struct {
	Group      string             `json:"group"`
	Scenarios  int                `json:"scenarios"`
	Hypothesis *engine.Hypothesis `json:"hypothesis"`
}

// NewTryCommand creates the try command.
func NewTryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "try <group>",
		Short: "Ask how likely a hypothetical is without recording it",
		Long: `Count the remaining scenarios in which every --match pair holds and no
--not pair holds, and report that count as a fraction of all remaining
scenarios. Nothing is stored.

Examples:
  matchup try season1 --match Ann=Dan --match Bea=Eli
  matchup try season1 --not Cat=Fox --table`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTry(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Matches, "match", nil, "pair A=B assumed to be a match (repeatable)")
	cmd.Flags().StringArrayVar(&opts.NonMatches, "not", nil, "pair A=B assumed not to be a match (repeatable)")
	cmd.Flags().BoolVar(&opts.ShowTable, "table", false, "show the probability table under the hypothetical")

	return cmd
}

func runTry(opts *TryOptions, name string, cmd *cobra.Command) error {
	out := newFormatter(opts.RootOptions, cmd)
	matches, err := parsePairs(opts.Matches)
	if err != nil {
		return out.fail("cannot evaluate hypothetical", err)
	}
	nonMatches, err := parsePairs(opts.NonMatches)
	if err != nil {
		return out.fail("cannot evaluate hypothetical", err)
	}

	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	group, eng, err := s.loadGroup(cmd.Context(), name)
	if err != nil {
		return out.fail("cannot evaluate hypothetical", err)
	}
	h, err := eng.TryPartial(matches, nonMatches)
	if err != nil {
		return out.fail("cannot evaluate hypothetical", err)
	}

	result := TryResult{Group: group.Name, Scenarios: eng.NumScenarios(), Hypothesis: h}
	if opts.Format == "json" {
		return out.Success(result)
	}

	var parts []string
	for _, p := range matches {
		parts = append(parts, p.A+" = "+p.B)
	}
	for _, p := range nonMatches {
		parts = append(parts, p.A+" != "+p.B)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "If %s:\n", strings.Join(parts, " and "))
	fmt.Fprintf(w, "  %d of %d scenarios (%s)\n", h.Count, result.Scenarios, formatProbability(h.Ratio))
	if opts.ShowTable {
		fmt.Fprintln(w, renderTable(h.Probabilities))
	}
	return nil
}
