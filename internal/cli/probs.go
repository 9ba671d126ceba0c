package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/matchup/internal/engine"
)

// ProbsOptions holds flags for the probs command.
type ProbsOptions struct {
	*RootOptions
	Row string // optional - one A-side participant only
}

// ProbsResult is the data payload of the probs command.
type ProbsResult struct {
	Group         string        `json:"group"`
	Scenarios     int           `json:"scenarios"`
	Probabilities *engine.Table `json:"probabilities,omitempty"`
	Row           *RowResult    `json:"row,omitempty"`
}

// RowResult is one A-side participant's distribution over side B.
type RowResult struct {
	Name          string             `json:"name"`
	Probabilities map[string]float64 `json:"probabilities"`
}

// NewProbsCommand creates the probs command.
func NewProbsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProbsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "probs <group>",
		Short: "Show the match probability of every pair",
		Long: `Show, for every pair, the fraction of remaining scenarios in which the
pair is matched. Rows are side A, columns side B.

Examples:
  matchup probs season1
  matchup probs season1 --row Ann --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProbs(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Row, "row", "", "show one side A participant only")

	return cmd
}

func runProbs(opts *ProbsOptions, name string, cmd *cobra.Command) error {
	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	group, eng, err := s.loadGroup(cmd.Context(), name)
	if err != nil {
		return s.out.fail("cannot compute probabilities", err)
	}
	table, err := eng.Probabilities()
	if err != nil {
		return s.out.fail("cannot compute probabilities", err)
	}

	result := ProbsResult{Group: group.Name, Scenarios: eng.NumScenarios()}
	if opts.Row != "" {
		row, err := table.Row(opts.Row)
		if err != nil {
			return s.out.fail("cannot compute probabilities", err)
		}
		result.Row = &RowResult{Name: opts.Row, Probabilities: make(map[string]float64, len(row))}
		for i, b := range table.ParticipantsB() {
			result.Row.Probabilities[b] = row[i]
		}
	} else {
		result.Probabilities = table
	}

	if opts.Format == "json" {
		return s.out.Success(result)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s: %d scenarios remain.\n", group.Name, result.Scenarios)
	if result.Row != nil {
		for _, b := range table.ParticipantsB() {
			fmt.Fprintf(w, "  %s=%s  %s\n", opts.Row, b, formatProbability(result.Row.Probabilities[b]))
		}
		return nil
	}
	fmt.Fprintln(w, renderTable(table))
	return nil
}
