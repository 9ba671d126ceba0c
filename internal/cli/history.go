package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/matchup/internal/ir"
)

// HistoryResult is the data payload of the history command.
type HistoryResult struct {
	Group        string           `json:"group"`
	Observations []ir.Observation `json:"observations"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "history <group>",
		Short:         "List a group's observations in order",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runHistory(opts *RootOptions, name string, cmd *cobra.Command) error {
	s, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	rec, err := s.store.ReadRecord(cmd.Context(), name)
	if err != nil {
		return s.out.fail("cannot read history", err)
	}

	result := HistoryResult{Group: name, Observations: rec.History}
	if result.Observations == nil {
		result.Observations = []ir.Observation{}
	}
	if opts.Format == "json" {
		return s.out.Success(result)
	}

	w := cmd.OutOrStdout()
	if len(rec.History) == 0 {
		fmt.Fprintf(w, "%s has no observations.\n", name)
		return nil
	}
	for _, obs := range rec.History {
		fmt.Fprintf(w, "#%d %s\n", obs.Seq, describeObservation(obs))
	}
	return nil
}

// describeObservation renders obs as one line of text.
func describeObservation(obs ir.Observation) string {
	switch obs.Kind {
	case ir.KindExactMatch:
		verdict := "no match"
		if obs.IsMatch {
			verdict = "match"
		}
		return fmt.Sprintf("exact-match %s=%s: %s", obs.NameA, obs.NameB, verdict)
	case ir.KindCountMatch:
		pairs := make([]string, len(obs.Pairs))
		for i, p := range obs.Pairs {
			pairs[i] = p.String()
		}
		return fmt.Sprintf("count-match %s: %d correct", strings.Join(pairs, " "), obs.ExpectedCount)
	default:
		return string(obs.Kind)
	}
}
