package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/matchup/internal/engine"
	"github.com/roach88/matchup/internal/store"
)

// NewOptions holds flags for the new command.
type NewOptions struct {
	*RootOptions
	ParticipantsA []string
	ParticipantsB []string
}

// NewGroupResult is the data payload of the new command.
type NewGroupResult struct {
	Group     store.Group `json:"group"`
	Scenarios int         `json:"scenarios"`
}

// NewNewCommand creates the new command.
func NewNewCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NewOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "new <group>",
		Short: "Create a group from two equal-size participant lists",
		Long: `Create a new group. Every one-to-one pairing between the two lists
starts out equally likely.

Examples:
  matchup new season1 -a Ann,Bea,Cat -b Dan,Eli,Fox
  matchup new season1 --side-a Ann --side-a Bea --side-b Dan --side-b Eli --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.ParticipantsA, "side-a", "a", nil, "participants on side A (required)")
	cmd.Flags().StringSliceVarP(&opts.ParticipantsB, "side-b", "b", nil, "participants on side B (required)")
	_ = cmd.MarkFlagRequired("side-a")
	_ = cmd.MarkFlagRequired("side-b")

	return cmd
}

func runNew(opts *NewOptions, name string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	out := newFormatter(opts.RootOptions, cmd)

	a, b := trimNames(opts.ParticipantsA), trimNames(opts.ParticipantsB)
	if err := checkGroupSize(opts.RootOptions, a, b); err != nil {
		return out.fail("cannot create group", err)
	}

	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	// Construct first so invalid lists never reach the database.
	eng, err := engine.New(a, b, engine.WithObserver(s.observer))
	if err != nil {
		return out.fail("cannot create group", err)
	}

	group, err := s.store.CreateGroup(ctx, name, a, b)
	if err != nil {
		return out.fail("cannot create group", err)
	}
	s.logger.Info("group created", "group", group.Name, "id", group.ID, "participants", eng.N())

	result := NewGroupResult{Group: group, Scenarios: eng.NumScenarios()}
	if opts.Format == "json" {
		return out.Success(result)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Created group %s with %d participants per side.\n", group.Name, eng.N())
	fmt.Fprintf(w, "%d scenarios possible.\n", result.Scenarios)
	return nil
}
