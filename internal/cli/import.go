package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/matchup/internal/engine"
	"github.com/roach88/matchup/internal/record"
	"github.com/roach88/matchup/internal/store"
)

// ImportResult is the data payload of the import command.
type ImportResult struct {
	Group     store.Group `json:"group"`
	Scenarios int         `json:"scenarios"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <group> <file>",
		Short: "Create a group from a record file",
		Long: `Create a group from a JSON, YAML or CUE record file.

The file is validated against the record schema and its history is replayed
before anything is stored. Records whose observations contradict each
other are rejected.

Exit codes:
  0 - Group imported
  1 - The history is contradictory
  2 - Command error (invalid file, unknown names, group exists, etc.)

Examples:
  matchup import season1 season1.json
  matchup import season1 season1.cue`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(rootOpts, args[0], args[1], cmd)
		},
	}
	return cmd
}

func runImport(opts *RootOptions, name, path string, cmd *cobra.Command) error {
	out := newFormatter(opts, cmd)

	rec, err := record.ReadFile(path)
	if err != nil {
		return out.fail("cannot import record", err)
	}
	if err := checkGroupSize(opts, rec.ParticipantsA, rec.ParticipantsB); err != nil {
		return out.fail("cannot import record", err)
	}

	s, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	eng, err := engine.Load(rec, engine.WithObserver(s.observer))
	if err != nil {
		return out.fail("cannot import record", err)
	}
	if eng.NumScenarios() == 0 {
		return out.fail("cannot import record", engine.NewImpossibleScenarioError())
	}

	group, err := s.store.ImportRecord(cmd.Context(), name, eng.Serialize())
	if err != nil {
		return out.fail("cannot import record", err)
	}
	s.logger.Info("group imported", "group", group.Name, "id", group.ID, "observations", group.Observations)

	result := ImportResult{Group: group, Scenarios: eng.NumScenarios()}
	if opts.Format == "json" {
		return out.Success(result)
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Imported %s with %d observations.\n", group.Name, group.Observations)
	fmt.Fprintf(w, "%d scenarios remain.\n", result.Scenarios)
	return nil
}
