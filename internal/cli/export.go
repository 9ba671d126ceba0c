package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/matchup/internal/record"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Output   string
	Encoding string
}

// ExportResult is the data payload of export when writing to a file.
type ExportResult struct {
	Group        string `json:"group"`
	Path         string `json:"path"`
	Observations int    `json:"observations"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export <group>",
		Short: "Write a group's record as JSON or YAML",
		Long: `Write a group's participants and observation history as a record file.
The record is rebuilt by replaying the stored history, so an exported file
always imports cleanly.

Without --output the record is written to stdout in the --as encoding.

Examples:
  matchup export season1 -o season1.json
  matchup export season1 --as yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (.json, .yaml or .yml)")
	cmd.Flags().StringVar(&opts.Encoding, "as", "json", "stdout encoding (json|yaml)")

	return cmd
}

func runExport(opts *ExportOptions, name string, cmd *cobra.Command) error {
	out := newFormatter(opts.RootOptions, cmd)
	encoding := record.Format(opts.Encoding)
	if opts.Output != "" {
		var err error
		if encoding, err = record.FormatFromPath(opts.Output); err != nil {
			return out.fail("cannot export group", fmt.Errorf("%w: %v", errInvalidArgs, err))
		}
	}
	if encoding != record.FormatJSON && encoding != record.FormatYAML {
		return out.fail("cannot export group", fmt.Errorf("%w: records can only be written as json or yaml, got %q", errInvalidArgs, encoding))
	}

	s, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	group, eng, err := s.loadGroup(cmd.Context(), name)
	if err != nil {
		return out.fail("cannot export group", err)
	}
	rec := eng.Serialize()

	if opts.Output == "" {
		if opts.Format == "json" {
			return out.Success(rec)
		}
		if err := record.Encode(cmd.OutOrStdout(), encoding, rec); err != nil {
			return WrapExitError(ExitCommandError, "cannot export group", err)
		}
		return nil
	}

	if err := record.WriteFile(opts.Output, rec); err != nil {
		return out.fail("cannot export group", err)
	}
	s.logger.Info("group exported", "group", group.Name, "path", opts.Output)

	result := ExportResult{Group: group.Name, Path: opts.Output, Observations: len(rec.History)}
	if opts.Format == "json" {
		return out.Success(result)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %s (%d observations) to %s\n", result.Group, result.Observations, result.Path)
	return nil
}
