package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/matchup/internal/record"
)

// SchemaOptions holds flags for the schema command.
type SchemaOptions struct {
	*RootOptions
	Output string
}

// NewSchemaCommand creates the schema command.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SchemaOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for record files",
		Long: `Print the JSON Schema that import validates record files against.

Examples:
  matchup schema
  matchup schema -o record.schema.json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchema(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the schema to a file instead of stdout")

	return cmd
}

func runSchema(opts *SchemaOptions, cmd *cobra.Command) error {
	schema, err := record.JSONSchema()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to generate schema", err)
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, append(schema, '\n'), 0644); err != nil {
			return WrapExitError(ExitCommandError, "failed to write schema", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote schema to %s\n", opts.Output)
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(schema))
	return nil
}
