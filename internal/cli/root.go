package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/matchup/internal/permute"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose         bool
	Format          string // "json" | "text"
	Database        string
	MaxParticipants int
	MetricsOut      string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

const (
	// DefaultDatabase is the SQLite path used when neither --db nor
	// MATCHUP_DB is set.
	DefaultDatabase = "matchup.db"

	// DefaultMaxParticipants caps the group size accepted by new and import.
	// 11! is just under 40 million scenarios.
	DefaultMaxParticipants = 11

	envDatabase = "MATCHUP_DB"
)

// NewRootCommand creates the root command for the matchup CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "matchup",
		Short: "matchup - track who is paired with whom",
		Long: `Track a hidden one-to-one pairing between two equal-size groups.

Record exact-match and count-match observations as they are revealed and
matchup reports the probability that each cross-group pair is a true match.
Groups and their observation history are kept in a SQLite database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if opts.MaxParticipants < 1 || opts.MaxParticipants > permute.MaxParticipants {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid --max-participants %d: must be between 1 and %d", opts.MaxParticipants, permute.MaxParticipants))
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", defaultDatabase(), "path to SQLite database (env "+envDatabase+")")
	cmd.PersistentFlags().IntVar(&opts.MaxParticipants, "max-participants", DefaultMaxParticipants, "largest group size accepted per side")
	cmd.PersistentFlags().StringVar(&opts.MetricsOut, "metrics-out", "", "write Prometheus metrics to this file after the command")

	// Add subcommands
	cmd.AddCommand(NewNewCommand(opts))
	cmd.AddCommand(NewBoothCommand(opts))
	cmd.AddCommand(NewCeremonyCommand(opts))
	cmd.AddCommand(NewProbsCommand(opts))
	cmd.AddCommand(NewTryCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))
	cmd.AddCommand(NewSchemaCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewGroupsCommand(opts))

	return cmd
}

// Execute runs the root command with os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

func defaultDatabase() string {
	if path := os.Getenv(envDatabase); path != "" {
		return path
	}
	return DefaultDatabase
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
