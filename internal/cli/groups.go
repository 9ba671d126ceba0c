package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/roach88/matchup/internal/store"
)

// GroupsResult is the data payload of groups list.
type GroupsResult struct {
	Groups []store.Group `json:"groups"`
}

// NewGroupsCommand creates the groups command and its subcommands.
// Run without a subcommand it lists every group.
func NewGroupsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "groups",
		Short:         "List or delete stored groups",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGroupsList(rootOpts, cmd)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "list",
		Short:         "List stored groups",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGroupsList(rootOpts, cmd)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:           "delete <group>",
		Short:         "Delete a group and its history",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGroupsDelete(rootOpts, args[0], cmd)
		},
	})

	return cmd
}

func runGroupsList(opts *RootOptions, cmd *cobra.Command) error {
	s, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	groups, err := s.store.ListGroups(cmd.Context())
	if err != nil {
		return s.out.fail("cannot list groups", err)
	}

	if opts.Format == "json" {
		return s.out.Success(GroupsResult{Groups: groups})
	}

	w := cmd.OutOrStdout()
	if len(groups) == 0 {
		fmt.Fprintln(w, "No groups found in database.")
		return nil
	}

	rows := make([][]string, len(groups))
	for i, g := range groups {
		rows[i] = []string{g.Name, strconv.Itoa(len(g.ParticipantsA)), strconv.Itoa(g.Observations), g.ID}
	}
	fmt.Fprintln(w, table.New().
		Border(lipgloss.NormalBorder()).
		Headers("GROUP", "SIZE", "OBSERVATIONS", "ID").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		}).
		String())
	return nil
}

func runGroupsDelete(opts *RootOptions, name string, cmd *cobra.Command) error {
	s, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.store.DeleteGroup(cmd.Context(), name); err != nil {
		return s.out.fail("cannot delete group", err)
	}
	s.logger.Info("group deleted", "group", name)

	if opts.Format == "json" {
		return s.out.Success(map[string]string{"deleted": name})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", name)
	return nil
}
