package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/procs/internal/tui"
)

func newTakeCmd() *cobra.Command {
	var (
		roleName string
		userID   string
	)
	cmd := &cobra.Command{
		Use:   "take",
		Short: "Take the questionnaire in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := parseRoleFlag(roleName)
			if err != nil {
				return err
			}
			a, err := newApp(true)
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			m := tui.New(ctx, a.controller(), tui.Options{
				UserID: userID,
				Folder: a.outputDir,
				Role:   role,
				Roles:  a.catalog.All(),
			})
			err = tui.Run(ctx, m,
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			if err != nil {
				return sysError(err)
			}
			if id := m.Completed(); id != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Last completed user ID: %s\n", id)
			}
			return nil
		},
	}
	addRoleFlag(cmd, &roleName)
	cmd.Flags().StringVarP(&userID, "user-id", "u", "", "pre-fill the user ID")
	return cmd
}
