package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// checkResult is the JSON shape of check output.
type checkResult struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	File   string `json:"file"`
	Exists bool   `json:"exists"`
}

func newCheckCmd() *cobra.Command {
	var roleName string
	cmd := &cobra.Command{
		Use:   "check <user-id>",
		Short: "Report whether a respondent already has a response file",
		Long:  "Exit status is 0 when the file exists and 1 when it does not.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := parseRoleFlag(roleName)
			if err != nil {
				return err
			}
			a, err := newApp(false)
			if err != nil {
				return err
			}
			defer a.close()

			in, err := a.catalog.For(role)
			if err != nil {
				return userError(err)
			}
			ctx := cmd.Context()
			dir, err := a.outputFolder(ctx)
			if err != nil {
				return err
			}
			name := in.FileName(args[0])
			exists, err := a.store.Exists(ctx, dir, name)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if flags.jsonMode {
				if err := writeJSON(out, checkResult{UserID: args[0], Role: role.String(), File: name, Exists: exists}); err != nil {
					return err
				}
			} else if exists {
				fmt.Fprintf(out, "%s: complete\n", name)
			} else {
				fmt.Fprintf(out, "%s: not found\n", name)
			}
			if !exists {
				return userError(errSilent)
			}
			return nil
		},
	}
	addRoleFlag(cmd, &roleName)
	return cmd
}
