package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/procs/pkg/types"
)

// shownAnswer pairs a question with its recorded token.
type shownAnswer struct {
	ID     string `json:"id"`
	Column string `json:"column"`
	Text   string `json:"text,omitempty"`
	Answer string `json:"answer"`
	Label  string `json:"label,omitempty"`
}

// showResult is the JSON shape of show output.
type showResult struct {
	UserID  string        `json:"user_id"`
	Role    string        `json:"role"`
	File    string        `json:"file"`
	Answers []shownAnswer `json:"answers"`
}

func newShowCmd() *cobra.Command {
	var roleName string
	cmd := &cobra.Command{
		Use:   "show <user-id>",
		Short: "Print a respondent's saved answers",
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
			rec, err := a.store.Read(ctx, dir, name)
			if err != nil {
				return err
			}

			res := showResult{UserID: args[0], Role: role.String(), File: name}
			if len(rec.Row) > 0 {
				res.UserID = rec.Row[0]
			}
			for i := 1; i < len(rec.Header) && i < len(rec.Row); i++ {
				ans := shownAnswer{Column: rec.Header[i], Answer: rec.Row[i]}
				if i-1 < len(in.Questions) {
					ans.ID = in.Questions[i-1].ID
					ans.Text = in.Questions[i-1].Text
				}
				if v := types.Likert(rec.Row[i]); v.Valid() {
					ans.Label = v.Label()
				}
				res.Answers = append(res.Answers, ans)
			}

			out := cmd.OutOrStdout()
			if flags.jsonMode {
				return writeJSON(out, res)
			}
			fmt.Fprintf(out, "%s (%s, user ID %s)\n\n", in.Title, res.File, res.UserID)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, ans := range res.Answers {
				label := ans.Label
				if label == "" {
					label = ans.Answer
				}
				fmt.Fprintf(tw, "%s\t%s\n", ans.Column, label)
			}
			return tw.Flush()
		},
	}
	addRoleFlag(cmd, &roleName)
	return cmd
}
