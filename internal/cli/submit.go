package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/procs/internal/session"
	"github.com/mesh-intelligence/procs/pkg/types"
)

// submitResult is the JSON shape of submit output.
type submitResult struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	File   string `json:"file"`
	Status string `json:"status"`
}

func newSubmitCmd() *cobra.Command {
	var (
		roleName string
		answers  []string
	)
	cmd := &cobra.Command{
		Use:   "submit <user-id>",
		Short: "Record a respondent's answers without the interactive flow",
		Long: "Record answers for one respondent. --answers takes one value per question,\n" +
			"in order, either a token (strongly_disagree ... strongly_agree) or its\n" +
			"rank 1-6. A respondent who already has a file is left untouched.",
		Example: "  procs submit p007 --role listener --answers 5,5,4,6,agree,3,2,5,5,4",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := parseRoleFlag(roleName)
			if err != nil {
				return err
			}
			values, err := parseAnswers(answers)
			if err != nil {
				return userError(err)
			}

			a, err := newApp(false)
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			ctrl := a.controller()
			if err := ctrl.SelectDirectory(ctx, a.outputDir); err != nil {
				return err
			}
			if err := ctrl.SetUserID(args[0]); err != nil {
				return err
			}
			if err := ctrl.SetRole(role); err != nil {
				return err
			}
			if err := ctrl.Begin(ctx); err != nil {
				return err
			}

			res := submitResult{
				UserID: ctrl.UserID(),
				Role:   role.String(),
				File:   ctrl.FileName(),
			}
			if ctrl.State() == session.AlreadyComplete {
				res.Status = "already_complete"
				return reportSubmit(cmd, res)
			}

			questions := ctrl.Instrument().Questions
			if len(values) != len(questions) {
				return userError(fmt.Errorf("%w: got %d answers for %d questions",
					types.ErrIncomplete, len(values), len(questions)))
			}
			for i, q := range questions {
				if err := ctrl.Answer(q.ID, values[i]); err != nil {
					return err
				}
			}
			if err := ctrl.Submit(ctx); err != nil {
				return err
			}
			res.Status = "saved"
			return reportSubmit(cmd, res)
		},
	}
	addRoleFlag(cmd, &roleName)
	cmd.Flags().StringSliceVarP(&answers, "answers", "a", nil, "comma-separated answers, one per question")
	_ = cmd.MarkFlagRequired("answers")
	return cmd
}

// parseAnswers accepts Likert tokens or their 1-based ranks.
func parseAnswers(raw []string) ([]types.Likert, error) {
	values := make([]types.Likert, 0, len(raw))
	for i, s := range raw {
		s = strings.TrimSpace(s)
		if n, err := strconv.Atoi(s); err == nil {
			if n < 1 || n > len(types.LikertScale) {
				return nil, fmt.Errorf("answer %d: %w: rank %d", i+1, types.ErrInvalidLikert, n)
			}
			values = append(values, types.LikertScale[n-1])
			continue
		}
		v, err := types.ParseLikert(s)
		if err != nil {
			return nil, fmt.Errorf("answer %d: %w: %q", i+1, err, s)
		}
		values = append(values, v)
	}
	return values, nil
}

func reportSubmit(cmd *cobra.Command, res submitResult) error {
	out := cmd.OutOrStdout()
	if flags.jsonMode {
		return writeJSON(out, res)
	}
	if res.Status == "already_complete" {
		fmt.Fprintf(out, "PROCS responses for user ID %s were already saved (%s)\n", res.UserID, res.File)
		return nil
	}
	fmt.Fprintf(out, "Your PROCS responses have been saved successfully for user ID: %s (%s)\n", res.UserID, res.File)
	return nil
}
