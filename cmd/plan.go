package cmd

import (
	"context"
	"fmt"

	"github.com/bnema/smartworker/internal/adapters/render/summary"
	"github.com/spf13/cobra"
)

func newPlanCmd(app *app) *cobra.Command {
	var contractPath string
	var scriptPath string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Form and print the plan for a contract without deliberating",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := readContract(cmd.InOrStdin(), contractPath)
			if err != nil {
				return err
			}

			service, err := app.runService(cmd.Context(), sessionOptions{
				scriptPath: scriptPath,
				in:         cmd.InOrStdin(),
				out:        cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}

			var prompt string
			var plan []string
			form := func(ctx context.Context) error {
				var formErr error
				prompt, plan, formErr = service.Plan(ctx, raw)
				return formErr
			}
			if quiet {
				err = form(cmd.Context())
			} else {
				err = runSpinner(cmd.Context(), cmd.ErrOrStderr(), "Forming plan...", form)
			}
			if err != nil {
				return err
			}

			rendered, err := summary.RenderPlan(prompt, plan)
			if err != nil {
				return fmt.Errorf("render plan: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().StringVar(&contractPath, "contract", "", "Contract file (JSON or YAML), - for stdin")
	cmd.Flags().StringVar(&scriptPath, "script", "", "Replay oracle replies from a YAML script instead of calling a provider")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Do not show the progress spinner")
	_ = cmd.MarkFlagRequired("contract")

	return cmd
}
