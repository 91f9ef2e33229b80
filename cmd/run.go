package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/bnema/smartworker/internal/adapters/render/summary"
	"github.com/bnema/smartworker/internal/domain"
	"github.com/spf13/cobra"
)

func newRunCmd(app *app) *cobra.Command {
	var contractPath string
	var scriptPath string
	var experts int
	var concurrent bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Deliberate on a contract until it is closed",
		Long:  "run translates the contract, forms a plan and lets the expert pool vote on actions round by round. Clarification requests are answered on stdin.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := readContract(cmd.InOrStdin(), contractPath)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("concurrent") {
				concurrent = app.cfg.Experts.Concurrent
			}
			service, err := app.runService(cmd.Context(), sessionOptions{
				scriptPath: scriptPath,
				experts:    experts,
				concurrent: concurrent,
				in:         cmd.InOrStdin(),
				out:        cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}

			run, execErr := service.Execute(cmd.Context(), raw)
			if err := writeRunOutput(cmd, app, run, asJSON); err != nil {
				return err
			}
			return execErr
		},
	}

	cmd.Flags().StringVar(&contractPath, "contract", "", "Contract file (JSON or YAML), - for stdin")
	cmd.Flags().StringVar(&scriptPath, "script", "", "Replay oracle replies from a YAML script instead of calling a provider")
	cmd.Flags().IntVar(&experts, "experts", 0, "Number of experts (default from config)")
	cmd.Flags().BoolVar(&concurrent, "concurrent", false, "Ask experts concurrently")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output the run record as JSON")
	_ = cmd.MarkFlagRequired("contract")

	return cmd
}

func writeRunOutput(cmd *cobra.Command, app *app, run domain.Run, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	}

	rendered, err := summary.RenderRun(run, summary.RenderOptions{
		Now:       app.now(),
		MaxRounds: app.cfg.Budget.MaxRounds,
	})
	if err != nil {
		return fmt.Errorf("render run: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}
