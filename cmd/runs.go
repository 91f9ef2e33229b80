package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/bnema/smartworker/internal/adapters/render/summary"
	"github.com/bnema/smartworker/internal/domain"
	"github.com/spf13/cobra"
)

func newRunsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect stored run records",
	}

	cmd.AddCommand(newRunsListCmd(app), newRunsShowCmd(app))

	return cmd
}

func newRunsListCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored runs, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			runs, err := app.queryService().List(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(runs)
			}

			rendered, err := summary.RenderRuns(runs, summary.RenderOptions{Now: app.now()})
			if err != nil {
				return fmt.Errorf("render runs: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func newRunsShowCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := app.queryService().Get(cmd.Context(), domain.RunID(args[0]))
			if err != nil {
				return err
			}
			return writeRunOutput(cmd, app, run, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}
