package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sw",
		Short:         "SmartWorker (sw): deliberate on work contracts with a pool of LLM experts",
		Long:          "sw (SmartWorker) translates a work contract into a prompt, forms a plan with a language-model oracle, and lets a pool of experts vote on actions until the contract is closed.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}
	rootCmd.PersistentPostRun = func(_ *cobra.Command, _ []string) {
		_ = app.logger.Sync()
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newAuthCmd(app),
		newRunCmd(app),
		newPlanCmd(app),
		newTranslateCmd(),
		newRunsCmd(app),
	)

	return rootCmd
}
