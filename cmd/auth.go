package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAuthCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the oracle API key",
	}

	cmd.AddCommand(newAuthSetCmd(app), newAuthRemoveCmd(app))

	return cmd
}

func newAuthSetCmd(app *app) *cobra.Command {
	var secretKey string
	var secretValue string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store the oracle API key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.credentials.Set(cmd.Context(), secretKey, secretValue); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "stored %s\n", secretKey)
			return err
		},
	}

	cmd.Flags().StringVar(&secretKey, "secret-key", app.cfg.Oracle.SecretRef, "Secret-store key")
	cmd.Flags().StringVar(&secretValue, "secret-value", "", "Secret value")
	_ = cmd.MarkFlagRequired("secret-value")

	return cmd
}

func newAuthRemoveCmd(app *app) *cobra.Command {
	var secretKey string

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove the stored oracle API key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.credentials.Remove(cmd.Context(), secretKey)
		},
	}

	cmd.Flags().StringVar(&secretKey, "secret-key", app.cfg.Oracle.SecretRef, "Secret-store key")

	return cmd
}
