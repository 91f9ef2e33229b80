package cmd

import (
	"fmt"

	"github.com/bnema/smartworker/internal/application"
	"github.com/spf13/cobra"
)

func newTranslateCmd() *cobra.Command {
	var contractPath string

	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Print the prompt a contract translates to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := readContract(cmd.InOrStdin(), contractPath)
			if err != nil {
				return err
			}

			prompt, err := application.Translate(raw)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), prompt)
			return err
		},
	}

	cmd.Flags().StringVar(&contractPath, "contract", "", "Contract file (JSON or YAML), - for stdin")
	_ = cmd.MarkFlagRequired("contract")

	return cmd
}
