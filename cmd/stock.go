package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var stockCheckCmd = &cobra.Command{
	Use:   "stock:check",
	Short: "Run the low-stock check once and mail the configured group",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		sum, err := a.services.Notifier.RunDailyCheck(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (run %s, sent %d, failed %d)\n", sum.String(), sum.RunID, sum.Sent, sum.Failed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stockCheckCmd)
}
