package command

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tidepool-org/tideline/basal"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile {file}",
	Args:  cobra.ExactArgs(1),
	Short: "Reconcile basal segments",
	Long:  "The reconcile command prints the actual and undelivered basal streams of the records in a JSON export",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(func(logger *zap.SugaredLogger) error {
			records, err := readRecords(args[0])
			if err != nil {
				return err
			}
			logger.Debugw("decoded records", "basals", len(records.Basals), "skipped", records.Skipped)

			result := basal.Reconcile(records.Basals, basal.WithLogger(logger))
			return printJSON(cmd.OutOrStdout(), result)
		})
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
}
