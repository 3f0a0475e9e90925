package command

import (
	"github.com/spf13/cobra"

	"github.com/tidepool-org/tideline/report"
)

var fetchParams = struct {
	windowFlags
	Out string
}{}

var fetchCmd = &cobra.Command{
	Use:   "fetch {userId}",
	Args:  cobra.ExactArgs(1),
	Short: "Fetch the basal report of a user",
	Long:  "The fetch command loads the device data of a user from the data store and prints the basal report, or writes it to an XLSX workbook with --out",
	RunE: func(cmd *cobra.Command, args []string) error {
		fetchParams.UserId = args[0]
		return Run(func(service report.Service) error {
			q, err := fetchParams.query()
			if err != nil {
				return err
			}

			r, err := service.Report(cmd.Context(), q)
			if err != nil {
				return err
			}
			if fetchParams.Out != "" {
				return writeReport(r, fetchParams.Out)
			}
			return printJSON(cmd.OutOrStdout(), r)
		})
	},
}

func init() {
	fetchParams.register(fetchCmd, true)
	fetchCmd.Flags().StringVarP(&fetchParams.Out, "out", "o", "", "Write the report to an XLSX workbook instead of printing it")

	rootCmd.AddCommand(fetchCmd)
}
