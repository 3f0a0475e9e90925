package command

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tidepool-org/tideline/config"
	"github.com/tidepool-org/tideline/pointer"
	"github.com/tidepool-org/tideline/report"
)

var exportParams = struct {
	windowFlags
	Out string
}{}

var exportCmd = &cobra.Command{
	Use:   "export {file}",
	Args:  cobra.ExactArgs(1),
	Short: "Export a basal report",
	Long:  "The export command writes the basal report of the records in a JSON export to an XLSX workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(func(cfg *config.Config, logger *zap.SugaredLogger) error {
			q, err := exportParams.query()
			if err != nil {
				return err
			}
			records, err := readRecords(args[0])
			if err != nil {
				return err
			}

			dataStart, dataEnd := dataRange(records, q)
			r := report.Build(q, records.Basals, records.Settings, dataStart, dataEnd, report.Options{
				Logger:             logger,
				ExclusionThreshold: pointer.FromAny(cfg.ExclusionThreshold),
			})
			return writeReport(r, exportParams.Out)
		})
	},
}

func writeReport(r *report.Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create %s: %w", path, err)
	}
	defer f.Close()

	if err := r.WriteXLSX(f); err != nil {
		return fmt.Errorf("unable to write report: %w", err)
	}
	fmt.Printf("Report written to %s\n", path)
	return nil
}

func init() {
	exportParams.register(exportCmd, true)
	exportCmd.Flags().StringVar(&exportParams.UserId, "user", "", "User id recorded in the report")
	exportCmd.Flags().StringVarP(&exportParams.Out, "out", "o", "report.xlsx", "Output file")

	rootCmd.AddCommand(exportCmd)
}
