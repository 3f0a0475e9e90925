package command

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tidepool-org/tideline/basal"
	"github.com/tidepool-org/tideline/config"
	"github.com/tidepool-org/tideline/pointer"
)

var totalParams = struct {
	windowFlags
	Threshold int
}{}

var totalCmd = &cobra.Command{
	Use:   "total {file}",
	Args:  cobra.ExactArgs(1),
	Short: "Total basal delivery",
	Long:  "The total command prints the basal insulin delivered over a window together with the days excluded from the total",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(func(cfg *config.Config, logger *zap.SugaredLogger) error {
			q, err := totalParams.query()
			if err != nil {
				return err
			}
			records, err := readRecords(args[0])
			if err != nil {
				return err
			}

			threshold := cfg.ExclusionThreshold
			if cmd.Flags().Changed("threshold") {
				threshold = totalParams.Threshold
			}

			util := basal.NewUtil(records.Basals, basal.WithLogger(logger))
			result := util.TotalBasal(q.Start, q.End, basal.TotalOptions{
				ExclusionThreshold: pointer.FromAny(threshold),
				MidnightToMidnight: q.MidnightToMidnight,
				Excluded:           q.Excluded,
			})
			return printJSON(cmd.OutOrStdout(), result)
		})
	},
}

func init() {
	totalParams.register(totalCmd, true)
	totalCmd.Flags().IntVar(&totalParams.Threshold, "threshold", 0, "Maximum number of excluded days (defaults to TIDEPOOL_BASAL_EXCLUSION_THRESHOLD)")

	rootCmd.AddCommand(totalCmd)
}
