package command

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tidepool-org/tideline/settings"
)

var settingsParams = windowFlags{}

var settingsCmd = &cobra.Command{
	Use:   "settings {file}",
	Args:  cobra.ExactArgs(1),
	Short: "Resolve settings intervals",
	Long:  "The settings command prints the settings intervals in effect over a window and the expanded basal schedules",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(func(logger *zap.SugaredLogger) error {
			q, err := settingsParams.query()
			if err != nil {
				return err
			}
			records, err := readRecords(args[0])
			if err != nil {
				return err
			}

			resolver := settings.NewResolver(records.Settings, q.Start, q.End, settings.WithLogger(logger))
			return printJSON(cmd.OutOrStdout(), struct {
				Intervals []settings.Interval                   `json:"intervals"`
				Schedules map[string][]settings.ScheduleSegment `json:"schedules"`
			}{
				Intervals: resolver.Intervals(),
				Schedules: resolver.AllSchedules(q.Start, q.End),
			})
		})
	},
}

func init() {
	settingsParams.register(settingsCmd, false)

	rootCmd.AddCommand(settingsCmd)
}
