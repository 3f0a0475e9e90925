package command

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tidepool-org/tideline/datetime"
	"github.com/tidepool-org/tideline/devicedata"
	"github.com/tidepool-org/tideline/report"
)

// windowFlags are the flags selecting the time window of a command
type windowFlags struct {
	UserId   string
	Start    string
	End      string
	Excluded []string
	Midnight bool
}

func (w *windowFlags) register(cmd *cobra.Command, withTotals bool) {
	cmd.Flags().StringVar(&w.Start, "start", "", "Start of the window (RFC3339)")
	cmd.Flags().StringVar(&w.End, "end", "", "End of the window (RFC3339)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	if withTotals {
		cmd.Flags().StringSliceVar(&w.Excluded, "excluded", nil, "UTC days to exclude from the total (RFC3339, repeatable)")
		cmd.Flags().BoolVar(&w.Midnight, "midnight", false, "Snap the window to UTC midnights")
	}
}

func (w *windowFlags) query() (report.Query, error) {
	q := report.Query{
		UserId:             w.UserId,
		MidnightToMidnight: w.Midnight,
	}

	var err error
	if q.Start, err = datetime.Parse(w.Start); err != nil {
		return report.Query{}, fmt.Errorf("invalid start: %w", err)
	}
	if q.End, err = datetime.Parse(w.End); err != nil {
		return report.Query{}, fmt.Errorf("invalid end: %w", err)
	}
	for _, e := range w.Excluded {
		day, err := datetime.Parse(e)
		if err != nil {
			return report.Query{}, fmt.Errorf("invalid excluded day: %w", err)
		}
		q.Excluded = append(q.Excluded, day)
	}

	return q, nil
}

// readRecords decodes a JSON array of normalized device records
func readRecords(path string) (devicedata.Records, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return devicedata.Records{}, fmt.Errorf("unable to read %s: %w", path, err)
	}

	var docs []map[string]interface{}
	if err := json.Unmarshal(raw, &docs); err != nil {
		return devicedata.Records{}, fmt.Errorf("unable to parse %s: %w", path, err)
	}

	return devicedata.Decode(docs)
}

// dataRange returns the extent of the records, falling back to the window when there is no basal data
func dataRange(records devicedata.Records, q report.Query) (time.Time, time.Time) {
	if len(records.Basals) == 0 {
		return q.Start, q.End
	}

	first, last := records.Basals[0].Start, records.Basals[0].End
	for _, s := range records.Basals[1:] {
		first = datetime.Min(first, s.Start)
		last = datetime.Max(last, s.End)
	}
	return first, last
}

func printJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
