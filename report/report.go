package report

import (
	"fmt"
	"time"

	"github.com/tidepool-org/tideline/basal"
	"github.com/tidepool-org/tideline/errors"
	"github.com/tidepool-org/tideline/settings"
)

var (
	ErrInvalidRange = fmt.Errorf("%w: start must be before end", errors.BadRequest)
	ErrNoData       = fmt.Errorf("basal data %w", errors.NotFound)
)

// Query selects the data of a user that a total or a report covers
type Query struct {
	UserId             string
	Start              time.Time
	End                time.Time
	MidnightToMidnight bool
	Excluded           []time.Time
}

func (q Query) Validate() error {
	if q.UserId == "" || !q.Start.Before(q.End) {
		return ErrInvalidRange
	}
	return nil
}

// Report is the basal delivery of a user over a window together with the settings in effect
type Report struct {
	UserId      string                                `json:"userId"`
	Start       time.Time                             `json:"start"`
	End         time.Time                             `json:"end"`
	CreatedTime time.Time                             `json:"createdTime"`
	Total       basal.TotalResult                     `json:"total"`
	Days        []basal.DayTotal                      `json:"days"`
	Actual      []basal.Segment                       `json:"actual"`
	Undelivered []basal.Segment                       `json:"undelivered"`
	Warnings    []basal.Warning                       `json:"warnings,omitempty"`
	Settings    []settings.Interval                   `json:"settings"`
	Schedules   map[string][]settings.ScheduleSegment `json:"schedules"`
}

// Build computes a report from already loaded data. Basal segments are reconciled and settings intervals
// are resolved over [dataStart, dataEnd].
func Build(q Query, segments []basal.Segment, snapshots []settings.Snapshot, dataStart, dataEnd time.Time, opts Options) *Report {
	util := basal.NewUtil(segments, basal.WithLogger(opts.Logger))
	resolver := settings.NewResolver(snapshots, dataStart, dataEnd, settings.WithLogger(opts.Logger))
	return newReport(q, util, resolver, opts)
}

func newReport(q Query, util *basal.Util, resolver *settings.Resolver, opts Options) *Report {
	result := window(util.Result(), q.Start, q.End)
	return &Report{
		UserId:      q.UserId,
		Start:       q.Start,
		End:         q.End,
		CreatedTime: time.Now().UTC(),
		Total:       util.TotalBasal(q.Start, q.End, opts.totalOptions(q)),
		Days:        util.DailyTotals(q.Start, q.End),
		Actual:      result.Actual,
		Undelivered: result.Undelivered,
		Warnings:    result.Warnings,
		Settings:    resolver.IntervalsIn(q.Start, q.End),
		Schedules:   settings.AnnotateBasalSettings(resolver.AllSchedules(q.Start, q.End), result.Actual),
	}
}

// window restricts a reconciled result to the segments and warnings intersecting [start, end)
func window(result basal.Result, start, end time.Time) basal.Result {
	clip := func(segments []basal.Segment) []basal.Segment {
		clipped := make([]basal.Segment, 0, len(segments))
		for _, s := range segments {
			if s.Overlaps(start, end) {
				clipped = append(clipped, s.Clip(start, end))
			}
		}
		return clipped
	}

	var warnings []basal.Warning
	for _, w := range result.Warnings {
		if w.Start.Before(end) && !w.End.Before(start) {
			warnings = append(warnings, w)
		}
	}
	return basal.Result{
		Actual:      clip(result.Actual),
		Undelivered: clip(result.Undelivered),
		Warnings:    warnings,
	}
}
