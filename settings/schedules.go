package settings

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/mohae/deepcopy"

	"github.com/tidepool-org/tideline/basal"
	"github.com/tidepool-org/tideline/datetime"
	"github.com/tidepool-org/tideline/format"
)

const (
	TypeBasalSettingsSegment = "basal-settings-segment"

	// actualizationResolution is the resolution of pump basal schedules in minutes
	actualizationResolution = 30
)

// ScheduleSegment is one programmed rate of a named basal schedule expanded onto the timeline
type ScheduleSegment struct {
	Id         string     `json:"id"`
	Type       string     `json:"type"`
	Schedule   string     `json:"schedule"`
	Start      time.Time  `json:"start"`
	End        time.Time  `json:"end"`
	Rate       float64    `json:"rate"`
	Active     bool       `json:"active"`
	Confidence Confidence `json:"confidence"`
	Actualized bool       `json:"actualized,omitempty"`
}

// AllSchedules expands every basal schedule of every settings interval within [start, end] into
// contiguous segments, keyed by schedule name. Schedules without entries are skipped.
func (r *Resolver) AllSchedules(start, end time.Time) map[string][]ScheduleSegment {
	bySchedule := map[string][]ScheduleSegment{}
	for _, iv := range r.IntervalsIn(start, end) {
		pumpSettings, err := iv.Settings.PumpSettings()
		if err != nil {
			r.logger.Warnw("skipping settings without valid basal schedules", "id", iv.Settings.Id, "normalTime", iv.Settings.NormalTime, "error", err)
			continue
		}
		confidence := iv.Confidence
		if confidence == "" {
			confidence = ConfidenceNormal
		}
		for _, schedule := range pumpSettings.BasalSchedules {
			if len(schedule.Value) == 0 {
				continue
			}
			entries := validEntries(schedule.Value)
			if len(entries) < len(schedule.Value) {
				r.logger.Warnw("skipping basal schedule entries outside of the day", "id", iv.Settings.Id, "schedule", schedule.Name, "skipped", len(schedule.Value)-len(entries))
			}
			if len(entries) == 0 {
				continue
			}
			schedule.Value = entries
			segments := expandSchedule(schedule, iv.Start, iv.End, schedule.Name == pumpSettings.ActiveBasalSchedule, confidence)
			bySchedule[schedule.Name] = append(bySchedule[schedule.Name], segments...)
		}
	}
	return bySchedule
}

// validEntries returns the entries starting within [0, MsInDay)
func validEntries(entries []basal.ScheduleEntry) []basal.ScheduleEntry {
	valid := make([]basal.ScheduleEntry, 0, len(entries))
	for _, e := range entries {
		if e.Start >= 0 && e.Start < datetime.MsInDay {
			valid = append(valid, e)
		}
	}
	return valid
}

// expandSchedule expects entries within [0, MsInDay) and stops when the schedule can not advance
func expandSchedule(schedule BasalSchedule, start, end time.Time, active bool, confidence Confidence) []ScheduleSegment {
	entries := make([]basal.ScheduleEntry, len(schedule.Value))
	copy(entries, schedule.Value)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Start < entries[j].Start
	})

	var segments []ScheduleSegment
	for cursor := start; ; {
		midnight := datetime.Midnight(cursor)
		ms := datetime.MsFromMidnight(cursor)

		// Before the first entry of the day the last entry of the previous day is still in effect
		index := len(entries) - 1
		next := datetime.ComposeMsAndDate(entries[0].Start, midnight)
		for i := range entries {
			if entries[i].Start > ms {
				break
			}
			index = i
			if i+1 < len(entries) {
				next = datetime.ComposeMsAndDate(entries[i+1].Start, midnight)
			} else {
				next = datetime.ComposeMsAndDate(entries[0].Start, midnight.AddDate(0, 0, 1))
			}
		}

		segmentEnd := next
		if start.Before(end) && segmentEnd.After(end) {
			segmentEnd = end
		}
		if start.Before(end) && !segmentEnd.After(cursor) {
			return segments
		}
		segments = append(segments, ScheduleSegment{
			Id:         scheduleSegmentId(schedule.Name, cursor),
			Type:       TypeBasalSettingsSegment,
			Schedule:   schedule.Name,
			Start:      cursor,
			End:        segmentEnd,
			Rate:       entries[index].Rate,
			Active:     active,
			Confidence: confidence,
		})

		cursor = segmentEnd
		if !cursor.Before(end) {
			return segments
		}
	}
}

func scheduleSegmentId(name string, start time.Time) string {
	timestamp := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, datetime.Format(start))
	return strings.ReplaceAll(name, " ", "_") + "_" + timestamp
}

// AnnotateBasalSettings returns a copy of the expanded schedules in which every segment matching an actual
// delivery segment over the same interval at the same rate is flagged as actualized. Actual segments are
// split at midnight and their bounds rounded to the schedule resolution before matching.
func AnnotateBasalSettings(bySchedule map[string][]ScheduleSegment, actual []basal.Segment) map[string][]ScheduleSegment {
	type interval struct {
		start, end int64
	}

	actualByInterval := map[interval]basal.Segment{}
	for _, a := range splitAtMidnight(actual) {
		key := interval{
			start: datetime.RoundToNearestMinutes(a.Start, actualizationResolution).UnixMilli(),
			end:   datetime.RoundToNearestMinutes(a.End, actualizationResolution).UnixMilli(),
		}
		actualByInterval[key] = a
	}

	annotated := deepcopy.Copy(bySchedule).(map[string][]ScheduleSegment)
	for _, segments := range annotated {
		for i := range segments {
			matched, ok := actualByInterval[interval{start: segments[i].Start.UnixMilli(), end: segments[i].End.UnixMilli()}]
			if ok && format.FixFloatingPoint(matched.Rate) == format.FixFloatingPoint(segments[i].Rate) {
				segments[i].Actualized = true
			}
		}
	}
	return annotated
}

func splitAtMidnight(segments []basal.Segment) []basal.Segment {
	var split []basal.Segment
	for _, s := range segments {
		for datetime.IsSegmentAcrossMidnight(s.Start, s.End) {
			midnight := datetime.NextMidnight(s.Start)
			first := s
			first.End = midnight
			split = append(split, first)
			s.Start = midnight
		}
		split = append(split, s)
	}
	return split
}
