package basal

import (
	"math"
	"sort"
	"time"

	"github.com/tidepool-org/tideline/datetime"
	"github.com/tidepool-org/tideline/format"
)

// ScheduleEntry is one rate of a daily basal schedule, starting Start ms after midnight
type ScheduleEntry struct {
	Start int64   `json:"start" bson:"start" mapstructure:"start"`
	Rate  float64 `json:"rate" bson:"rate" mapstructure:"rate"`
}

// SegmentDose returns the units delivered at rate U/hr over duration
func SegmentDose(duration time.Duration, rate float64) float64 {
	ms := float64(duration) / float64(time.Millisecond)
	return rate * ms / datetime.MsInHour
}

// ScheduleTotal returns the units a daily schedule delivers over 24 hours.
// An empty schedule returns NaN.
func ScheduleTotal(schedule []ScheduleEntry) float64 {
	if len(schedule) == 0 {
		return math.NaN()
	}

	entries := make([]ScheduleEntry, len(schedule))
	copy(entries, schedule)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Start < entries[j].Start
	})

	total := 0.0
	for i, entry := range entries {
		end := int64(datetime.MsInDay)
		if i < len(entries)-1 {
			end = entries[i+1].Start
		}
		total += SegmentDose(time.Duration(end-entry.Start)*time.Millisecond, entry.Rate)
	}
	return format.FixFloatingPoint(total)
}
