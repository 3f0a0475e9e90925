package basal

import (
	"math"
	"slices"
	"sort"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/zap"

	"github.com/tidepool-org/tideline/datetime"
	"github.com/tidepool-org/tideline/format"
)

const day = 24 * time.Hour

// Endpoint locates an instant in the actual stream. Index is -1 when no segment contains it.
type Endpoint struct {
	Datetime time.Time `json:"datetime"`
	Index    int       `json:"index"`
}

type Endpoints struct {
	Start Endpoint `json:"start"`
	End   Endpoint `json:"end"`
}

type TotalOptions struct {
	// ExclusionThreshold is the maximum number of days that may be excluded before the total
	// becomes NaN. Nil means no limit.
	ExclusionThreshold *int
	// MidnightToMidnight snaps the query to UTC day boundaries
	MidnightToMidnight bool
	// Excluded days are subtracted from the total regardless of data continuity
	Excluded []time.Time
}

type TotalResult struct {
	Total    float64     `json:"total"`
	Excluded []time.Time `json:"excluded"`
}

type DayTotal struct {
	Day   time.Time `json:"day"`
	Total float64   `json:"total"`
}

// Util integrates dose over a reconciled actual stream. It is immutable once constructed.
type Util struct {
	actual      []Segment
	undelivered []Segment
	warnings    []Warning
	logger      *zap.SugaredLogger
}

// NewUtil reconciles the given segments and returns an integrator over the actual stream
func NewUtil(segments []Segment, opts ...Option) *Util {
	o := newOptions(opts)
	result := Reconcile(segments, opts...)
	return &Util{
		actual:      result.Actual,
		undelivered: result.Undelivered,
		warnings:    result.Warnings,
		logger:      o.logger,
	}
}

// NewUtilFromActual wraps an already reconciled actual stream
func NewUtilFromActual(actual []Segment, opts ...Option) *Util {
	o := newOptions(opts)
	segments := slices.Clone(actual)
	sortByStart(segments)
	return &Util{
		actual:      segments,
		undelivered: []Segment{},
		logger:      o.logger,
	}
}

func (u *Util) Actual() []Segment {
	return slices.Clone(u.actual)
}

func (u *Util) Undelivered() []Segment {
	return slices.Clone(u.undelivered)
}

func (u *Util) Warnings() []Warning {
	return slices.Clone(u.warnings)
}

func (u *Util) Result() Result {
	return Result{
		Actual:      u.Actual(),
		Undelivered: u.Undelivered(),
		Warnings:    u.Warnings(),
	}
}

// Extent returns the start of the first and the end of the last actual segment
func (u *Util) Extent() (time.Time, time.Time, bool) {
	if len(u.actual) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return u.actual[0].Start, u.actual[len(u.actual)-1].End, true
}

// Without returns a new Util whose streams no longer contain the segments starting within any of
// the given UTC days. The receiver is left untouched.
func (u *Util) Without(days ...time.Time) *Util {
	excluded := func(s Segment) bool {
		for _, d := range days {
			if !s.Start.Before(d) && s.Start.Before(d.Add(day)) {
				return true
			}
		}
		return false
	}
	return &Util{
		actual:      slices.DeleteFunc(u.Actual(), excluded),
		undelivered: slices.DeleteFunc(u.Undelivered(), excluded),
		warnings:    u.Warnings(),
		logger:      u.logger,
	}
}

// Endpoints resolves the indexes of the segments containing start and end. A segment contains
// start when Start <= start < End and contains end when Start < end <= End. With optionalExtents a
// missing index falls back to the closest segment inside the window.
func (u *Util) Endpoints(start, end time.Time, optionalExtents bool) Endpoints {
	n := len(u.actual)
	startIndex := sort.Search(n, func(i int) bool { return u.actual[i].End.After(start) })
	if startIndex == n || u.actual[startIndex].Start.After(start) {
		if !optionalExtents || startIndex == n || !u.actual[startIndex].Start.Before(end) {
			startIndex = -1
		}
	}

	endIndex := sort.Search(n, func(i int) bool { return !u.actual[i].End.Before(end) })
	if endIndex == n || !u.actual[endIndex].Start.Before(end) {
		endIndex--
		if !optionalExtents || endIndex < 0 || !u.actual[endIndex].End.After(start) {
			endIndex = -1
		}
	}

	return Endpoints{
		Start: Endpoint{Datetime: start, Index: startIndex},
		End:   Endpoint{Datetime: end, Index: endIndex},
	}
}

// IsContinuous returns the endpoints of [start, end) when the actual stream covers the whole window
// without gaps
func (u *Util) IsContinuous(start, end time.Time) (Endpoints, bool) {
	endpoints := u.Endpoints(start, end, false)
	if endpoints.Start.Index < 0 || endpoints.End.Index < endpoints.Start.Index {
		return endpoints, false
	}
	for i := endpoints.Start.Index; i < endpoints.End.Index; i++ {
		if !u.actual[i].End.Equal(u.actual[i+1].Start) {
			return endpoints, false
		}
	}
	return endpoints, true
}

// Subtotal sums the dose between the endpoints, clipping the first and last segment to the
// requested instants
func (u *Util) Subtotal(endpoints Endpoints) float64 {
	return format.FixFloatingPoint(u.subtotal(endpoints))
}

func (u *Util) subtotal(endpoints Endpoints) float64 {
	si, ei := endpoints.Start.Index, endpoints.End.Index
	if si < 0 || ei < si || ei >= len(u.actual) {
		return math.NaN()
	}
	start, end := endpoints.Start.Datetime, endpoints.End.Datetime

	first := u.actual[si]
	dose := SegmentDose(datetime.Min(first.End, end).Sub(start), first.Rate)
	for i := si + 1; i < ei; i++ {
		dose += u.actual[i].Dose()
	}
	if ei != si {
		last := u.actual[ei]
		dose += SegmentDose(end.Sub(last.Start), last.Rate)
	}
	return dose
}

// TotalBasal integrates the delivered dose over [start, end) one day at a time. Days that are not
// continuously covered and days listed in opts.Excluded do not contribute and are reported in
// Excluded. The total is NaN when the window cannot be totalled: it is empty, it is shorter than the
// segment it falls in, a boundary lies outside the actual stream or in a gap, or more days were
// excluded than opts.ExclusionThreshold allows.
func (u *Util) TotalBasal(start, end time.Time, opts TotalOptions) TotalResult {
	start, end = start.UTC(), end.UTC()
	unavailable := TotalResult{Total: math.NaN(), Excluded: []time.Time{}}

	first, last, ok := u.Extent()
	if !ok {
		return unavailable
	}
	if opts.MidnightToMidnight {
		start = datetime.Max(datetime.Midnight(start), first)
		if !datetime.IsMidnight(end) {
			end = datetime.Min(datetime.NextMidnight(end), last)
		}
	}
	if !start.Before(end) || start.Before(first) || end.After(last) {
		return unavailable
	}

	endpoints := u.Endpoints(start, end, false)
	if endpoints.Start.Index < 0 || endpoints.End.Index < 0 {
		return unavailable
	}
	if endpoints.Start.Index == endpoints.End.Index {
		span := end.Sub(start)
		if span < u.actual[endpoints.Start.Index].Duration() && span < day {
			return unavailable
		}
	}

	forced := forcedDays(opts.Excluded, start, end)
	excluded := mapset.NewThreadUnsafeSet[int64]()
	for _, f := range forced {
		excluded.Add(f.UnixNano())
	}

	total := 0.0
	for chunkStart := start; chunkStart.Before(end); chunkStart = chunkStart.Add(day) {
		chunkEnd := datetime.Min(chunkStart.Add(day), end)
		chunk, ok := u.IsContinuous(chunkStart, chunkEnd)
		if !ok {
			excluded.Add(chunkStart.UnixNano())
			continue
		}
		subtotal := u.subtotal(chunk)
		for _, f := range forced {
			overlapStart, overlapEnd := datetime.Max(chunkStart, f), datetime.Min(chunkEnd, f.Add(day))
			if !overlapStart.Before(overlapEnd) {
				continue
			}
			if overlap, ok := u.IsContinuous(overlapStart, overlapEnd); ok {
				subtotal -= u.subtotal(overlap)
			}
		}
		total += subtotal
	}

	result := TotalResult{
		Total:    format.FixFloatingPoint(total),
		Excluded: toTimes(excluded),
	}
	if opts.ExclusionThreshold != nil && len(result.Excluded) > *opts.ExclusionThreshold {
		u.logger.Debugw("too many days excluded from basal total", "start", start, "end", end, "excluded", len(result.Excluded), "threshold", *opts.ExclusionThreshold)
		result.Total = math.NaN()
	}
	return result
}

// DailyTotals returns the delivered dose for each UTC day intersecting [start, end). Days that are
// not continuously covered are NaN.
func (u *Util) DailyTotals(start, end time.Time) []DayTotal {
	var totals []DayTotal
	for d := datetime.Midnight(start); d.Before(end); d = d.Add(day) {
		dayStart, dayEnd := datetime.Max(d, start), datetime.Min(d.Add(day), end)
		total := math.NaN()
		if endpoints, ok := u.IsContinuous(dayStart, dayEnd); ok {
			total = u.Subtotal(endpoints)
		}
		totals = append(totals, DayTotal{Day: d, Total: total})
	}
	return totals
}

func forcedDays(days []time.Time, start, end time.Time) []time.Time {
	seen := mapset.NewThreadUnsafeSet[int64]()
	var forced []time.Time
	for _, d := range days {
		d = d.UTC()
		if !d.Before(end) || !d.Add(day).After(start) {
			continue
		}
		if seen.Add(d.UnixNano()) {
			forced = append(forced, d)
		}
	}
	return forced
}

func toTimes(set mapset.Set[int64]) []time.Time {
	nanos := set.ToSlice()
	slices.Sort(nanos)
	times := make([]time.Time, 0, len(nanos))
	for _, n := range nanos {
		times = append(times, time.Unix(0, n).UTC())
	}
	return times
}
