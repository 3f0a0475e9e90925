package settings

import (
	"time"

	"go.uber.org/zap"

	"github.com/tidepool-org/tideline/datetime"
)

type Confidence string

const (
	ConfidenceUncertain Confidence = "uncertain"
	ConfidenceNormal    Confidence = "normal"
)

// Interval is the period [Start, End) during which Settings were in effect. Confidence is uncertain when
// the start of the interval is assumed rather than anchored by a recorded snapshot.
type Interval struct {
	Start      time.Time  `json:"start"`
	End        time.Time  `json:"end"`
	Settings   Snapshot   `json:"settings"`
	Confidence Confidence `json:"confidence,omitempty"`
}

type Option func(*Resolver)

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Resolver resolves which settings snapshot was in effect at every instant of [start, end], usually the
// span of the available diabetes data
type Resolver struct {
	start     time.Time
	end       time.Time
	snapshots []Snapshot
	intervals []Interval
	logger    *zap.SugaredLogger
}

func NewResolver(snapshots []Snapshot, start, end time.Time, opts ...Option) *Resolver {
	r := &Resolver{
		start:     start.UTC(),
		end:       end.UTC(),
		snapshots: sortByNormalTime(snapshots),
		logger:    zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.intervals = resolve(r.snapshots, r.start, r.end)
	if r.intervals == nil {
		r.logger.Debugw("no settings intervals resolved", "start", r.start, "end", r.end, "snapshots", len(r.snapshots))
	}
	return r
}

// Intervals returns the contiguous intervals covering the resolver range, or nil when there are no
// snapshots or the range is empty
func (r *Resolver) Intervals() []Interval {
	if r.intervals == nil {
		return nil
	}
	intervals := make([]Interval, 0, len(r.intervals))
	for _, iv := range r.intervals {
		iv.Settings = iv.Settings.clone()
		intervals = append(intervals, iv)
	}
	return intervals
}

func resolve(snapshots []Snapshot, start, end time.Time) []Interval {
	if len(snapshots) == 0 || !start.Before(end) {
		return nil
	}

	var prior *Snapshot
	var inRange []Snapshot
	var after *Snapshot
	for i := range snapshots {
		s := snapshots[i]
		switch {
		case s.NormalTime.Before(start):
			prior = &snapshots[i]
		case datetime.InRange(s.NormalTime, start, end):
			inRange = append(inRange, s)
		case after == nil:
			after = &snapshots[i]
		}
	}

	// Settings before the first in-range snapshot are assumed, so the first interval is uncertain unless a
	// snapshot was recorded exactly at start
	if len(inRange) == 0 {
		assumed := after
		if prior != nil {
			assumed = prior
		}
		return []Interval{newInterval(start, end, *assumed, ConfidenceUncertain)}
	}

	// Settings recorded only at the very end of the range are the only ones known for it
	if inRange[0].NormalTime.Equal(end) {
		return []Interval{newInterval(start, end, inRange[len(inRange)-1], "")}
	}

	assumed := inRange[0]
	if prior != nil {
		assumed = *prior
	}
	intervals := appendInterval(nil, newInterval(start, inRange[0].NormalTime, assumed, ConfidenceUncertain))
	for i, s := range inRange {
		intervalEnd := end
		if i+1 < len(inRange) {
			intervalEnd = inRange[i+1].NormalTime
		}
		intervals = appendInterval(intervals, newInterval(s.NormalTime, intervalEnd, s, ""))
	}
	return intervals
}

func newInterval(start, end time.Time, snapshot Snapshot, confidence Confidence) Interval {
	return Interval{
		Start:      start,
		End:        end,
		Settings:   snapshot.clone(),
		Confidence: confidence,
	}
}

func appendInterval(intervals []Interval, iv Interval) []Interval {
	if !iv.Start.Before(iv.End) {
		return intervals
	}
	return append(intervals, iv)
}

// IntervalsIn clips the resolved intervals to [start, end]. A zero length query returns the interval in
// effect at that instant with zero length. Nil is returned when no interval intersects the query.
func (r *Resolver) IntervalsIn(start, end time.Time) []Interval {
	start, end = start.UTC(), end.UTC()
	if end.Before(start) || len(r.intervals) == 0 {
		return nil
	}

	if start.Equal(end) {
		for i, iv := range r.intervals {
			last := i == len(r.intervals)-1
			if !start.Before(iv.Start) && (start.Before(iv.End) || (last && start.Equal(iv.End))) {
				return []Interval{newInterval(start, end, iv.Settings, iv.Confidence)}
			}
		}
		return nil
	}

	var intervals []Interval
	for _, iv := range r.intervals {
		if !iv.Start.Before(end) || !iv.End.After(start) {
			continue
		}
		clipped := newInterval(iv.Start, iv.End, iv.Settings, iv.Confidence)
		if clipped.Start.Before(start) {
			clipped.Start = start
		}
		if clipped.End.After(end) {
			clipped.End = end
		}
		intervals = append(intervals, clipped)
	}
	return intervals
}
