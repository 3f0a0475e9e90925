package basal

import (
	"slices"
	"sort"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/zap"
)

const (
	WarningOverlappingTempBasals      = "OverlappingTempBasals"
	WarningOverlappingScheduledBasals = "OverlappingScheduledBasals"
	WarningInvalidSegment             = "InvalidSegment"
)

// Warning is a non fatal data quality problem found while reconciling
type Warning struct {
	Kind    string    `json:"kind"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Matches []string  `json:"matches,omitempty"`
}

type Result struct {
	Actual      []Segment `json:"actual"`
	Undelivered []Segment `json:"undelivered"`
	Warnings    []Warning `json:"warnings,omitempty"`
}

type Option func(*options)

type options struct {
	logger *zap.SugaredLogger
}

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func newOptions(opts []Option) options {
	o := options{logger: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type candidate struct {
	segment  Segment
	position int
}

// Reconcile merges the programmed and override streams into the actual delivery timeline and the
// timeline of programmed delivery that was replaced by overrides.
//
// Every start and end of the input defines a boundary. Each interval between consecutive boundaries
// is delivered by the matching override if there is one, or else by the matching programmed segment.
// When several segments of the same kind match, the one that started last wins and a warning is recorded.
// Intervals matched by nothing are gaps and stay empty.
func Reconcile(segments []Segment, opts ...Option) Result {
	o := newOptions(opts)
	result := Result{
		Actual:      []Segment{},
		Undelivered: []Segment{},
	}

	candidates := make([]candidate, 0, len(segments))
	boundaries := mapset.NewThreadUnsafeSet[int64]()
	for i, s := range segments {
		s.Start = s.Start.UTC()
		s.End = s.End.UTC()
		if !s.Start.Before(s.End) {
			o.logger.Warnw("ignoring basal segment without a positive duration", "id", s.Id, "start", s.Start, "end", s.End)
			result.Warnings = append(result.Warnings, Warning{Kind: WarningInvalidSegment, Start: s.Start, End: s.End, Matches: []string{s.Id}})
			continue
		}
		if s.Id == "" {
			s.Id = segmentId(s, i)
		}
		candidates = append(candidates, candidate{segment: s, position: i})
		boundaries.Add(s.Start.UnixNano())
		boundaries.Add(s.End.UnixNano())
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].segment.Start.Before(candidates[j].segment.Start)
	})

	points := boundaries.ToSlice()
	slices.Sort(points)

	var active []candidate
	next := 0
	for i := 0; i+1 < len(points); i++ {
		lo, hi := time.Unix(0, points[i]).UTC(), time.Unix(0, points[i+1]).UTC()

		for next < len(candidates) && !candidates[next].segment.Start.After(lo) {
			active = append(active, candidates[next])
			next++
		}
		active = slices.DeleteFunc(active, func(c candidate) bool {
			return !c.segment.End.After(lo)
		})
		if len(active) == 0 {
			continue
		}

		override, overrides := latest(active, true)
		programmed, programmedCount := latest(active, false)
		if overrides > 1 {
			result.Warnings = appendWarning(result.Warnings, o.logger, WarningOverlappingTempBasals, lo, hi, active, true)
		}
		if programmedCount > 1 {
			result.Warnings = appendWarning(result.Warnings, o.logger, WarningOverlappingScheduledBasals, lo, hi, active, false)
		}

		if override != nil {
			result.Actual = appendPiece(result.Actual, override.segment.Clip(lo, hi), VizTypeActual)
			if programmed != nil {
				result.Undelivered = appendPiece(result.Undelivered, programmed.segment.Clip(lo, hi), VizTypeUndelivered)
			}
		} else if programmed != nil {
			result.Actual = appendPiece(result.Actual, programmed.segment.Clip(lo, hi), VizTypeActual)
		}
	}

	sortByStart(result.Actual)
	sortByStart(result.Undelivered)
	return result
}

// latest returns the matching candidate of the requested kind that started last (input order breaks ties)
// and the number of candidates of that kind
func latest(active []candidate, override bool) (*candidate, int) {
	var found *candidate
	count := 0
	for i := range active {
		c := &active[i]
		if c.segment.DeliveryType.IsOverride() != override {
			continue
		}
		count++
		if found == nil ||
			c.segment.Start.After(found.segment.Start) ||
			(c.segment.Start.Equal(found.segment.Start) && c.position > found.position) {
			found = c
		}
	}
	return found, count
}

// appendPiece squashes pieces of the same source segment back together
func appendPiece(stream []Segment, piece Segment, vizType VizType) []Segment {
	piece.VizType = vizType
	if n := len(stream); n > 0 {
		last := &stream[n-1]
		if last.Id == piece.Id && last.End.Equal(piece.Start) {
			last.End = piece.End
			return stream
		}
	}
	return append(stream, piece)
}

func appendWarning(warnings []Warning, logger *zap.SugaredLogger, kind string, start, end time.Time, active []candidate, override bool) []Warning {
	var ids []string
	for _, c := range active {
		if c.segment.DeliveryType.IsOverride() == override {
			ids = append(ids, c.segment.Id)
		}
	}

	if n := len(warnings); n > 0 {
		last := &warnings[n-1]
		if last.Kind == kind && last.End.Equal(start) && slices.Equal(last.Matches, ids) {
			last.End = end
			return warnings
		}
	}

	logger.Warnw("overlapping basal segments", "kind", kind, "start", start, "end", end, "matches", ids)
	return append(warnings, Warning{Kind: kind, Start: start, End: end, Matches: ids})
}

func sortByStart(segments []Segment) {
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].Start.Before(segments[j].Start)
	})
}
