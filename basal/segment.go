package basal

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	TypeBasalRateSegment = "basal-rate-segment"
)

type DeliveryType string

const (
	DeliveryTypeScheduled DeliveryType = "scheduled"
	DeliveryTypeTemp      DeliveryType = "temp"
	DeliveryTypeSuspend   DeliveryType = "suspend"
	DeliveryTypeAutomated DeliveryType = "automated"
)

// IsOverride is true for delivery that replaces the programmed (scheduled or automated) rate
func (d DeliveryType) IsOverride() bool {
	return d == DeliveryTypeTemp || d == DeliveryTypeSuspend
}

type VizType string

const (
	VizTypeActual      VizType = "actual"
	VizTypeUndelivered VizType = "undelivered"
)

type PathGroupType string

const (
	PathGroupTypeAutomated PathGroupType = "automated"
	PathGroupTypeManual    PathGroupType = "manual"
)

type Suppressed struct {
	DeliveryType DeliveryType `json:"deliveryType" bson:"deliveryType"`
	Rate         *float64     `json:"rate,omitempty" bson:"rate,omitempty"`
}

// Segment is a half-open interval [Start, End) of basal delivery at Rate units per hour
type Segment struct {
	Id           string       `json:"id,omitempty" bson:"id,omitempty"`
	Type         string       `json:"type,omitempty" bson:"type,omitempty"`
	DeliveryType DeliveryType `json:"deliveryType" bson:"deliveryType"`
	Start        time.Time    `json:"start" bson:"start"`
	End          time.Time    `json:"end" bson:"end"`
	Rate         float64      `json:"rate" bson:"rate"`
	Suppressed   *Suppressed  `json:"suppressed,omitempty" bson:"suppressed,omitempty"`
	VizType      VizType      `json:"vizType,omitempty" bson:"vizType,omitempty"`
}

func (s Segment) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

func (s Segment) Dose() float64 {
	return SegmentDose(s.Duration(), s.Rate)
}

// Overlaps reports whether the segment shares a non-empty interval with [start, end)
func (s Segment) Overlaps(start, end time.Time) bool {
	return s.Start.Before(end) && s.End.After(start)
}

// Clip returns a copy of the segment restricted to [start, end)
func (s Segment) Clip(start, end time.Time) Segment {
	clipped := s
	if clipped.Start.Before(start) {
		clipped.Start = start
	}
	if clipped.End.After(end) {
		clipped.End = end
	}
	return clipped
}

func (s Segment) String() string {
	return fmt.Sprintf("%s %s [%s, %s) %.3f U/hr", s.Id, s.DeliveryType, s.Start.Format(time.RFC3339), s.End.Format(time.RFC3339), s.Rate)
}

var segmentNamespace = uuid.MustParse("8d7e2b9c-4f0a-4d0e-9a57-7b8c31f6a2d1")

// segmentId derives a stable identifier for segments that were uploaded without one
func segmentId(s Segment, position int) string {
	key := fmt.Sprintf("%d|%s|%d|%d|%g", position, s.DeliveryType, s.Start.UnixMilli(), s.End.UnixMilli(), s.Rate)
	return uuid.NewSHA1(segmentNamespace, []byte(key)).String()
}

func PathGroupTypeOf(s Segment) PathGroupType {
	deliveryType := s.DeliveryType
	if deliveryType == DeliveryTypeSuspend && s.Suppressed != nil {
		deliveryType = s.Suppressed.DeliveryType
	}
	if deliveryType == DeliveryTypeAutomated {
		return PathGroupTypeAutomated
	}
	return PathGroupTypeManual
}

// PathGroups splits segments into runs of consecutive segments sharing a path group type
func PathGroups(segments []Segment) [][]Segment {
	var groups [][]Segment
	var current []Segment
	for i, s := range segments {
		if i > 0 && PathGroupTypeOf(s) != PathGroupTypeOf(segments[i-1]) {
			groups = append(groups, current)
			current = nil
		}
		current = append(current, s)
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups
}
