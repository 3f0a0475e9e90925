package basal

import (
	"encoding/json"
	"math"
	"time"
)

// MarshalJSON encodes an unavailable total as null so it stays distinct from zero
func (r TotalResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Total    *float64    `json:"total"`
		Excluded []time.Time `json:"excluded"`
	}{
		Total:    nullable(r.Total),
		Excluded: r.Excluded,
	})
}

func (d DayTotal) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Day   time.Time `json:"day"`
		Total *float64  `json:"total"`
	}{
		Day:   d.Day,
		Total: nullable(d.Total),
	})
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
