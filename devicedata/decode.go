package devicedata

import (
	"fmt"
	"reflect"
	"slices"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tidepool-org/tideline/basal"
	"github.com/tidepool-org/tideline/datetime"
	"github.com/tidepool-org/tideline/settings"
)

const (
	TypeBasal    = "basal"
	TypeSettings = "settings"
)

var (
	BasalTypes    = []string{TypeBasal, basal.TypeBasalRateSegment}
	SettingsTypes = []string{settings.TypePumpSettings, TypeSettings}
	DiabetesTypes = []string{TypeBasal, basal.TypeBasalRateSegment, "bolus", "cbg", "smbg", "wizard"}
)

// Records is a batch of device data partitioned by the types the engines consume
type Records struct {
	Basals   []basal.Segment     `json:"basals"`
	Settings []settings.Snapshot `json:"settings"`
	Skipped  int                 `json:"skipped"`
}

type suppressedRecord struct {
	DeliveryType string   `mapstructure:"deliveryType"`
	Rate         *float64 `mapstructure:"rate"`
}

type basalRecord struct {
	Id           string            `mapstructure:"id"`
	ObjectId     string            `mapstructure:"_id"`
	Type         string            `mapstructure:"type"`
	DeliveryType string            `mapstructure:"deliveryType"`
	Start        *time.Time        `mapstructure:"start"`
	NormalTime   *time.Time        `mapstructure:"normalTime"`
	Time         *time.Time        `mapstructure:"time"`
	End          *time.Time        `mapstructure:"end"`
	NormalEnd    *time.Time        `mapstructure:"normalEnd"`
	Duration     *float64          `mapstructure:"duration"`
	Rate         *float64          `mapstructure:"rate"`
	Value        *float64          `mapstructure:"value"`
	Suppressed   *suppressedRecord `mapstructure:"suppressed"`
}

type settingsRecord struct {
	Id         string     `mapstructure:"id"`
	ObjectId   string     `mapstructure:"_id"`
	NormalTime *time.Time `mapstructure:"normalTime"`
	Time       *time.Time `mapstructure:"time"`
}

// Decode partitions normalized records by type. Records of other types are counted as skipped.
func Decode(records []map[string]interface{}) (Records, error) {
	result := Records{
		Basals:   []basal.Segment{},
		Settings: []settings.Snapshot{},
	}
	for i, record := range records {
		t, _ := record["type"].(string)
		switch {
		case slices.Contains(BasalTypes, t):
			segment, err := DecodeBasal(record)
			if err != nil {
				return result, fmt.Errorf("record %d: %w", i, err)
			}
			result.Basals = append(result.Basals, segment)
		case slices.Contains(SettingsTypes, t):
			snapshot, err := DecodeSettings(record)
			if err != nil {
				return result, fmt.Errorf("record %d: %w", i, err)
			}
			result.Settings = append(result.Settings, snapshot)
		default:
			result.Skipped++
		}
	}
	return result, nil
}

// DecodeBasal converts a normalized basal record into a segment. The end of the segment is taken from
// end or normalEnd, or computed from the duration in milliseconds.
func DecodeBasal(record map[string]interface{}) (basal.Segment, error) {
	r := basalRecord{}
	if err := decode(record, &r); err != nil {
		return basal.Segment{}, fmt.Errorf("unable to decode basal: %w", err)
	}

	start := firstTime(r.Start, r.NormalTime, r.Time)
	if start == nil {
		return basal.Segment{}, fmt.Errorf("basal %s has no start", r.id())
	}
	end := firstTime(r.End, r.NormalEnd)
	if end == nil && r.Duration != nil {
		e := start.Add(time.Duration(*r.Duration) * time.Millisecond)
		end = &e
	}
	if end == nil {
		return basal.Segment{}, fmt.Errorf("basal %s has no end", r.id())
	}
	if r.DeliveryType == "" {
		return basal.Segment{}, fmt.Errorf("basal %s has no delivery type", r.id())
	}

	segment := basal.Segment{
		Id:           r.id(),
		Type:         basal.TypeBasalRateSegment,
		DeliveryType: basal.DeliveryType(r.DeliveryType),
		Start:        start.UTC(),
		End:          end.UTC(),
	}
	if rate := firstFloat(r.Rate, r.Value); rate != nil {
		segment.Rate = *rate
	}
	if r.Suppressed != nil {
		segment.Suppressed = &basal.Suppressed{
			DeliveryType: basal.DeliveryType(r.Suppressed.DeliveryType),
			Rate:         r.Suppressed.Rate,
		}
	}
	return segment, nil
}

// DecodeSettings converts a normalized settings record into a snapshot carrying the whole record as its
// payload
func DecodeSettings(record map[string]interface{}) (settings.Snapshot, error) {
	r := settingsRecord{}
	if err := decode(record, &r); err != nil {
		return settings.Snapshot{}, fmt.Errorf("unable to decode settings: %w", err)
	}

	normalTime := firstTime(r.NormalTime, r.Time)
	if normalTime == nil {
		return settings.Snapshot{}, fmt.Errorf("settings %s has no normalTime", r.Id)
	}

	id := r.Id
	if id == "" {
		id = r.ObjectId
	}
	return settings.Snapshot{
		Id:         id,
		NormalTime: normalTime.UTC(),
		Payload:    normalize(record).(map[string]interface{}),
	}, nil
}

func (r basalRecord) id() string {
	if r.Id != "" {
		return r.Id
	}
	return r.ObjectId
}

func decode(record map[string]interface{}, result interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       timeHook,
		Result:           result,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(normalize(record))
}

// timeHook accepts ISO-8601 strings, epoch milliseconds and time values for time fields
func timeHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != reflect.TypeOf(time.Time{}) {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		return datetime.Parse(v)
	case time.Time:
		return v.UTC(), nil
	case float64:
		return datetime.FromMs(int64(v)), nil
	case int64:
		return datetime.FromMs(v), nil
	case int:
		return datetime.FromMs(int64(v)), nil
	}
	return data, nil
}

// normalize converts bson values read from the store into the plain values produced by encoding/json
func normalize(value interface{}) interface{} {
	switch v := value.(type) {
	case bson.M:
		return normalizeMap(v)
	case map[string]interface{}:
		return normalizeMap(v)
	case bson.D:
		m := make(map[string]interface{}, len(v))
		for _, e := range v {
			m[e.Key] = normalize(e.Value)
		}
		return m
	case bson.A:
		return normalizeSlice(v)
	case []interface{}:
		return normalizeSlice(v)
	case primitive.DateTime:
		return v.Time().UTC()
	case primitive.ObjectID:
		return v.Hex()
	case int32:
		return int64(v)
	}
	return value
}

func normalizeMap(m map[string]interface{}) map[string]interface{} {
	normalized := make(map[string]interface{}, len(m))
	for k, v := range m {
		normalized[k] = normalize(v)
	}
	return normalized
}

func normalizeSlice(s []interface{}) []interface{} {
	normalized := make([]interface{}, 0, len(s))
	for _, v := range s {
		normalized = append(normalized, normalize(v))
	}
	return normalized
}

func firstTime(times ...*time.Time) *time.Time {
	for _, t := range times {
		if t != nil {
			return t
		}
	}
	return nil
}

func firstFloat(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
