package settings

import (
	"fmt"
	"sort"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/mohae/deepcopy"

	"github.com/tidepool-org/tideline/basal"
)

const TypePumpSettings = "pumpSettings"

// Snapshot is the configuration of a device recorded at NormalTime. The payload is opaque to interval
// resolution and is only decoded when schedules are expanded.
type Snapshot struct {
	Id         string                 `json:"id,omitempty" bson:"id,omitempty"`
	NormalTime time.Time              `json:"normalTime" bson:"normalTime"`
	Payload    map[string]interface{} `json:"payload,omitempty" bson:"payload,omitempty"`
}

type BasalSchedule struct {
	Name  string                `json:"name" mapstructure:"name"`
	Value []basal.ScheduleEntry `json:"value" mapstructure:"value"`
}

type PumpSettings struct {
	ActiveBasalSchedule string          `json:"activeBasalSchedule" mapstructure:"activeBasalSchedule"`
	BasalSchedules      []BasalSchedule `json:"basalSchedules" mapstructure:"basalSchedules"`
}

// PumpSettings decodes the basal schedules from the payload. Schedules may be uploaded either as a
// list of named schedules or as an object keyed by schedule name.
func (s Snapshot) PumpSettings() (PumpSettings, error) {
	result := PumpSettings{}
	payload := map[string]interface{}{}
	for k, v := range s.Payload {
		payload[k] = v
	}
	if _, ok := payload["activeBasalSchedule"]; !ok {
		payload["activeBasalSchedule"] = payload["activeSchedule"]
	}
	if byName, ok := payload["basalSchedules"].(map[string]interface{}); ok {
		payload["basalSchedules"] = schedulesFromObject(byName)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &result,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return result, err
	}
	if err := decoder.Decode(payload); err != nil {
		return result, fmt.Errorf("unable to decode pump settings %s: %w", s.Id, err)
	}
	return result, nil
}

func schedulesFromObject(byName map[string]interface{}) []interface{} {
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	schedules := make([]interface{}, 0, len(names))
	for _, name := range names {
		schedules = append(schedules, map[string]interface{}{
			"name":  name,
			"value": byName[name],
		})
	}
	return schedules
}

func (s Snapshot) clone() Snapshot {
	cloned := s
	if s.Payload != nil {
		cloned.Payload = deepcopy.Copy(s.Payload).(map[string]interface{})
	}
	return cloned
}

func sortByNormalTime(snapshots []Snapshot) []Snapshot {
	sorted := make([]Snapshot, len(snapshots))
	copy(sorted, snapshots)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].NormalTime.Before(sorted[j].NormalTime)
	})
	return sorted
}
