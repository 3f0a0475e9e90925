package test

import (
	"time"

	"github.com/tidepool-org/tideline/settings"
	"github.com/tidepool-org/tideline/test"
)

func RandomSnapshot(normalTime time.Time) settings.Snapshot {
	name := test.Faker.RandomStringElement([]string{"Standard", "Weekend", "Pattern A", "Sick Day"})
	return settings.Snapshot{
		Id:         test.Faker.UUID().V4(),
		NormalTime: normalTime,
		Payload: map[string]interface{}{
			"type":                settings.TypePumpSettings,
			"activeBasalSchedule": name,
			"basalSchedules": []interface{}{
				map[string]interface{}{
					"name":  name,
					"value": RandomScheduleEntries(),
				},
			},
		},
	}
}

// RandomSnapshots returns count snapshots recorded at random instants within [start, end]
func RandomSnapshots(count int, start, end time.Time) []settings.Snapshot {
	snapshots := make([]settings.Snapshot, 0, count)
	span := int(end.Sub(start).Minutes())
	for i := 0; i < count; i++ {
		offset := time.Duration(test.Faker.IntBetween(0, span)) * time.Minute
		snapshots = append(snapshots, RandomSnapshot(start.Add(offset)))
	}
	return snapshots
}

func RandomScheduleEntries() []interface{} {
	count := test.Faker.IntBetween(1, 6)
	entries := make([]interface{}, 0, count)
	for i := 0; i < count; i++ {
		entries = append(entries, map[string]interface{}{
			"start": float64(i * 4 * 3600000),
			"rate":  float64(test.Faker.IntBetween(5, 30)) / 10,
		})
	}
	return entries
}
