package test

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/tidepool-org/tideline/basal"
	"github.com/tidepool-org/tideline/settings"
	"github.com/tidepool-org/tideline/test"
)

// RandomBasalDocuments returns scheduled basal documents for userId covering days full days from start
// in the shape stored in the device data collection
func RandomBasalDocuments(userId string, start time.Time, days int) []interface{} {
	var documents []interface{}
	for cursor := start; cursor.Before(start.AddDate(0, 0, days)); {
		duration := time.Duration(test.Faker.IntBetween(1, 4)) * time.Hour
		documents = append(documents, bson.M{
			"_userId":      userId,
			"id":           test.Faker.UUID().V4(),
			"type":         basal.TypeBasalRateSegment,
			"deliveryType": string(basal.DeliveryTypeScheduled),
			"normalTime":   cursor,
			"normalEnd":    cursor.Add(duration),
			"rate":         float64(test.Faker.IntBetween(1, 20)) / 10,
		})
		cursor = cursor.Add(duration)
	}
	return documents
}

func RandomSettingsDocument(userId string, normalTime time.Time) bson.M {
	name := test.Faker.RandomStringElement([]string{"Standard", "Pattern A", "Pattern B"})
	return bson.M{
		"_userId":             userId,
		"id":                  test.Faker.UUID().V4(),
		"type":                settings.TypePumpSettings,
		"normalTime":          normalTime,
		"activeBasalSchedule": name,
		"basalSchedules": bson.A{
			bson.M{
				"name": name,
				"value": bson.A{
					bson.M{"start": int32(0), "rate": 0.8},
					bson.M{"start": int32(28800000), "rate": 1.1},
				},
			},
		},
	}
}
