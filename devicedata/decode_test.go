package devicedata_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tidepool-org/tideline/basal"
	"github.com/tidepool-org/tideline/devicedata"
	"github.com/tidepool-org/tideline/settings"
)

var _ = Describe("Decode", func() {
	start := time.Date(2014, time.March, 1, 6, 0, 0, 0, time.UTC)

	Describe("DecodeBasal", func() {
		It("decodes iso timestamps", func() {
			segment, err := devicedata.DecodeBasal(map[string]interface{}{
				"id":           "abc",
				"type":         "basal-rate-segment",
				"deliveryType": "temp",
				"start":        "2014-03-01T06:00:00.000Z",
				"end":          "2014-03-01T08:00:00.000Z",
				"rate":         0.35,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(segment).To(Equal(basal.Segment{
				Id:           "abc",
				Type:         basal.TypeBasalRateSegment,
				DeliveryType: basal.DeliveryTypeTemp,
				Start:        start,
				End:          start.Add(2 * time.Hour),
				Rate:         0.35,
			}))
		})

		It("decodes epoch milliseconds and a duration", func() {
			segment, err := devicedata.DecodeBasal(map[string]interface{}{
				"type":         "basal",
				"deliveryType": "scheduled",
				"normalTime":   float64(start.UnixMilli()),
				"duration":     float64(time.Hour.Milliseconds()),
				"value":        1.25,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(segment.Start).To(Equal(start))
			Expect(segment.End).To(Equal(start.Add(time.Hour)))
			Expect(segment.Rate).To(Equal(1.25))
		})

		It("decodes bson documents", func() {
			segment, err := devicedata.DecodeBasal(bson.M{
				"_id":          primitive.NewObjectID(),
				"type":         "basal",
				"deliveryType": "suspend",
				"normalTime":   primitive.NewDateTimeFromTime(start),
				"normalEnd":    primitive.NewDateTimeFromTime(start.Add(30 * time.Minute)),
				"suppressed": bson.D{
					{Key: "deliveryType", Value: "automated"},
					{Key: "rate", Value: int32(1)},
				},
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(segment.Id).To(HaveLen(24))
			Expect(segment.DeliveryType).To(Equal(basal.DeliveryTypeSuspend))
			Expect(segment.Rate).To(Equal(0.0))
			Expect(segment.End).To(Equal(start.Add(30 * time.Minute)))
			Expect(segment.Suppressed).ToNot(BeNil())
			Expect(segment.Suppressed.DeliveryType).To(Equal(basal.DeliveryTypeAutomated))
			Expect(*segment.Suppressed.Rate).To(Equal(1.0))
		})

		It("returns an error without an end", func() {
			_, err := devicedata.DecodeBasal(map[string]interface{}{
				"type":         "basal",
				"deliveryType": "scheduled",
				"start":        "2014-03-01T06:00:00.000Z",
			})
			Expect(err).To(HaveOccurred())
		})

		It("returns an error for an invalid timestamp", func() {
			_, err := devicedata.DecodeBasal(map[string]interface{}{
				"type":         "basal",
				"deliveryType": "scheduled",
				"start":        "yesterday",
				"duration":     1000,
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("DecodeSettings", func() {
		It("keeps the whole record as the payload", func() {
			snapshot, err := devicedata.DecodeSettings(bson.M{
				"id":                  "settings-1",
				"type":                "pumpSettings",
				"normalTime":          primitive.NewDateTimeFromTime(start),
				"activeBasalSchedule": "Standard",
				"basalSchedules": bson.A{
					bson.M{"name": "Standard", "value": bson.A{bson.M{"start": int32(0), "rate": 0.8}}},
				},
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(snapshot.Id).To(Equal("settings-1"))
			Expect(snapshot.NormalTime).To(Equal(start))
			Expect(snapshot.Payload["normalTime"]).To(Equal(start))

			pumpSettings, err := snapshot.PumpSettings()
			Expect(err).ToNot(HaveOccurred())
			Expect(pumpSettings).To(Equal(settings.PumpSettings{
				ActiveBasalSchedule: "Standard",
				BasalSchedules: []settings.BasalSchedule{
					{Name: "Standard", Value: []basal.ScheduleEntry{{Start: 0, Rate: 0.8}}},
				},
			}))
		})

		It("returns an error without a time", func() {
			_, err := devicedata.DecodeSettings(map[string]interface{}{"type": "settings"})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Decode", func() {
		It("partitions records by type", func() {
			records, err := devicedata.Decode([]map[string]interface{}{
				{"type": "basal-rate-segment", "deliveryType": "scheduled", "start": "2014-03-01T00:00:00.000Z", "end": "2014-03-01T06:00:00.000Z", "rate": 1},
				{"type": "settings", "normalTime": "2014-03-01T00:00:00.000Z"},
				{"type": "cbg", "normalTime": "2014-03-01T00:00:00.000Z", "value": 120},
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(records.Basals).To(HaveLen(1))
			Expect(records.Settings).To(HaveLen(1))
			Expect(records.Skipped).To(Equal(1))
		})

		It("reports the position of an invalid record", func() {
			_, err := devicedata.Decode([]map[string]interface{}{
				{"type": "basal", "start": "2014-03-01T00:00:00.000Z", "end": "2014-03-01T06:00:00.000Z"},
			})
			Expect(err).To(MatchError(ContainSubstring("record 0")))
		})
	})
})
