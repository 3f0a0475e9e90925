package basal_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tidepool-org/tideline/basal"
)

var _ = Describe("Dose", func() {
	Describe("SegmentDose", func() {
		It("returns zero for an empty duration", func() {
			Expect(basal.SegmentDose(0, 1.0)).To(Equal(0.0))
		})

		It("returns the rate for one hour", func() {
			Expect(basal.SegmentDose(time.Hour, 1.0)).To(Equal(1.0))
		})

		It("scales with the duration", func() {
			Expect(basal.SegmentDose(90*time.Minute, 0.8)).To(BeNumerically("~", 1.2, 1e-9))
		})
	})

	Describe("ScheduleTotal", func() {
		It("returns NaN for an empty schedule", func() {
			Expect(math.IsNaN(basal.ScheduleTotal(nil))).To(BeTrue())
		})

		It("integrates a flat schedule", func() {
			Expect(basal.ScheduleTotal([]basal.ScheduleEntry{{Start: 0, Rate: 1.0}})).To(Equal(24.0))
		})

		It("integrates each entry until the next one and the last until midnight", func() {
			schedule := []basal.ScheduleEntry{
				{Start: 0, Rate: 0.2},
				{Start: 3600000, Rate: 0.45},
				{Start: 21600000, Rate: 0.5},
				{Start: 43200000, Rate: 0.45},
				{Start: 64800000, Rate: 0.5},
			}
			// 0.2 + 5*0.45 + 6*0.5 + 6*0.45 + 6*0.5
			Expect(basal.ScheduleTotal(schedule)).To(Equal(11.15))
		})

		It("does not depend on the order of the entries", func() {
			schedule := []basal.ScheduleEntry{
				{Start: 43200000, Rate: 2.0},
				{Start: 0, Rate: 1.0},
			}
			Expect(basal.ScheduleTotal(schedule)).To(Equal(36.0))
			Expect(schedule[0].Start).To(Equal(int64(43200000)))
		})
	})
})
