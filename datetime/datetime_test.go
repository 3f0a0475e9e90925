package datetime_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tidepool-org/tideline/datetime"
)

var _ = Describe("Datetime", func() {
	Describe("Parse", func() {
		It("parses millisecond timestamps as UTC", func() {
			t, err := datetime.Parse("2014-03-06T09:00:00.000Z")
			Expect(err).ToNot(HaveOccurred())
			Expect(t).To(Equal(time.Date(2014, time.March, 6, 9, 0, 0, 0, time.UTC)))
		})

		It("converts offsets to UTC", func() {
			t, err := datetime.Parse("2014-03-06T01:00:00-08:00")
			Expect(err).ToNot(HaveOccurred())
			Expect(t.Location()).To(Equal(time.UTC))
			Expect(t.Hour()).To(Equal(9))
		})

		It("returns an error for garbage", func() {
			_, err := datetime.Parse("yesterday")
			Expect(err).To(HaveOccurred())
		})
	})

	It("formats with millisecond precision", func() {
		Expect(datetime.Format(time.Date(2014, time.March, 6, 9, 0, 0, 0, time.UTC))).To(Equal("2014-03-06T09:00:00.000Z"))
	})

	Describe("Midnight", func() {
		t := time.Date(2014, time.March, 6, 23, 59, 59, 999, time.UTC)

		It("returns the prior midnight", func() {
			Expect(datetime.Midnight(t)).To(Equal(time.Date(2014, time.March, 6, 0, 0, 0, 0, time.UTC)))
		})

		It("returns the next midnight", func() {
			Expect(datetime.NextMidnight(t)).To(Equal(time.Date(2014, time.March, 7, 0, 0, 0, 0, time.UTC)))
		})

		It("returns the following midnight when already at midnight", func() {
			m := datetime.Midnight(t)
			Expect(datetime.IsMidnight(m)).To(BeTrue())
			Expect(datetime.NextMidnight(m)).To(Equal(m.Add(24 * time.Hour)))
		})
	})

	It("computes ms from midnight", func() {
		t := time.Date(2014, time.March, 6, 2, 0, 0, 0, time.UTC)
		Expect(datetime.MsFromMidnight(t)).To(Equal(int64(2 * datetime.MsInHour)))
	})

	It("composes ms with a date", func() {
		d := time.Date(2014, time.March, 6, 17, 32, 0, 0, time.UTC)
		Expect(datetime.ComposeMsAndDate(3*datetime.MsInHour, d)).To(Equal(time.Date(2014, time.March, 6, 3, 0, 0, 0, time.UTC)))
	})

	Describe("IsSegmentAcrossMidnight", func() {
		It("is true for a segment spanning midnight", func() {
			s := time.Date(2014, time.March, 6, 22, 0, 0, 0, time.UTC)
			Expect(datetime.IsSegmentAcrossMidnight(s, s.Add(4*time.Hour))).To(BeTrue())
		})

		It("is false for a segment ending exactly at midnight", func() {
			s := time.Date(2014, time.March, 6, 22, 0, 0, 0, time.UTC)
			Expect(datetime.IsSegmentAcrossMidnight(s, s.Add(2*time.Hour))).To(BeFalse())
		})
	})

	DescribeTable("RoundToNearestMinutes",
		func(minute, second, expectedHour, expectedMinute int) {
			t := time.Date(2014, time.March, 6, 10, minute, second, 0, time.UTC)
			Expect(datetime.RoundToNearestMinutes(t, 30)).To(Equal(time.Date(2014, time.March, 6, expectedHour, expectedMinute, 0, 0, time.UTC)))
		},
		Entry("rounds down", 14, 59, 10, 0),
		Entry("rounds up to the half hour", 15, 0, 10, 30),
		Entry("rounds up to the next hour", 50, 0, 11, 0),
		Entry("keeps the exact half hour", 30, 0, 10, 30),
	)

	It("counts partial days", func() {
		s := time.Date(2014, time.March, 6, 0, 0, 0, 0, time.UTC)
		Expect(datetime.NumDays(s, s.Add(36*time.Hour))).To(Equal(2))
		Expect(datetime.NumDays(s, s.Add(24*time.Hour))).To(Equal(1))
	})

	It("includes both bounds in a range", func() {
		s := time.Date(2014, time.March, 6, 0, 0, 0, 0, time.UTC)
		e := s.Add(time.Hour)
		Expect(datetime.InRange(s, s, e)).To(BeTrue())
		Expect(datetime.InRange(e, s, e)).To(BeTrue())
		Expect(datetime.InRange(s.Add(-time.Millisecond), s, e)).To(BeFalse())
		Expect(datetime.InRange(e.Add(time.Millisecond), s, e)).To(BeFalse())
	})
})
