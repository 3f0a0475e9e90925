package report_test

import (
	"context"
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/tidepool-org/tideline/config"
	"github.com/tidepool-org/tideline/datetime"
	"github.com/tidepool-org/tideline/devicedata"
	deviceDataTest "github.com/tidepool-org/tideline/devicedata/test"
	"github.com/tidepool-org/tideline/report"
	"github.com/tidepool-org/tideline/settings"
	"github.com/tidepool-org/tideline/test"
)

var _ = Describe("Service", func() {
	var ctrl *gomock.Controller
	var repo *deviceDataTest.MockRepository
	var service report.Service
	var cfg *config.Config
	userId := "user-1"

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		repo = deviceDataTest.NewMockRepository(ctrl)
		cfg = &config.Config{CacheSize: 16, ExclusionThreshold: 7}
	})

	JustBeforeEach(func() {
		var err error
		service, err = report.NewService(repo, cfg, zap.NewNop().Sugar())
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		ctrl.Finish()
	})

	It("requires a positive cache size", func() {
		_, err := report.NewService(repo, &config.Config{}, zap.NewNop().Sugar())
		Expect(err).To(HaveOccurred())
	})

	Describe("Total", func() {
		It("totals the basal delivery of the window", func() {
			repo.EXPECT().DataRange(gomock.Any(), userId).Return(days(0), days(3), nil)
			repo.EXPECT().ListBasals(gomock.Any(), userId, days(0), days(3)).Return(scheduled(1.0, 0, 1, 2), nil)

			result, err := service.Total(context.Background(), report.Query{UserId: userId, Start: days(0), End: days(3)})
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Total).To(Equal(72.0))
			Expect(result.Excluded).To(BeEmpty())
		})

		It("reuses reconciled data while the data range is unchanged", func() {
			repo.EXPECT().DataRange(gomock.Any(), userId).Return(days(0), days(3), nil).Times(2)
			repo.EXPECT().ListBasals(gomock.Any(), userId, days(0), days(3)).Return(scheduled(1.0, 0, 1, 2), nil).Times(1)

			q := report.Query{UserId: userId, Start: days(0), End: days(3)}
			_, err := service.Total(context.Background(), q)
			Expect(err).ToNot(HaveOccurred())
			q.Excluded = []time.Time{days(1)}
			result, err := service.Total(context.Background(), q)
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Total).To(Equal(48.0))
			Expect(result.Excluded).To(Equal([]time.Time{days(1)}))
		})

		It("loads whole days around the window", func() {
			repo.EXPECT().DataRange(gomock.Any(), userId).Return(days(0), days(3), nil)
			midnight := test.Match(func(t time.Time) bool { return datetime.IsMidnight(t) })
			repo.EXPECT().ListBasals(gomock.Any(), userId, midnight, midnight).Return(scheduled(1.0, 0, 1), nil)

			result, err := service.Total(context.Background(), report.Query{UserId: userId, Start: days(0.25), End: days(1.5), MidnightToMidnight: true})
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Total).To(Equal(48.0))
		})

		Context("with a lower exclusion threshold", func() {
			BeforeEach(func() {
				cfg.ExclusionThreshold = 0
			})

			It("returns an unavailable total when too many days are excluded", func() {
				repo.EXPECT().DataRange(gomock.Any(), userId).Return(days(0), days(3), nil)
				repo.EXPECT().ListBasals(gomock.Any(), userId, days(0), days(3)).Return(scheduled(1.0, 0, 2), nil)

				result, err := service.Total(context.Background(), report.Query{UserId: userId, Start: days(0), End: days(3)})
				Expect(err).ToNot(HaveOccurred())
				Expect(math.IsNaN(result.Total)).To(BeTrue())
				Expect(result.Excluded).To(Equal([]time.Time{days(1)}))
			})
		})

		It("rejects an invalid range", func() {
			_, err := service.Total(context.Background(), report.Query{UserId: userId, Start: days(1), End: days(1)})
			Expect(err).To(MatchError(report.ErrInvalidRange))
		})

		It("returns no data for a user without data", func() {
			repo.EXPECT().DataRange(gomock.Any(), userId).Return(time.Time{}, time.Time{}, devicedata.ErrNotFound)

			_, err := service.Total(context.Background(), report.Query{UserId: userId, Start: days(0), End: days(1)})
			Expect(err).To(MatchError(report.ErrNoData))
		})

		It("returns no data when the window has no basals", func() {
			repo.EXPECT().DataRange(gomock.Any(), userId).Return(days(0), days(3), nil)
			repo.EXPECT().ListBasals(gomock.Any(), userId, days(5), days(6)).Return(nil, nil)

			_, err := service.Total(context.Background(), report.Query{UserId: userId, Start: days(5), End: days(6)})
			Expect(err).To(MatchError(report.ErrNoData))
		})
	})

	Describe("Actual", func() {
		It("clips the reconciled streams to the window", func() {
			repo.EXPECT().DataRange(gomock.Any(), userId).Return(days(0), days(3), nil)
			repo.EXPECT().ListBasals(gomock.Any(), userId, days(0), days(1)).Return(scheduled(1.0, 0), nil)

			result, err := service.Actual(context.Background(), userId, days(0.125), days(0.375))
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Actual).To(HaveLen(2))
			Expect(result.Actual[0].Start).To(Equal(days(0.125)))
			Expect(result.Actual[1].End).To(Equal(days(0.375)))
			Expect(result.Undelivered).To(BeEmpty())
		})
	})

	Describe("SettingsIntervals", func() {
		It("resolves the settings over the data range", func() {
			repo.EXPECT().DataRange(gomock.Any(), userId).Return(days(0), days(3), nil)
			repo.EXPECT().ListSettings(gomock.Any(), userId, days(3)).Return([]settings.Snapshot{snapshot(days(1))}, nil)

			intervals, err := service.SettingsIntervals(context.Background(), userId, days(0), days(3))
			Expect(err).ToNot(HaveOccurred())
			Expect(intervals).To(HaveLen(2))
			Expect(intervals[0].Confidence).To(Equal(settings.ConfidenceUncertain))
			Expect(intervals[1].Start).To(Equal(days(1)))
		})
	})

	Describe("Report", func() {
		It("combines totals, days, streams and settings", func() {
			repo.EXPECT().DataRange(gomock.Any(), userId).Return(days(0), days(3), nil).Times(2)
			repo.EXPECT().ListBasals(gomock.Any(), userId, days(0), days(3)).Return(scheduled(1.0, 0, 1, 2), nil)
			repo.EXPECT().ListSettings(gomock.Any(), userId, days(3)).Return([]settings.Snapshot{snapshot(days(1))}, nil)

			r, err := service.Report(context.Background(), report.Query{UserId: userId, Start: days(0), End: days(3)})
			Expect(err).ToNot(HaveOccurred())
			Expect(r.UserId).To(Equal(userId))
			Expect(r.Total.Total).To(Equal(72.0))
			Expect(r.Days).To(HaveLen(3))
			Expect(r.Actual).To(HaveLen(12))
			Expect(r.Settings).To(HaveLen(2))
			Expect(r.Schedules).To(HaveKey("Standard"))
			for _, s := range r.Schedules["Standard"] {
				Expect(s.Actualized).To(BeFalse())
			}
		})
	})
})
