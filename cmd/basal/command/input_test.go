package command

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tidepool-org/tideline/devicedata"
	"github.com/tidepool-org/tideline/report"
)

var _ = Describe("Input", func() {
	start := time.Date(2014, time.March, 1, 0, 0, 0, 0, time.UTC)

	Describe("query", func() {
		It("parses the window", func() {
			w := windowFlags{
				UserId:   "user-1",
				Start:    "2014-03-01T00:00:00.000Z",
				End:      "2014-03-02T12:00:00Z",
				Excluded: []string{"2014-03-01T00:00:00Z"},
				Midnight: true,
			}
			q, err := w.query()
			Expect(err).ToNot(HaveOccurred())
			Expect(q).To(Equal(report.Query{
				UserId:             "user-1",
				Start:              start,
				End:                start.Add(36 * time.Hour),
				MidnightToMidnight: true,
				Excluded:           []time.Time{start},
			}))
		})

		It("rejects an invalid start", func() {
			w := windowFlags{Start: "yesterday", End: "2014-03-02T12:00:00Z"}
			_, err := w.query()
			Expect(err).To(MatchError(ContainSubstring("invalid start")))
		})

		It("rejects an invalid excluded day", func() {
			w := windowFlags{Start: "2014-03-01T00:00:00Z", End: "2014-03-02T12:00:00Z", Excluded: []string{"monday"}}
			_, err := w.query()
			Expect(err).To(MatchError(ContainSubstring("invalid excluded day")))
		})
	})

	Describe("readRecords", func() {
		var path string

		BeforeEach(func() {
			path = filepath.Join(GinkgoT().TempDir(), "records.json")
		})

		It("decodes basals and settings", func() {
			Expect(os.WriteFile(path, []byte(`[
				{"id": "b1", "type": "basal", "deliveryType": "scheduled", "normalTime": "2014-03-01T00:00:00.000Z", "normalEnd": "2014-03-01T06:00:00.000Z", "rate": 0.5},
				{"id": "b2", "type": "basal", "deliveryType": "temp", "normalTime": "2014-03-01T06:00:00.000Z", "duration": 3600000, "rate": 1.5},
				{"id": "s1", "type": "pumpSettings", "normalTime": "2014-02-01T00:00:00.000Z", "activeSchedule": "Standard"},
				{"id": "c1", "type": "cbg", "normalTime": "2014-03-01T00:00:00.000Z", "value": 5.5}
			]`), 0o600)).To(Succeed())

			records, err := readRecords(path)
			Expect(err).ToNot(HaveOccurred())
			Expect(records.Basals).To(HaveLen(2))
			Expect(records.Basals[1].End).To(Equal(start.Add(7 * time.Hour)))
			Expect(records.Settings).To(HaveLen(1))
			Expect(records.Skipped).To(Equal(1))

			dataStart, dataEnd := dataRange(records, report.Query{})
			Expect(dataStart).To(Equal(start))
			Expect(dataEnd).To(Equal(start.Add(7 * time.Hour)))
		})

		It("fails on a missing file", func() {
			_, err := readRecords(filepath.Join(filepath.Dir(path), "missing.json"))
			Expect(err).To(HaveOccurred())
		})

		It("fails on a malformed file", func() {
			Expect(os.WriteFile(path, []byte(`{"type": "basal"}`), 0o600)).To(Succeed())
			_, err := readRecords(path)
			Expect(err).To(MatchError(ContainSubstring("unable to parse")))
		})
	})

	Describe("dataRange", func() {
		It("falls back to the window without basals", func() {
			q := report.Query{Start: start, End: start.Add(time.Hour)}
			dataStart, dataEnd := dataRange(devicedata.Records{}, q)
			Expect(dataStart).To(Equal(start))
			Expect(dataEnd).To(Equal(start.Add(time.Hour)))
		})
	})

	Describe("printJSON", func() {
		It("indents the output", func() {
			buf := &bytes.Buffer{}
			Expect(printJSON(buf, map[string]int{"total": 1})).To(Succeed())
			Expect(buf.String()).To(Equal("{\n  \"total\": 1\n}\n"))
		})
	})
})
