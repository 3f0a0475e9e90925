package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"github.com/tealeg/xlsx/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tidepool-org/tideline/basal"
	"github.com/tidepool-org/tideline/datetime"
	"github.com/tidepool-org/tideline/format"
)

const (
	SheetNameSummary     = "Summary"
	SheetNameDays        = "Days"
	SheetNameActual      = "Actual"
	SheetNameUndelivered = "Undelivered"
	SheetNameSettings    = "Settings"

	NotAvailable = "NOT AVAILABLE"
)

func title(s string) string {
	return cases.Title(language.English).String(s)
}

// XLSX renders the report as a workbook with one sheet per section
func (r *Report) XLSX() (*xlsx.File, error) {
	file := xlsx.NewFile()

	components := []func(file *xlsx.File) error{
		r.addSummarySheet,
		r.addDaysSheet,
		r.addSegmentsSheet(SheetNameActual, r.Actual),
		r.addSegmentsSheet(SheetNameUndelivered, r.Undelivered),
		r.addSettingsSheet,
	}
	for _, fn := range components {
		if err := fn(file); err != nil {
			return nil, err
		}
	}

	return file, nil
}

func (r *Report) WriteXLSX(w io.Writer) error {
	file, err := r.XLSX()
	if err != nil {
		return err
	}
	return file.Write(w)
}

func (r *Report) addSummarySheet(file *xlsx.File) error {
	sh, err := file.AddSheet(SheetNameSummary)
	if err != nil {
		return err
	}

	sh.AddRow().AddCell().SetValue("Basal Summary")
	sh.AddRow()

	currentRow := sh.AddRow()
	currentRow.AddCell().SetValue("Report Generated")
	currentRow.AddCell().SetValue(r.CreatedTime.Format(time.RFC3339))
	currentRow = sh.AddRow()
	currentRow.AddCell().SetValue("User")
	currentRow.AddCell().SetValue(r.UserId)
	currentRow = sh.AddRow()
	currentRow.AddCell().SetValue("Start")
	currentRow.AddCell().SetValue(r.Start.Format(time.RFC3339))
	currentRow = sh.AddRow()
	currentRow.AddCell().SetValue("End")
	currentRow.AddCell().SetValue(r.End.Format(time.RFC3339))
	currentRow = sh.AddRow()
	currentRow.AddCell().SetValue("Days")
	currentRow.AddCell().SetValue(datetime.NumDays(r.Start, r.End))
	sh.AddRow()

	currentRow = sh.AddRow()
	currentRow.AddCell().SetValue("Total Basal (U)")
	addUnits(currentRow, r.Total.Total)
	currentRow = sh.AddRow()
	currentRow.AddCell().SetValue("Excluded Days")
	currentRow.AddCell().SetValue(len(r.Total.Excluded))
	for _, d := range r.Total.Excluded {
		currentRow = sh.AddRow()
		currentRow.AddCell()
		currentRow.AddCell().SetValue(d.Format(time.DateOnly))
	}
	sh.AddRow()

	currentRow = sh.AddRow()
	currentRow.AddCell().SetValue("Warnings")
	currentRow.AddCell().SetValue(len(r.Warnings))
	for _, w := range r.Warnings {
		currentRow = sh.AddRow()
		currentRow.AddCell().SetValue(w.Kind)
		currentRow.AddCell().SetValue(w.Start.Format(time.RFC3339))
		currentRow.AddCell().SetValue(w.End.Format(time.RFC3339))
	}

	return nil
}

func (r *Report) addDaysSheet(file *xlsx.File) error {
	sh, err := file.AddSheet(SheetNameDays)
	if err != nil {
		return err
	}

	addHeader(sh, "day", "total basal (U)")
	for _, d := range r.Days {
		currentRow := sh.AddRow()
		currentRow.AddCell().SetValue(d.Day.Format(time.DateOnly))
		addUnits(currentRow, d.Total)
	}
	return nil
}

func (r *Report) addSegmentsSheet(name string, segments []basal.Segment) func(file *xlsx.File) error {
	return func(file *xlsx.File) error {
		sh, err := file.AddSheet(name)
		if err != nil {
			return err
		}

		addHeader(sh, "start", "end", "delivery type", "rate (U/hr)", "dose (U)", "path group")
		for _, s := range segments {
			currentRow := sh.AddRow()
			currentRow.AddCell().SetValue(s.Start.Format(time.RFC3339))
			currentRow.AddCell().SetValue(s.End.Format(time.RFC3339))
			currentRow.AddCell().SetValue(title(string(s.DeliveryType)))
			currentRow.AddCell().SetFloat(s.Rate)
			addUnits(currentRow, format.FixFloatingPoint(s.Dose()))
			currentRow.AddCell().SetValue(title(string(basal.PathGroupTypeOf(s))))
		}
		return nil
	}
}

func (r *Report) addSettingsSheet(file *xlsx.File) error {
	sh, err := file.AddSheet(SheetNameSettings)
	if err != nil {
		return err
	}

	addHeader(sh, "start", "end", "settings", "confidence")
	for _, iv := range r.Settings {
		currentRow := sh.AddRow()
		currentRow.AddCell().SetValue(iv.Start.Format(time.RFC3339))
		currentRow.AddCell().SetValue(iv.End.Format(time.RFC3339))
		currentRow.AddCell().SetValue(iv.Settings.Id)
		currentRow.AddCell().SetValue(title(string(iv.Confidence)))
	}
	sh.AddRow()

	names := make([]string, 0, len(r.Schedules))
	for name := range r.Schedules {
		names = append(names, name)
	}
	sort.Strings(names)

	addHeader(sh, "schedule", "start", "end", "rate (U/hr)", "active", "actualized")
	for _, name := range names {
		for _, s := range r.Schedules[name] {
			currentRow := sh.AddRow()
			currentRow.AddCell().SetValue(s.Schedule)
			currentRow.AddCell().SetValue(s.Start.Format(time.RFC3339))
			currentRow.AddCell().SetValue(s.End.Format(time.RFC3339))
			currentRow.AddCell().SetFloat(s.Rate)
			currentRow.AddCell().SetBool(s.Active)
			currentRow.AddCell().SetBool(s.Actualized)
		}
	}
	return nil
}

func addHeader(sh *xlsx.Sheet, columns ...string) {
	currentRow := sh.AddRow()
	for _, c := range columns {
		currentRow.AddCell().SetValue(fmt.Sprintf("%s ---", title(c)))
	}
}

func addUnits(row *xlsx.Row, units float64) {
	if math.IsNaN(units) {
		row.AddCell().SetValue(NotAvailable)
		return
	}
	row.AddCell().SetFloat(units)
}
