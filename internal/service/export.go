package service

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const timesheetSheet = "Timesheet"

var timesheetHeader = []any{"Date", "Check-in", "Check-out", "Hours", "Address"}

// ExportTimesheet writes ts as an XLSX workbook: a title row, one row per
// entry in date order and a totals row.
func ExportTimesheet(w io.Writer, ts *Timesheet) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", timesheetSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	title := fmt.Sprintf("%s (%s) - %s", ts.Employee.Name, ts.Employee.Email, ts.Month)
	if err := f.SetCellValue(timesheetSheet, "A1", title); err != nil {
		return fmt.Errorf("write title: %w", err)
	}
	if err := f.SetSheetRow(timesheetSheet, "A3", &timesheetHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := 4
	// Entries arrive newest first.
	for i := len(ts.Entries) - 1; i >= 0; i-- {
		e := ts.Entries[i]
		var hours any
		if e.TotalHours != nil {
			hours = *e.TotalHours
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		values := []any{e.Date, e.CheckIn, e.CheckOut, hours, e.Location.Address}
		if err := f.SetSheetRow(timesheetSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
		row++
	}

	row++
	totals := []any{"Total", ts.Summary.WorkingDays, "days", ts.Summary.TotalHours, fmt.Sprintf("avg %.2f h/day", ts.Summary.AverageHours)}
	totalCell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(timesheetSheet, totalCell, &totals); err != nil {
		return fmt.Errorf("write totals: %w", err)
	}

	lastCell, err := excelize.CoordinatesToCellName(len(timesheetHeader), row)
	if err != nil {
		return err
	}
	for _, rng := range [][2]string{{"A1", "A1"}, {"A3", "E3"}, {totalCell, lastCell}} {
		if err := f.SetCellStyle(timesheetSheet, rng[0], rng[1], bold); err != nil {
			return fmt.Errorf("style cells: %w", err)
		}
	}
	if err := f.SetColWidth(timesheetSheet, "A", "D", 12); err != nil {
		return fmt.Errorf("set widths: %w", err)
	}
	if err := f.SetColWidth(timesheetSheet, "E", "E", 40); err != nil {
		return fmt.Errorf("set widths: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
