package dataset

import (
	"fmt"
	"io"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"

	"github.com/mr1hm/go-disaster-dashboard/internal/models"
)

const exportSheet = "Filtered"

// ExportHeader lists the columns written for events of s: the source columns
// in file order, then the predicted fields.
func ExportHeader(s *Snapshot) []string {
	header := append([]string(nil), sourceColumns(s)...)
	if s.HasDeadly {
		header = append(header, models.ColPredictedDeadly)
	}
	if s.HasSeverity {
		header = append(header, models.ColPredictedSeverity)
	}
	return header
}

// sourceColumns falls back to the canonical order for snapshots that were
// not read from a file.
func sourceColumns(s *Snapshot) []string {
	if len(s.Columns) > 0 {
		return s.Columns
	}
	cols := append([]string(nil), RequiredColumns...)
	if s.HasDamage {
		cols = append(cols, models.ColTotalDamage)
	}
	if s.HasCoordinates {
		cols = append(cols, models.ColLatitude, models.ColLongitude)
	}
	if s.HasMagnitude {
		cols = append(cols, models.ColMagnitude)
	}
	return append(cols, s.ExtraColumns...)
}

// ExportRecords renders events as text rows aligned with ExportHeader.
func ExportRecords(s *Snapshot, events []models.Event) [][]string {
	cols := sourceColumns(s)
	extra := make(map[string]int, len(s.ExtraColumns))
	for j, name := range s.ExtraColumns {
		extra[name] = j
	}

	records := make([][]string, 0, len(events))
	for i := range events {
		e := &events[i]
		row := make([]string, 0, len(cols)+2)
		for _, col := range cols {
			row = append(row, exportCell(e, col, extra))
		}
		if s.HasDeadly {
			row = append(row, e.Deadly)
		}
		if s.HasSeverity {
			row = append(row, e.Severity.String())
		}
		records = append(records, row)
	}
	return records
}

func exportCell(e *models.Event, col string, extra map[string]int) string {
	switch col {
	case models.ColStartYear:
		return formatYear(e)
	case models.ColType:
		return e.DisasterType
	case models.ColSubgroup:
		return e.DisasterSubgroup
	case models.ColSubtype:
		return e.DisasterSubtype
	case models.ColLocation:
		return e.Location
	case models.ColTotalDeaths:
		return formatFloat(e.TotalDeaths)
	case models.ColTotalDamage:
		return formatFloat(e.TotalDamage)
	case models.ColLatitude:
		return formatOptional(e.Latitude)
	case models.ColLongitude:
		return formatOptional(e.Longitude)
	case models.ColMagnitude:
		return formatOptional(e.Magnitude)
	}
	if j, ok := extra[col]; ok && j < len(e.Extra) {
		return e.Extra[j]
	}
	return ""
}

// WriteCSV writes events as a header-row CSV.
func WriteCSV(w io.Writer, s *Snapshot, events []models.Event) error {
	if len(events) == 0 {
		return fmt.Errorf("error writing csv: no events to export")
	}
	records := append([][]string{ExportHeader(s)}, ExportRecords(s, events)...)

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	if df.Err != nil {
		return fmt.Errorf("error building export table: %w", df.Err)
	}
	if err := df.WriteCSV(w, dataframe.WriteHeader(true)); err != nil {
		return fmt.Errorf("error writing csv: %w", err)
	}
	return nil
}

// WriteXLSX writes events as a single-sheet workbook.
func WriteXLSX(w io.Writer, s *Snapshot, events []models.Event) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("error naming sheet: %w", err)
	}

	rows := append([][]string{ExportHeader(s)}, ExportRecords(s, events)...)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("error addressing row %d: %w", i+1, err)
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return fmt.Errorf("error writing row %d: %w", i+1, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("error writing xlsx: %w", err)
	}
	return nil
}
