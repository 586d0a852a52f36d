package housing

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

const summarySheet = "Summary"

var describeHeader = []string{"column", "count", "mean", "std", "min", "25%", "50%", "75%", "max"}

func describeCells(desc Description) []any {
	cells := []any{desc.Column, desc.Count}
	for _, v := range []*float64{desc.Mean, desc.Std, desc.Min, desc.P25, desc.P50, desc.P75, desc.Max} {
		if v == nil {
			cells = append(cells, "")
			continue
		}
		cells = append(cells, *v)
	}
	return cells
}

// WriteSummaryCSV writes the describe table, one row per numeric column.
func WriteSummaryCSV(w io.Writer, rows []Description) error {
	records := [][]string{describeHeader}
	for _, desc := range rows {
		cells := describeCells(desc)
		rec := make([]string, len(cells))
		for i, c := range cells {
			switch v := c.(type) {
			case float64:
				rec[i] = strconv.FormatFloat(v, 'f', -1, 64)
			case int:
				rec[i] = strconv.Itoa(v)
			case string:
				rec[i] = v
			}
		}
		records = append(records, rec)
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	if df.Err != nil {
		return fmt.Errorf("error building summary table: %w", df.Err)
	}
	if err := df.WriteCSV(w, dataframe.WriteHeader(true)); err != nil {
		return fmt.Errorf("error writing csv: %w", err)
	}
	return nil
}

// WriteSummaryXLSX writes the describe table with numeric cells.
func WriteSummaryXLSX(w io.Writer, rows []Description) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("error naming sheet: %w", err)
	}

	header := make([]any, len(describeHeader))
	for i, h := range describeHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(summarySheet, "A1", &header); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}
	for i, desc := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("error addressing row %d: %w", i+2, err)
		}
		cells := describeCells(desc)
		if err := f.SetSheetRow(summarySheet, cell, &cells); err != nil {
			return fmt.Errorf("error writing row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("error writing xlsx: %w", err)
	}
	return nil
}
