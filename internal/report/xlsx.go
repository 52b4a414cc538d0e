package report

import (
	"io"

	"github.com/xuri/excelize/v2"
)

// xlsxSheet is the name of the hits worksheet.
const xlsxSheet = "Hits"

// XLSXWriter outputs hits as an Excel workbook.
// This format is designed for handing results to non-technical
// recipients who work in spreadsheets.
type XLSXWriter struct {
	baseWriter
}

// NewXLSXWriter creates an XLSXWriter that outputs to the given writer.
func NewXLSXWriter(output io.Writer) *XLSXWriter {
	return &XLSXWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs a workbook with one Hits sheet: a header row followed
// by one row per hit.
func (w *XLSXWriter) Write(summary *RunSummary) (int, error) {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck // In-memory workbook

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return 0, err
	}

	header := []any{"Site", "Username", "URL", "Status", "Elapsed (ms)", "HTTP OK", "Verified", "Title"}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return 0, err
	}

	for i, hit := range summary.Hits {
		rec := newHitRecord(hit)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return 0, err
		}
		row := []any{rec.Site, rec.Username, rec.URL, rec.Status, rec.MS, rec.HTTPOK, rec.Verified, rec.Title}
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return 0, err
		}
	}

	n, err := f.WriteTo(w.output)
	return int(n), err
}
