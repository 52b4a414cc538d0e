package report

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"
)

// csvHeader is the column order of the CSV export.
var csvHeader = []string{"site", "username", "url", "status", "ms", "http_ok", "verified", "title"}

// CSVWriter outputs hits as a CSV table with a header row.
// This format is designed for spreadsheet import and ad-hoc grepping.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the header row followed by one row per hit.
func (w *CSVWriter) Write(summary *RunSummary) (int, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	if err := cw.Write(csvHeader); err != nil {
		return 0, err
	}
	for _, hit := range summary.Hits {
		rec := newHitRecord(hit)
		row := []string{
			rec.Site,
			rec.Username,
			rec.URL,
			rec.Status,
			strconv.FormatInt(rec.MS, 10),
			strconv.FormatBool(rec.HTTPOK),
			strconv.FormatBool(rec.Verified),
			rec.Title,
		}
		if err := cw.Write(row); err != nil {
			return 0, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, err
	}

	return w.output.Write(buf.Bytes())
}
