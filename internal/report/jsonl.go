package report

import (
	"encoding/json"
	"io"

	"github.com/hacktolive/userscout/internal/model"
)

// hitRecord is the export shape of one persisting hit. JSONL, CSV, and
// XLSX writers all derive their rows from it so the formats stay in
// sync.
type hitRecord struct {
	Site     string `json:"site"`
	Username string `json:"username"`
	URL      string `json:"url"`
	Status   string `json:"status"`
	MS       int64  `json:"ms"`
	HTTPOK   bool   `json:"http_ok"`
	Verified bool   `json:"verified"`
	Title    string `json:"title,omitempty"`
}

// newHitRecord converts a persisting result to its export shape.
func newHitRecord(res *model.ProbeResult) hitRecord {
	return hitRecord{
		Site:     res.SiteName,
		Username: res.Username,
		URL:      res.URL,
		Status:   res.StatusLabel,
		MS:       res.ElapsedMS,
		HTTPOK:   res.HTTPOK,
		Verified: res.VerifiedHit,
		Title:    res.PageTitle,
	}
}

// JSONLWriter outputs one JSON object per hit, newline-delimited.
// This format is designed for tool integration: each line is a
// standalone document, so consumers can stream without buffering.
//
// Design decision: We use standard encoding/json rather than a
// third-party JSON library because it is sufficient for flat hit
// records and keeps the export path dependency-free.
type JSONLWriter struct {
	baseWriter
}

// NewJSONLWriter creates a JSONLWriter that outputs to the given writer.
func NewJSONLWriter(output io.Writer) *JSONLWriter {
	return &JSONLWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs every hit in the summary as one JSON line.
func (w *JSONLWriter) Write(summary *RunSummary) (int, error) {
	var total int
	for _, hit := range summary.Hits {
		data, err := json.Marshal(newHitRecord(hit))
		if err != nil {
			return total, err
		}
		data = append(data, '\n')

		n, err := w.output.Write(data)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
