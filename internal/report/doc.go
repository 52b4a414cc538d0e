// Package report turns probe results into run output: the live colored
// console stream, the end-of-run summary, and batch exports in JSONL,
// CSV, XLSX, and Markdown formats.
//
// Design decision: We separate result formatting from the result data
// structures (which are in the model package) so new export formats can
// be added without touching the probing pipeline. Export writers
// implement the Writer interface and can be composed with MultiWriter.
package report
