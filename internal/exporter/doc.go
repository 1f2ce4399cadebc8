// Package exporter writes computed metrics reports to disk as CSV files
// (one summary file plus one ranked file per grouped metric) and as a single
// JSON document. Presentation is entirely this package's concern; the
// pipeline itself never touches the filesystem.
package exporter
