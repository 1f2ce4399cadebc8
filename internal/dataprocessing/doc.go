// Package dataprocessing implements the transaction analytics pipeline:
// reading raw transaction line items from Excel or CSV datasets, filtering
// out rows that fail the business validity rules, and aggregating the clean
// set into the fixed battery of revenue metrics.
//
// The pipeline is a strict two-stage batch transform:
//
//	raw rows -> Cleaner.Clean -> clean rows -> Aggregator.Aggregate -> report
//
// Cleaning decisions are routine filtering, never errors; only structural
// problems (an unparseable invoice date) abort a run. Both stages are pure
// functions of their input and deterministic, so re-running the pipeline on
// the same dataset always produces an identical report.
package dataprocessing
