// Package dataprocessing turns raw cardamom auction exports into a clean,
// chronologically ordered price series.
//
// The package implements the first two stages of the price intelligence
// pipeline:
//
//  1. Schema normalization: heterogeneous raw column headers are matched
//     against substring patterns and mapped to the canonical auction
//     schema. Dates are parsed with a fixed day-month-year layout and
//     numeric cells are coerced, with explicit missing markers for
//     anything unparsable.
//  2. Quality validation and cleaning: zero and implausibly high prices
//     and negative volumes are reclassified as missing, missing prices are
//     imputed by carry-forward then carry-backward, unsalvageable rows are
//     dropped, and derived market-health metrics are computed. Same-day
//     rows from different auctioneers are aggregated into one observation
//     per calendar day.
//
// Data-quality anomalies never surface as errors; they are repaired by a
// deterministic policy and reported as counters in CleanStats. Errors are
// reserved for input that cannot be interpreted as tabular auction data.
//
// File layout:
//
//   - parser.go: raw file readers (CSV and Excel workbooks)
//   - normalizer.go: header matching, date parsing, numeric coercion
//   - cleaner.go: repair policy, derived metrics, daily aggregation
//   - types.go: normalized table, cleaning statistics and results
package dataprocessing
