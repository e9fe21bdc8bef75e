// Package exporter persists pipeline outputs as CSV reports: the cleaned
// daily auction series, the engineered feature matrix, forecast windows,
// recommendations and ranked buyer lists.
//
// All reports share one writing convention: a UTF-8 BOM for Excel
// compatibility, dates in the dd-mm-yyyy auction layout, and missing
// numeric values rendered as empty cells rather than "NaN" so downstream
// spreadsheet tools do not choke on them.
package exporter
