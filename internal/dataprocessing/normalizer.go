package dataprocessing

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	apperrors "spicehold/internal/errors"
	"spicehold/pkg/contracts/domain"
)

// DateLayout is the fixed day-month-year format used by auction exports.
const DateLayout = "02-01-2006"

// matchHeader maps one raw header to a canonical field name using
// substring patterns. Source exports vary in exact wording across periods,
// so matching is on key tokens rather than exact names. Returns "" when
// the header matches nothing.
func matchHeader(header string) string {
	switch {
	case strings.Contains(header, "Auctioneer"):
		return FieldAuctioneer
	case strings.Contains(header, "Date"):
		return FieldDate
	case strings.Contains(header, "No.of Lots") || strings.Contains(header, "Lots"):
		return FieldNumLots
	case strings.Contains(header, "Total Qty") && strings.Contains(header, "Arrived"):
		return FieldTotalArrival
	case strings.Contains(header, "Qty Sold"):
		return FieldQtySold
	case strings.Contains(header, "MaxPrice") || strings.Contains(header, "Max Price"):
		return FieldMaxPrice
	case strings.Contains(header, "Avg.Price") || strings.Contains(header, "Avg Price"):
		return FieldAvgPrice
	}
	return ""
}

// Normalize maps raw tabular rows onto the canonical auction schema. The
// first row is treated as the header. Unparsable dates become the zero
// time and unparsable numerics become the explicit missing marker, never
// a silent zero. The returned table carries the header mapping log for
// auditability.
//
// Input-shape problems (no rows, no recognizable columns) are fatal and
// reported as errors; everything else is recovered downstream.
func Normalize(rows [][]string) (*NormalizedTable, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("normalize: %w", apperrors.ErrEmptyInput)
	}

	columnMap := make(map[string]int)
	var mappings []ColumnMapping
	var unmapped []string

	for i, raw := range rows[0] {
		header := strings.TrimSpace(raw)
		if header == "" {
			continue
		}
		canonical := matchHeader(header)
		if canonical == "" {
			unmapped = append(unmapped, header)
			continue
		}
		if _, exists := columnMap[canonical]; exists {
			// First match wins; duplicates stay in the audit trail only.
			unmapped = append(unmapped, header)
			continue
		}
		columnMap[canonical] = i
		mappings = append(mappings, ColumnMapping{RawHeader: header, Canonical: canonical, Index: i})
	}

	if len(columnMap) == 0 {
		return nil, fmt.Errorf("normalize: %w", apperrors.ErrNoMatchedColumns)
	}

	slog.Debug("normalized column headers",
		slog.Int("mapped", len(mappings)),
		slog.Int("unmapped", len(unmapped)),
		slog.Any("mappings", mappings))

	records := make([]domain.AuctionRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := domain.AuctionRecord{
			NumLots:      domain.Missing(),
			TotalArrival: domain.Missing(),
			QtySold:      domain.Missing(),
			MaxPrice:     domain.Missing(),
			AvgPrice:     domain.Missing(),
		}

		if idx, ok := columnMap[FieldAuctioneer]; ok {
			rec.Auctioneer = cellAt(row, idx)
		}
		if idx, ok := columnMap[FieldDate]; ok {
			rec.Date = parseDate(cellAt(row, idx))
		}
		if idx, ok := columnMap[FieldNumLots]; ok {
			rec.NumLots = parseNumeric(cellAt(row, idx))
		}
		if idx, ok := columnMap[FieldTotalArrival]; ok {
			rec.TotalArrival = parseNumeric(cellAt(row, idx))
		}
		if idx, ok := columnMap[FieldQtySold]; ok {
			rec.QtySold = parseNumeric(cellAt(row, idx))
		}
		if idx, ok := columnMap[FieldMaxPrice]; ok {
			rec.MaxPrice = parseNumeric(cellAt(row, idx))
		}
		if idx, ok := columnMap[FieldAvgPrice]; ok {
			rec.AvgPrice = parseNumeric(cellAt(row, idx))
		}

		records = append(records, rec)
	}

	return &NormalizedTable{
		Records:  records,
		Mappings: mappings,
		Unmapped: unmapped,
	}, nil
}

// cellAt returns the trimmed cell at idx, or "" for short rows.
func cellAt(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseDate parses an auction date in the fixed export layout. The zero
// time marks an unparsable date.
func parseDate(cell string) time.Time {
	if cell == "" {
		return time.Time{}
	}
	date, err := time.Parse(DateLayout, cell)
	if err != nil {
		return time.Time{}
	}
	return date
}

// parseNumeric coerces a numeric cell, tolerating thousands separators.
// Non-numeric tokens become the explicit missing marker.
func parseNumeric(cell string) float64 {
	if cell == "" {
		return domain.Missing()
	}
	cleaned := strings.ReplaceAll(cell, ",", "")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return domain.Missing()
	}
	return v
}
