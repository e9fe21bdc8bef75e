package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadCSVFile reads a raw auction export in CSV form and returns its rows.
// A UTF-8 BOM is stripped when present (exports from spreadsheet tools
// commonly carry one).
func ReadCSVFile(filePath string) ([][]string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		content = content[3:]
	}

	reader := csv.NewReader(strings.NewReader(string(content)))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return rows, nil
}

// ReadWorkbook reads a raw auction export in Excel form and returns the
// rows of the sheet carrying auction data. Sheet names vary across export
// periods, so the sheet is located by its header content rather than by
// name.
func ReadWorkbook(filePath string) ([][]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) < 2 {
			continue
		}
		if isAuctionSheet(rows) {
			slog.Debug("found auction data sheet",
				slog.String("sheet_name", name),
				slog.Int("total_rows", len(rows)))
			return rows, nil
		}
	}

	return nil, fmt.Errorf("could not find auction data sheet in %s", filePath)
}

// isAuctionSheet checks the first few rows for auction headers.
func isAuctionSheet(rows [][]string) bool {
	limit := len(rows)
	if limit > 4 {
		limit = 4
	}
	for _, row := range rows[:limit] {
		rowText := strings.Join(row, " ")
		if strings.Contains(rowText, "Auctioneer") && strings.Contains(rowText, "Price") {
			return true
		}
	}
	return false
}

// ParseFile reads a raw auction export (CSV or Excel by extension) and
// normalizes it to the canonical schema.
func ParseFile(filePath string) (*NormalizedTable, error) {
	var rows [][]string
	var err error

	if strings.HasSuffix(strings.ToLower(filePath), ".xlsx") {
		rows, err = ReadWorkbook(filePath)
	} else {
		rows, err = ReadCSVFile(filePath)
	}
	if err != nil {
		return nil, err
	}

	table, err := Normalize(rows)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filePath, err)
	}

	slog.Info("parsed auction export",
		slog.String("file_path", filePath),
		slog.Int("records", len(table.Records)))

	return table, nil
}
