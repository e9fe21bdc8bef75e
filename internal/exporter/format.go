package exporter

import (
	"fmt"
	"time"

	"spicehold/internal/dataprocessing"
	"spicehold/pkg/contracts/domain"
)

// formatValue renders a numeric cell with 2 decimal places. The missing
// marker becomes an empty cell.
func formatValue(v float64) string {
	if domain.IsMissing(v) {
		return ""
	}
	return fmt.Sprintf("%.2f", v)
}

// formatQty renders volumes and counts without a fractional part when
// they are whole, which they almost always are in source workbooks.
func formatQty(v float64) string {
	if domain.IsMissing(v) {
		return ""
	}
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

// formatDate renders a date in the auction report layout (dd-mm-yyyy).
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dataprocessing.DateLayout)
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
