package dataprocessing

import (
	"spicehold/pkg/contracts/domain"
)

// Canonical field names for the auction schema.
const (
	FieldAuctioneer   = "auctioneer"
	FieldDate         = "date"
	FieldNumLots      = "num_lots"
	FieldTotalArrival = "total_arrival_kg"
	FieldQtySold      = "qty_sold_kg"
	FieldMaxPrice     = "max_price_rs_kg"
	FieldAvgPrice     = "avg_price_rs_kg"
)

// ColumnMapping records which raw header was mapped to which canonical
// field. The full mapping log is returned for auditability.
type ColumnMapping struct {
	RawHeader string `json:"raw_header"`
	Canonical string `json:"canonical"`
	Index     int    `json:"index"`
}

// NormalizedTable is the output of schema normalization: partially typed
// auction records plus the header audit trail.
type NormalizedTable struct {
	Records  []domain.AuctionRecord `json:"records"`
	Mappings []ColumnMapping        `json:"mappings"`
	// Unmapped lists raw headers that matched no canonical field.
	Unmapped []string `json:"unmapped,omitempty"`
}

// CleanStats reports the repairs and drops performed by a cleaning pass.
// Every count is informational; none indicates a failure.
type CleanStats struct {
	RunID           string `json:"run_id"`
	InputRows       int    `json:"input_rows"`
	OutputRows      int    `json:"output_rows"`
	ZeroPrices      int    `json:"zero_prices"`
	OutlierPrices   int    `json:"outlier_prices"`
	NegativeVolumes int    `json:"negative_volumes"`
	PricesImputed   int    `json:"prices_imputed"`
	DroppedNoSignal int    `json:"dropped_no_signal"`
	DroppedNoDate   int    `json:"dropped_no_date"`
	DaysAggregated  int    `json:"days_aggregated"`
}

// Reclassified returns the total number of values reclassified as missing.
func (s CleanStats) Reclassified() int {
	return s.ZeroPrices + s.OutlierPrices + s.NegativeVolumes
}

// Dropped returns the total number of rows removed from the series.
func (s CleanStats) Dropped() int {
	return s.DroppedNoSignal + s.DroppedNoDate
}

// CleanResult is the best-effort cleaned series plus its repair metadata.
type CleanResult struct {
	Observations []domain.CleanedObservation `json:"observations"`
	Stats        CleanStats                  `json:"stats"`
}
