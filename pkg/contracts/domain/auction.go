package domain

import (
	"math"
	"time"
)

// AuctionRecord represents a single auctioneer's results for one auction day
// after schema normalization. Numeric fields use NaN as the explicit missing
// marker; a missing value is never silently zero. Date is the zero time when
// the source cell could not be parsed.
type AuctionRecord struct {
	Auctioneer   string    `json:"auctioneer"`
	Date         time.Time `json:"date"`
	NumLots      float64   `json:"num_lots"`
	TotalArrival float64   `json:"total_arrival_kg"`
	QtySold      float64   `json:"qty_sold_kg"`
	MaxPrice     float64   `json:"max_price_rs_kg"`
	AvgPrice     float64   `json:"avg_price_rs_kg"`
}

// HasDate reports whether the auction date was parseable.
func (r AuctionRecord) HasDate() bool {
	return !r.Date.IsZero()
}

// CleanedObservation is one calendar day of the cleaned, aggregated auction
// series. Prices are positive after imputation; volumes are non-negative.
// UnsoldPct and MarketEfficiency are NaN when arrival volume is zero
// (division is undefined, not an error) and MarketEfficiency may exceed 1
// on noisy days where reported sales outstrip reported arrivals.
type CleanedObservation struct {
	Date             time.Time `json:"date" validate:"required"`
	AvgPrice         float64   `json:"avg_price_rs_kg" validate:"min=0"`
	MaxPrice         float64   `json:"max_price_rs_kg" validate:"min=0"`
	TotalArrival     float64   `json:"total_arrival_kg" validate:"min=0"`
	QtySold          float64   `json:"qty_sold_kg" validate:"min=0"`
	UnsoldQty        float64   `json:"unsold_qty_kg"`
	UnsoldPct        float64   `json:"unsold_percentage"`
	PriceSpread      float64   `json:"price_spread"`
	MarketEfficiency float64   `json:"market_efficiency"`
}

// HasPrice reports whether the observation carries a usable average price.
func (o CleanedObservation) HasPrice() bool {
	return !math.IsNaN(o.AvgPrice) && o.AvgPrice > 0
}

// Observation is the minimal (date, value) pair consumed by forecasting
// models. It is the series representation at the model boundary.
type Observation struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// IsMissing reports whether v is the explicit missing-value marker.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// Missing returns the explicit missing-value marker.
func Missing() float64 {
	return math.NaN()
}
