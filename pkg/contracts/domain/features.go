package domain

import "time"

// FeatureRow is a CleanedObservation enriched with the time, trend,
// volatility and volume signals consumed by the forecasting stage.
// After enrichment the matrix is fully dense: every derived field holds a
// finite value (gaps from differencing and rolling windows are back-filled
// then forward-filled).
type FeatureRow struct {
	CleanedObservation

	DayOfWeek      time.Weekday `json:"day_of_week"`
	DayOfMonth     int          `json:"day_of_month"`
	Month          time.Month   `json:"month"`
	DaysSinceStart int          `json:"days_since_start"`

	PriceMA3        float64 `json:"price_ma_3d"`
	PriceVolatility float64 `json:"price_volatility"`
	PriceChange     float64 `json:"price_change"`
	PriceChangePct  float64 `json:"price_change_pct"`

	VolumeMA3        float64 `json:"volume_ma_3d"`
	VolumeChangePct  float64 `json:"volume_change_pct"`
	PriceVolumeRatio float64 `json:"price_volume_ratio"`
}
