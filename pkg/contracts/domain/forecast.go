package domain

import (
	"fmt"
	"time"
)

// ForecastPoint is a single day of a forward price path produced by a
// fitted model. Bounds bracket the point estimate: Lower <= Predicted <=
// Upper. A model emitting inverted bounds is in breach of its contract.
type ForecastPoint struct {
	Date           time.Time `json:"date"`
	PredictedPrice float64   `json:"predicted_price"`
	LowerBound     float64   `json:"lower_bound"`
	UpperBound     float64   `json:"upper_bound"`
}

// AccuracyMetrics summarises holdout performance of a fitted model.
type AccuracyMetrics struct {
	MAE            float64 `json:"mae"`
	RMSE           float64 `json:"rmse"`
	MAPE           float64 `json:"mape"`
	R2             float64 `json:"r2"`
	TrainSize      int     `json:"train_size"`
	HoldoutSize    int     `json:"holdout_size"`
	Interpretation string  `json:"interpretation"`
}

// Action is the binary outcome of a sell/hold recommendation.
type Action string

const (
	ActionHold Action = "HOLD"
	ActionSell Action = "SELL"
)

// Recommendation is the complete, auditable output of the decision engine.
// It is a flat record intended for direct serialization; it is never
// partial: every field is populated for a well-formed forecast.
type Recommendation struct {
	Action               Action    `json:"action"`
	Reason               string    `json:"reason"`
	CurrentPriceEstimate float64   `json:"current_price_estimate"`
	OptimalPriceEstimate float64   `json:"optimal_price_estimate"`
	OptimalSellDate      time.Time `json:"optimal_sell_date"`
	PotentialGain        float64   `json:"potential_gain_rs_per_kg"`
	PotentialGainPct     float64   `json:"potential_gain_percentage"`
	ConfidenceLower      float64   `json:"confidence_lower"`
	ConfidenceUpper      float64   `json:"confidence_upper"`
	DaysToWait           int       `json:"days_to_wait"`
}

// ConfidenceInterval renders the optimal-day bounds in the display format
// used by the presentation layer.
func (r Recommendation) ConfidenceInterval() string {
	return fmt.Sprintf("₹%.0f - ₹%.0f", r.ConfidenceLower, r.ConfidenceUpper)
}
