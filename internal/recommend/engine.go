// Package recommend turns a price forecast into a sell-or-hold decision
// for a farmer holding stock today. The engine is a pure function of the
// forecast window and the current price estimate, so identical inputs
// always produce identical recommendations.
package recommend

import (
	"fmt"
	"log/slog"
	"time"

	apperrors "spicehold/internal/errors"
	"spicehold/pkg/contracts/domain"
)

// DefaultHoldThresholdPct is the minimum projected gain, in percent,
// before holding stock beats selling now.
const DefaultHoldThresholdPct = 2.0

// Engine scores forecast windows against a configurable gain threshold.
type Engine struct {
	holdThresholdPct float64
	logger           *slog.Logger
}

// NewEngine creates a recommendation engine. A non-positive threshold
// falls back to the default.
func NewEngine(holdThresholdPct float64, logger *slog.Logger) *Engine {
	if holdThresholdPct <= 0 {
		holdThresholdPct = DefaultHoldThresholdPct
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{holdThresholdPct: holdThresholdPct, logger: logger}
}

// Recommend compares the best price in the forecast window against the
// current price and decides between selling now and holding. When the
// caller has no trusted current price (zero or negative), the first
// forecast point stands in for it. Ties on the peak price resolve to the
// earliest date, so a farmer is never told to wait longer for the same
// money.
func (e *Engine) Recommend(points []domain.ForecastPoint, currentPrice float64) (domain.Recommendation, error) {
	if len(points) == 0 {
		return domain.Recommendation{}, fmt.Errorf("recommend: %w", apperrors.ErrEmptyForecast)
	}

	if currentPrice <= 0 {
		currentPrice = points[0].PredictedPrice
	}

	best := points[0]
	for _, p := range points[1:] {
		if p.PredictedPrice > best.PredictedPrice {
			best = p
		}
	}

	gain := best.PredictedPrice - currentPrice
	gainPct := gain / currentPrice * 100
	daysToWait := daysBetween(points[0].Date, best.Date)

	rec := domain.Recommendation{
		CurrentPriceEstimate: currentPrice,
		OptimalPriceEstimate: best.PredictedPrice,
		OptimalSellDate:      best.Date,
		PotentialGain:        gain,
		PotentialGainPct:     gainPct,
		ConfidenceLower:      best.LowerBound,
		ConfidenceUpper:      best.UpperBound,
		DaysToWait:           daysToWait,
	}

	if gainPct > e.holdThresholdPct {
		rec.Action = domain.ActionHold
		rec.Reason = fmt.Sprintf("Price expected to increase by ₹%.0f/kg (%.1f%%)", gain, gainPct)
	} else {
		rec.Action = domain.ActionSell
		rec.Reason = fmt.Sprintf("Current price is near optimal (max gain: %.1f%%)", gainPct)
	}

	e.logger.Info("recommendation issued",
		slog.String("action", string(rec.Action)),
		slog.Float64("current_price", currentPrice),
		slog.Float64("optimal_price", best.PredictedPrice),
		slog.Float64("gain_pct", gainPct),
		slog.Int("days_to_wait", daysToWait))

	return rec, nil
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
