package recommend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "spicehold/internal/errors"
	"spicehold/pkg/contracts/domain"
)

func windowFrom(start time.Time, prices ...float64) []domain.ForecastPoint {
	points := make([]domain.ForecastPoint, len(prices))
	for i, price := range prices {
		points[i] = domain.ForecastPoint{
			Date:           start.AddDate(0, 0, i),
			PredictedPrice: price,
			LowerBound:     price - 80,
			UpperBound:     price + 80,
		}
	}
	return points
}

func TestRecommendHoldOnRisingPrices(t *testing.T) {
	start := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = 3000
	}
	prices[10] = 3100 // peak ten days out

	rec, err := NewEngine(2.0, nil).Recommend(windowFrom(start, prices...), 3000)
	require.NoError(t, err)

	assert.Equal(t, domain.ActionHold, rec.Action)
	assert.Equal(t, 10, rec.DaysToWait)
	assert.Equal(t, start.AddDate(0, 0, 10), rec.OptimalSellDate)
	assert.InDelta(t, 100.0, rec.PotentialGain, 1e-9)
	assert.InDelta(t, 3.33, rec.PotentialGainPct, 0.01)
	assert.Equal(t, "Price expected to increase by ₹100/kg (3.3%)", rec.Reason)
	assert.InDelta(t, 3020.0, rec.ConfidenceLower, 1e-9)
	assert.InDelta(t, 3180.0, rec.ConfidenceUpper, 1e-9)
}

func TestRecommendSellOnFlatForecast(t *testing.T) {
	start := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	rec, err := NewEngine(2.0, nil).Recommend(windowFrom(start, 2950, 2950, 2950), 3000)
	require.NoError(t, err)

	assert.Equal(t, domain.ActionSell, rec.Action)
	assert.LessOrEqual(t, rec.PotentialGain, 0.0)
	assert.Contains(t, rec.Reason, "near optimal")
}

func TestRecommendGainAtThresholdIsSell(t *testing.T) {
	// Exactly the threshold does not justify waiting.
	start := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	rec, err := NewEngine(2.0, nil).Recommend(windowFrom(start, 3000, 3060), 3000)
	require.NoError(t, err)

	assert.InDelta(t, 2.0, rec.PotentialGainPct, 1e-9)
	assert.Equal(t, domain.ActionSell, rec.Action)
}

func TestRecommendTiesResolveToEarliestDate(t *testing.T) {
	start := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	rec, err := NewEngine(2.0, nil).Recommend(windowFrom(start, 3000, 3200, 3100, 3200), 3000)
	require.NoError(t, err)

	assert.Equal(t, start.AddDate(0, 0, 1), rec.OptimalSellDate)
	assert.Equal(t, 1, rec.DaysToWait)
}

func TestRecommendFallsBackToFirstPointPrice(t *testing.T) {
	start := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	rec, err := NewEngine(2.0, nil).Recommend(windowFrom(start, 3000, 3150), 0)
	require.NoError(t, err)

	assert.Equal(t, 3000.0, rec.CurrentPriceEstimate)
	assert.Equal(t, domain.ActionHold, rec.Action)
	assert.InDelta(t, 5.0, rec.PotentialGainPct, 1e-9)
}

func TestRecommendEmptyForecast(t *testing.T) {
	_, err := NewEngine(2.0, nil).Recommend(nil, 3000)
	assert.ErrorIs(t, err, apperrors.ErrEmptyForecast)
}

func TestRecommendIsDeterministic(t *testing.T) {
	start := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	window := windowFrom(start, 3000, 3080, 3120, 3050)
	engine := NewEngine(2.0, nil)

	first, err := engine.Recommend(window, 2990)
	require.NoError(t, err)
	second, err := engine.Recommend(window, 2990)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRecommendConfidenceIntervalFormatting(t *testing.T) {
	start := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	rec, err := NewEngine(2.0, nil).Recommend(windowFrom(start, 3100), 3000)
	require.NoError(t, err)

	assert.Equal(t, "₹3020 - ₹3180", rec.ConfidenceInterval())
}
