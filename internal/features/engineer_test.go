package features

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spicehold/pkg/contracts/domain"
)

func series(prices, volumes []float64) []domain.CleanedObservation {
	obs := make([]domain.CleanedObservation, len(prices))
	for i := range prices {
		obs[i] = domain.CleanedObservation{
			Date:         time.Date(2025, 8, 1+i, 0, 0, 0, 0, time.UTC),
			AvgPrice:     prices[i],
			MaxPrice:     prices[i] + 100,
			TotalArrival: volumes[i],
			QtySold:      volumes[i] * 0.9,
		}
	}
	return obs
}

func TestEnrichTimeFeatures(t *testing.T) {
	rows := Enrich(series([]float64{3000, 3050, 3100}, []float64{100, 110, 120}))
	require.Len(t, rows, 3)

	assert.Equal(t, time.Friday, rows[0].DayOfWeek) // 2025-08-01 is a Friday
	assert.Equal(t, 1, rows[0].DayOfMonth)
	assert.Equal(t, time.August, rows[0].Month)
	assert.Equal(t, 0, rows[0].DaysSinceStart)
	assert.Equal(t, 2, rows[2].DaysSinceStart)
}

func TestEnrichRollingStatistics(t *testing.T) {
	rows := Enrich(series([]float64{3000, 3060, 3120, 3180}, []float64{100, 100, 100, 100}))
	require.Len(t, rows, 4)

	// Minimum window of 1: the first row still carries a value.
	assert.Equal(t, 3000.0, rows[0].PriceMA3)
	assert.InDelta(t, 3030.0, rows[1].PriceMA3, 1e-9)
	assert.InDelta(t, 3060.0, rows[2].PriceMA3, 1e-9)
	// Trailing window drops the first observation on row 3.
	assert.InDelta(t, 3120.0, rows[3].PriceMA3, 1e-9)

	// Sample std of {3000, 3060} = 42.43; row 0 has no defined deviation
	// and is back-filled from row 1.
	assert.InDelta(t, 42.4264, rows[1].PriceVolatility, 1e-3)
	assert.Equal(t, rows[1].PriceVolatility, rows[0].PriceVolatility)
}

func TestEnrichDeltasAndBackfill(t *testing.T) {
	rows := Enrich(series([]float64{3000, 3060}, []float64{100, 110}))
	require.Len(t, rows, 2)

	assert.Equal(t, 60.0, rows[1].PriceChange)
	assert.InDelta(t, 2.0, rows[1].PriceChangePct, 1e-9)
	assert.InDelta(t, 10.0, rows[1].VolumeChangePct, 1e-9)

	// First-row gaps resolve by back-fill.
	assert.Equal(t, rows[1].PriceChange, rows[0].PriceChange)
	assert.Equal(t, rows[1].PriceChangePct, rows[0].PriceChangePct)
}

func TestEnrichZeroPriorPercentChangeIsFilled(t *testing.T) {
	rows := Enrich(series([]float64{3000, 3050, 3100}, []float64{0, 150, 180}))
	require.Len(t, rows, 3)

	// Volume pct change against a zero prior is undefined; the fill
	// policy resolves it from the next defined value.
	assert.InDelta(t, 20.0, rows[2].VolumeChangePct, 1e-9)
	assert.Equal(t, rows[2].VolumeChangePct, rows[1].VolumeChangePct)
	assert.Equal(t, rows[2].VolumeChangePct, rows[0].VolumeChangePct)

	// Price/volume against zero volume is likewise undefined, then filled.
	assert.False(t, math.IsNaN(rows[0].PriceVolumeRatio))
	assert.False(t, math.IsInf(rows[0].PriceVolumeRatio, 0))
}

func TestEnrichMatrixIsDense(t *testing.T) {
	rows := Enrich(series(
		[]float64{3000, 2950, 3100, 3080, 3120},
		[]float64{120, 90, 0, 140, 100},
	))

	for i, row := range rows {
		for name, v := range map[string]float64{
			"price_ma":       row.PriceMA3,
			"price_vol":      row.PriceVolatility,
			"price_change":   row.PriceChange,
			"price_pct":      row.PriceChangePct,
			"volume_ma":      row.VolumeMA3,
			"volume_pct":     row.VolumeChangePct,
			"price_vol_rtio": row.PriceVolumeRatio,
		} {
			assert.False(t, math.IsNaN(v), "row %d %s is NaN", i, name)
			assert.False(t, math.IsInf(v, 0), "row %d %s is Inf", i, name)
		}
	}
}

func TestEnrichIsIdempotentOverBaseColumns(t *testing.T) {
	input := series(
		[]float64{3000, 2950, 3100, 3080, 3120, 3090},
		[]float64{120, 90, 60, 140, 100, 95},
	)

	once := Enrich(input)
	twice := Enrich(BaseColumns(once))

	assert.Equal(t, once, twice)
}

func TestEnrichPreservesOrderingAndLength(t *testing.T) {
	input := series([]float64{3000, 3050, 3100}, []float64{100, 110, 120})
	rows := Enrich(input)

	require.Len(t, rows, len(input))
	for i := range rows {
		assert.Equal(t, input[i].Date, rows[i].Date)
		assert.Equal(t, input[i].AvgPrice, rows[i].AvgPrice)
	}
}

func TestEnrichEmptyInput(t *testing.T) {
	assert.Nil(t, Enrich(nil))
}

func TestEnrichPureFunction(t *testing.T) {
	input := series([]float64{3000, 3050}, []float64{100, 110})
	snapshot := append([]domain.CleanedObservation(nil), input...)

	Enrich(input)
	assert.Equal(t, snapshot, input, "enrichment must not mutate its input")
}
