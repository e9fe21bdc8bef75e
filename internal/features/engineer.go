// Package features derives the time, trend, volatility and volume signals
// that feed the forecasting stage. Enrichment is a pure function of the
// cleaned series: no hidden state, same ordering as the input, and
// idempotent over the base columns.
package features

import (
	"math"

	"spicehold/pkg/contracts/domain"
)

// rollingWindow is the trailing window length for moving statistics. The
// minimum window is one observation, so the first rows still get a value.
const rollingWindow = 3

// Enrich derives the full feature set from a cleaned, date-ascending
// series. Gaps left by differencing and rolling windows are back-filled
// then forward-filled, so the returned matrix is fully dense wherever the
// underlying base column carries any finite value at all.
func Enrich(cleaned []domain.CleanedObservation) []domain.FeatureRow {
	if len(cleaned) == 0 {
		return nil
	}

	n := len(cleaned)
	rows := make([]domain.FeatureRow, n)

	prices := make([]float64, n)
	volumes := make([]float64, n)
	for i, obs := range cleaned {
		prices[i] = obs.AvgPrice
		volumes[i] = obs.TotalArrival
	}

	priceMA := rollingMean(prices, rollingWindow)
	priceStd := rollingStd(prices, rollingWindow)
	priceChange := diff(prices)
	priceChangePct := pctChange(prices)
	volumeMA := rollingMean(volumes, rollingWindow)
	volumeChangePct := pctChange(volumes)

	ratio := make([]float64, n)
	for i := range prices {
		ratio[i] = prices[i] / (volumes[i] / 1000)
	}

	// Resolve gaps from differencing/rolling windows; never leave a
	// derived value undefined.
	for _, series := range [][]float64{priceMA, priceStd, priceChange, priceChangePct, volumeMA, volumeChangePct, ratio} {
		fillGaps(series)
	}

	start := cleaned[0].Date
	for i, obs := range cleaned {
		rows[i] = domain.FeatureRow{
			CleanedObservation: obs,

			DayOfWeek:      obs.Date.Weekday(),
			DayOfMonth:     obs.Date.Day(),
			Month:          obs.Date.Month(),
			DaysSinceStart: int(obs.Date.Sub(start).Hours() / 24),

			PriceMA3:        priceMA[i],
			PriceVolatility: priceStd[i],
			PriceChange:     priceChange[i],
			PriceChangePct:  priceChangePct[i],

			VolumeMA3:        volumeMA[i],
			VolumeChangePct:  volumeChangePct[i],
			PriceVolumeRatio: ratio[i],
		}
	}

	return rows
}

// BaseColumns strips an enriched row back to its cleaned observation,
// allowing re-enrichment without derived-on-derived drift.
func BaseColumns(rows []domain.FeatureRow) []domain.CleanedObservation {
	out := make([]domain.CleanedObservation, len(rows))
	for i, row := range rows {
		out[i] = row.CleanedObservation
	}
	return out
}

// rollingMean computes a trailing-window mean with minimum window 1,
// skipping missing values inside the window.
func rollingMean(vals []float64, window int) []float64 {
	out := make([]float64, len(vals))
	for i := range vals {
		lo := i - window + 1
		if lo < 0 {
			lo = 0
		}
		sum, count := 0.0, 0
		for j := lo; j <= i; j++ {
			if isGap(vals[j]) {
				continue
			}
			sum += vals[j]
			count++
		}
		if count == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(count)
	}
	return out
}

// rollingStd computes the trailing-window sample standard deviation. A
// window with fewer than two present values has no defined deviation and
// yields a gap.
func rollingStd(vals []float64, window int) []float64 {
	out := make([]float64, len(vals))
	for i := range vals {
		lo := i - window + 1
		if lo < 0 {
			lo = 0
		}
		sum, count := 0.0, 0
		for j := lo; j <= i; j++ {
			if isGap(vals[j]) {
				continue
			}
			sum += vals[j]
			count++
		}
		if count < 2 {
			out[i] = math.NaN()
			continue
		}
		mean := sum / float64(count)
		ss := 0.0
		for j := lo; j <= i; j++ {
			if isGap(vals[j]) {
				continue
			}
			d := vals[j] - mean
			ss += d * d
		}
		out[i] = math.Sqrt(ss / float64(count-1))
	}
	return out
}

// diff computes the day-over-day delta; the first row has no prior and
// yields a gap.
func diff(vals []float64) []float64 {
	out := make([]float64, len(vals))
	for i := range vals {
		if i == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = vals[i] - vals[i-1]
	}
	return out
}

// pctChange computes the day-over-day percent delta. A zero or missing
// prior leaves the result undefined for the fill policy to resolve.
func pctChange(vals []float64) []float64 {
	out := make([]float64, len(vals))
	for i := range vals {
		if i == 0 || isGap(vals[i-1]) || vals[i-1] == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = (vals[i] - vals[i-1]) / vals[i-1] * 100
	}
	return out
}

// fillGaps resolves undefined values by back-fill then forward-fill.
func fillGaps(vals []float64) {
	next := math.NaN()
	for i := len(vals) - 1; i >= 0; i-- {
		if isGap(vals[i]) {
			if !math.IsNaN(next) {
				vals[i] = next
			}
			continue
		}
		next = vals[i]
	}

	last := math.NaN()
	for i := range vals {
		if isGap(vals[i]) {
			if !math.IsNaN(last) {
				vals[i] = last
			}
			continue
		}
		last = vals[i]
	}
}

// isGap reports whether v is undefined: missing or non-finite arithmetic.
func isGap(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}
