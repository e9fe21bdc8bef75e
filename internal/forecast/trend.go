package forecast

import (
	"context"
	"fmt"
	"math"
	"time"

	"spicehold/pkg/contracts/domain"
)

// intervalZ is the normal quantile for an 80% central interval, matching
// the interval width used for the production model's uncertainty bands.
const intervalZ = 1.2816

// TrendModel is a linear-trend plus day-of-week seasonal baseline that
// satisfies the Forecaster contract. It fits an ordinary least squares
// trend over days-since-start, estimates an additive weekday component
// from the residuals, and brackets predictions with bands derived from
// the residual standard deviation. It is fully deterministic and
// extrapolates to arbitrary dates.
type TrendModel struct{}

// NewTrendModel creates the baseline model.
func NewTrendModel() *TrendModel {
	return &TrendModel{}
}

// Fit trains the baseline on the given series. It needs at least two
// observations on distinct dates to identify a trend.
func (m *TrendModel) Fit(_ context.Context, series []domain.Observation) (FittedModel, error) {
	usable := make([]domain.Observation, 0, len(series))
	for _, obs := range series {
		if domain.IsMissing(obs.Value) {
			continue
		}
		usable = append(usable, obs)
	}
	if len(usable) < 2 {
		return nil, fmt.Errorf("trend model needs at least 2 observations, got %d", len(usable))
	}

	base := usable[0].Date
	xs := make([]float64, len(usable))
	ys := make([]float64, len(usable))
	for i, obs := range usable {
		xs[i] = obs.Date.Sub(base).Hours() / 24
		ys[i] = obs.Value
	}

	slope, intercept, ok := leastSquares(xs, ys)
	if !ok {
		return nil, fmt.Errorf("trend model needs observations on distinct dates")
	}

	// Additive weekday component from trend residuals.
	var seasonal [7]float64
	var counts [7]int
	for i, obs := range usable {
		resid := ys[i] - (intercept + slope*xs[i])
		wd := obs.Date.Weekday()
		seasonal[wd] += resid
		counts[wd]++
	}
	for wd := range seasonal {
		if counts[wd] > 0 {
			seasonal[wd] /= float64(counts[wd])
		}
	}

	// Residual spread after removing trend and seasonality drives the
	// uncertainty bands.
	ss := 0.0
	for i, obs := range usable {
		resid := ys[i] - (intercept + slope*xs[i] + seasonal[obs.Date.Weekday()])
		ss += resid * resid
	}
	std := math.Sqrt(ss / float64(len(usable)))

	return &fittedTrend{
		base:      base,
		slope:     slope,
		intercept: intercept,
		seasonal:  seasonal,
		halfwidth: intervalZ * std,
	}, nil
}

// fittedTrend is the immutable fitted state of a TrendModel. It is safe
// for concurrent Predict calls.
type fittedTrend struct {
	base      time.Time
	slope     float64
	intercept float64
	seasonal  [7]float64
	halfwidth float64
}

// Predict returns one forecast point per requested date, in request order.
func (f *fittedTrend) Predict(_ context.Context, dates []time.Time) ([]domain.ForecastPoint, error) {
	points := make([]domain.ForecastPoint, len(dates))
	for i, date := range dates {
		x := date.Sub(f.base).Hours() / 24
		point := f.intercept + f.slope*x + f.seasonal[date.Weekday()]
		points[i] = domain.ForecastPoint{
			Date:           date,
			PredictedPrice: point,
			LowerBound:     point - f.halfwidth,
			UpperBound:     point + f.halfwidth,
		}
	}
	return points, nil
}

// leastSquares fits y = intercept + slope*x. ok is false when x carries
// no variance.
func leastSquares(xs, ys []float64) (slope, intercept float64, ok bool) {
	n := float64(len(xs))
	meanX, meanY := 0.0, 0.0
	for i := range xs {
		meanX += xs[i]
		meanY += ys[i]
	}
	meanX /= n
	meanY /= n

	num, den := 0.0, 0.0
	for i := range xs {
		dx := xs[i] - meanX
		num += dx * (ys[i] - meanY)
		den += dx * dx
	}
	if den == 0 {
		return 0, 0, false
	}
	slope = num / den
	intercept = meanY - slope*meanX
	return slope, intercept, true
}
