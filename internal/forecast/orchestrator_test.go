package forecast

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "spicehold/internal/errors"
	"spicehold/pkg/contracts/domain"
)

// stubForecaster returns a canned model or error, for exercising the
// orchestrator without real fitting.
type stubForecaster struct {
	model  FittedModel
	fitErr error
}

func (s *stubForecaster) Fit(context.Context, []domain.Observation) (FittedModel, error) {
	if s.fitErr != nil {
		return nil, s.fitErr
	}
	return s.model, nil
}

// flatModel predicts a constant price for every requested date.
type flatModel struct {
	price      float64
	predictErr error
}

func (m *flatModel) Predict(_ context.Context, dates []time.Time) ([]domain.ForecastPoint, error) {
	if m.predictErr != nil {
		return nil, m.predictErr
	}
	points := make([]domain.ForecastPoint, len(dates))
	for i, d := range dates {
		points[i] = domain.ForecastPoint{
			Date:           d,
			PredictedPrice: m.price,
			LowerBound:     m.price - 50,
			UpperBound:     m.price + 50,
		}
	}
	return points, nil
}

func TestTrainAndValidateSplitsChronologically(t *testing.T) {
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	series := linearSeries(start, 50, 3000, 4)

	orch := NewOrchestrator(NewTrendModel(), 0.2, nil)
	model, metrics, err := orch.TrainAndValidate(context.Background(), series)
	require.NoError(t, err)
	require.NotNil(t, model)

	assert.Equal(t, 40, metrics.TrainSize)
	assert.Equal(t, 10, metrics.HoldoutSize)
	// Noise-free linear data validates perfectly.
	assert.InDelta(t, 0.0, metrics.MAE, 1e-6)
	assert.InDelta(t, 1.0, metrics.R2, 1e-6)
	assert.Equal(t, "excellent", metrics.Interpretation)
}

func TestTrainAndValidateExcludesMissingValues(t *testing.T) {
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	series := linearSeries(start, 50, 3000, 4)
	series[5].Value = domain.Missing()
	series[17].Value = domain.Missing()

	orch := NewOrchestrator(NewTrendModel(), 0.2, nil)
	_, metrics, err := orch.TrainAndValidate(context.Background(), series)
	require.NoError(t, err)

	assert.Equal(t, 48, metrics.TrainSize+metrics.HoldoutSize)
}

func TestTrainAndValidateZeroHoldoutPrice(t *testing.T) {
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	series := linearSeries(start, 20, 3000, 1)
	series[19].Value = 0 // falls in the trailing holdout

	orch := NewOrchestrator(NewTrendModel(), 0.2, nil)
	_, _, err := orch.TrainAndValidate(context.Background(), series)
	assert.ErrorIs(t, err, apperrors.ErrZeroHoldoutPrice)
}

func TestTrainAndValidateSeriesErrors(t *testing.T) {
	orch := NewOrchestrator(NewTrendModel(), 0.2, nil)
	ctx := context.Background()
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("empty", func(t *testing.T) {
		_, _, err := orch.TrainAndValidate(ctx, nil)
		assert.ErrorIs(t, err, apperrors.ErrEmptySeries)
	})

	t.Run("too short", func(t *testing.T) {
		_, _, err := orch.TrainAndValidate(ctx, linearSeries(start, 2, 3000, 1))
		assert.ErrorIs(t, err, apperrors.ErrSeriesTooShort)
	})
}

func TestTrainAndValidatePropagatesModelFailure(t *testing.T) {
	cause := errors.New("convergence failure")
	orch := NewOrchestrator(&stubForecaster{fitErr: cause}, 0.2, nil)

	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	_, _, err := orch.TrainAndValidate(context.Background(), linearSeries(start, 20, 3000, 1))

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, apperrors.CategoryModel, apperrors.CategoryOf(err))
}

func TestForecastWindow(t *testing.T) {
	orch := NewOrchestrator(nil, 0.2, nil)
	anchor := time.Date(2025, 9, 14, 0, 0, 0, 0, time.UTC)

	points, err := orch.Forecast(context.Background(), &flatModel{price: 3000}, 30, anchor)
	require.NoError(t, err)
	require.Len(t, points, 30)

	assert.Equal(t, anchor, points[0].Date)
	assert.Equal(t, anchor.AddDate(0, 0, 29), points[29].Date)
	for i, p := range points {
		assert.Equal(t, anchor.AddDate(0, 0, i), p.Date)
		assert.LessOrEqual(t, p.LowerBound, p.PredictedPrice)
		assert.GreaterOrEqual(t, p.PredictedPrice, p.LowerBound)
		assert.LessOrEqual(t, p.PredictedPrice, p.UpperBound)
	}
}

func TestForecastAnchorOutsideHistory(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	model, err := NewTrendModel().Fit(context.Background(), linearSeries(start, 30, 3000, 2))
	require.NoError(t, err)

	orch := NewOrchestrator(nil, 0.2, nil)
	farFuture := time.Date(2031, 3, 1, 0, 0, 0, 0, time.UTC)

	points, err := orch.Forecast(context.Background(), model, 7, farFuture)
	require.NoError(t, err)
	assert.Equal(t, farFuture, points[0].Date)
}

func TestForecastRederivesWindowPerCall(t *testing.T) {
	orch := NewOrchestrator(nil, 0.2, nil)
	model := &flatModel{price: 3000}
	ctx := context.Background()

	a1 := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	a2 := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)

	p1, err := orch.Forecast(ctx, model, 5, a1)
	require.NoError(t, err)
	p2, err := orch.Forecast(ctx, model, 5, a2)
	require.NoError(t, err)

	// Same horizon, different anchor: a stale cache keyed on horizon
	// would repeat the first window.
	assert.Equal(t, a1, p1[0].Date)
	assert.Equal(t, a2, p2[0].Date)
	assert.NotEqual(t, p1[0].Date, p2[0].Date)
}

func TestForecastDefaultAnchorIsToday(t *testing.T) {
	orch := NewOrchestrator(nil, 0.2, nil)

	before := time.Now().UTC().Truncate(24 * time.Hour)
	points, err := orch.Forecast(context.Background(), &flatModel{price: 3000}, 3, time.Time{})
	require.NoError(t, err)
	after := time.Now().UTC().Truncate(24 * time.Hour)

	assert.False(t, points[0].Date.Before(before))
	assert.False(t, points[0].Date.After(after))
}

func TestForecastErrors(t *testing.T) {
	orch := NewOrchestrator(nil, 0.2, nil)
	ctx := context.Background()
	anchor := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	t.Run("invalid horizon", func(t *testing.T) {
		_, err := orch.Forecast(ctx, &flatModel{price: 3000}, 0, anchor)
		assert.ErrorIs(t, err, apperrors.ErrInvalidHorizon)
	})

	t.Run("predict failure propagates", func(t *testing.T) {
		cause := errors.New("matrix blew up")
		_, err := orch.Forecast(ctx, &flatModel{predictErr: cause}, 10, anchor)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, apperrors.CategoryModel, apperrors.CategoryOf(err))
	})
}
