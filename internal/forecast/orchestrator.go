package forecast

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	apperrors "spicehold/internal/errors"
	"spicehold/pkg/contracts/domain"
)

// DefaultHoldoutFraction is the trailing share of the series withheld
// from training for accuracy measurement.
const DefaultHoldoutFraction = 0.2

// Orchestrator drives an injected Forecaster through training,
// validation and forecast generation. It holds no model state itself and
// caches nothing: every Forecast call re-derives its window from the
// given anchor, so changing the anchor always yields a genuinely
// different window.
type Orchestrator struct {
	forecaster      Forecaster
	holdoutFraction float64
	logger          *slog.Logger
}

// NewOrchestrator creates an orchestrator around the given model
// implementation. A non-positive holdout fraction falls back to the
// default.
func NewOrchestrator(forecaster Forecaster, holdoutFraction float64, logger *slog.Logger) *Orchestrator {
	if holdoutFraction <= 0 || holdoutFraction >= 1 {
		holdoutFraction = DefaultHoldoutFraction
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		forecaster:      forecaster,
		holdoutFraction: holdoutFraction,
		logger:          logger,
	}
}

// TrainAndValidate splits the chronologically ordered series into a
// leading training segment and a trailing holdout, fits the model on the
// training segment only, and scores it on the holdout. Observations with
// a missing value are excluded before splitting. Model failures propagate
// to the caller; the orchestrator cannot repair them.
func (o *Orchestrator) TrainAndValidate(ctx context.Context, series []domain.Observation) (FittedModel, domain.AccuracyMetrics, error) {
	usable := make([]domain.Observation, 0, len(series))
	for _, obs := range series {
		if domain.IsMissing(obs.Value) {
			continue
		}
		usable = append(usable, obs)
	}

	if len(usable) == 0 {
		return nil, domain.AccuracyMetrics{}, fmt.Errorf("train and validate: %w", apperrors.ErrEmptySeries)
	}

	split := int(float64(len(usable)) * (1 - o.holdoutFraction))
	if split < 2 || split >= len(usable) {
		return nil, domain.AccuracyMetrics{}, fmt.Errorf("train and validate: %d observations: %w",
			len(usable), apperrors.ErrSeriesTooShort)
	}
	train, holdout := usable[:split], usable[split:]

	// Fail before the (potentially expensive) fit if the holdout cannot
	// be scored.
	for _, obs := range holdout {
		if obs.Value == 0 {
			return nil, domain.AccuracyMetrics{}, fmt.Errorf("train and validate: %w", apperrors.ErrZeroHoldoutPrice)
		}
	}

	o.logger.Info("training forecast model",
		slog.Int("train_size", len(train)),
		slog.Int("holdout_size", len(holdout)),
		slog.Time("train_start", train[0].Date),
		slog.Time("train_end", train[len(train)-1].Date))

	model, err := o.forecaster.Fit(ctx, train)
	if err != nil {
		return nil, domain.AccuracyMetrics{}, apperrors.ModelFailure("fit", err)
	}

	dates := make([]time.Time, len(holdout))
	actual := make([]float64, len(holdout))
	for i, obs := range holdout {
		dates[i] = obs.Date
		actual[i] = obs.Value
	}

	points, err := model.Predict(ctx, dates)
	if err != nil {
		return nil, domain.AccuracyMetrics{}, apperrors.ModelFailure("predict", err)
	}
	if len(points) != len(holdout) {
		return nil, domain.AccuracyMetrics{}, apperrors.ModelFailure("predict",
			fmt.Errorf("expected %d points, got %d", len(holdout), len(points)))
	}

	predicted := make([]float64, len(points))
	for i, p := range points {
		predicted[i] = p.PredictedPrice
	}

	metrics, err := Evaluate(actual, predicted)
	if err != nil {
		return nil, domain.AccuracyMetrics{}, err
	}
	metrics.TrainSize = len(train)

	o.logger.Info("model validation complete",
		slog.Float64("mae", metrics.MAE),
		slog.Float64("rmse", metrics.RMSE),
		slog.Float64("mape", metrics.MAPE),
		slog.Float64("r2", metrics.R2),
		slog.String("interpretation", metrics.Interpretation))

	return model, metrics, nil
}

// Forecast queries the fitted model over a contiguous window of daysAhead
// calendar dates starting at anchor and returns the points in ascending
// date order. A zero anchor defaults to the current date. The anchor may
// lie anywhere; the model extrapolates, so no training-data analogue is
// required.
func (o *Orchestrator) Forecast(ctx context.Context, model FittedModel, daysAhead int, anchor time.Time) ([]domain.ForecastPoint, error) {
	if daysAhead <= 0 {
		return nil, fmt.Errorf("forecast: %d days: %w", daysAhead, apperrors.ErrInvalidHorizon)
	}
	if anchor.IsZero() {
		now := time.Now().UTC()
		anchor = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	dates := make([]time.Time, daysAhead)
	for i := range dates {
		dates[i] = anchor.AddDate(0, 0, i)
	}

	points, err := model.Predict(ctx, dates)
	if err != nil {
		return nil, apperrors.ModelFailure("predict", err)
	}
	if len(points) != daysAhead {
		return nil, apperrors.ModelFailure("predict",
			fmt.Errorf("expected %d points, got %d", daysAhead, len(points)))
	}

	o.logger.Info("forecast generated",
		slog.Time("anchor", anchor),
		slog.Int("days_ahead", daysAhead),
		slog.Time("window_end", dates[len(dates)-1]))

	return points, nil
}
