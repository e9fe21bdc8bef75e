package forecast

import (
	"fmt"
	"math"

	apperrors "spicehold/internal/errors"
	"spicehold/pkg/contracts/domain"
)

// Evaluate scores predictions against holdout actuals with MAE, RMSE,
// MAPE and R². A zero actual makes MAPE undefined and is reported as a
// validation error rather than producing a silently wrong metric.
func Evaluate(actual, predicted []float64) (domain.AccuracyMetrics, error) {
	if len(actual) == 0 || len(actual) != len(predicted) {
		return domain.AccuracyMetrics{}, fmt.Errorf("evaluate: %d actuals vs %d predictions: %w",
			len(actual), len(predicted), apperrors.ErrEmptySeries)
	}
	for _, a := range actual {
		if a == 0 {
			return domain.AccuracyMetrics{}, fmt.Errorf("evaluate: %w", apperrors.ErrZeroHoldoutPrice)
		}
	}

	n := float64(len(actual))

	sumAbs, sumSq, sumPct, meanActual := 0.0, 0.0, 0.0, 0.0
	for i := range actual {
		diff := actual[i] - predicted[i]
		sumAbs += math.Abs(diff)
		sumSq += diff * diff
		sumPct += math.Abs(diff / actual[i])
		meanActual += actual[i]
	}
	meanActual /= n

	ssTot := 0.0
	for _, a := range actual {
		d := a - meanActual
		ssTot += d * d
	}

	r2 := 0.0
	if ssTot > 0 {
		r2 = 1 - sumSq/ssTot
	}

	mae := sumAbs / n
	metrics := domain.AccuracyMetrics{
		MAE:            mae,
		RMSE:           math.Sqrt(sumSq / n),
		MAPE:           sumPct / n * 100,
		R2:             r2,
		HoldoutSize:    len(actual),
		Interpretation: interpretAccuracy(mae, meanActual),
	}
	return metrics, nil
}

// interpretAccuracy classifies MAE relative to the mean holdout price.
func interpretAccuracy(mae, meanActual float64) string {
	if meanActual <= 0 {
		return "unknown"
	}
	switch maePct := mae / meanActual * 100; {
	case maePct < 5:
		return "excellent"
	case maePct < 10:
		return "good"
	default:
		return "moderate"
	}
}
