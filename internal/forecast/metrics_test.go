package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "spicehold/internal/errors"
)

func TestEvaluatePerfectPredictions(t *testing.T) {
	actual := []float64{3000, 3100, 3200}
	metrics, err := Evaluate(actual, actual)
	require.NoError(t, err)

	assert.Equal(t, 0.0, metrics.MAE)
	assert.Equal(t, 0.0, metrics.RMSE)
	assert.Equal(t, 0.0, metrics.MAPE)
	assert.Equal(t, 1.0, metrics.R2)
	assert.Equal(t, 3, metrics.HoldoutSize)
	assert.Equal(t, "excellent", metrics.Interpretation)
}

func TestEvaluateKnownValues(t *testing.T) {
	actual := []float64{100, 200}
	predicted := []float64{110, 190}

	metrics, err := Evaluate(actual, predicted)
	require.NoError(t, err)

	assert.InDelta(t, 10.0, metrics.MAE, 1e-9)
	assert.InDelta(t, 10.0, metrics.RMSE, 1e-9)
	// (10/100 + 10/200) / 2 * 100 = 7.5
	assert.InDelta(t, 7.5, metrics.MAPE, 1e-9)
	// ssRes=200, ssTot=5000 -> 0.96
	assert.InDelta(t, 0.96, metrics.R2, 1e-9)
	assert.Equal(t, "good", metrics.Interpretation)
}

func TestEvaluateZeroActualIsValidationError(t *testing.T) {
	_, err := Evaluate([]float64{3000, 0}, []float64{3000, 2900})
	assert.ErrorIs(t, err, apperrors.ErrZeroHoldoutPrice)
	assert.Equal(t, apperrors.CategoryValidation, apperrors.CategoryOf(err))
}

func TestEvaluateShapeErrors(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, err := Evaluate(nil, nil)
		assert.ErrorIs(t, err, apperrors.ErrEmptySeries)
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := Evaluate([]float64{1, 2}, []float64{1})
		assert.ErrorIs(t, err, apperrors.ErrEmptySeries)
	})
}

func TestInterpretAccuracy(t *testing.T) {
	tests := []struct {
		name       string
		mae        float64
		meanActual float64
		want       string
	}{
		{"excellent", 100, 3000, "excellent"},
		{"good", 250, 3000, "good"},
		{"moderate", 500, 3000, "moderate"},
		{"degenerate mean", 10, 0, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, interpretAccuracy(tt.mae, tt.meanActual))
		})
	}
}
