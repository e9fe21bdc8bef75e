// Package errors defines the error taxonomy shared by the price
// intelligence pipeline. Data-quality anomalies are not errors: they are
// repaired in place and reported as counters. Errors here cover the three
// conditions the pipeline cannot repair: unusable input shape, unusable
// evaluation windows, and failures inside an injected forecasting model.
package errors

import (
	"errors"
	"fmt"
)

// Category classifies a ProcessingError for callers that branch on the
// failure class rather than the individual error.
type Category string

const (
	// CategoryInputShape marks fatal input problems: the payload could not
	// be interpreted as tabular auction data at all.
	CategoryInputShape Category = "input_shape"
	// CategoryValidation marks unusable evaluation conditions, such as a
	// holdout window on which accuracy metrics are undefined.
	CategoryValidation Category = "validation"
	// CategoryModel marks failures propagated from an injected forecasting
	// model. The core never masks or repairs these.
	CategoryModel Category = "model"
)

// ProcessingError is a categorized pipeline error.
type ProcessingError struct {
	Category Category
	Code     string
	Message  string
	Err      error
}

// Error implements the error interface.
func (e *ProcessingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As chains.
func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// Is matches two ProcessingErrors by code, so sentinel comparisons survive
// wrapping with additional context.
func (e *ProcessingError) Is(target error) bool {
	var pe *ProcessingError
	if errors.As(target, &pe) {
		return e.Code == pe.Code
	}
	return false
}

// New creates a ProcessingError without a wrapped cause.
func New(category Category, code, message string) *ProcessingError {
	return &ProcessingError{Category: category, Code: code, Message: message}
}

// Wrap creates a ProcessingError wrapping an underlying cause.
func Wrap(category Category, code, message string, err error) *ProcessingError {
	return &ProcessingError{Category: category, Code: code, Message: message, Err: err}
}

// Sentinel errors for the conditions the pipeline reports to callers.
var (
	// ErrEmptyInput - the input carried no rows at all.
	ErrEmptyInput = New(CategoryInputShape, "EMPTY_INPUT", "input contains no data rows")
	// ErrNoMatchedColumns - no raw header matched any canonical field.
	ErrNoMatchedColumns = New(CategoryInputShape, "NO_MATCHED_COLUMNS", "no recognizable columns in input header")
	// ErrEmptySeries - an operation that needs a non-empty series got none.
	ErrEmptySeries = New(CategoryValidation, "EMPTY_SERIES", "series contains no observations")
	// ErrSeriesTooShort - not enough observations to split train/holdout.
	ErrSeriesTooShort = New(CategoryValidation, "SERIES_TOO_SHORT", "series too short for train/holdout split")
	// ErrZeroHoldoutPrice - percentage error is undefined on the holdout.
	ErrZeroHoldoutPrice = New(CategoryValidation, "ZERO_HOLDOUT_PRICE", "holdout contains a zero price; MAPE is undefined")
	// ErrInvalidHorizon - a forecast was requested for a non-positive horizon.
	ErrInvalidHorizon = New(CategoryValidation, "INVALID_HORIZON", "forecast horizon must be positive")
	// ErrEmptyForecast - a recommendation was requested for no points.
	ErrEmptyForecast = New(CategoryValidation, "EMPTY_FORECAST", "forecast contains no points")
	// ErrModelFailure - the injected forecasting model failed.
	ErrModelFailure = New(CategoryModel, "MODEL_FAILURE", "forecasting model failure")
)

// ModelFailure wraps an error raised by an injected model fit or predict
// call, preserving the cause for the caller.
func ModelFailure(op string, err error) *ProcessingError {
	return Wrap(CategoryModel, "MODEL_FAILURE", fmt.Sprintf("forecasting model %s failed", op), err)
}

// CategoryOf returns the category of err when it is (or wraps) a
// ProcessingError, and an empty category otherwise.
func CategoryOf(err error) Category {
	var pe *ProcessingError
	if errors.As(err, &pe) {
		return pe.Category
	}
	return ""
}
