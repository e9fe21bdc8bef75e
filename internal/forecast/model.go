package forecast

import (
	"context"
	"time"

	"spicehold/pkg/contracts/domain"
)

// Forecaster is the boundary to the external statistical model. Any
// implementation offering additive trend/seasonality decomposition with
// uncertainty bands satisfies the contract; the engine never depends on a
// specific library.
type Forecaster interface {
	// Fit trains a model on a chronologically ordered price series and
	// returns an immutable fitted model.
	Fit(ctx context.Context, series []domain.Observation) (FittedModel, error)
}

// FittedModel produces point estimates with uncertainty bands for
// arbitrary dates, including dates far outside the training range.
//
// Usage is read-many/write-once: fitting happens exactly once, after
// which the fitted model must be treated as read-only. Concurrent Predict
// calls on the same fitted model are safe for conforming implementations;
// fitting must never run concurrently with prediction on the same
// instance.
type FittedModel interface {
	Predict(ctx context.Context, dates []time.Time) ([]domain.ForecastPoint, error)
}
