package infrastructure

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PipelineMetrics holds application-specific instruments for the price
// intelligence pipeline.
type PipelineMetrics struct {
	RowsParsed            metric.Int64Counter
	PricesReclassified    metric.Int64Counter
	PricesImputed         metric.Int64Counter
	RowsDropped           metric.Int64Counter
	ForecastsGenerated    metric.Int64Counter
	RecommendationsIssued metric.Int64Counter
}

// CreatePipelineMetrics creates the pipeline instruments on the given meter.
func CreatePipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	rowsParsed, err := meter.Int64Counter(
		"spicehold_rows_parsed_total",
		metric.WithDescription("Raw auction rows parsed from input files"),
	)
	if err != nil {
		return nil, fmt.Errorf("create rows_parsed counter: %w", err)
	}

	pricesReclassified, err := meter.Int64Counter(
		"spicehold_prices_reclassified_total",
		metric.WithDescription("Prices reclassified as missing during cleaning"),
	)
	if err != nil {
		return nil, fmt.Errorf("create prices_reclassified counter: %w", err)
	}

	pricesImputed, err := meter.Int64Counter(
		"spicehold_prices_imputed_total",
		metric.WithDescription("Missing prices filled by carry-forward/backward imputation"),
	)
	if err != nil {
		return nil, fmt.Errorf("create prices_imputed counter: %w", err)
	}

	rowsDropped, err := meter.Int64Counter(
		"spicehold_rows_dropped_total",
		metric.WithDescription("Rows dropped as unsalvageable during cleaning"),
	)
	if err != nil {
		return nil, fmt.Errorf("create rows_dropped counter: %w", err)
	}

	forecastsGenerated, err := meter.Int64Counter(
		"spicehold_forecasts_generated_total",
		metric.WithDescription("Forecast paths generated"),
	)
	if err != nil {
		return nil, fmt.Errorf("create forecasts_generated counter: %w", err)
	}

	recommendationsIssued, err := meter.Int64Counter(
		"spicehold_recommendations_issued_total",
		metric.WithDescription("Sell/hold recommendations issued"),
	)
	if err != nil {
		return nil, fmt.Errorf("create recommendations_issued counter: %w", err)
	}

	return &PipelineMetrics{
		RowsParsed:            rowsParsed,
		PricesReclassified:    pricesReclassified,
		PricesImputed:         pricesImputed,
		RowsDropped:           rowsDropped,
		ForecastsGenerated:    forecastsGenerated,
		RecommendationsIssued: recommendationsIssued,
	}, nil
}

// RecordCleaning records the repair counters from a cleaning pass.
func (m *PipelineMetrics) RecordCleaning(ctx context.Context, reclassified, imputed, dropped int64) {
	m.PricesReclassified.Add(ctx, reclassified)
	m.PricesImputed.Add(ctx, imputed)
	m.RowsDropped.Add(ctx, dropped)
}

// RecordRecommendation records an issued recommendation tagged by action.
func (m *PipelineMetrics) RecordRecommendation(ctx context.Context, action string) {
	m.RecommendationsIssued.Add(ctx, 1,
		metric.WithAttributes(attribute.String("action", action)))
}
