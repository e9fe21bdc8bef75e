// Command forecaster trains a price model on the cleaned daily series,
// validates it on a trailing holdout, generates a forward price path and
// issues a sell-or-hold recommendation.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"spicehold/internal/config"
	"spicehold/internal/dataprocessing"
	"spicehold/internal/exporter"
	"spicehold/internal/forecast"
	"spicehold/internal/infrastructure"
	"spicehold/internal/recommend"
	"spicehold/pkg/contracts/domain"
)

func main() {
	configFile := flag.String("config", "", "path to YAML config file")
	inFile := flag.String("in", "cleaned_series.csv", "cleaned series report produced by the processor")
	currentPrice := flag.Float64("current-price", 0, "today's market price in Rs/kg (0 uses the model estimate)")
	horizon := flag.Int("horizon", 0, "forecast horizon in days (0 uses the configured horizon)")
	forecastOut := flag.String("forecast", "forecast.csv", "output name for the forecast report")
	recOut := flag.String("recommendation", "recommendation.csv", "output name for the recommendation report")
	traceEnabled := flag.Bool("trace", false, "emit stdout trace spans for the train/forecast stages")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogger()

	otelCfg := infrastructure.DefaultOTelConfig()
	otelCfg.EnableTracing = *traceEnabled
	providers, err := infrastructure.InitializeOTel(otelCfg, logger)
	if err != nil {
		logger.Error("Failed to initialize telemetry", "error", err)
		os.Exit(1)
	}

	pipelineMetrics, err := infrastructure.CreatePipelineMetrics(providers.Meter)
	if err != nil {
		logger.Error("Failed to create pipeline metrics", "error", err)
		os.Exit(1)
	}

	if *horizon <= 0 {
		*horizon = cfg.Forecast.HorizonDays
	}

	inPath := *inFile
	if !filepath.IsAbs(inPath) {
		inPath = filepath.Join(cfg.Paths.ReportsDir, inPath)
	}

	series, err := loadPriceSeries(inPath)
	if err != nil {
		logger.Error("Failed to load cleaned series",
			"path", inPath,
			"hint", "run the processor first",
			"error", err)
		os.Exit(1)
	}
	logger.Info("Loaded cleaned price series", "path", inPath, "days", len(series))

	ctx := context.Background()
	defer providers.Shutdown(ctx)

	orch := forecast.NewOrchestrator(forecast.NewTrendModel(), cfg.Forecast.HoldoutFraction, logger)

	trainCtx, trainSpan := startSpan(ctx, providers, "forecaster.train_and_validate")
	model, metrics, err := orch.TrainAndValidate(trainCtx, series)
	trainSpan.End()
	if err != nil {
		logger.Error("Model training failed", "error", err)
		os.Exit(1)
	}

	forecastCtx, forecastSpan := startSpan(ctx, providers, "forecaster.forecast")
	points, err := orch.Forecast(forecastCtx, model, *horizon, time.Time{})
	forecastSpan.End()
	if err != nil {
		logger.Error("Forecast generation failed", "error", err)
		os.Exit(1)
	}
	pipelineMetrics.ForecastsGenerated.Add(ctx, 1)

	engine := recommend.NewEngine(cfg.Decision.HoldThresholdPct, logger)
	rec, err := engine.Recommend(points, *currentPrice)
	if err != nil {
		logger.Error("Recommendation failed", "error", err)
		os.Exit(1)
	}
	pipelineMetrics.RecordRecommendation(ctx, string(rec.Action))

	writer := exporter.NewCSVWriter(cfg.Paths, logger)
	if err := writer.WriteForecast(*forecastOut, points); err != nil {
		logger.Error("Failed to write forecast report", "error", err)
		os.Exit(1)
	}
	if err := writer.WriteRecommendation(*recOut, rec, metrics); err != nil {
		logger.Error("Failed to write recommendation report", "error", err)
		os.Exit(1)
	}

	printSummary(rec, metrics, *horizon)
}

// startSpan opens a span on the initialized tracer, or on the global
// no-op tracer when tracing is disabled.
func startSpan(ctx context.Context, providers *infrastructure.OTelProviders, name string) (context.Context, trace.Span) {
	tracer := providers.Tracer
	if tracer == nil {
		tracer = otel.Tracer(infrastructure.MeterName)
	}
	return tracer.Start(ctx, name)
}

// loadPriceSeries reads the date and avg_price columns of a cleaned
// series report. Rows with unparsable dates are skipped; empty price
// cells become the missing marker and are left to the orchestrator to
// exclude.
func loadPriceSeries(path string) ([]domain.Observation, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	dateIdx, priceIdx := -1, -1
	for i, col := range header {
		switch strings.TrimPrefix(strings.TrimSpace(col), "\ufeff") {
		case "date":
			dateIdx = i
		case "avg_price":
			priceIdx = i
		}
	}
	if dateIdx < 0 || priceIdx < 0 {
		return nil, fmt.Errorf("missing date or avg_price column in %q", path)
	}

	var series []domain.Observation
	for {
		record, err := reader.Read()
		if err != nil {
			break
		}
		if len(record) <= dateIdx || len(record) <= priceIdx {
			continue
		}

		date, err := time.Parse(dataprocessing.DateLayout, record[dateIdx])
		if err != nil {
			continue
		}

		value := domain.Missing()
		if cell := strings.TrimSpace(record[priceIdx]); cell != "" {
			if parsed, err := strconv.ParseFloat(cell, 64); err == nil {
				value = parsed
			}
		}

		series = append(series, domain.Observation{Date: date, Value: value})
	}
	return series, nil
}

func printSummary(rec domain.Recommendation, metrics domain.AccuracyMetrics, horizon int) {
	fmt.Println("\n=== PRICE FORECAST SUMMARY ===")
	fmt.Printf("Model accuracy:    %s (MAPE %.1f%%, R² %.2f)\n",
		metrics.Interpretation, metrics.MAPE, metrics.R2)
	fmt.Printf("Horizon:           %d days\n", horizon)
	fmt.Println("\n=== RECOMMENDATION ===")
	fmt.Printf("Action:            %s\n", rec.Action)
	fmt.Printf("Reason:            %s\n", rec.Reason)
	fmt.Printf("Current price:     ₹%.0f/kg\n", rec.CurrentPriceEstimate)
	fmt.Printf("Optimal price:     ₹%.0f/kg on %s (%d days out)\n",
		rec.OptimalPriceEstimate,
		rec.OptimalSellDate.Format(dataprocessing.DateLayout),
		rec.DaysToWait)
	fmt.Printf("Expected range:    %s\n", rec.ConfidenceInterval())
}
