// Command processor turns raw auction export files into the cleaned
// daily series and the engineered feature matrix. It accepts a directory
// of CSV/XLSX exports, normalizes and cleans them, and writes two CSV
// reports for the downstream forecaster.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"spicehold/internal/config"
	"spicehold/internal/dataprocessing"
	"spicehold/internal/exporter"
	"spicehold/internal/features"
	"spicehold/internal/infrastructure"
	"spicehold/pkg/contracts/domain"
)

func main() {
	configFile := flag.String("config", "", "path to YAML config file")
	inDir := flag.String("in", "", "directory of raw auction exports (defaults to configured raw dir)")
	cleanedOut := flag.String("cleaned", "cleaned_series.csv", "output name for the cleaned series report")
	featuresOut := flag.String("features", "feature_matrix.csv", "output name for the feature matrix report")
	metricsAddr := flag.String("metrics-addr", "", "address to expose Prometheus metrics on (disabled when empty)")
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

	ctx := context.Background()

	providers, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	if err != nil {
		logger.Error("Failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer providers.Shutdown(ctx)

	metrics, err := infrastructure.CreatePipelineMetrics(providers.Meter)
	if err != nil {
		logger.Error("Failed to create pipeline metrics", "error", err)
		os.Exit(1)
	}

	if *metricsAddr != "" && providers.PrometheusHTTP != nil {
		go serveMetrics(*metricsAddr, providers.PrometheusHTTP, logger)
	}

	if *inDir == "" {
		*inDir = cfg.Paths.RawDir
	}

	files, err := findExportFiles(*inDir)
	if err != nil {
		logger.Error("Failed to scan input directory", "dir", *inDir, "error", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		logger.Error("No auction export files found",
			"dir", *inDir,
			"hint", "expected .csv or .xlsx exports")
		os.Exit(1)
	}
	logger.Info("Found auction export files", "dir", *inDir, "count", len(files))

	records, err := parseFiles(ctx, files, logger)
	if err != nil {
		logger.Error("Failed to parse auction exports", "error", err)
		os.Exit(1)
	}
	metrics.RowsParsed.Add(ctx, int64(len(records)))
	logger.Info("Parsed auction records", "rows", len(records))

	cleaner := dataprocessing.NewCleaner(cfg.Cleaning.PriceCeiling, logger)
	result := cleaner.Clean(records)
	metrics.RecordCleaning(ctx,
		int64(result.Stats.Reclassified()),
		int64(result.Stats.PricesImputed),
		int64(result.Stats.Dropped()))

	matrix := features.Enrich(result.Observations)

	writer := exporter.NewCSVWriter(cfg.Paths, logger)
	if err := writer.WriteCleanedSeries(*cleanedOut, result.Observations); err != nil {
		logger.Error("Failed to write cleaned series", "error", err)
		os.Exit(1)
	}
	if err := writer.WriteFeatureMatrix(*featuresOut, matrix); err != nil {
		logger.Error("Failed to write feature matrix", "error", err)
		os.Exit(1)
	}

	logger.Info("Processing complete",
		"run_id", result.Stats.RunID,
		"input_rows", result.Stats.InputRows,
		"output_days", result.Stats.OutputRows,
		"reclassified", result.Stats.Reclassified(),
		"imputed", result.Stats.PricesImputed,
		"dropped", result.Stats.Dropped(),
		"cleaned_report", *cleanedOut,
		"feature_report", *featuresOut)
}

// findExportFiles returns auction export files under dir in sorted order.
func findExportFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".csv", ".xlsx":
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// parseFiles normalizes every export concurrently and merges the records.
// Merge order follows the sorted file list, not completion order, so a
// rerun over the same directory produces the same record sequence.
func parseFiles(ctx context.Context, files []string, logger *slog.Logger) ([]domain.AuctionRecord, error) {
	perFile := make([][]domain.AuctionRecord, len(files))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for i, file := range files {
		g.Go(func() error {
			table, err := dataprocessing.ParseFile(file)
			if err != nil {
				return err
			}
			if len(table.Unmapped) > 0 {
				logger.Warn("Unmapped columns in export",
					"file", filepath.Base(file),
					"columns", table.Unmapped)
			}
			perFile[i] = table.Records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []domain.AuctionRecord
	for _, records := range perFile {
		merged = append(merged, records...)
	}
	return merged, nil
}

func serveMetrics(addr string, handler http.Handler, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	logger.Info("Serving Prometheus metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("Metrics server stopped", "error", err)
	}
}
