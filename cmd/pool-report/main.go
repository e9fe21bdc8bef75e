// Command pool-report ranks prospective exporter buyers for a pooled lot.
// It reads a CSV of buyer candidates, scores each against the configured
// matching weights, writes the ranked report and prints the top matches.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"spicehold/internal/config"
	"spicehold/internal/exporter"
	"spicehold/internal/infrastructure"
	"spicehold/internal/pooling"
	"spicehold/pkg/contracts/domain"
)

func main() {
	configFile := flag.String("config", "", "path to YAML config file")
	buyersFile := flag.String("buyers", "", "CSV of buyer candidates (name,location,price_per_kg,payment_days,reputation,logistics_support)")
	outFile := flag.String("out", "ranked_buyers.csv", "output name for the ranked buyers report")
	flag.Parse()

	if *buyersFile == "" {
		fmt.Fprintln(os.Stderr, "usage: pool-report -buyers <candidates.csv> [-config <file>] [-out <report.csv>]")
		os.Exit(2)
	}

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

	candidates, err := loadCandidates(*buyersFile)
	if err != nil {
		logger.Error("Failed to load buyer candidates", "path", *buyersFile, "error", err)
		os.Exit(1)
	}
	if len(candidates) == 0 {
		logger.Error("No buyer candidates found", "path", *buyersFile)
		os.Exit(1)
	}
	logger.Info("Loaded buyer candidates", "path", *buyersFile, "count", len(candidates))

	scorer := pooling.NewScorer(cfg.Matching, logger)
	ranked, err := scorer.Rank(candidates)
	if err != nil {
		logger.Error("Failed to rank buyers", "error", err)
		os.Exit(1)
	}

	writer := exporter.NewCSVWriter(cfg.Paths, logger)
	if err := writer.WriteRankedBuyers(*outFile, ranked); err != nil {
		logger.Error("Failed to write ranked buyers report", "error", err)
		os.Exit(1)
	}

	printRanking(ranked)
}

// loadCandidates parses a buyer candidates CSV. Columns are matched by
// header name so column order does not matter.
func loadCandidates(path string) ([]domain.BuyerCandidate, error) {
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

	idx := make(map[string]int, len(header))
	for i, col := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
		idx[name] = i
	}
	for _, required := range []string{"name", "price_per_kg", "payment_days", "reputation"} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("missing column %q in %q", required, path)
		}
	}

	cell := func(record []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var candidates []domain.BuyerCandidate
	line := 1
	for {
		record, err := reader.Read()
		if err != nil {
			break
		}
		line++

		price, err := strconv.ParseFloat(cell(record, "price_per_kg"), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad price_per_kg: %w", line, err)
		}
		days, err := strconv.Atoi(cell(record, "payment_days"))
		if err != nil {
			return nil, fmt.Errorf("line %d: bad payment_days: %w", line, err)
		}
		reputation, err := strconv.ParseFloat(cell(record, "reputation"), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad reputation: %w", line, err)
		}

		logistics := false
		switch strings.ToLower(cell(record, "logistics_support")) {
		case "true", "yes", "1":
			logistics = true
		}

		candidates = append(candidates, domain.BuyerCandidate{
			Name:             cell(record, "name"),
			Location:         cell(record, "location"),
			PricePerKg:       price,
			PaymentDays:      days,
			Reputation:       reputation,
			LogisticsSupport: logistics,
		})
	}
	return candidates, nil
}

func printRanking(ranked []domain.ScoredBuyer) {
	fmt.Println("\n=== RANKED BUYER MATCHES ===")
	fmt.Println("Rank | Score | Buyer                | Price/kg | Pay Days | Reputation | Logistics")
	fmt.Println("-----|-------|----------------------|----------|----------|------------|----------")
	for i, b := range ranked {
		logistics := "no"
		if b.LogisticsSupport {
			logistics = "yes"
		}
		fmt.Printf("%4d | %5.2f | %-20s | %8.0f | %8d | %10.0f | %s\n",
			i+1, b.Score, b.Name, b.PricePerKg, b.PaymentDays, b.Reputation, logistics)
	}
}
