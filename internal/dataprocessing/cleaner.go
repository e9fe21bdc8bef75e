package dataprocessing

import (
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"spicehold/pkg/contracts/domain"
)

// DefaultPriceCeiling is the implausibility ceiling in Rs/kg. It guards
// against transcription errors, not a real market cap.
const DefaultPriceCeiling = 5000

// Cleaner applies the deterministic repair policy that turns normalized
// auction records into a trustworthy daily series.
type Cleaner struct {
	priceCeiling float64
	logger       *slog.Logger
}

// NewCleaner creates a cleaner with the given price ceiling. A
// non-positive ceiling falls back to the default.
func NewCleaner(priceCeiling float64, logger *slog.Logger) *Cleaner {
	if priceCeiling <= 0 {
		priceCeiling = DefaultPriceCeiling
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{priceCeiling: priceCeiling, logger: logger}
}

// Clean repairs and aggregates normalized records into one observation per
// calendar day, sorted ascending by date. The repair policy runs in a
// fixed order because later steps consume fields written by earlier ones:
//
//  1. Zero prices are reclassified as missing.
//  2. Prices above the implausibility ceiling are reclassified as missing.
//  3. Negative volumes are reclassified as missing.
//  4. Missing prices are imputed: carry-forward, then carry-backward for
//     still-missing leading values. Imputation never fabricates a value
//     outside the observed range.
//  5. Rows missing both average price and arrival volume are dropped; a
//     row with at least one real signal survives.
//  6. Rows with an unparsable date are dropped.
//  7. Same-day rows are aggregated (summed volumes, arrival-weighted
//     average price, maximum of max prices).
//  8. Derived metrics are computed on the aggregated day. Ratios over a
//     zero arrival are undefined (NaN), not errors.
//
// Clean never fails on data quality; it returns a best-effort series and
// reports repairs and drops in CleanStats.
func (c *Cleaner) Clean(records []domain.AuctionRecord) *CleanResult {
	stats := CleanStats{RunID: uuid.NewString(), InputRows: len(records)}

	work := make([]domain.AuctionRecord, len(records))
	copy(work, records)

	// Steps 1-3: reclassify implausible values as missing.
	for i := range work {
		if work[i].AvgPrice == 0 {
			work[i].AvgPrice = domain.Missing()
			stats.ZeroPrices++
		}
		if work[i].MaxPrice == 0 {
			work[i].MaxPrice = domain.Missing()
			stats.ZeroPrices++
		}
		if work[i].AvgPrice > c.priceCeiling {
			work[i].AvgPrice = domain.Missing()
			stats.OutlierPrices++
		}
		if work[i].MaxPrice > c.priceCeiling {
			work[i].MaxPrice = domain.Missing()
			stats.OutlierPrices++
		}
		if work[i].TotalArrival < 0 {
			work[i].TotalArrival = domain.Missing()
			stats.NegativeVolumes++
		}
		if work[i].QtySold < 0 {
			work[i].QtySold = domain.Missing()
			stats.NegativeVolumes++
		}
		if work[i].NumLots < 0 {
			work[i].NumLots = domain.Missing()
			stats.NegativeVolumes++
		}
	}

	// Step 4: impute prices in input order.
	avg := make([]float64, len(work))
	max := make([]float64, len(work))
	for i := range work {
		avg[i] = work[i].AvgPrice
		max[i] = work[i].MaxPrice
	}
	stats.PricesImputed += imputeSeries(avg)
	stats.PricesImputed += imputeSeries(max)
	for i := range work {
		work[i].AvgPrice = avg[i]
		work[i].MaxPrice = max[i]
	}

	// Steps 5-6: drop unsalvageable rows.
	kept := work[:0]
	for _, rec := range work {
		if domain.IsMissing(rec.AvgPrice) && domain.IsMissing(rec.TotalArrival) {
			stats.DroppedNoSignal++
			continue
		}
		if !rec.HasDate() {
			stats.DroppedNoDate++
			continue
		}
		kept = append(kept, rec)
	}

	// Step 7: aggregate rows sharing a calendar day.
	observations := c.aggregateByDay(kept, &stats)

	// Final sort: ascending by date, dense zero-based positions.
	sort.SliceStable(observations, func(i, j int) bool {
		return observations[i].Date.Before(observations[j].Date)
	})
	stats.OutputRows = len(observations)

	c.logger.Info("cleaning pass complete",
		slog.String("run_id", stats.RunID),
		slog.Int("input_rows", stats.InputRows),
		slog.Int("output_rows", stats.OutputRows),
		slog.Int("reclassified", stats.Reclassified()),
		slog.Int("imputed", stats.PricesImputed),
		slog.Int("dropped", stats.Dropped()))

	return &CleanResult{Observations: observations, Stats: stats}
}

// aggregateByDay collapses per-auctioneer rows into one observation per
// calendar day and computes derived metrics on the aggregate.
func (c *Cleaner) aggregateByDay(records []domain.AuctionRecord, stats *CleanStats) []domain.CleanedObservation {
	type group struct {
		day  time.Time
		rows []domain.AuctionRecord
	}

	index := make(map[time.Time]int)
	var groups []group
	for _, rec := range records {
		day := rec.Date.Truncate(24 * time.Hour)
		if i, ok := index[day]; ok {
			groups[i].rows = append(groups[i].rows, rec)
			continue
		}
		index[day] = len(groups)
		groups = append(groups, group{day: day, rows: []domain.AuctionRecord{rec}})
	}

	observations := make([]domain.CleanedObservation, 0, len(groups))
	for _, g := range groups {
		if n := len(g.rows); n > 1 {
			stats.DaysAggregated += n - 1
		}

		obs := domain.CleanedObservation{
			Date:         g.day,
			TotalArrival: missingSum(g.rows, func(r domain.AuctionRecord) float64 { return r.TotalArrival }),
			QtySold:      missingSum(g.rows, func(r domain.AuctionRecord) float64 { return r.QtySold }),
			AvgPrice:     weightedAvgPrice(g.rows),
			MaxPrice:     missingMax(g.rows, func(r domain.AuctionRecord) float64 { return r.MaxPrice }),
		}

		// Step 8: derived market-health metrics.
		obs.UnsoldQty = obs.TotalArrival - obs.QtySold
		obs.PriceSpread = obs.MaxPrice - obs.AvgPrice
		if obs.TotalArrival == 0 {
			// Division by zero arrival is undefined, not an error.
			obs.UnsoldPct = domain.Missing()
			obs.MarketEfficiency = domain.Missing()
		} else {
			obs.UnsoldPct = obs.UnsoldQty / obs.TotalArrival
			obs.MarketEfficiency = obs.QtySold / obs.TotalArrival
		}

		observations = append(observations, obs)
	}

	return observations
}

// imputeSeries fills missing values by last-known-value carry-forward,
// then next-known-value carry-backward for still-missing leading values.
// It returns the number of values filled.
func imputeSeries(vals []float64) int {
	filled := 0

	last := domain.Missing()
	for i, v := range vals {
		if domain.IsMissing(v) {
			if !domain.IsMissing(last) {
				vals[i] = last
				filled++
			}
			continue
		}
		last = v
	}

	next := domain.Missing()
	for i := len(vals) - 1; i >= 0; i-- {
		if domain.IsMissing(vals[i]) {
			if !domain.IsMissing(next) {
				vals[i] = next
				filled++
			}
			continue
		}
		next = vals[i]
	}

	return filled
}

// missingSum sums the present values of a field across rows; all-missing
// yields the missing marker, not zero.
func missingSum(rows []domain.AuctionRecord, field func(domain.AuctionRecord) float64) float64 {
	sum := 0.0
	present := false
	for _, r := range rows {
		v := field(r)
		if domain.IsMissing(v) {
			continue
		}
		sum += v
		present = true
	}
	if !present {
		return domain.Missing()
	}
	return sum
}

// missingMax returns the maximum present value of a field across rows.
func missingMax(rows []domain.AuctionRecord, field func(domain.AuctionRecord) float64) float64 {
	best := domain.Missing()
	for _, r := range rows {
		v := field(r)
		if domain.IsMissing(v) {
			continue
		}
		if domain.IsMissing(best) || v > best {
			best = v
		}
	}
	return best
}

// weightedAvgPrice combines same-day average prices weighted by arrival
// volume, falling back to a plain mean when no usable weights exist.
func weightedAvgPrice(rows []domain.AuctionRecord) float64 {
	weightedSum, weightTotal := 0.0, 0.0
	plainSum, plainCount := 0.0, 0

	for _, r := range rows {
		if domain.IsMissing(r.AvgPrice) {
			continue
		}
		plainSum += r.AvgPrice
		plainCount++
		if !domain.IsMissing(r.TotalArrival) && r.TotalArrival > 0 {
			weightedSum += r.AvgPrice * r.TotalArrival
			weightTotal += r.TotalArrival
		}
	}

	if weightTotal > 0 {
		return weightedSum / weightTotal
	}
	if plainCount > 0 {
		return plainSum / float64(plainCount)
	}
	return math.NaN()
}
