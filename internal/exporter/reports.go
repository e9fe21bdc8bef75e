package exporter

import (
	"fmt"
	"strconv"

	"spicehold/pkg/contracts/domain"
)

// WriteCleanedSeries writes the cleaned daily series report.
func (w *CSVWriter) WriteCleanedSeries(filePath string, series []domain.CleanedObservation) error {
	headers := []string{
		"date", "avg_price", "max_price", "total_arrival", "qty_sold",
		"unsold_qty", "unsold_pct", "price_spread", "market_efficiency",
	}

	records := make([][]string, len(series))
	for i, obs := range series {
		records[i] = []string{
			formatDate(obs.Date),
			formatValue(obs.AvgPrice),
			formatValue(obs.MaxPrice),
			formatQty(obs.TotalArrival),
			formatQty(obs.QtySold),
			formatQty(obs.UnsoldQty),
			formatValue(obs.UnsoldPct),
			formatValue(obs.PriceSpread),
			formatValue(obs.MarketEfficiency),
		}
	}

	return w.WriteSimpleCSV(filePath, headers, records)
}

// WriteFeatureMatrix writes the engineered feature matrix report.
func (w *CSVWriter) WriteFeatureMatrix(filePath string, rows []domain.FeatureRow) error {
	headers := []string{
		"date", "avg_price", "max_price", "total_arrival", "qty_sold",
		"day_of_week", "day_of_month", "month", "days_since_start",
		"price_ma_3d", "price_volatility", "price_change", "price_change_pct",
		"volume_ma_3d", "volume_change_pct", "price_volume_ratio",
	}

	records := make([][]string, len(rows))
	for i, row := range rows {
		records[i] = []string{
			formatDate(row.Date),
			formatValue(row.AvgPrice),
			formatValue(row.MaxPrice),
			formatQty(row.TotalArrival),
			formatQty(row.QtySold),
			strconv.Itoa(int(row.DayOfWeek)),
			strconv.Itoa(row.DayOfMonth),
			strconv.Itoa(int(row.Month)),
			strconv.Itoa(row.DaysSinceStart),
			formatValue(row.PriceMA3),
			formatValue(row.PriceVolatility),
			formatValue(row.PriceChange),
			formatValue(row.PriceChangePct),
			formatValue(row.VolumeMA3),
			formatValue(row.VolumeChangePct),
			formatValue(row.PriceVolumeRatio),
		}
	}

	return w.WriteSimpleCSV(filePath, headers, records)
}

// WriteForecast writes a forecast window report.
func (w *CSVWriter) WriteForecast(filePath string, points []domain.ForecastPoint) error {
	headers := []string{"date", "predicted_price", "lower_bound", "upper_bound"}

	records := make([][]string, len(points))
	for i, p := range points {
		records[i] = []string{
			formatDate(p.Date),
			formatValue(p.PredictedPrice),
			formatValue(p.LowerBound),
			formatValue(p.UpperBound),
		}
	}

	return w.WriteSimpleCSV(filePath, headers, records)
}

// WriteRecommendation writes a one-row recommendation report alongside
// the accuracy metrics of the model that produced it.
func (w *CSVWriter) WriteRecommendation(filePath string, rec domain.Recommendation, metrics domain.AccuracyMetrics) error {
	headers := []string{
		"action", "reason", "current_price", "optimal_price", "optimal_sell_date",
		"potential_gain", "potential_gain_pct", "confidence_interval", "days_to_wait",
		"model_mae", "model_mape", "model_r2", "model_accuracy",
	}

	record := []string{
		string(rec.Action),
		rec.Reason,
		formatValue(rec.CurrentPriceEstimate),
		formatValue(rec.OptimalPriceEstimate),
		formatDate(rec.OptimalSellDate),
		formatValue(rec.PotentialGain),
		formatValue(rec.PotentialGainPct),
		rec.ConfidenceInterval(),
		strconv.Itoa(rec.DaysToWait),
		formatValue(metrics.MAE),
		formatValue(metrics.MAPE),
		formatValue(metrics.R2),
		metrics.Interpretation,
	}

	return w.WriteSimpleCSV(filePath, headers, [][]string{record})
}

// WriteRankedBuyers writes the scored buyer list, best match first.
func (w *CSVWriter) WriteRankedBuyers(filePath string, buyers []domain.ScoredBuyer) error {
	headers := []string{
		"rank", "name", "location", "price_per_kg", "payment_days",
		"reputation", "logistics_support", "score",
	}

	records := make([][]string, len(buyers))
	for i, b := range buyers {
		records[i] = []string{
			strconv.Itoa(i + 1),
			b.Name,
			b.Location,
			formatValue(b.PricePerKg),
			strconv.Itoa(b.PaymentDays),
			formatValue(b.Reputation),
			formatBool(b.LogisticsSupport),
			fmt.Sprintf("%.2f", b.Score),
		}
	}

	return w.WriteSimpleCSV(filePath, headers, records)
}
