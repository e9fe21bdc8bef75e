package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 5000.0, cfg.Cleaning.PriceCeiling)
	assert.Equal(t, 0.2, cfg.Forecast.HoldoutFraction)
	assert.Equal(t, 30, cfg.Forecast.HorizonDays)
	assert.Equal(t, 2.0, cfg.Decision.HoldThresholdPct)
	assert.Equal(t, 3500.0, cfg.Matching.ReferencePrice)
	assert.Equal(t, 20, cfg.Matching.PaymentWindowDays)
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "spicehold.yaml")
	content := `
cleaning:
  price_ceiling: 6000
decision:
  hold_threshold_pct: 3.5
matching:
  weights:
    price: 0.5
    payment_speed: 0.1
    reputation: 0.3
    logistics_support: 0.1
`
	require.NoError(t, os.WriteFile(file, []byte(content), 0644))

	cfg, err := Load(file)
	require.NoError(t, err)

	assert.Equal(t, 6000.0, cfg.Cleaning.PriceCeiling)
	assert.Equal(t, 3.5, cfg.Decision.HoldThresholdPct)
	assert.Equal(t, 0.5, cfg.Matching.Weights.Price)
	// Untouched sections keep defaults.
	assert.Equal(t, 0.2, cfg.Forecast.HoldoutFraction)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "spicehold.yaml")
	require.NoError(t, os.WriteFile(file, []byte("cleaning:\n  price_ceiling: 6000\n"), 0644))

	t.Setenv("SPICEHOLD_CLEANING_PRICE_CEILING", "4500")

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, 4500.0, cfg.Cleaning.PriceCeiling)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("SPICEHOLD_FORECAST_HOLDOUT_FRACTION", "1.5")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadRejectsBadLogLevel(t *testing.T) {
	t.Setenv("SPICEHOLD_LOGGING_LEVEL", "loud")

	_, err := Load("")
	assert.Error(t, err)
}
