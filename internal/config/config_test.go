package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, float64(200), cfg.Installments.SuspiciousAmount)
	assert.Equal(t, float64(50), cfg.Installments.MinCorrectionDelta)
	assert.Equal(t, uint(99), cfg.Installments.MaxRecoveredTotal)
	assert.Equal(t, float64(500), cfg.Installments.MaxCorrectedAmount)
	assert.Equal(t, 3, cfg.Installments.LookaheadLines)

	assert.True(t, cfg.Dedup.OnlyCurrentInstallment)
	assert.False(t, cfg.Dedup.AllowExactDuplicates)

	assert.Equal(t, 0.6, cfg.Category.HistoryThreshold)
	assert.Equal(t, 0.4, cfg.Category.FuzzyFloor)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesKeepDefaultsForOmittedKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statement-import.yaml")
	data := []byte(`installments:
  suspicious_amount: 300
  lookahead_lines: 5
category:
  extra_keywords:
    Pets: [petz, cobasi]
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, float64(300), cfg.Installments.SuspiciousAmount)
	assert.Equal(t, 5, cfg.Installments.LookaheadLines)
	// Untouched keys keep their defaults.
	assert.Equal(t, float64(50), cfg.Installments.MinCorrectionDelta)
	assert.Equal(t, 0.6, cfg.Category.HistoryThreshold)
	assert.Equal(t, []string{"petz", "cobasi"}, cfg.Category.ExtraKeywords["Pets"])
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("installments: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statement-import.yaml")

	cfg := Default()
	cfg.Dedup.AllowExactDuplicates = true
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestInstallmentConfigConversion(t *testing.T) {
	cfg := Default()
	ic := cfg.InstallmentConfig()

	assert.True(t, ic.SuspiciousAmount.Equal(decimal.NewFromInt(200)))
	assert.True(t, ic.MaxCorrectedAmount.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, uint(99), ic.MaxRecoveredTotal)
}
