// Package config loads the importer's policy knobs from YAML. Everything
// here has a tuned default; a missing file is not an error.
package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/faturaflow/statement-import/internal/category"
	"github.com/faturaflow/statement-import/internal/installment"
)

// Config is the top-level statement-import.yaml configuration.
type Config struct {
	Installments InstallmentsConfig `yaml:"installments"`
	Dedup        DedupConfig        `yaml:"dedup"`
	Category     CategoryConfig     `yaml:"category"`
}

// InstallmentsConfig holds the digit-recovery heuristic thresholds. They
// are tuned policy values for a known extraction defect, not invariants.
type InstallmentsConfig struct {
	SuspiciousAmount   float64 `yaml:"suspicious_amount"`
	MinCorrectionDelta float64 `yaml:"min_correction_delta"`
	MaxRecoveredTotal  uint    `yaml:"max_recovered_total"`
	MaxCorrectedAmount float64 `yaml:"max_corrected_amount"`
	LookaheadLines     int     `yaml:"lookahead_lines"`
}

// DedupConfig holds the default deduplication policy.
type DedupConfig struct {
	OnlyCurrentInstallment bool `yaml:"only_current_installment"`
	AllowExactDuplicates   bool `yaml:"allow_exact_duplicates"`
}

// CategoryConfig holds recognizer thresholds and taxonomy extensions.
type CategoryConfig struct {
	HistoryThreshold float64             `yaml:"history_threshold"`
	FuzzyFloor       float64             `yaml:"fuzzy_floor"`
	ExtraKeywords    map[string][]string `yaml:"extra_keywords,omitempty"`
}

// Default returns the tuned defaults.
func Default() *Config {
	ic := installment.DefaultConfig()
	cc := category.DefaultConfig()
	return &Config{
		Installments: InstallmentsConfig{
			SuspiciousAmount:   ic.SuspiciousAmount.InexactFloat64(),
			MinCorrectionDelta: ic.MinCorrectionDelta.InexactFloat64(),
			MaxRecoveredTotal:  ic.MaxRecoveredTotal,
			MaxCorrectedAmount: ic.MaxCorrectedAmount.InexactFloat64(),
			LookaheadLines:     ic.LookaheadLines,
		},
		Dedup: DedupConfig{
			OnlyCurrentInstallment: true,
			AllowExactDuplicates:   false,
		},
		Category: CategoryConfig{
			HistoryThreshold: cc.HistoryThreshold,
			FuzzyFloor:       cc.FuzzyFloor,
		},
	}
}

// Load reads a config file. A missing path returns the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes the config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// InstallmentConfig converts the YAML values into the resolver's config.
func (c *Config) InstallmentConfig() installment.Config {
	return installment.Config{
		SuspiciousAmount:   decimal.NewFromFloat(c.Installments.SuspiciousAmount),
		MinCorrectionDelta: decimal.NewFromFloat(c.Installments.MinCorrectionDelta),
		MaxRecoveredTotal:  c.Installments.MaxRecoveredTotal,
		MaxCorrectedAmount: decimal.NewFromFloat(c.Installments.MaxCorrectedAmount),
		LookaheadLines:     c.Installments.LookaheadLines,
	}
}

// CategoryRecognizerConfig converts into the recognizer's config.
func (c *Config) CategoryRecognizerConfig() category.Config {
	return category.Config{
		HistoryThreshold: c.Category.HistoryThreshold,
		FuzzyFloor:       c.Category.FuzzyFloor,
		ExtraKeywords:    c.Category.ExtraKeywords,
	}
}
