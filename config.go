// Package castbar - config.go
//
// This file holds the detector's tunable thresholds and their JSON
// load/save: read-only config, loaded once, validated on load.
package castbar

import (
	"encoding/json"
	"os"
)

// DetectorConfig holds every tunable constant named in the spark-detection
// algorithm. All fields have spec-accurate defaults (see DefaultConfig);
// overriding them is intended for offline tuning against recorded footage,
// not for per-frame adjustment.
type DetectorConfig struct {
	// JumpThreshold is the minimum column-to-column gray jump (0..255) that
	// counts as a "strong jump" when locating the spark's leading edge.
	JumpThreshold int `json:"jumpThreshold"`
	// LeftSkipRatio is the fraction of the ROI's width, from the left, that
	// is never considered part of the spark (the bar's left cap).
	LeftSkipRatio float64 `json:"leftSkipRatio"`
	// MergeGapRatio is the fraction of the ROI's width used as the largest
	// gap, in columns (at least 2), across which two adjacent strong-jump
	// column runs still merge into one spark cluster.
	MergeGapRatio float64 `json:"mergeGapRatio"`
	// EnergyEps is the anti-jitter epsilon applied to all V-channel energy
	// comparisons in the state machine.
	EnergyEps float64 `json:"energyEps"`
	// SparkQuantile is the percentile (0, 1] of column-mean V used to
	// expand the spark cluster into its final column range.
	SparkQuantile float64 `json:"sparkQuantile"`
}

// DefaultConfig returns the thresholds specified by the algorithm:
// JumpThreshold=18, LeftSkipRatio=0.10, MergeGapRatio=0.02, EnergyEps≈0.8
// (255 * 0.00314), SparkQuantile=0.97.
func DefaultConfig() DetectorConfig {
	return DetectorConfig{
		JumpThreshold: 18,
		LeftSkipRatio: 0.10,
		MergeGapRatio: 0.02,
		EnergyEps:     255 * 0.00314,
		SparkQuantile: 0.97,
	}
}

// Validate checks every field is within the range the algorithm assumes.
func (c DetectorConfig) Validate() error {
	if c.JumpThreshold <= 0 {
		return ErrInvalidJumpThreshold
	}
	if c.LeftSkipRatio < 0 || c.LeftSkipRatio >= 1 {
		return ErrInvalidLeftSkipRatio
	}
	if c.MergeGapRatio < 0 {
		return ErrInvalidMergeGapRatio
	}
	if c.EnergyEps < 0 {
		return ErrInvalidEnergyEps
	}
	if c.SparkQuantile <= 0 || c.SparkQuantile > 1 {
		return ErrInvalidSparkQuantile
	}
	return nil
}

// LoadConfig reads a DetectorConfig from a JSON file, falling back to
// DefaultConfig for any field the file omits, tolerating a
// partially-specified file.
func LoadConfig(path string) (DetectorConfig, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return DetectorConfig{}, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DetectorConfig{}, err
	}
	return cfg, cfg.Validate()
}

// SaveConfig writes cfg to path as indented JSON.
func SaveConfig(path string, cfg DetectorConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
