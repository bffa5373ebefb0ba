package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/pmbmtrack/pmbm"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig is a JSON overlay onto pmbm.Config: every field is a
// pointer so that a partial file only overrides the fields it mentions,
// leaving pmbm.DefaultConfig() untouched elsewhere. The schema matches
// the enumerated configuration table of the tracker.
type TuningConfig struct {
	DetectionProbability          *float64 `json:"detection_probability,omitempty"`
	SurvivalProbability           *float64 `json:"survival_probability,omitempty"`
	GatingPercentage              *float64 `json:"gating_percentage,omitempty"`
	MaxNumberOfHypotheses         *int     `json:"max_number_of_hypotheses,omitempty"`
	NumOfDesiredHypotheses        *int     `json:"num_of_desired_hypotheses,omitempty"`
	MaxMurtySteps                 *int     `json:"max_murty_steps,omitempty"`
	ExistenceProbabilityThreshold *float64 `json:"existence_probability_threshold,omitempty"`
	TrackHistoryLengthThreshold   *int     `json:"track_history_length_threshold,omitempty"`
	PPPPruneThreshold             *float64 `json:"ppp_prune_threshold,omitempty"`
	GlobalPruneThreshold          *float64 `json:"global_prune_threshold,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields unset. Use
// LoadTuningConfig to populate it from a file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The file is
// validated to ensure it has a .json extension and is under the max file
// size; fields omitted from the JSON retain pmbm.DefaultConfig() values
// once Apply runs.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that every set field is within the range pmbm.Config
// requires.
func (c *TuningConfig) Validate() error {
	if c.DetectionProbability != nil {
		if *c.DetectionProbability <= 0 || *c.DetectionProbability >= 1 {
			return fmt.Errorf("detection_probability must be in (0,1), got %f", *c.DetectionProbability)
		}
	}
	if c.SurvivalProbability != nil {
		if *c.SurvivalProbability <= 0 || *c.SurvivalProbability >= 1 {
			return fmt.Errorf("survival_probability must be in (0,1), got %f", *c.SurvivalProbability)
		}
	}
	if c.GatingPercentage != nil {
		if *c.GatingPercentage <= 0 || *c.GatingPercentage >= 1 {
			return fmt.Errorf("gating_percentage must be in (0,1), got %f", *c.GatingPercentage)
		}
	}
	if c.MaxNumberOfHypotheses != nil && *c.MaxNumberOfHypotheses <= 0 {
		return fmt.Errorf("max_number_of_hypotheses must be positive, got %d", *c.MaxNumberOfHypotheses)
	}
	if c.NumOfDesiredHypotheses != nil && *c.NumOfDesiredHypotheses <= 0 {
		return fmt.Errorf("num_of_desired_hypotheses must be positive, got %d", *c.NumOfDesiredHypotheses)
	}
	if c.MaxMurtySteps != nil && *c.MaxMurtySteps < 0 {
		return fmt.Errorf("max_murty_steps must be non-negative, got %d", *c.MaxMurtySteps)
	}
	if c.ExistenceProbabilityThreshold != nil {
		if *c.ExistenceProbabilityThreshold < 0 || *c.ExistenceProbabilityThreshold > 1 {
			return fmt.Errorf("existence_probability_threshold must be in [0,1], got %f", *c.ExistenceProbabilityThreshold)
		}
	}
	if c.TrackHistoryLengthThreshold != nil && *c.TrackHistoryLengthThreshold < 0 {
		return fmt.Errorf("track_history_length_threshold must be non-negative, got %d", *c.TrackHistoryLengthThreshold)
	}
	return nil
}

// Apply overlays every set field onto base, returning a new pmbm.Config.
// base is typically pmbm.DefaultConfig().
func (c *TuningConfig) Apply(base pmbm.Config) pmbm.Config {
	out := base
	if c.DetectionProbability != nil {
		out.DetectionProbability = *c.DetectionProbability
	}
	if c.SurvivalProbability != nil {
		out.SurvivalProbability = *c.SurvivalProbability
	}
	if c.GatingPercentage != nil {
		out.GatingPercentage = *c.GatingPercentage
	}
	if c.MaxNumberOfHypotheses != nil {
		out.MaxNumberOfHypotheses = *c.MaxNumberOfHypotheses
	}
	if c.NumOfDesiredHypotheses != nil {
		out.NumOfDesiredHypotheses = *c.NumOfDesiredHypotheses
	}
	if c.MaxMurtySteps != nil {
		out.MaxMurtySteps = *c.MaxMurtySteps
	}
	if c.ExistenceProbabilityThreshold != nil {
		out.ExistenceProbabilityThreshold = *c.ExistenceProbabilityThreshold
	}
	if c.TrackHistoryLengthThreshold != nil {
		out.TrackHistoryLengthThreshold = *c.TrackHistoryLengthThreshold
	}
	if c.PPPPruneThreshold != nil {
		out.PPPPruneThreshold = *c.PPPPruneThreshold
	}
	if c.GlobalPruneThreshold != nil {
		out.GlobalPruneThreshold = *c.GlobalPruneThreshold
	}
	return out
}

// MustLoadDefaultConfig loads the canonical tuning defaults from
// DefaultConfigPath, searching from the current directory up through
// common parent directories. Panics if the file cannot be loaded;
// intended for test setup only.
func MustLoadDefaultConfig() pmbm.Config {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg.Apply(pmbm.DefaultConfig())
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}
