package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/pmbmtrack/internal/config"
	"github.com/banshee-data/pmbmtrack/pmbm"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadTuningConfig_PartialOverlayLeavesRestAtDefault(t *testing.T) {
	path := writeConfigFile(t, `{"detection_probability": 0.7}`)
	tc, err := config.LoadTuningConfig(path)
	require.NoError(t, err)

	merged := tc.Apply(pmbm.DefaultConfig())
	assert.Equal(t, 0.7, merged.DetectionProbability)
	assert.Equal(t, pmbm.DefaultConfig().SurvivalProbability, merged.SurvivalProbability)
}

func TestLoadTuningConfig_RejectsNonJSONExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	_, err := config.LoadTuningConfig(path)
	assert.Error(t, err)
}

func TestTuningConfig_ValidateRejectsOutOfRangeProbability(t *testing.T) {
	path := writeConfigFile(t, `{"detection_probability": 1.5}`)
	_, err := config.LoadTuningConfig(path)
	assert.Error(t, err)
}

func TestTuningConfig_ValidateRejectsNegativeCount(t *testing.T) {
	path := writeConfigFile(t, `{"max_number_of_hypotheses": -1}`)
	_, err := config.LoadTuningConfig(path)
	assert.Error(t, err)
}

func TestMustLoadDefaultConfig_MatchesDefaultConfig(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir("../.."))
	defer func() { require.NoError(t, os.Chdir(wd)) }()

	assert.Equal(t, pmbm.DefaultConfig(), config.MustLoadDefaultConfig())
}

func TestTuningConfig_ApplyOverridesEveryField(t *testing.T) {
	tc := config.EmptyTuningConfig()
	dp, sp, gp := 0.5, 0.8, 0.9
	maxHyp, desired, murty := 10, 5, 2
	existence, history := 0.6, 3
	pppT, globT := -5.0, 0.01

	tc.DetectionProbability = &dp
	tc.SurvivalProbability = &sp
	tc.GatingPercentage = &gp
	tc.MaxNumberOfHypotheses = &maxHyp
	tc.NumOfDesiredHypotheses = &desired
	tc.MaxMurtySteps = &murty
	tc.ExistenceProbabilityThreshold = &existence
	tc.TrackHistoryLengthThreshold = &history
	tc.PPPPruneThreshold = &pppT
	tc.GlobalPruneThreshold = &globT

	merged := tc.Apply(pmbm.DefaultConfig())
	assert.Equal(t, dp, merged.DetectionProbability)
	assert.Equal(t, sp, merged.SurvivalProbability)
	assert.Equal(t, gp, merged.GatingPercentage)
	assert.Equal(t, maxHyp, merged.MaxNumberOfHypotheses)
	assert.Equal(t, desired, merged.NumOfDesiredHypotheses)
	assert.Equal(t, murty, merged.MaxMurtySteps)
	assert.Equal(t, existence, merged.ExistenceProbabilityThreshold)
	assert.Equal(t, history, merged.TrackHistoryLengthThreshold)
	assert.Equal(t, pppT, merged.PPPPruneThreshold)
	assert.Equal(t, globT, merged.GlobalPruneThreshold)
}
