package pmbm_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/pmbmtrack/models"
	"github.com/banshee-data/pmbmtrack/pmbm"
)

func newTestTracker(pd float64) *pmbm.Tracker {
	motion := models.ConstantVelocity{PosDim: 2, ProcessNoisePos: 0.01, ProcessNoiseVel: 0.01}
	meas := models.LinearMeasurement{StateDim: 4, PosDim: 2, NoiseVar: 0.1}
	sensor := models.PoissonSensor{
		PD:          pd,
		ClutterRate: 0,
		FOVMin:      []float64{-50, -50},
		FOVMax:      []float64{50, 50},
	}
	birth := models.NewBirthAtPoints([][]float64{{0, 0}}, math.Log(0.05), 4.0, 4.0)
	cfg := pmbm.DefaultConfig()
	cfg.DetectionProbability = pd
	return pmbm.New(motion, meas, sensor, birth, cfg)
}

func TestTracker_SingleStaticObjectConverges(t *testing.T) {
	tr := newTestTracker(0.999)
	var estimates []pmbm.Estimate
	for i := 0; i < 10; i++ {
		z := mat.NewVecDense(2, []float64{0, 0})
		var err error
		estimates, err = tr.Step([]*mat.VecDense{z}, 1.0)
		require.NoError(t, err)
	}
	require.Len(t, estimates, 1)
	assert.InDelta(t, 0, estimates[0].Gaussian.X.AtVec(0), 1.0)
	assert.InDelta(t, 0, estimates[0].Gaussian.X.AtVec(1), 1.0)
	assert.Greater(t, estimates[0].Existence, 0.9)
}

func TestTracker_EmptyMeasurementStepIsValid(t *testing.T) {
	tr := newTestTracker(0.9)
	_, err := tr.Step(nil, 1.0)
	require.NoError(t, err)
	_, err = tr.Step([]*mat.VecDense{}, 1.0)
	assert.NoError(t, err)
}

func TestTracker_InvalidMeasurementIsRejectedWithoutMutatingState(t *testing.T) {
	tr := newTestTracker(0.9)
	before := tr.PPPSize()

	bad := mat.NewVecDense(2, []float64{math.NaN(), 0})
	_, err := tr.Step([]*mat.VecDense{bad}, 1.0)
	require.Error(t, err)
	assert.True(t, pmbm.IsKind(err, pmbm.KindInvalidInput))
	assert.Equal(t, before, tr.PPPSize())
}

func TestTracker_MBMStaysNormalizedAndWithinCap(t *testing.T) {
	tr := newTestTracker(0.9)
	for i := 0; i < 5; i++ {
		z := mat.NewVecDense(2, []float64{float64(i), 0})
		_, err := tr.Step([]*mat.VecDense{z}, 1.0)
		require.NoError(t, err)
		assert.LessOrEqual(t, tr.MBMSize(), pmbm.DefaultConfig().MaxNumberOfHypotheses)
		assert.LessOrEqual(t, tr.TopGlobalWeight(), 1e-6)
	}
}

func TestTracker_PureClutterReportsNoEstimates(t *testing.T) {
	motion := models.ConstantVelocity{PosDim: 2, ProcessNoisePos: 0.01, ProcessNoiseVel: 0.01}
	meas := models.LinearMeasurement{StateDim: 4, PosDim: 2, NoiseVar: 0.1}
	sensor := models.PoissonSensor{PD: 0.8, ClutterRate: 5, FOVMin: []float64{-50, -50}, FOVMax: []float64{50, 50}}
	birth := models.StaticBirth{} // no births: nothing real ever enters the scene
	cfg := pmbm.DefaultConfig()
	cfg.DetectionProbability = 0.8
	tr := pmbm.New(motion, meas, sensor, birth, cfg)

	var estimates []pmbm.Estimate
	for i := 0; i < 20; i++ {
		z := mat.NewVecDense(2, []float64{float64(i % 7), float64(i % 5)})
		var err error
		estimates, err = tr.Step([]*mat.VecDense{z}, 1.0)
		require.NoError(t, err)
	}
	assert.Empty(t, estimates)
}
