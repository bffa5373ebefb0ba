package ppp_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/pmbmtrack/internal/gaussian"
	"github.com/banshee-data/pmbmtrack/internal/ppp"
	"github.com/banshee-data/pmbmtrack/models"
)

func sampleMixture() gaussian.Mixture {
	g := gaussian.NewGaussian([]float64{0, 0, 0, 0}, []float64{
		5, 0, 0, 0,
		0, 5, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
	return gaussian.Mixture{{LogWeight: -0.1, Gaussian: g}}
}

func TestPoissonRFS_BirthDeepCopies(t *testing.T) {
	mix := sampleMixture()
	p := ppp.New(nil)
	p.Birth(mix)
	p.Intensity[0].Gaussian.X.SetVec(0, 42)
	assert.Equal(t, 0.0, mix[0].Gaussian.X.AtVec(0))
}

func TestPoissonRFS_Predict(t *testing.T) {
	p := ppp.New(sampleMixture())
	motion := models.ConstantVelocity{PosDim: 2, ProcessNoisePos: 0.1, ProcessNoiseVel: 0.1}
	before := p.Intensity[0].LogWeight
	p.Predict(gaussian.Ops{}, motion, 0.9, 1.0)
	assert.InDelta(t, before+math.Log(0.9), p.Intensity[0].LogWeight, 1e-9)
}

func TestPoissonRFS_UndetectedUpdate(t *testing.T) {
	p := ppp.New(sampleMixture())
	before := p.Intensity[0].LogWeight
	p.UndetectedUpdate(0.8)
	assert.InDelta(t, before+math.Log(0.2), p.Intensity[0].LogWeight, 1e-9)
}

func TestPoissonRFS_Prune(t *testing.T) {
	p := ppp.New(nil)
	p.Intensity = gaussian.Mixture{
		{LogWeight: -100, Gaussian: sampleMixture()[0].Gaussian},
		{LogWeight: -0.01, Gaussian: sampleMixture()[0].Gaussian},
	}
	p.Prune(-10)
	require.Len(t, p.Intensity, 1)
	assert.InDelta(t, -0.01, p.Intensity[0].LogWeight, 1e-9)
}

func TestPoissonRFS_Prune_RemovingBelowThresholdIsNoOp(t *testing.T) {
	// pruning twice at the same threshold changes nothing.
	p := ppp.New(sampleMixture())
	p.Prune(-10)
	first := len(p.Intensity)
	p.Prune(-10)
	assert.Equal(t, first, len(p.Intensity))
}

func TestPoissonRFS_DetectedUpdate_EmptyIntensityIsNotOK(t *testing.T) {
	p := ppp.New(nil)
	meas := models.LinearMeasurement{StateDim: 4, PosDim: 2, NoiseVar: 0.2}
	z := mat.NewVecDense(2, []float64{0, 0})
	_, ok := p.DetectedUpdate(gaussian.Ops{}, 0, z, meas, 0.9, 0.01)
	assert.False(t, ok)
}

func TestPoissonRFS_DetectedUpdate_DoesNotMutateIntensity(t *testing.T) {
	p := ppp.New(sampleMixture())
	before := p.Intensity[0].Gaussian.X.AtVec(0)

	meas := models.LinearMeasurement{StateDim: 4, PosDim: 2, NoiseVar: 0.2}
	z := mat.NewVecDense(2, []float64{3, 3})
	sth, ok := p.DetectedUpdate(gaussian.Ops{}, 0, z, meas, 0.9, 0.01)
	require.True(t, ok)

	assert.Equal(t, before, p.Intensity[0].Gaussian.X.AtVec(0))
	assert.GreaterOrEqual(t, sth.Bernoulli.R, 0.0)
	assert.LessOrEqual(t, sth.Bernoulli.R, 1.0)
	assert.Equal(t, 0, *sth.MeasIdx)
}

func TestPoissonRFS_Gating(t *testing.T) {
	p := ppp.New(sampleMixture())
	meas := models.LinearMeasurement{StateDim: 4, PosDim: 2, NoiseVar: 0.2}
	near := mat.NewVecDense(2, []float64{0.1, 0.1})
	far := mat.NewVecDense(2, []float64{1000, 1000})

	inside, usedByAny := p.Gating(gaussian.Ops{}, []*mat.VecDense{near, far}, meas, 0.999)
	require.Len(t, inside, 1)
	assert.True(t, inside[0][0])
	assert.False(t, inside[0][1])
	assert.True(t, usedByAny[0])
	assert.False(t, usedByAny[1])
}
