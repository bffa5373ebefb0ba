package ppp

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/pmbmtrack/internal/bernoulli"
	"github.com/banshee-data/pmbmtrack/internal/gaussian"
	"github.com/banshee-data/pmbmtrack/internal/hypothesis"
)

// PoissonRFS is the intensity of undetected targets: a Gaussian mixture
// with no attached identity.
type PoissonRFS struct {
	Intensity gaussian.Mixture
}

// New creates a PPP seeded with an initial intensity (deep-copied).
func New(initial gaussian.Mixture) *PoissonRFS {
	return &PoissonRFS{Intensity: initial.Clone()}
}

// Len returns the number of components in the intensity.
func (p *PoissonRFS) Len() int { return len(p.Intensity) }

// Predict ages each component by the survival probability in log-space
// and predicts the Gaussian forward by dt.
func (p *PoissonRFS) Predict(ops gaussian.Ops, motion gaussian.MotionModel, survivalProbability, dt float64) {
	logPS := math.Log(survivalProbability)
	for i, c := range p.Intensity {
		c.LogWeight += logPS
		c.Gaussian = ops.Predict(c.Gaussian, motion, dt)
		p.Intensity[i] = c
	}
}

// Birth appends deep-copied components from the birth model's sampled
// mixture, so the stored intensity never aliases the caller's slice.
func (p *PoissonRFS) Birth(newComponents gaussian.Mixture) {
	p.Intensity = append(p.Intensity, newComponents.Clone()...)
}

// UndetectedUpdate ages every component by log(1 - pD); it does not
// otherwise modify components.
func (p *PoissonRFS) UndetectedUpdate(detectionProbability float64) {
	logQD := math.Log(1 - detectionProbability)
	for i := range p.Intensity {
		p.Intensity[i].LogWeight += logQD
	}
}

// DetectedUpdate computes the "first-time detection" single-target
// hypothesis for measurement measIdx. It operates on a local copy of the
// intensity and never mutates p. ok is false when the PPP has no
// components, in which case no new-track hypothesis can be formed for
// this measurement.
func (p *PoissonRFS) DetectedUpdate(ops gaussian.Ops, measIdx int, z *mat.VecDense, meas gaussian.MeasurementModel, detectionProbability, clutterIntensity float64) (sth hypothesis.STH, ok bool) {
	if len(p.Intensity) == 0 {
		return hypothesis.STH{}, false
	}

	updated, loglikelihoods := ops.UpdateStatesWithLikelihoodsBySingleMeasurement(p.Intensity, z, meas)

	logPD := math.Log(detectionProbability)
	logWeights := make([]float64, len(p.Intensity))
	for i, c := range p.Intensity {
		logWeights[i] = logPD + c.LogWeight + loglikelihoods[i]
	}

	normalized, logSum := gaussian.NormalizeLogWeights(logWeights)
	merged := ops.MomentMatching(normalized, updated)

	logLikelihood := gaussian.LogSumExp([]float64{logSum, math.Log(clutterIntensity)})
	existence := math.Exp(logSum - logLikelihood)

	idx := measIdx
	return hypothesis.STH{
		ID:                  0,
		Bernoulli:           bernoulli.Bernoulli{R: existence, Gaussian: merged},
		LogLikelihood:       logLikelihood,
		Cost:                -logLikelihood,
		MeasIdx:             &idx,
		DetectionHypotheses: map[int]int{},
		Missed:              hypothesis.NoParent,
	}, true
}

// Gating returns, for every PPP component, which measurements fall
// inside its ellipsoidal gate (componentInside[i][m]), plus the
// per-measurement OR across all components (usedByAny[m]). Measurements
// outside every gate are still eligible for the "new track / clutter"
// column of the cost matrix.
func (p *PoissonRFS) Gating(ops gaussian.Ops, measurements []*mat.VecDense, meas gaussian.MeasurementModel, gatingSize float64) (componentInside [][]bool, usedByAny []bool) {
	componentInside = make([][]bool, len(p.Intensity))
	usedByAny = make([]bool, len(measurements))
	for i, c := range p.Intensity {
		_, mask := ops.EllipsoidalGating(c.Gaussian, measurements, meas, gatingSize)
		componentInside[i] = mask
		for m, v := range mask {
			if v {
				usedByAny[m] = true
			}
		}
	}
	return componentInside, usedByAny
}

// Prune drops components with LogWeight <= threshold.
func (p *PoissonRFS) Prune(threshold float64) {
	kept := p.Intensity[:0:0]
	for _, c := range p.Intensity {
		if c.LogWeight > threshold {
			kept = append(kept, c)
		}
	}
	p.Intensity = kept
}
