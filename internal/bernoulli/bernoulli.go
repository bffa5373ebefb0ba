package bernoulli

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/pmbmtrack/internal/gaussian"
)

// Bernoulli is "target exists with probability R, and if it exists its
// state is Gaussian".
type Bernoulli struct {
	R        float64
	Gaussian *gaussian.Gaussian
}

// Clone deep-copies the Bernoulli, matching the deep-copy discipline
// used throughout the PPP and hypothesis tree.
func (b Bernoulli) Clone() Bernoulli {
	return Bernoulli{R: b.R, Gaussian: b.Gaussian.Clone()}
}

// Predict ages the existence probability by the survival probability and
// predicts the Gaussian state forward by dt.
func (b Bernoulli) Predict(ops gaussian.Ops, motion gaussian.MotionModel, survivalProbability, dt float64) Bernoulli {
	return Bernoulli{
		R:        b.R * survivalProbability,
		Gaussian: ops.Predict(b.Gaussian, motion, dt),
	}
}

// UndetectedUpdate models "target exists but was not detected this
// step". New existence r' = r(1-pD) / (1 - r + r(1-pD)); the emitted
// log-likelihood is log(1 - r + r(1-pD)).
func (b Bernoulli) UndetectedUpdate(detectionProbability float64) (Bernoulli, float64) {
	qD := 1 - detectionProbability
	denom := 1 - b.R + b.R*qD
	logLikelihood := math.Log(denom)
	rNext := b.R * qD / denom
	return Bernoulli{R: rNext, Gaussian: b.Gaussian.Clone()}, logLikelihood
}

// DetectedUpdate performs the Kalman update of the Gaussian by z; the new
// existence is 1, and the emitted log-likelihood is
// log(r) + log(pD) + predict_loglikelihood(N, z).
func (b Bernoulli) DetectedUpdate(ops gaussian.Ops, z *mat.VecDense, meas gaussian.MeasurementModel, detectionProbability float64) (Bernoulli, float64) {
	predLL := ops.PredictLogLikelihood(b.Gaussian, z, meas)
	logLikelihood := math.Log(b.R) + math.Log(detectionProbability) + predLL
	updated := ops.Update(b.Gaussian, z, meas)
	return Bernoulli{R: 1, Gaussian: updated}, logLikelihood
}
