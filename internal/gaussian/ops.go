package gaussian

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// covarianceJitter is added to the diagonal when a covariance fails
// Cholesky factorization, the local InvalidCovariance recovery.
const covarianceJitter = 1e-9

// Ops is the density-operations facade: predict, update, gating, moment
// matching, all as pure functions over *Gaussian and Mixture values. It
// carries no state and is safe to share across goroutines.
type Ops struct{}

// Predict applies the Kalman/EKF prediction step: x' = f(x, dt),
// P' = F P Fᵀ + Q(dt).
func (Ops) Predict(g *Gaussian, motion MotionModel, dt float64) *Gaussian {
	xNext := motion.Step(g.X, dt)
	F := motion.Jacobian(g.X, dt)
	Q := motion.ProcessNoise(dt)

	n := F.RawMatrix().Rows
	var fp mat.Dense
	fp.Mul(F, g.P)
	var fpft mat.Dense
	fpft.Mul(&fp, F.T())

	pNext := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			pNext.SetSym(i, j, fpft.At(i, j)+Q.At(i, j))
		}
	}

	out := &Gaussian{X: xNext, P: pNext}
	out.Symmetrize()
	if !out.IsSPD() {
		out.Jitter(covarianceJitter)
	}
	return out
}

// innovation returns the innovation y = z - h(x) and covariance
// S = H P Hᵀ + R for a single Gaussian/measurement pair.
func innovation(g *Gaussian, z *mat.VecDense, meas MeasurementModel) (y *mat.VecDense, S *mat.SymDense, H *mat.Dense) {
	H = meas.Jacobian(g.X)
	m := meas.MeasurementDim()

	pred := meas.Observe(g.X)
	y = mat.NewVecDense(m, nil)
	y.SubVec(z, pred)

	var hp mat.Dense
	hp.Mul(H, g.P)
	var hpht mat.Dense
	hpht.Mul(&hp, H.T())

	R := meas.NoiseCov()
	S = mat.NewSymDense(m, nil)
	for i := 0; i < m; i++ {
		for j := i; j < m; j++ {
			S.SetSym(i, j, hpht.At(i, j)+R.At(i, j))
		}
	}
	return y, S, H
}

// Update applies the Kalman update step given a single measurement.
func (o Ops) Update(g *Gaussian, z *mat.VecDense, meas MeasurementModel) *Gaussian {
	updated, _ := o.updateWithLikelihood(g, z, meas)
	return updated
}

// PredictLogLikelihood returns log N(z; h(x), H P Hᵀ + R) without
// mutating g.
func (Ops) PredictLogLikelihood(g *Gaussian, z *mat.VecDense, meas MeasurementModel) float64 {
	y, S, _ := innovation(g, z, meas)
	return logGaussianPDF(y, S)
}

// updateWithLikelihood performs the Kalman update and also returns the
// predicted log-likelihood of z under the prior (g.X, g.P), so callers
// that need both (e.g. PPP.detected_update) do not pay for the
// innovation twice.
func (o Ops) updateWithLikelihood(g *Gaussian, z *mat.VecDense, meas MeasurementModel) (*Gaussian, float64) {
	y, S, H := innovation(g, z, meas)
	ll := logGaussianPDF(y, S)

	n := g.Dim()
	var Sinv mat.Dense
	if err := Sinv.Inverse(S); err != nil {
		// Singular innovation covariance: fall back to S + covarianceJitter·I.
		dim := S.Symmetric()
		jittered := mat.NewSymDense(dim, nil)
		for i := 0; i < dim; i++ {
			for j := i; j < dim; j++ {
				v := S.At(i, j)
				if i == j {
					v += covarianceJitter
				}
				jittered.SetSym(i, j, v)
			}
		}
		Sinv.Inverse(jittered)
	}

	var pht mat.Dense
	pht.Mul(g.P, H.T())
	var K mat.Dense
	K.Mul(&pht, &Sinv)

	var correction mat.VecDense
	correction.MulVec(&K, y)
	xNext := mat.NewVecDense(n, nil)
	xNext.AddVec(g.X, &correction)

	var KH mat.Dense
	KH.Mul(&K, H)
	I := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		I.Set(i, i, 1)
	}
	var IminusKH mat.Dense
	IminusKH.Sub(I, &KH)

	var newP mat.Dense
	newP.Mul(&IminusKH, g.P)

	pNext := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			pNext.SetSym(i, j, newP.At(i, j))
		}
	}

	out := &Gaussian{X: xNext, P: pNext}
	out.Symmetrize()
	if !out.IsSPD() {
		out.Jitter(covarianceJitter)
	}
	return out, ll
}

// UpdateStatesWithLikelihoodsBySingleMeasurement updates every component
// of a mixture by the same measurement z, returning the updated mixture
// (log-weights unchanged — callers rescale them) and the per-component
// predicted log-likelihoods. The source mixture is never mutated.
func (o Ops) UpdateStatesWithLikelihoodsBySingleMeasurement(mix Mixture, z *mat.VecDense, meas MeasurementModel) (updated Mixture, loglikelihoods []float64) {
	updated = make(Mixture, len(mix))
	loglikelihoods = make([]float64, len(mix))
	for i, comp := range mix {
		g, ll := o.updateWithLikelihood(comp.Gaussian, z, meas)
		updated[i] = WeightedGaussian{LogWeight: comp.LogWeight, Gaussian: g}
		loglikelihoods[i] = ll
	}
	return updated, loglikelihoods
}

// EllipsoidalGating returns the indices of measurements whose Mahalanobis
// distance in innovation space is within the χ² gate for the given
// confidence (gatingSize, e.g. 0.999) and the measurement model's
// dimension, plus a same-length boolean mask.
func (Ops) EllipsoidalGating(g *Gaussian, measurements []*mat.VecDense, meas MeasurementModel, gatingSize float64) (indices []int, mask []bool) {
	m := meas.MeasurementDim()
	threshold := distuv.ChiSquared{K: float64(m)}.Quantile(gatingSize)

	H := meas.Jacobian(g.X)
	pred := meas.Observe(g.X)

	var hp mat.Dense
	hp.Mul(H, g.P)
	var hpht mat.Dense
	hpht.Mul(&hp, H.T())
	R := meas.NoiseCov()
	S := mat.NewSymDense(m, nil)
	for i := 0; i < m; i++ {
		for j := i; j < m; j++ {
			S.SetSym(i, j, hpht.At(i, j)+R.At(i, j))
		}
	}
	var Sinv mat.Dense
	if err := Sinv.Inverse(S); err != nil {
		mask = make([]bool, len(measurements))
		return nil, mask
	}

	mask = make([]bool, len(measurements))
	for i, z := range measurements {
		y := mat.NewVecDense(m, nil)
		y.SubVec(z, pred)
		var Sinvy mat.VecDense
		Sinvy.MulVec(&Sinv, y)
		d2 := mat.Dot(y, &Sinvy)
		if d2 <= threshold {
			indices = append(indices, i)
			mask[i] = true
		}
	}
	return indices, mask
}

// MomentMatching merges a mixture into a single Gaussian by matching its
// first two moments under the given normalized log-weights (same length
// and order as mix). Moment matching of a single-component mixture
// returns that component unchanged.
func (Ops) MomentMatching(normalizedLogWeights []float64, mix Mixture) *Gaussian {
	if len(mix) == 1 {
		return mix[0].Gaussian.Clone()
	}

	n := mix[0].Gaussian.Dim()
	weights := make([]float64, len(mix))
	for i, lw := range normalizedLogWeights {
		weights[i] = math.Exp(lw)
	}

	xBar := mat.NewVecDense(n, nil)
	for i, comp := range mix {
		var scaled mat.VecDense
		scaled.ScaleVec(weights[i], comp.Gaussian.X)
		xBar.AddVec(xBar, &scaled)
	}

	pBar := mat.NewDense(n, n, nil)
	for i, comp := range mix {
		var diff mat.VecDense
		diff.SubVec(comp.Gaussian.X, xBar)
		var outer mat.Dense
		outer.Outer(1, &diff, &diff)

		var term mat.Dense
		term.Add(comp.Gaussian.P, &outer)
		term.Scale(weights[i], &term)
		pBar.Add(pBar, &term)
	}

	pSym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			pSym.SetSym(i, j, pBar.At(i, j))
		}
	}
	out := &Gaussian{X: xBar, P: pSym}
	out.Symmetrize()
	return out
}

// logGaussianPDF returns log N(0; mean-shifted-to-y, S) evaluated at the
// innovation y with covariance S, i.e. log N(z; h(x), S).
func logGaussianPDF(y *mat.VecDense, S *mat.SymDense) float64 {
	n := y.Len()

	var chol mat.Cholesky
	ok := chol.Factorize(S)
	if !ok {
		// Degenerate innovation covariance: treat as no support for this
		// measurement rather than panicking.
		return math.Inf(-1)
	}
	logDet := chol.LogDet()

	var SinvY mat.VecDense
	if err := chol.SolveVecTo(&SinvY, y); err != nil {
		return math.Inf(-1)
	}
	quad := mat.Dot(y, &SinvY)

	return -0.5 * (quad + logDet + float64(n)*math.Log(2*math.Pi))
}
