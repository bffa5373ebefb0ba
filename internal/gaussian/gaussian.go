package gaussian

import "gonum.org/v1/gonum/mat"

// Gaussian is a single Gaussian state N(x, P): a mean vector and a
// symmetric positive-definite covariance matrix of matching dimension.
type Gaussian struct {
	X *mat.VecDense
	P *mat.SymDense
}

// Dim returns the state dimension.
func (g *Gaussian) Dim() int {
	return g.X.Len()
}

// Clone returns a deep copy so callers can mutate the result without
// affecting the source. PPP birth (via Mixture.Clone) relies on this to
// keep the stored intensity independent of the caller's mixture.
func (g *Gaussian) Clone() *Gaussian {
	n := g.Dim()
	x := mat.NewVecDense(n, nil)
	x.CloneFromVec(g.X)
	p := mat.NewSymDense(n, nil)
	p.CopySym(g.P)
	return &Gaussian{X: x, P: p}
}

// NewGaussian builds a Gaussian from a mean slice and a row-major
// covariance slice of length dim*dim.
func NewGaussian(mean []float64, cov []float64) *Gaussian {
	n := len(mean)
	return &Gaussian{
		X: mat.NewVecDense(n, append([]float64(nil), mean...)),
		P: mat.NewSymDense(n, append([]float64(nil), cov...)),
	}
}

// Symmetrize forces P back onto the symmetric cone: P <- (P + Pᵀ)/2. The
// gaussian.Ops Kalman update always calls this after computing a new
// covariance, since floating point (I-KH)P accumulates asymmetry.
func (g *Gaussian) Symmetrize() {
	n := g.Dim()
	var sym mat.Dense
	sym.Add(g.P, g.P.T())
	sym.Scale(0.5, &sym)
	out := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			out.SetSym(i, j, sym.At(i, j))
		}
	}
	g.P = out
}

// Jitter adds ε·I to the covariance diagonal, the local-recovery step for
// a non-SPD matrix.
func (g *Gaussian) Jitter(eps float64) {
	n := g.Dim()
	out := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := g.P.At(i, j)
			if i == j {
				v += eps
			}
			out.SetSym(i, j, v)
		}
	}
	g.P = out
}

// IsSPD reports whether P is (numerically) symmetric positive-definite,
// via a Cholesky factorization attempt.
func (g *Gaussian) IsSPD() bool {
	var chol mat.Cholesky
	return chol.Factorize(g.P)
}

// WeightedGaussian is one component of a Gaussian mixture: an unnormalized
// log-weight and a Gaussian state.
type WeightedGaussian struct {
	LogWeight float64
	Gaussian  *Gaussian
}

// Clone deep-copies the component.
func (c WeightedGaussian) Clone() WeightedGaussian {
	return WeightedGaussian{LogWeight: c.LogWeight, Gaussian: c.Gaussian.Clone()}
}

// Mixture is an ordered sequence of weighted Gaussian components. Weights
// are unnormalized log-weights; normalization is a property of the
// context the mixture is used in (PPP intensity vs. moment-matching
// input).
type Mixture []WeightedGaussian

// Clone deep-copies every component, used by PPP.Birth to own appended
// components rather than aliasing the caller's slice.
func (m Mixture) Clone() Mixture {
	out := make(Mixture, len(m))
	for i, c := range m {
		out[i] = c.Clone()
	}
	return out
}

// LogWeights extracts the raw log-weights of the mixture.
func (m Mixture) LogWeights() []float64 {
	ws := make([]float64, len(m))
	for i, c := range m {
		ws[i] = c.LogWeight
	}
	return ws
}
