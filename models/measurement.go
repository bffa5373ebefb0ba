package models

import (
	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/pmbmtrack/internal/gaussian"
)

// LinearMeasurement observes the first PosDim components of a StateDim
// state directly: H = [I_PosDim | 0].
type LinearMeasurement struct {
	StateDim int
	PosDim   int
	NoiseVar float64 // per-axis measurement noise variance
}

var _ gaussian.MeasurementModel = LinearMeasurement{}

// MeasurementDim returns PosDim.
func (m LinearMeasurement) MeasurementDim() int { return m.PosDim }

// Observe extracts the position block of x.
func (m LinearMeasurement) Observe(x *mat.VecDense) *mat.VecDense {
	out := mat.NewVecDense(m.PosDim, nil)
	for i := 0; i < m.PosDim; i++ {
		out.SetVec(i, x.AtVec(i))
	}
	return out
}

// Jacobian returns H = [I_PosDim | 0].
func (m LinearMeasurement) Jacobian(_ *mat.VecDense) *mat.Dense {
	H := mat.NewDense(m.PosDim, m.StateDim, nil)
	for i := 0; i < m.PosDim; i++ {
		H.Set(i, i, 1)
	}
	return H
}

// NoiseCov returns diag(NoiseVar, ..., NoiseVar).
func (m LinearMeasurement) NoiseCov() *mat.SymDense {
	R := mat.NewSymDense(m.PosDim, nil)
	for i := 0; i < m.PosDim; i++ {
		R.SetSym(i, i, m.NoiseVar)
	}
	return R
}
