package models

import (
	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/pmbmtrack/internal/gaussian"
)

// ConstantVelocity is a linear constant-velocity motion model over
// PosDim position dimensions: state = [pos_0..pos_{d-1}, vel_0..vel_{d-1}].
// Its Jacobian F does not depend on x, so Step is exactly linear.
type ConstantVelocity struct {
	PosDim          int
	ProcessNoisePos float64
	ProcessNoiseVel float64
}

var _ gaussian.MotionModel = ConstantVelocity{}

// StateDim returns 2*PosDim (position block followed by velocity block).
func (m ConstantVelocity) StateDim() int { return 2 * m.PosDim }

// Step advances position by velocity*dt; velocity is unchanged.
func (m ConstantVelocity) Step(x *mat.VecDense, dt float64) *mat.VecDense {
	n := m.StateDim()
	out := mat.NewVecDense(n, nil)
	for i := 0; i < m.PosDim; i++ {
		out.SetVec(i, x.AtVec(i)+x.AtVec(m.PosDim+i)*dt)
	}
	for i := 0; i < m.PosDim; i++ {
		out.SetVec(m.PosDim+i, x.AtVec(m.PosDim+i))
	}
	return out
}

// Jacobian returns the block matrix [[I, dt*I], [0, I]].
func (m ConstantVelocity) Jacobian(_ *mat.VecDense, dt float64) *mat.Dense {
	n := m.StateDim()
	F := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		F.Set(i, i, 1)
	}
	for i := 0; i < m.PosDim; i++ {
		F.Set(i, m.PosDim+i, dt)
	}
	return F
}

// ProcessNoise returns diag(ProcessNoisePos, ..., ProcessNoiseVel, ...):
// a flat per-block process noise rather than a dt-scaled
// white-noise-acceleration model.
func (m ConstantVelocity) ProcessNoise(dt float64) *mat.SymDense {
	n := m.StateDim()
	Q := mat.NewSymDense(n, nil)
	for i := 0; i < m.PosDim; i++ {
		Q.SetSym(i, i, m.ProcessNoisePos)
	}
	for i := 0; i < m.PosDim; i++ {
		Q.SetSym(m.PosDim+i, m.PosDim+i, m.ProcessNoiseVel)
	}
	return Q
}
