package gaussian

import "gonum.org/v1/gonum/mat"

// MotionModel is the consumed collaborator for state prediction: f(x, dt),
// its Jacobian F(x, dt), and process noise Q(dt). Linear motion models
// return a Jacobian that does not depend on x; non-linear ones linearize
// (EKF) about the current state.
type MotionModel interface {
	StateDim() int
	Step(x *mat.VecDense, dt float64) *mat.VecDense
	Jacobian(x *mat.VecDense, dt float64) *mat.Dense
	ProcessNoise(dt float64) *mat.SymDense
}

// MeasurementModel is the consumed collaborator for the observation
// equation: h(x), its Jacobian H(x), and measurement noise R.
type MeasurementModel interface {
	MeasurementDim() int
	Observe(x *mat.VecDense) *mat.VecDense
	Jacobian(x *mat.VecDense) *mat.Dense
	NoiseCov() *mat.SymDense
}
