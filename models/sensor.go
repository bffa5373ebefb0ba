package models

// PoissonSensor is the sensor model consumed at the top level: a fixed detection probability, a Poisson clutter
// rate over a hyper-rectangular field of view, and the clutter intensity
// that rate implies.
type PoissonSensor struct {
	PD          float64 // detection probability
	ClutterRate float64 // lambda_c, expected false measurements per step
	// FOVMin/FOVMax bound the sensor's hyper-rectangular field of view,
	// one pair of coordinates per measurement dimension.
	FOVMin []float64
	FOVMax []float64
}

// DetectionProbability returns PD, satisfying pmbm.SensorModel.
func (s PoissonSensor) DetectionProbability() float64 { return s.PD }

// Volume returns the hyper-rectangle's volume, the product of per-axis
// extents.
func (s PoissonSensor) Volume() float64 {
	v := 1.0
	for i := range s.FOVMin {
		v *= s.FOVMax[i] - s.FOVMin[i]
	}
	return v
}

// ClutterIntensity returns lambda_c / volume(region), the per-unit-volume
// false-measurement rate used as the PPP detected_update denominator.
func (s PoissonSensor) ClutterIntensity() float64 {
	v := s.Volume()
	if v <= 0 {
		return 0
	}
	return s.ClutterRate / v
}
