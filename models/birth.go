package models

import "github.com/banshee-data/pmbmtrack/internal/gaussian"

// BirthModel is the collaborator consumed at the top level: sample(t) returns the Gaussian mixture of new PPP
// components to add this step.
type BirthModel interface {
	Sample(t float64) gaussian.Mixture
}

// StaticBirth reintroduces the same fixed mixture of birth components
// every step, the common case for a sensor that watches a fixed region
// (e.g. a doorway or a single lane) for new targets.
type StaticBirth struct {
	Components gaussian.Mixture
}

var _ BirthModel = StaticBirth{}

// Sample returns a deep copy of Components so callers can never mutate
// the model's stored mixture through the sampled result.
func (b StaticBirth) Sample(_ float64) gaussian.Mixture {
	return b.Components.Clone()
}

// NewBirthAtPoints builds a StaticBirth with one Gaussian component per
// point: mean at the point with zero velocity, diagonal covariance with
// posVar on the position axes and velVar on the velocity axes. It is a
// convenience constructor for the common case of
// seeding birth intensity at known entry points such as a single doorway.
func NewBirthAtPoints(points [][]float64, logWeight float64, posVar, velVar float64) StaticBirth {
	components := make(gaussian.Mixture, 0, len(points))
	for _, p := range points {
		dim := len(p) * 2
		mean := make([]float64, dim)
		copy(mean, p)
		cov := make([]float64, dim*dim)
		for i := 0; i < len(p); i++ {
			cov[i*dim+i] = posVar
		}
		for i := len(p); i < dim; i++ {
			cov[i*dim+i] = velVar
		}
		components = append(components, gaussian.WeightedGaussian{
			LogWeight: logWeight,
			Gaussian:  gaussian.NewGaussian(mean, cov),
		})
	}
	return StaticBirth{Components: components}
}
