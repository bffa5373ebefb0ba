// Package gaussian is the DensityOps facade: Kalman predict/update,
// ellipsoidal gating, moment matching and log-weight normalization over
// Gaussian mixtures. It holds all of the module's Kalman and mixture
// matrix arithmetic; other packages pass *gaussian.Gaussian values and
// use gonum.org/v1/gonum/mat only for measurement vectors and model
// matrices.
//
// Dependency rule: gaussian may not import any other internal/ package.
package gaussian
