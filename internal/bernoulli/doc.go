// Package bernoulli implements the Bernoulli component: an existence
// probability paired with a Gaussian state, plus its
// predict/undetected-update/detected-update operations.
package bernoulli
