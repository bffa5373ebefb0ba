// Package pmbm is the exposed surface of the tracker: a Poisson
// Multi-Bernoulli Mixture filter over PoissonRFS undetected-target
// intensity and a MultiBernoulliMixture of per-track hypothesis trees
//. Tracker.Step is the only mutator of its state.
package pmbm
