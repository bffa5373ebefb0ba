// Package ppp implements the PoissonRFS: the Poisson Point Process
// intensity over undetected targets, with predict, birth, undetected/
// detected update, gating and pruning.
package ppp
