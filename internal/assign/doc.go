// Package assign implements the CostMatrix construction and Assigner:
// turning one parent global hypothesis into a linear assignment problem
// over measurements, and turning ranked assignment solutions back into
// new global hypotheses.
package assign
