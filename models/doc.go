// Package models supplies ready-to-use, linear-Gaussian implementations
// of the four collaborators the PMBM core consumes: motion model,
// measurement model, sensor model and birth model. None of the core
// packages import this package — it exists so the tracker is runnable
// and testable without every caller writing a motion model first.
package models
