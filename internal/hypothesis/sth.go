package hypothesis

import "github.com/banshee-data/pmbmtrack/internal/bernoulli"

// NoParent marks an STH with no missed-detection continuation yet.
const NoParent = -1

// STH is one node in a track's hypothesis tree: a Bernoulli plus the
// log-likelihood/cost of choosing it, the measurement that produced it
// (if any), and the children computed against the current step's
// measurements.
type STH struct {
	ID            int
	Bernoulli     bernoulli.Bernoulli
	LogLikelihood float64
	Cost          float64 // -LogLikelihood for detection hypotheses
	MeasIdx       *int    // measurement index that produced this STH, nil if none

	// DetectionHypotheses maps a gated measurement index to the sth_id of
	// the child STH representing "detected by measurement m". Invariant:
	// an entry exists iff measurement m passed gating against Bernoulli.
	DetectionHypotheses map[int]int

	// Missed is the sth_id of this STH's missed-detection continuation,
	// or NoParent if it has not been computed for the current step.
	Missed int
}

// HasMissed reports whether the missed-detection continuation has been
// computed for this STH.
func (s STH) HasMissed() bool { return s.Missed != NoParent }
