package pmbm

import "errors"

// Kind classifies the tracker's error conditions. Step returns only
// KindInvalidInput; the other kinds name conditions that Step recovers
// from internally and does not return. EmptyMeasurementSet is
// deliberately absent: step([], dt) is a valid, non-error call.
type Kind int

const (
	// KindInvalidCovariance marks a covariance that failed to recover
	// even after symmetrize-and-jitter; the offending STH was dropped.
	KindInvalidCovariance Kind = iota
	// KindNoFeasibleAssignment marks a parent global for which Murty
	// returned zero solutions; the global survived via missed-detection
	// only, it was not fatal to the step.
	KindNoFeasibleAssignment
	// KindNumericalUnderflow marks a global whose log-weight underflowed
	// to -Inf during normalization and was pruned.
	KindNumericalUnderflow
	// KindInvalidInput marks a malformed input (NaN measurement,
	// non-square covariance) that could not be processed at all.
	KindInvalidInput
)

func (k Kind) String() string {
	switch k {
	case KindInvalidCovariance:
		return "invalid_covariance"
	case KindNoFeasibleAssignment:
		return "no_feasible_assignment"
	case KindNumericalUnderflow:
		return "numerical_underflow"
	case KindInvalidInput:
		return "invalid_input"
	default:
		return "unknown"
	}
}

// Error is the typed error returned across the Step boundary: "No global state. No exceptions cross the step boundary under
// valid inputs; invalid inputs ... are reported via a typed error."
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Op + ": " + e.Kind.String() + ": " + e.Err.Error()
	}
	return e.Op + ": " + e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is a *Error of the given kind.
func IsKind(err error, k Kind) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind == k
	}
	return false
}
