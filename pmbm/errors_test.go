package pmbm_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/banshee-data/pmbmtrack/pmbm"
)

func TestError_UnwrapsUnderlyingError(t *testing.T) {
	inner := errors.New("boom")
	err := &pmbm.Error{Kind: pmbm.KindInvalidInput, Op: "Step", Err: inner}
	assert.ErrorIs(t, err, inner)
}

func TestIsKind(t *testing.T) {
	err := &pmbm.Error{Kind: pmbm.KindNoFeasibleAssignment, Op: "Step"}
	assert.True(t, pmbm.IsKind(err, pmbm.KindNoFeasibleAssignment))
	assert.False(t, pmbm.IsKind(err, pmbm.KindInvalidCovariance))
	assert.False(t, pmbm.IsKind(errors.New("other"), pmbm.KindInvalidCovariance))
}
