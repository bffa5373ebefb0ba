package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/pmbmtrack/models"
)

func TestNewBirthAtPoints_OneComponentPerPoint(t *testing.T) {
	b := models.NewBirthAtPoints([][]float64{{0, 0}, {10, 5}}, -0.5, 1.0, 2.0)
	mix := b.Sample(0)
	require.Len(t, mix, 2)
	assert.Equal(t, 0.0, mix[0].Gaussian.X.AtVec(0))
	assert.Equal(t, 10.0, mix[1].Gaussian.X.AtVec(0))
	assert.Equal(t, 1.0, mix[0].Gaussian.P.At(0, 0))
	assert.Equal(t, 2.0, mix[0].Gaussian.P.At(2, 2))
}

func TestStaticBirth_SampleDoesNotAliasStoredComponents(t *testing.T) {
	b := models.NewBirthAtPoints([][]float64{{0, 0}}, 0, 1, 1)
	mix := b.Sample(0)
	mix[0].Gaussian.X.SetVec(0, 999)
	again := b.Sample(0)
	assert.Equal(t, 0.0, again[0].Gaussian.X.AtVec(0))
}
