package global_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/pmbmtrack/internal/global"
)

func TestMBM_NormalizeSumsToOne(t *testing.T) {
	m := global.New([]global.GlobalHypothesis{
		global.NewGlobalHypothesis(-1, nil),
		global.NewGlobalHypothesis(-2, nil),
		global.NewGlobalHypothesis(-3, nil),
	})
	m.Normalize()

	var sum float64
	for _, g := range m.Globals {
		sum += math.Exp(g.LogWeight)
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestMBM_Normalize_InvariantToSharedConstant(t *testing.T) {
	m1 := global.New([]global.GlobalHypothesis{
		global.NewGlobalHypothesis(-1, nil),
		global.NewGlobalHypothesis(-4, nil),
	})
	m2 := global.New([]global.GlobalHypothesis{
		global.NewGlobalHypothesis(-1+10, nil),
		global.NewGlobalHypothesis(-4+10, nil),
	})
	m1.Normalize()
	m2.Normalize()
	for i := range m1.Globals {
		assert.InDelta(t, m1.Globals[i].LogWeight, m2.Globals[i].LogWeight, 1e-9)
	}
}

func TestMBM_PruneDropsBelowThresholdAndCaps(t *testing.T) {
	m := global.New([]global.GlobalHypothesis{
		global.NewGlobalHypothesis(math.Log(0.5), nil),
		global.NewGlobalHypothesis(math.Log(0.3), nil),
		global.NewGlobalHypothesis(math.Log(0.15), nil),
		global.NewGlobalHypothesis(math.Log(0.05), nil),
	})
	m.Prune(math.Log(0.1), 2)
	require.Len(t, m.Globals, 2)

	var sum float64
	for _, g := range m.Globals {
		sum += math.Exp(g.LogWeight)
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestMBM_Best(t *testing.T) {
	m := global.New([]global.GlobalHypothesis{
		global.NewGlobalHypothesis(-2, nil),
		global.NewGlobalHypothesis(-0.1, nil),
		global.NewGlobalHypothesis(-5, nil),
	})
	best, ok := m.Best()
	require.True(t, ok)
	assert.InDelta(t, -0.1, best.LogWeight, 1e-9)
}

func TestMBM_Best_EmptyIsNotOK(t *testing.T) {
	m := global.New(nil)
	_, ok := m.Best()
	assert.False(t, ok)
}

func TestMBM_ReferencedSTHs(t *testing.T) {
	m := global.New([]global.GlobalHypothesis{
		global.NewGlobalHypothesis(0, []global.Association{
			{TrackID: 1, STHID: 2},
			{TrackID: 2, STHID: 0},
		}),
		global.NewGlobalHypothesis(0, []global.Association{
			{TrackID: 1, STHID: 3},
		}),
	})
	refs := m.ReferencedSTHs()
	assert.True(t, refs[1][2])
	assert.True(t, refs[1][3])
	assert.True(t, refs[2][0])
	assert.False(t, refs[2][1])
}
