package assign

import (
	"math"

	"github.com/banshee-data/pmbmtrack/internal/global"
	"github.com/banshee-data/pmbmtrack/internal/hypothesis"
	"github.com/banshee-data/pmbmtrack/internal/murty"
)

// DesiredSolutions returns the per-parent Murty budget k_G =
// ceil(exp(G.log_weight) * desiredTotal), the weighted allocation across
// parent global hypotheses. maxPerParent, when positive, overrides this
// with a flat cap.
func DesiredSolutions(logWeight float64, desiredTotal int, maxPerParent int) int {
	if maxPerParent > 0 {
		return maxPerParent
	}
	k := int(math.Ceil(math.Exp(logWeight) * float64(desiredTotal)))
	if k < 1 {
		k = 1
	}
	return k
}

// Expand runs the Murty solver on G's cost matrix and returns one new
// global hypothesis per ranked solution. When Murty returns no feasible
// solutions, G survives unchanged except that every track falls back to
// its missed-detection continuation.
func Expand(g global.GlobalHypothesis, tracks map[int64]*hypothesis.Track, newTrackSTHs map[int]hypothesis.STH, newTrackIDs map[int]int64, numMeasurements, k int) []global.GlobalHypothesis {
	cm := Build(g, tracks, newTrackSTHs, numMeasurements)
	solutions := murty.RankedAssignments(cm.Matrix, k)

	if len(solutions) == 0 {
		return []global.GlobalHypothesis{allMissed(g, tracks)}
	}

	out := make([]global.GlobalHypothesis, 0, len(solutions))
	for _, s := range solutions {
		associations := cm.Decode(g, tracks, newTrackIDs, s.Assignment)
		out = append(out, global.NewGlobalHypothesis(g.LogWeight-s.Cost, associations))
	}
	return out
}

// allMissed builds the global hypothesis where every track in G takes
// its missed-detection continuation and no new tracks are spawned.
func allMissed(g global.GlobalHypothesis, tracks map[int64]*hypothesis.Track) global.GlobalHypothesis {
	associations := make([]global.Association, 0, len(g.Associations))
	for _, a := range g.Associations {
		track := tracks[a.TrackID]
		parent, ok := track.Get(a.STHID)
		if !ok {
			continue
		}
		sthID := a.STHID
		if parent.HasMissed() {
			sthID = parent.Missed
		}
		associations = append(associations, global.Association{TrackID: a.TrackID, STHID: sthID})
	}
	return global.NewGlobalHypothesis(g.LogWeight, associations)
}
