package global

import (
	"math"
	"sort"

	"github.com/banshee-data/pmbmtrack/internal/gaussian"
)

// MultiBernoulliMixture is the weighted set of global hypotheses.
// Invariant across the MBM: the log-weights sum to 0 in
// log-space (weights sum to 1 in linear scale) once Normalize has run.
type MultiBernoulliMixture struct {
	Globals []GlobalHypothesis
}

// New wraps an initial (possibly empty) set of globals.
func New(globals []GlobalHypothesis) *MultiBernoulliMixture {
	return &MultiBernoulliMixture{Globals: globals}
}

// Len returns the number of surviving globals.
func (m *MultiBernoulliMixture) Len() int { return len(m.Globals) }

// TotalLogWeight is logsumexp over every global's log-weight.
func (m *MultiBernoulliMixture) TotalLogWeight() float64 {
	ws := make([]float64, len(m.Globals))
	for i, g := range m.Globals {
		ws[i] = g.LogWeight
	}
	return gaussian.LogSumExp(ws)
}

// Normalize renormalizes every global's log-weight so that
// logsumexp(log_weights) == 0. An MBM with no
// globals, or whose total weight underflows to -Inf, is left empty.
func (m *MultiBernoulliMixture) Normalize() {
	if len(m.Globals) == 0 {
		return
	}
	ws := make([]float64, len(m.Globals))
	for i, g := range m.Globals {
		ws[i] = g.LogWeight
	}
	normalized, logSum := gaussian.NormalizeLogWeights(ws)
	if math.IsInf(logSum, -1) { // every global vanished
		m.Globals = nil
		return
	}
	for i := range m.Globals {
		m.Globals[i].LogWeight = normalized[i]
	}
}

// Prune drops globals whose (already normalized) log-weight is at or
// below logThreshold, then caps the survivors to maxCount by descending
// weight, then renormalizes.
func (m *MultiBernoulliMixture) Prune(logThreshold float64, maxCount int) {
	kept := m.Globals[:0:0]
	for _, g := range m.Globals {
		if g.LogWeight > logThreshold {
			kept = append(kept, g)
		}
	}
	m.Globals = kept

	sort.SliceStable(m.Globals, func(i, j int) bool {
		return m.Globals[i].LogWeight > m.Globals[j].LogWeight
	})
	if maxCount > 0 && len(m.Globals) > maxCount {
		m.Globals = m.Globals[:maxCount]
	}
	m.Normalize()
}

// Best returns the highest-weight global, used for estimate extraction
//. ok is false when the MBM is empty.
func (m *MultiBernoulliMixture) Best() (GlobalHypothesis, bool) {
	if len(m.Globals) == 0 {
		return GlobalHypothesis{}, false
	}
	best := m.Globals[0]
	for _, g := range m.Globals[1:] {
		if g.LogWeight > best.LogWeight {
			best = g
		}
	}
	return best, true
}

// ReferencedSTHs returns, per track_id, the set of sth_ids referenced by
// at least one surviving global. Used to mark-and-sweep track/STH storage
// after pruning.
func (m *MultiBernoulliMixture) ReferencedSTHs() map[int64]map[int]bool {
	referenced := make(map[int64]map[int]bool)
	for _, g := range m.Globals {
		for _, a := range g.Associations {
			if referenced[a.TrackID] == nil {
				referenced[a.TrackID] = make(map[int]bool)
			}
			referenced[a.TrackID][a.STHID] = true
		}
	}
	return referenced
}
