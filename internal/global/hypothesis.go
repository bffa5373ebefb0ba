package global

import "sort"

// Association is one (track_id, sth_id) pair: "this global selects sth_id
// as the chosen hypothesis for track_id".
type Association struct {
	TrackID int64
	STHID   int
}

// GlobalHypothesis is immutable after construction: a log-weight plus an
// ordered list of associations, one per live track.
// Associations are kept sorted by ascending TrackID for canonical ordering.
type GlobalHypothesis struct {
	LogWeight    float64
	Associations []Association
}

// NewGlobalHypothesis builds a GlobalHypothesis from an unordered set of
// associations, sorting them into canonical track_id order and defensively
// copying the input so the caller's slice is never aliased.
func NewGlobalHypothesis(logWeight float64, associations []Association) GlobalHypothesis {
	cp := make([]Association, len(associations))
	copy(cp, associations)
	sort.Slice(cp, func(i, j int) bool { return cp[i].TrackID < cp[j].TrackID })
	return GlobalHypothesis{LogWeight: logWeight, Associations: cp}
}

// STHFor returns the sth_id this global selects for trackID, if any.
func (g GlobalHypothesis) STHFor(trackID int64) (int, bool) {
	// Associations are sorted by TrackID; linear scan is fine at the
	// sizes these trees reach.
	for _, a := range g.Associations {
		if a.TrackID == trackID {
			return a.STHID, true
		}
	}
	return 0, false
}
