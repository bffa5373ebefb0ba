package assign

import (
	"github.com/banshee-data/pmbmtrack/internal/global"
	"github.com/banshee-data/pmbmtrack/internal/hypothesis"
	"github.com/banshee-data/pmbmtrack/internal/murty"
)

// column describes what one column of a CostMatrix means, so a solved
// assignment can be decoded back into associations.
type column struct {
	trackID     int64
	parentSTHID int // valid when existingTrack is true
	measIdx     int // valid when existingTrack is false (right block)
	existingTrack bool
}

// CostMatrix is the M x (T+M) linear assignment matrix built for one
// parent global hypothesis.
type CostMatrix struct {
	Matrix  [][]float64
	columns []column
	numMeas int
}

// Build constructs the cost matrix for global G: a left T-column block of
// "measurement m detected existing track t" costs sourced from each
// track's current detection_hypotheses, and a right M-column diagonal
// block of "measurement m founds a new track" costs sourced from the
// PPP's first-time-detection STHs. tracks must contain every track
// referenced by G. newTrackSTHs holds, for measurements where the PPP
// produced a first-time-detection STH, that STH keyed by measurement
// index; measurements absent from newTrackSTHs get a fully-forbidden
// new-track column.
func Build(g global.GlobalHypothesis, tracks map[int64]*hypothesis.Track, newTrackSTHs map[int]hypothesis.STH, numMeasurements int) *CostMatrix {
	T := len(g.Associations)
	cols := make([]column, 0, T+numMeasurements)

	for _, a := range g.Associations {
		cols = append(cols, column{trackID: a.TrackID, parentSTHID: a.STHID, existingTrack: true})
	}
	for m := 0; m < numMeasurements; m++ {
		cols = append(cols, column{measIdx: m, existingTrack: false})
	}

	matrix := make([][]float64, numMeasurements)
	for m := range matrix {
		matrix[m] = make([]float64, len(cols))
		for j := range matrix[m] {
			matrix[m][j] = murty.Inf
		}
	}

	for j, c := range cols {
		if !c.existingTrack {
			continue
		}
		track := tracks[c.trackID]
		parent, ok := track.Get(c.parentSTHID)
		if !ok {
			continue
		}
		for m, childID := range parent.DetectionHypotheses {
			if m < 0 || m >= numMeasurements {
				continue
			}
			child, ok := track.Get(childID)
			if !ok {
				continue
			}
			matrix[m][j] = child.Cost
		}
	}

	for m := 0; m < numMeasurements; m++ {
		j := T + m
		if sth, ok := newTrackSTHs[m]; ok {
			matrix[m][j] = sth.Cost
		}
	}

	return &CostMatrix{Matrix: matrix, columns: cols, numMeas: numMeasurements}
}

// Decode turns one assignment (row->column, -1 meaning unassigned) into
// the associations of a new global hypothesis: every track in G keeps its
// missed-detection STH unless a measurement was assigned to its column,
// in which case it takes that detection child; every new-track column
// assigned a measurement becomes a fresh association to newTrackIDs[m]
// at sth_id 0, the root of the freshly-wrapped track.
func (cm *CostMatrix) Decode(g global.GlobalHypothesis, tracks map[int64]*hypothesis.Track, newTrackIDs map[int]int64, assignment []int) []global.Association {
	colToRow := make(map[int]int, len(assignment))
	for row, col := range assignment {
		if col >= 0 {
			colToRow[col] = row
		}
	}

	associations := make([]global.Association, 0, len(g.Associations)+len(newTrackIDs))

	for j, c := range cm.columns {
		if !c.existingTrack {
			continue
		}
		track := tracks[c.trackID]
		parent, _ := track.Get(c.parentSTHID)
		sthID := parent.Missed
		if row, assigned := colToRow[j]; assigned {
			if childID, ok := parent.DetectionHypotheses[row]; ok {
				sthID = childID
			}
		}
		associations = append(associations, global.Association{TrackID: c.trackID, STHID: sthID})
	}

	T := len(g.Associations)
	for m := 0; m < cm.numMeas; m++ {
		j := T + m
		if row, assigned := colToRow[j]; assigned && row == m {
			if trackID, ok := newTrackIDs[m]; ok {
				associations = append(associations, global.Association{TrackID: trackID, STHID: 0})
			}
		}
	}

	return associations
}
