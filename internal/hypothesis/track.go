package hypothesis

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/pmbmtrack/internal/bernoulli"
	"github.com/banshee-data/pmbmtrack/internal/gaussian"
)

// Track owns the hypothesis tree of a single potentially-detected
// target: a map sth_id -> STH with parent/child structure recorded via
// STH.DetectionHypotheses/Missed.
type Track struct {
	ID        int64
	STHs      map[int]STH
	nextSTHID int
}

// NewTrack constructs a new track seeded with a single root STH at
// sth_id 0.
func NewTrack(id int64, root bernoulli.Bernoulli, logLikelihood float64, measIdx *int) *Track {
	t := &Track{ID: id, STHs: make(map[int]STH)}
	t.STHs[0] = STH{
		ID:                  0,
		Bernoulli:           root,
		LogLikelihood:       logLikelihood,
		Cost:                -logLikelihood,
		MeasIdx:             measIdx,
		DetectionHypotheses: map[int]int{},
		Missed:              NoParent,
	}
	t.nextSTHID = 1
	return t
}

// Get returns the STH with the given id.
func (t *Track) Get(id int) (STH, bool) {
	s, ok := t.STHs[id]
	return s, ok
}

func (t *Track) allocID() int {
	id := t.nextSTHID
	t.nextSTHID++
	return id
}

// Predict applies Bernoulli.Predict to every STH currently in the track.
func (t *Track) Predict(ops gaussian.Ops, motion gaussian.MotionModel, survivalProbability, dt float64) {
	for id, s := range t.STHs {
		s.Bernoulli = s.Bernoulli.Predict(ops, motion, survivalProbability, dt)
		t.STHs[id] = s
	}
}

// UpdateLeaf computes, for the STH at parentID, its missed-detection
// continuation and a detection-hypothesis child for every measurement in
// gated (keyed by measurement index):
//
//	s.miss = undetected_update(s, p_D)
//	for m in gate(s): s.detection_hypotheses[m] = detected_update(s, z_m, p_D)
func (t *Track) UpdateLeaf(ops gaussian.Ops, parentID int, meas gaussian.MeasurementModel, detectionProbability float64, gated map[int]*mat.VecDense) {
	parent := t.STHs[parentID]

	missedBernoulli, missedLL := parent.Bernoulli.UndetectedUpdate(detectionProbability)
	missedID := t.allocID()
	t.STHs[missedID] = STH{
		ID:                  missedID,
		Bernoulli:           missedBernoulli,
		LogLikelihood:       missedLL,
		Cost:                -missedLL,
		DetectionHypotheses: map[int]int{},
		Missed:              NoParent,
	}
	parent.Missed = missedID

	measIndices := make([]int, 0, len(gated))
	for m := range gated {
		measIndices = append(measIndices, m)
	}
	sort.Ints(measIndices)

	dh := make(map[int]int, len(measIndices))
	for _, m := range measIndices {
		z := gated[m]
		childBernoulli, ll := parent.Bernoulli.DetectedUpdate(ops, z, meas, detectionProbability)
		childID := t.allocID()
		measIdx := m
		t.STHs[childID] = STH{
			ID:                  childID,
			Bernoulli:           childBernoulli,
			LogLikelihood:       ll,
			Cost:                -ll,
			MeasIdx:             &measIdx,
			DetectionHypotheses: map[int]int{},
			Missed:              NoParent,
		}
		dh[m] = childID
	}
	parent.DetectionHypotheses = dh
	t.STHs[parentID] = parent
}

// Prune keeps only the given sth_ids (mark-and-sweep over the ids
// referenced by surviving global hypotheses).
func (t *Track) Prune(keep map[int]bool) {
	for id := range t.STHs {
		if !keep[id] {
			delete(t.STHs, id)
		}
	}
}

// Empty reports whether the track has no surviving STHs, meaning it
// should be destroyed.
func (t *Track) Empty() bool { return len(t.STHs) == 0 }
