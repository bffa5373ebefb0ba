package pmbm

import (
	"fmt"
	"log"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/pmbmtrack/internal/assign"
	"github.com/banshee-data/pmbmtrack/internal/gaussian"
	"github.com/banshee-data/pmbmtrack/internal/global"
	"github.com/banshee-data/pmbmtrack/internal/hypothesis"
	"github.com/banshee-data/pmbmtrack/internal/ppp"
)

// SensorModel supplies the detection probability and the clutter
// intensity implied by the sensor's field of view and clutter rate.
type SensorModel interface {
	DetectionProbability() float64
	ClutterIntensity() float64
}

// BirthModel supplies the Gaussian mixture of new PPP components to add
// at time t.
type BirthModel interface {
	Sample(t float64) gaussian.Mixture
}

// Estimate is one reported track.
type Estimate struct {
	TrackID   int64
	Gaussian  *gaussian.Gaussian
	Existence float64
}

// Tracker owns the PMBM recursion state: the PPP intensity, the MBM of
// global hypotheses, and every track's hypothesis tree. step is the only
// mutator; it must run to completion before the next call.
type Tracker struct {
	id string

	cfg    Config
	motion gaussian.MotionModel
	meas   gaussian.MeasurementModel
	sensor SensorModel
	birth  BirthModel
	ops    gaussian.Ops

	mu             sync.RWMutex
	t              float64
	ppp            *ppp.PoissonRFS
	mbm            *global.MultiBernoulliMixture
	tracks         map[int64]*hypothesis.Track
	nextTrackID    int64
	confirmedSteps map[int64]int
}

// New constructs a Tracker with an empty PPP and a single "no tracks yet"
// global hypothesis.
func New(motion gaussian.MotionModel, meas gaussian.MeasurementModel, sensor SensorModel, birth BirthModel, cfg Config) *Tracker {
	cfg.normalize()
	tr := &Tracker{
		id:             uuid.NewString()[:8],
		cfg:            cfg,
		motion:         motion,
		meas:           meas,
		sensor:         sensor,
		birth:          birth,
		ops:            gaussian.Ops{},
		ppp:            ppp.New(nil),
		mbm:            global.New([]global.GlobalHypothesis{global.NewGlobalHypothesis(0, nil)}),
		tracks:         make(map[int64]*hypothesis.Track),
		confirmedSteps: make(map[int64]int),
	}
	log.Printf("[pmbm:%s] tracker initialized", tr.id)
	return tr
}

// PPPSize reports the number of components in the undetected-target
// intensity.
func (tr *Tracker) PPPSize() int {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	return tr.ppp.Len()
}

// MBMSize reports the number of surviving global hypotheses.
func (tr *Tracker) MBMSize() int {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	return tr.mbm.Len()
}

// TopGlobalWeight reports the highest normalized global log-weight, or
// math.Inf(-1) when the MBM is empty.
func (tr *Tracker) TopGlobalWeight() float64 {
	tr.mu.RLock()
	defer tr.mu.RUnlock()
	best, ok := tr.mbm.Best()
	if !ok {
		return math.Inf(-1)
	}
	return best.LogWeight
}

// validateMeasurements rejects NaN/Inf measurement vectors before any
// state mutation.
func validateMeasurements(measurements []*mat.VecDense) error {
	for i, z := range measurements {
		for d := 0; d < z.Len(); d++ {
			v := z.AtVec(d)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return &Error{Kind: KindInvalidInput, Op: "Step", Err: fmt.Errorf("measurement %d has non-finite component at index %d", i, d)}
			}
		}
	}
	return nil
}

// Step advances the tracker by one measurement set. An empty measurement set is valid: the PPP still ages and
// every global still updates via missed-detection only.
func (tr *Tracker) Step(measurements []*mat.VecDense, dt float64) ([]Estimate, error) {
	if err := validateMeasurements(measurements); err != nil {
		return nil, err
	}

	tr.mu.Lock()
	defer tr.mu.Unlock()

	tr.t += dt
	tr.predict(dt)
	gated := tr.gateAndUpdateLeaves(measurements)
	newTrackSTHs, newTrackIDs := tr.firstTimeDetections(measurements)
	tr.enumerateGlobals(measurements, newTrackSTHs, newTrackIDs)
	tr.mbm.Normalize()
	tr.mbm.Prune(math.Log(tr.cfg.GlobalPruneThreshold), tr.cfg.MaxNumberOfHypotheses)
	tr.pruneArtifacts()
	_ = gated

	return tr.extractEstimates(), nil
}

// predict ages the PPP intensity, introduces birth components, and
// predicts every existing track forward by dt.
func (tr *Tracker) predict(dt float64) {
	tr.ppp.Predict(tr.ops, tr.motion, tr.cfg.SurvivalProbability, dt)
	tr.ppp.Birth(tr.birth.Sample(tr.t))
	for _, track := range tr.tracks {
		track.Predict(tr.ops, tr.motion, tr.cfg.SurvivalProbability, dt)
	}
}

// gateAndUpdateLeaves gates every surviving STH (the "current leaves"
// left by the previous step's artifact pruning) against every
// measurement, and computes its missed-detection and per-gated-measurement
// children.
// Returns, for diagnostics/testing, the per-track per-leaf gate masks.
func (tr *Tracker) gateAndUpdateLeaves(measurements []*mat.VecDense) map[int64]map[int][]bool {
	masks := make(map[int64]map[int][]bool, len(tr.tracks))

	trackIDs := make([]int64, 0, len(tr.tracks))
	for id := range tr.tracks {
		trackIDs = append(trackIDs, id)
	}
	sort.Slice(trackIDs, func(i, j int) bool { return trackIDs[i] < trackIDs[j] })

	for _, trackID := range trackIDs {
		track := tr.tracks[trackID]
		leafIDs := make([]int, 0, len(track.STHs))
		for id := range track.STHs {
			leafIDs = append(leafIDs, id)
		}
		sort.Ints(leafIDs)

		trackMasks := make(map[int][]bool, len(leafIDs))
		for _, leafID := range leafIDs {
			leaf, _ := track.Get(leafID)
			_, mask := tr.ops.EllipsoidalGating(leaf.Bernoulli.Gaussian, measurements, tr.meas, tr.cfg.GatingPercentage)
			trackMasks[leafID] = mask

			gated := make(map[int]*mat.VecDense)
			for m, in := range mask {
				if in {
					gated[m] = measurements[m]
				}
			}
			track.UpdateLeaf(tr.ops, leafID, tr.meas, tr.cfg.DetectionProbability, gated)
			tr.dropInvalidChildren(track, leafID)
		}
		masks[trackID] = trackMasks
	}
	return masks
}

// dropInvalidChildren recovers from an InvalidCovariance condition: after
// DensityOps has already symmetrized and jittered, a child whose Gaussian
// is still not SPD is dropped outright, along with
// its entry in the parent's detection_hypotheses so the assigner can
// never select it.
func (tr *Tracker) dropInvalidChildren(track *hypothesis.Track, parentID int) {
	parent, ok := track.Get(parentID)
	if !ok {
		return
	}
	for m, childID := range parent.DetectionHypotheses {
		child, ok := track.Get(childID)
		if !ok || child.Bernoulli.Gaussian.IsSPD() {
			continue
		}
		log.Printf("[pmbm:%s] dropping sth %d (track %d, meas %d): covariance not recoverable", tr.id, childID, track.ID, m)
		delete(parent.DetectionHypotheses, m)
		delete(track.STHs, childID)
	}
	track.STHs[parentID] = parent
}

// firstTimeDetections builds one candidate STH per measurement from the
// PPP, each wrapped into a fresh Track.
func (tr *Tracker) firstTimeDetections(measurements []*mat.VecDense) (map[int]hypothesis.STH, map[int]int64) {
	newSTHs := make(map[int]hypothesis.STH, len(measurements))
	newTrackIDs := make(map[int]int64, len(measurements))

	for m, z := range measurements {
		sth, ok := tr.ppp.DetectedUpdate(tr.ops, m, z, tr.meas, tr.cfg.DetectionProbability, tr.sensor.ClutterIntensity())
		if !ok || !sth.Bernoulli.Gaussian.IsSPD() {
			continue
		}
		tr.nextTrackID++
		trackID := tr.nextTrackID
		newSTHs[m] = sth
		newTrackIDs[m] = trackID
		tr.tracks[trackID] = hypothesis.NewTrack(trackID, sth.Bernoulli, sth.LogLikelihood, sth.MeasIdx)
	}
	return newSTHs, newTrackIDs
}

// enumerateGlobals expands every current global hypothesis into ranked
// child globals via the assigner, and replaces the MBM with the combined,
// unnormalized result.
func (tr *Tracker) enumerateGlobals(measurements []*mat.VecDense, newTrackSTHs map[int]hypothesis.STH, newTrackIDs map[int]int64) {
	var next []global.GlobalHypothesis
	for _, g := range tr.mbm.Globals {
		k := assign.DesiredSolutions(g.LogWeight, tr.cfg.NumOfDesiredHypotheses, tr.cfg.MaxMurtySteps)
		expanded := assign.Expand(g, tr.tracks, newTrackSTHs, newTrackIDs, len(measurements), k)
		next = append(next, expanded...)
	}
	tr.mbm = global.New(next)
}

// pruneArtifacts mark-and-sweeps tracks and STHs by MBM reference, prunes
// the PPP, then ages it.
func (tr *Tracker) pruneArtifacts() {
	referenced := tr.mbm.ReferencedSTHs()
	for id, track := range tr.tracks {
		track.Prune(referenced[id])
		if track.Empty() {
			delete(tr.tracks, id)
			delete(tr.confirmedSteps, id)
		}
	}
	tr.ppp.Prune(tr.cfg.PPPPruneThreshold)
	tr.ppp.UndetectedUpdate(tr.cfg.DetectionProbability)
}

// extractEstimates reports, from the single highest-weight global, tracks
// whose chosen STH clears the
// existence threshold for at least TrackHistoryLengthThreshold
// consecutive steps.
func (tr *Tracker) extractEstimates() []Estimate {
	best, ok := tr.mbm.Best()
	if !ok {
		return nil
	}

	confirmedNow := make(map[int64]bool, len(best.Associations))
	for _, a := range best.Associations {
		track, ok := tr.tracks[a.TrackID]
		if !ok {
			continue
		}
		sth, ok := track.Get(a.STHID)
		if !ok || sth.Bernoulli.R <= tr.cfg.ExistenceProbabilityThreshold {
			continue
		}
		confirmedNow[a.TrackID] = true
		tr.confirmedSteps[a.TrackID]++
	}
	for id := range tr.confirmedSteps {
		if !confirmedNow[id] {
			tr.confirmedSteps[id] = 0
		}
	}

	var out []Estimate
	for _, a := range best.Associations {
		if !confirmedNow[a.TrackID] {
			continue
		}
		if tr.confirmedSteps[a.TrackID] < tr.cfg.TrackHistoryLengthThreshold {
			continue
		}
		track := tr.tracks[a.TrackID]
		sth, _ := track.Get(a.STHID)
		out = append(out, Estimate{TrackID: a.TrackID, Gaussian: sth.Bernoulli.Gaussian.Clone(), Existence: sth.Bernoulli.R})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TrackID < out[j].TrackID })
	return out
}
