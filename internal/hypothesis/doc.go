// Package hypothesis implements the single-target-hypothesis tree: each
// Track is a flat arena of STHs keyed by sth_id, with detection_hypotheses
// as a measurement_index -> sth_id map. This avoids cyclic-reference
// questions and makes pruning a mark-and-sweep over referenced ids.
package hypothesis
