// Package murty implements the linear assignment primitives: a
// Jonker-Volgenant/Hungarian solver for the single best assignment, and
// Murty's algorithm for ranked enumeration of the k best assignments on
// top of it.
package murty
