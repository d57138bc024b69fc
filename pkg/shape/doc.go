// Package shape defines the constructive solid geometry tree handed from
// the pot planners to modeling backends. A tree is built from a fixed set
// of primitives (cuboid, cylinder) combined by union and difference and
// placed with rotations about the vertical axis and translations.
//
// Nodes are immutable once constructed; every operation returns a new
// node that shares its inputs, so a finished tree may be read from many
// goroutines at once.
package shape
