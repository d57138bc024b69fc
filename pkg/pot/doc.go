// Package pot derives the board geometry of a polygonal log-cabin pot.
//
// New runs the whole pipeline eagerly: polygon geometry, the two-layer
// basket-weave floor trimmed to the footprint, the interlocking wall
// courses and, optionally, the rounding cutter. The resulting Pot is
// immutable and safe for concurrent use. It holds one shape tree per
// fabricable board plus the combined model; nothing here meshes, renders
// or writes files.
package pot
