// Package space models the loudspeaker layout a bubble stream decodes
// against: an absolute coordinate per speaker, plus the authored
// spatial grid (OaoSpace/OaoSpaces) such coordinates are drawn from.
//
// Generalized from original_source/src/space.rs (OaoSpace/OaoSpaces),
// which only ever produced a regular -1..1 grid; here a layout can
// also be loaded from an authored file of arbitrary speaker positions.
package space

import "gonum.org/v1/gonum/spatial/r3"

// Coord is an absolute loudspeaker (or bubble-relative) position.
// Reused from gonum rather than reinvented: the mixing stage and the
// OaoSpace grid both need ordinary vector arithmetic.
type Coord = r3.Vec

// Sub returns a-b, the bubble-relative coordinate of a speaker at a
// given a bubble origin b.
func Sub(a, b Coord) Coord {
	return r3.Sub(a, b)
}
