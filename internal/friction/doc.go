// Package friction computes the per-step load vector of the element in the
// tube and decides whether the element sticks to the wall.
//
// The free functions are the individual force kernels and stick
// predicates. [Model] combines them for one of the three friction modes
// and keeps the short history of average speeds the predicates need.
//
// Forces are resolved along the tube axis at the [symmetry.Active] DOF.
// Dry friction opposes the resultant of the elastic restoring force and,
// when present, the cosine drive load.
package friction
