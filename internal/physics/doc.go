// Package physics provides the pairwise gravitational force kernel.
//
// [ForceField] implements [dynamo.Field] with an explicit O(n²) sum; there
// is no spatial partitioning. Two force laws are available:
//
//   - [LawLinear]: direction * G*m1*m2/r², the direction left unnormalised,
//     so the magnitude falls off as 1/r. This is the default.
//   - [LawInverseSquare]: the textbook 1/r² attraction.
//
// Distances below [ForceField.MinDistance] are clamped so coincident bodies
// never produce NaN or Inf.
//
// # Diagnostics
//
// [Momentum], [KineticEnergy] and [ForceField.Energy] are used by the
// metrics package to watch conservation during a run:
//
//	field := physics.NewForceField(0.2)
//	e0 := field.Energy(bodies)
package physics
