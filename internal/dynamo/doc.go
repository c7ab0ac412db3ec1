// Package dynamo provides the core primitives of the N-body simulator.
//
// The package defines the value types every other package works with:
//
//   - [Vec2]: 2-D vector with value semantics
//   - [Body]: point mass with position, velocity and mass
//   - [SimulationError]: error carrying the frame it happened in
//
// # Example
//
//	b, err := dynamo.NewBody(dynamo.Vec2{X: 10, Y: -4}, 2.5)
//	if err != nil {
//	    return err
//	}
//	p := b.Momentum()
//
// # Thread Safety
//
// Vec2 is a plain value and safe to copy anywhere. Body values are owned by
// exactly one Simulation and must not be shared across goroutines.
package dynamo
