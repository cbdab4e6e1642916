// Package dynamo provides the primitives shared by the orbit simulator.
//
// The package defines:
//
//   - [Vec2]: 2-D vector (an alias of mgl64.Vec2) with [Normalize] and
//     [Magnitude] helpers that surface degenerate input as errors
//   - sentinel errors for every precondition violation the simulation
//     can hit, plus [SimulationError] which carries tick context
//   - [ParallelFor]: chunked fan-out used by the gravity read phase
//
// # Thread Safety
//
// Everything here is a pure function or an immutable value and may be
// used from multiple goroutines.
package dynamo
