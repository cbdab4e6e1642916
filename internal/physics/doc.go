// Package physics simulates point masses under pairwise Newtonian gravity.
//
// A [Body] holds the physical and visual state of one mass. [Gravity]
// advances a body set by one tick:
//
//	sun, _ := physics.NewBody("sun", 0, 0, 1.98892e30, 30, yellow)
//	earth, _ := physics.NewBody("earth", 1*physics.AU, 50, 5.9742e24, 16, cyan)
//	_ = earth.SetTangentialVelocity(29.783e3)
//
//	grav := physics.NewGravity(physics.G)
//	err := grav.Step([]*physics.Body{sun, earth}, 86400)
//
// # Integration
//
// Step uses semi-implicit (symplectic) Euler: velocity is updated from
// the net force first and the new velocity moves the position. All forces
// of a tick are computed from the positions before the tick.
//
// # Conservation
//
// [Gravity.Energy], [Gravity.Momentum] and [Gravity.AngularMomentum] report
// the conserved quantities, used to monitor integration drift.
package physics
