// Package dynamo provides core simulation primitives for dynamical systems.
//
// The package defines the fundamental interfaces and types for numerical
// simulation of ordinary differential equations (ODEs):
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [SimulationError]: failure context (step, time, last good state)
//
// # Example
//
//	dyn := models.NewWithinHost(models.DefaultParams())
//	sol, err := integrators.Solve(dyn, dynamo.State{0.5, 0.5}, 0, 50, times, integrators.DefaultOptions())
//	if errors.Is(err, dynamo.ErrStepTooSmall) {
//	    // sol holds the samples reached before the failure
//	}
package dynamo
