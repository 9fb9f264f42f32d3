// Package analysis computes phase portraits of the within-host model.
//
// One computation pass turns a [models.Params] value into a [Portrait]:
//
//   - [EvaluateField]: unit direction vectors on a regular grid
//   - [Integrate]: trajectories from fixed initial conditions, sampled at
//     evenly spaced times via dense output
//   - [Equilibria]: fixed points classified from Jacobian eigenvalues
//   - [Nullclines]: the non-trivial zero-growth lines
//
// # Degenerate Arrows
//
// Where both derivatives vanish the direction is undefined. Such samples are
// reported as the zero vector with Degenerate set, and renderers skip them:
//
//	field := analysis.EvaluateField(p, analysis.DefaultGrid())
//	if s := field.At(0, 0); s.Degenerate {
//	    // (0, 0) is always an equilibrium
//	}
//
// Every pass allocates fresh buffers; nothing is cached between parameter sets.
package analysis
