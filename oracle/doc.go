// Package oracle answers placement-cost queries over a fixed catalogue of
// placement policies, each modelled as an affine cost function ("plane") of the
// client workload (per-region read/write rates).
//
// # Reading Guide
//
// Start with these files:
//   - planes.go: PlaneSet, the immutable catalogue and its cost reduction
//   - minimize.go: batched lower-envelope evaluation (cost + optimal plane per point)
//   - drift_directed.go: ray shooting along a drift, constrained to the optimal plane
//   - drift_conservative.go: direction-agnostic safety radius of the optimal plane
//
// session.go chains directed steps into a walk across successive breakpoints,
// and simulation.go compares two catalogues over a sample of workloads.
//
// # Configuration
//
// There is no package-level state. Precision, parallelism and step budgets live
// in a Config that is fixed when a PlaneSet is built and applies to every query
// on it.
//
// # Sub-packages
//   - oracle/trace: breakpoint records of drift sessions
//   - oracle/synth: deterministic synthetic catalogues, workloads and drifts
package oracle
