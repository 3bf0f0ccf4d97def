// Package synth generates deterministic synthetic inputs for the oracle:
// plane catalogues, workload batches and drift vectors.
//
// Catalogue sizes follow the two-replica placement model: with r candidate
// regions there are Combinations(r, 2) policies, and with c client regions
// each policy is a function of 2c workload rates (reads and writes per client
// region).
package synth
