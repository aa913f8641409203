// Package verifier inspects execution results against each step's expected
// outcome and records per-step verdicts on the shared state.
package verifier
