// Package task defines the mutable task state aggregate shared by the
// gateway, orchestrator, verifier and recovery services, together with the
// plan step, execution result and verification verdict records.
package task
