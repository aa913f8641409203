// Package llm provides the model-backed collaborators of the kernel: the
// planner, the recovery strategist, the verification judge and the step
// resolver, all thin prompt glue over a shared Generator.
package llm
