// Package orchestrator drives plan execution: each step passes the
// permission gateway, resolves to a runnable payload and executes in the
// sandbox, with the result recorded on the task state. The loop supports
// partial re-entry after an approval – the approved step runs next and
// exactly once before any other pending step is attempted.
package orchestrator
