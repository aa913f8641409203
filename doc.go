// Package taskly provides a gated execution and self-healing orchestration
// engine.
//
// A task moves through understanding, planning, execution, verification and
// recovery. Every step is risk-classified by a permission gateway before it
// reaches the sandbox; disallowed steps pause the task until a human (or an
// auto-decider) approves or rejects them. Failed steps feed a bounded
// recovery loop that retries, replans with corrective steps, or aborts.
//
// End-users interact with the engine via the Service façade exposed by the
// root package:
//
//	srv := taskly.New()
//	defer srv.Close()
//	rt := srv.Runtime()
//	state, _ := rt.NewTask(ctx, "create test.py and run it")
//	state, _ = rt.Run(ctx, state)
//
// For more details see the README and individual sub-packages.
package taskly
