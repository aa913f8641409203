// Package metrics provides a lightweight injectable counter collector that
// replaces process-wide tallies (LLM calls, sandbox executions, cache hits).
// The collector instance travels in the execution context so every component
// that receives the context can update counters without a global registry.
package metrics

import (
	"context"
	"sync"
)

// Well-known counter names used across the engine.
const (
	CounterLLMCalls    = "llm.calls"
	CounterSandboxRuns = "sandbox.executions"
	CounterBlocked     = "gateway.blocked"
	CounterReplans     = "recovery.replans"
	CounterLessonSaves = "lesson.saves"
	CounterPlanHits    = "lesson.plan_hits"
)

// Collector accumulates named counters. Implementations must be safe for
// concurrent use.
type Collector interface {
	Add(name string, delta int64)
	Snapshot() map[string]int64
}

// Counters is the default in-memory Collector.
type Counters struct {
	mu     sync.Mutex
	values map[string]int64
}

// NewCounters creates an empty counter collector.
func NewCounters() *Counters {
	return &Counters{values: make(map[string]int64)}
}

// Add applies delta to the named counter.
func (c *Counters) Add(name string, delta int64) {
	c.mu.Lock()
	c.values[name] += delta
	c.mu.Unlock()
}

// Snapshot returns a copy of the current counter values.
func (c *Counters) Snapshot() map[string]int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int64, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

type nop struct{}

func (nop) Add(string, int64) {}

func (nop) Snapshot() map[string]int64 { return nil }

// Nop returns a collector that discards all updates.
func Nop() Collector { return nop{} }

type ctxKeyT struct{}

var ctxKey ctxKeyT

// WithCollector embeds the collector in ctx.
func WithCollector(ctx context.Context, c Collector) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey, c)
}

// FromContext extracts the collector from ctx; a no-op collector is returned
// when none is present so call sites never need a nil check.
func FromContext(ctx context.Context) Collector {
	if ctx == nil {
		return Nop()
	}
	if v, ok := ctx.Value(ctxKey).(Collector); ok && v != nil {
		return v
	}
	return Nop()
}
