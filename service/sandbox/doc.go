// Package sandbox provides the resource-bounded execution session plan steps
// run inside. One resident session exists per Service instance – it is
// created lazily, reused across calls and torn down once at shutdown. A
// per-call wall-clock timeout guarantees the caller gets an answer in time;
// it does not guarantee the underlying work stops (documented limitation).
package sandbox
