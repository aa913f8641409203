// Package gateway implements the permission gateway: every step must pass
// Verify before entering the sandbox. Steps are classified SAFE, RISKY or
// DANGEROUS against an ordered rule table; any operation touching a path
// outside the workspace root is DANGEROUS regardless of tool or keywords.
package gateway
