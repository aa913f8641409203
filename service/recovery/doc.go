// Package recovery turns verification failures into a bounded self-healing
// loop: retry the failed steps, replan with corrective steps, or abort.
package recovery
