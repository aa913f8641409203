// Package approval tracks blocked-step approval requests and the decisions
// made on them, fanning both out on an event queue so interactive and
// automated drivers can resolve pending steps.
package approval
