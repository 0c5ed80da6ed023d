// Package engine plans economy transactions without executing them.
//
// Each planner validates a complete operation against snapshots of the
// entities it touches and returns the full set of resulting states. Planners
// mutate nothing they are given except an explicitly provided scratch
// inventory; a host applies a plan atomically or not at all, so a failure
// partway through validation leaves no partial mutation anywhere.
package engine
