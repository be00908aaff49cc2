// Package daemon owns the poolconv process lifecycle: the single-instance
// lock, hardware-acceleration negotiation, and the poll/dispatch loop that
// drives the conversion pipeline until a shutdown signal arrives.
package daemon
