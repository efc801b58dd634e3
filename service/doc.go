// Package service orchestrates the core components of the matching
// engine — instrument registry, id sequencer and trade reporting.
//
// It provides the single write entry point for submitting orders and
// driving matching sweeps, decoupled from the HTTP gateway and the
// background jobs.
package service
