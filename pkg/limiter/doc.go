// Package limiter provides attempt counting with decaying windows for
// request throttling.
//
// The Limiter interface is the calling contract used by the rate-limiting
// middleware. Two backends ship with it: Memory for single-process
// deployments and Redis for limits shared across instances.
package limiter
