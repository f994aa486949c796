// Package session provides per-visitor state shared across requests:
// persistent values, one-request flash data used for validation errors and
// old form input, the CSRF token, and previous-URL tracking for
// redirect-back responses.
//
// The Store interface abstracts persistence; MemoryStore ships for
// single-process deployments and tests.
package session
