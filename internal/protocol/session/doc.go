// Package session owns the per-stream preamble and liveness machinery.
//
// Ownership boundary:
// - the fixed-size cookie handshake exchanged before any framed message
// - session reliability defaults (timeouts, ping cadence, decode limits)
// - reconnect backoff for dialing transports
// - the ping/pong heartbeat state machine
package session
