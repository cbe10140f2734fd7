// Package protocol owns the shared identity and message definitions of the
// devlink wire contract, a Go implementation of the VRPN device-data
// distribution protocol.
//
// Ownership boundary:
// - type/sender identity types and the reserved system ID constant table
// - local/remote ID namespace tags
// - message, header, and sequenced-message shapes
// - class-of-service hint flags and wire timestamps
package protocol
