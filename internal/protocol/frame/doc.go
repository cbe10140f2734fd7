// Package frame owns the message framing codec.
//
// Ownership boundary:
// - padding and length-field arithmetic (MessageSize)
// - sequenced-message encode/decode against byte buffers
// - decode limits for implausible declared lengths
//
// Wire layout per frame, all fields big-endian:
//
//	u32 length_field  = padded header (24) + unpadded body length
//	i32 seconds, i32 microseconds
//	i32 sender_id, i32 type_id
//	u32 sequence_number
//	body bytes, then zero padding to an 8-byte boundary
package frame
