// Package wire owns the primitive big-endian codec and buffer primitives.
//
// Ownership boundary:
// - fixed-width primitive encode/decode (8/16/32/64-bit ints, floats, bool)
// - the owned append/consume receive buffer
// - the recoverable-shortfall error taxonomy shared by all decode layers
//
// The codec is closed by construction: only fixed-layout numeric shapes can
// implement Marshaler/Unmarshaler. Strings, maps, and open-ended sequences
// have no encoding here.
package wire
