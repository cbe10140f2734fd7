package frame

import (
	"errors"
	"fmt"
)

const (
	// Align is the wire alignment: every frame occupies a multiple of
	// Align bytes on the wire.
	Align = 8

	// UnpaddedHeaderSize covers length field, timestamp, sender, and type.
	UnpaddedHeaderSize = 20

	// PaddedHeaderSize is the header rounded up to Align. The 4-byte
	// sequence number exactly fills the padding, so header plus sequence
	// need no further alignment.
	PaddedHeaderSize = 24
)

// ErrInvalidLengthField reports a length field smaller than the padded
// header, which no valid frame can produce.
var ErrInvalidLengthField = errors.New("frame: length field smaller than padded header")

func computePadding(n int) int {
	return (Align - n%Align) % Align
}

func padded(n int) int {
	return n + computePadding(n)
}

// MessageSize wraps all size calculations for one message. Every derived
// quantity is a pure function of the unpadded body size.
type MessageSize struct {
	UnpaddedBodySize int
}

// FromUnpaddedBodySize builds a MessageSize from a body's raw length.
func FromUnpaddedBodySize(n int) MessageSize {
	return MessageSize{UnpaddedBodySize: n}
}

// FromLengthField inverts LengthField.
func FromLengthField(field uint32) (MessageSize, error) {
	if int(field) < PaddedHeaderSize {
		return MessageSize{}, fmt.Errorf("%w: %d", ErrInvalidLengthField, field)
	}
	return FromUnpaddedBodySize(int(field) - PaddedHeaderSize), nil
}

// LengthField is the value written to the frame's length field: padded
// header size plus unpadded body size.
func (s MessageSize) LengthField() uint32 {
	return uint32(s.UnpaddedBodySize + PaddedHeaderSize)
}

// PaddedBodySize is the body length rounded up to Align.
func (s MessageSize) PaddedBodySize() int {
	return padded(s.UnpaddedBodySize)
}

// BodyPadding is the number of zero bytes following the body.
func (s MessageSize) BodyPadding() int {
	return computePadding(s.UnpaddedBodySize)
}

// PaddedMessageSize is the total bytes the frame occupies on the wire.
func (s MessageSize) PaddedMessageSize() int {
	return s.PaddedBodySize() + PaddedHeaderSize
}
