package protocol

import (
	"github.com/avask/devlink/internal/protocol/wire"
)

// Header is the identity portion of every message. Immutable once built.
type Header struct {
	Time   TimeVal
	Type   TypeID
	Sender SenderID
}

// NewHeader stamps the current time when tv is the zero value.
func NewHeader(tv TimeVal, msgType TypeID, sender SenderID) Header {
	if tv == (TimeVal{}) {
		tv = TimeValNow()
	}
	return Header{Time: tv, Type: msgType, Sender: sender}
}

// GenericMessage holds a header and a still-undecoded body. Bodies stay
// generic until dispatch has resolved their logical type, at which point a
// handler converts them with DecodeBody.
type GenericMessage struct {
	Header Header
	Body   []byte
}

// IsSystem reports whether the message is protocol infrastructure.
func (m *GenericMessage) IsSystem() bool {
	return m.Header.Type.IsSystem()
}

// SequencedMessage is a GenericMessage plus the wire sequence number. The
// sequence number is carried on the wire but receive-side logic ignores it
// beyond diagnostics.
type SequencedMessage struct {
	GenericMessage
	Sequence uint32
}

// NewGeneric encodes a typed body into a GenericMessage ready for the
// outbound path.
func NewGeneric(header Header, body wire.Marshaler) (GenericMessage, error) {
	raw, err := wire.MarshalBytes(body)
	if err != nil {
		return GenericMessage{}, err
	}
	return GenericMessage{Header: header, Body: raw}, nil
}

// DecodeBody converts a generic body into the concrete typed body. The body
// bytes must contain exactly one value: a shortfall reports NeedMoreData,
// leftover bytes report ErrTrailingBytes.
func DecodeBody(m *GenericMessage, body wire.Unmarshaler) error {
	return wire.UnmarshalBytes(body, m.Body)
}
