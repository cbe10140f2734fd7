package frame

import (
	"errors"
	"fmt"

	"github.com/avask/devlink/internal/protocol"
	"github.com/avask/devlink/internal/protocol/wire"
)

// ErrBodyTooLarge reports a declared body length beyond the decode limit.
// Unlike a shortfall this is a fatal protocol violation: the peer either
// corrupted the stream or is hostile.
var ErrBodyTooLarge = errors.New("frame: declared body length exceeds limit")

// Limits constrains decode memory use.
type Limits struct {
	MaxBodyBytes int
}

func DefaultLimits() Limits {
	return Limits{MaxBodyBytes: 1 << 20}
}

// Encode writes one complete frame for msg into w. When the destination
// lacks padded-message-size free bytes the encode fails with
// wire.ErrOutOfBuffer before writing anything.
func Encode(w *wire.Writer, msg *protocol.SequencedMessage) error {
	size := FromUnpaddedBodySize(len(msg.Body))
	if w.Free() < size.PaddedMessageSize() {
		return wire.ErrOutOfBuffer
	}
	if err := w.PutUint32(size.LengthField()); err != nil {
		return err
	}
	if err := msg.Header.Time.MarshalWire(w); err != nil {
		return err
	}
	if err := w.PutInt32(int32(msg.Header.Sender)); err != nil {
		return err
	}
	if err := w.PutInt32(int32(msg.Header.Type)); err != nil {
		return err
	}
	if err := w.PutUint32(msg.Sequence); err != nil {
		return err
	}
	if err := w.PutBytes(msg.Body); err != nil {
		return err
	}
	return w.PutZeros(size.BodyPadding())
}

// EncodeBytes encodes msg into a freshly allocated, exactly-sized slice.
func EncodeBytes(msg *protocol.SequencedMessage) ([]byte, error) {
	size := FromUnpaddedBodySize(len(msg.Body))
	w := wire.NewWriter(make([]byte, size.PaddedMessageSize()))
	if err := Encode(w, msg); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Decode parses one frame from r. A shortfall reports NeedMoreData without
// consuming anything the caller can observe: the caller appends bytes and
// retries the whole decode from the same buffer start. Once the length
// field is in hand the shortfall is exact; before that it is a lower bound.
func Decode(r *wire.Reader, limits Limits) (protocol.SequencedMessage, error) {
	var msg protocol.SequencedMessage

	field, err := r.Uint32()
	if err != nil {
		return msg, wire.ExactToAtLeast(err)
	}
	size, err := FromLengthField(field)
	if err != nil {
		return msg, err
	}
	if limits.MaxBodyBytes > 0 && size.UnpaddedBodySize > limits.MaxBodyBytes {
		return msg, fmt.Errorf("%w: %d > %d", ErrBodyTooLarge, size.UnpaddedBodySize, limits.MaxBodyBytes)
	}

	// The length field itself is already consumed.
	rest := size.PaddedMessageSize() - 4
	if r.Remaining() < rest {
		return msg, wire.NeedExactly(rest - r.Remaining())
	}

	if err := msg.Header.Time.UnmarshalWire(r); err != nil {
		return msg, err
	}
	sender, err := r.Int32()
	if err != nil {
		return msg, err
	}
	msgType, err := r.Int32()
	if err != nil {
		return msg, err
	}
	seq, err := r.Uint32()
	if err != nil {
		return msg, err
	}
	body, err := r.Bytes(size.UnpaddedBodySize)
	if err != nil {
		return msg, err
	}
	if err := r.Skip(size.BodyPadding()); err != nil {
		return msg, err
	}

	msg.Header.Sender = protocol.SenderID(sender)
	msg.Header.Type = protocol.TypeID(msgType)
	msg.Sequence = seq
	msg.Body = body
	return msg, nil
}

// DecodeBuffer attempts one frame from the head of buf, consuming the
// frame's bytes only on success. Failed attempts leave buf untouched, so
// re-invoking after an Append is safe and duplicates no work.
func DecodeBuffer(buf *wire.Buffer, limits Limits) (protocol.SequencedMessage, error) {
	r := wire.NewReader(buf.Bytes())
	msg, err := Decode(r, limits)
	if err != nil {
		return protocol.SequencedMessage{}, err
	}
	if err := buf.Consume(r.Consumed()); err != nil {
		return protocol.SequencedMessage{}, err
	}
	return msg, nil
}
