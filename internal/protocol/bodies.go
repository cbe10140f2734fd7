package protocol

import (
	"errors"

	"github.com/avask/devlink/internal/protocol/wire"
)

var errBadDescription = errors.New("protocol: malformed description body")

// DescriptionBody is the payload of a sender- or type-description system
// message: a length-prefixed, NUL-terminated name. The numeric ID being
// described rides in the message header's sender field.
type DescriptionBody struct {
	Name []byte
}

func (d DescriptionBody) WireSize() int {
	return 4 + len(d.Name) + 1
}

func (d DescriptionBody) MarshalWire(w *wire.Writer) error {
	if err := w.PutUint32(uint32(len(d.Name) + 1)); err != nil {
		return err
	}
	if err := w.PutBytes(d.Name); err != nil {
		return err
	}
	return w.PutUint8(0)
}

func (d *DescriptionBody) UnmarshalWire(r *wire.Reader) error {
	n, err := r.Uint32()
	if err != nil {
		return err
	}
	if n == 0 {
		return errBadDescription
	}
	raw, err := r.Bytes(int(n))
	if err != nil {
		return err
	}
	if raw[len(raw)-1] != 0 {
		return errBadDescription
	}
	d.Name = raw[:len(raw)-1]
	return nil
}

// NewTypeDescription builds the system message announcing that local type
// ID id is bound to name.
func NewTypeDescription(id TypeID, name TypeName) (GenericMessage, error) {
	return NewGeneric(
		Header{Time: TimeValNow(), Type: TypeDescription, Sender: SenderID(id)},
		DescriptionBody{Name: []byte(name)},
	)
}

// NewSenderDescription builds the system message announcing that local
// sender ID id is bound to name.
func NewSenderDescription(id SenderID, name SenderName) (GenericMessage, error) {
	return NewGeneric(
		Header{Time: TimeValNow(), Type: SenderDescription, Sender: SenderID(id)},
		DescriptionBody{Name: []byte(name)},
	)
}

// EmptyBody is the zero-length payload of ping and pong messages.
type EmptyBody struct{}

func (EmptyBody) WireSize() int {
	return 0
}

func (EmptyBody) MarshalWire(*wire.Writer) error {
	return nil
}

func (*EmptyBody) UnmarshalWire(*wire.Reader) error {
	return nil
}
