package wire

// Marshaler is implemented by fixed-layout message bodies that can encode
// themselves. WireSize must be the exact encoded length; the frame layer
// relies on it for length-field and padding arithmetic.
type Marshaler interface {
	WireSize() int
	MarshalWire(w *Writer) error
}

// Unmarshaler is implemented by fixed-layout message bodies that can decode
// themselves from a Reader positioned at the start of the body bytes.
type Unmarshaler interface {
	UnmarshalWire(r *Reader) error
}

// MarshalBytes encodes m into a freshly allocated, exactly-sized slice.
func MarshalBytes(m Marshaler) ([]byte, error) {
	buf := make([]byte, m.WireSize())
	w := NewWriter(buf)
	if err := m.MarshalWire(w); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// UnmarshalBytes decodes exactly one value from p. Bytes left over after a
// complete decode fail with ErrTrailingBytes.
func UnmarshalBytes(u Unmarshaler, p []byte) error {
	r := NewReader(p)
	if err := u.UnmarshalWire(r); err != nil {
		return err
	}
	return r.ExpectEmpty()
}
