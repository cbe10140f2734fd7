package wire

import (
	"encoding/binary"
	"math"
)

// Reader decodes primitives from a byte slice without owning it. A Reader
// is a cursor over one decode attempt: on shortfall the caller discards the
// Reader, buffers more bytes, and retries with a fresh one.
type Reader struct {
	buf []byte
	pos int
}

// NewReader returns a Reader over p.
func NewReader(p []byte) *Reader {
	return &Reader{buf: p}
}

// Remaining reports the number of undecoded bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.pos
}

// Consumed reports the number of bytes decoded so far.
func (r *Reader) Consumed() int {
	return r.pos
}

func (r *Reader) need(n int) error {
	if r.Remaining() < n {
		return NeedAtLeast(n - r.Remaining())
	}
	return nil
}

func (r *Reader) take(n int) []byte {
	p := r.buf[r.pos : r.pos+n]
	r.pos += n
	return p
}

func (r *Reader) Uint8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	return r.take(1)[0], nil
}

func (r *Reader) Int8() (int8, error) {
	v, err := r.Uint8()
	return int8(v), err
}

func (r *Reader) Uint16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(r.take(2)), nil
}

func (r *Reader) Int16() (int16, error) {
	v, err := r.Uint16()
	return int16(v), err
}

func (r *Reader) Uint32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(r.take(4)), nil
}

func (r *Reader) Int32() (int32, error) {
	v, err := r.Uint32()
	return int32(v), err
}

func (r *Reader) Uint64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(r.take(8)), nil
}

func (r *Reader) Int64() (int64, error) {
	v, err := r.Uint64()
	return int64(v), err
}

func (r *Reader) Float32() (float32, error) {
	v, err := r.Uint32()
	return math.Float32frombits(v), err
}

func (r *Reader) Float64() (float64, error) {
	v, err := r.Uint64()
	return math.Float64frombits(v), err
}

// Bool decodes the 32-bit wire representation of a boolean (1 or 0).
func (r *Reader) Bool() (bool, error) {
	v, err := r.Uint32()
	return v == 1, err
}

// Bytes copies out the next n raw bytes.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.take(n))
	return out, nil
}

// Skip discards the next n bytes.
func (r *Reader) Skip(n int) error {
	if err := r.need(n); err != nil {
		return err
	}
	r.pos += n
	return nil
}

// ExpectEmpty fails with ErrTrailingBytes when undecoded bytes remain in a
// buffer meant to contain exactly one value.
func (r *Reader) ExpectEmpty() error {
	if r.Remaining() != 0 {
		return ErrTrailingBytes
	}
	return nil
}

// Writer encodes primitives into a fixed-capacity destination. Exceeding
// the destination fails with ErrOutOfBuffer; the caller supplies a larger
// destination and retries.
type Writer struct {
	buf []byte
	pos int
}

// NewWriter returns a Writer over the free space p.
func NewWriter(p []byte) *Writer {
	return &Writer{buf: p}
}

// Free reports the remaining writable capacity.
func (w *Writer) Free() int {
	return len(w.buf) - w.pos
}

// Bytes returns the written prefix.
func (w *Writer) Bytes() []byte {
	return w.buf[:w.pos]
}

func (w *Writer) room(n int) error {
	if w.Free() < n {
		return ErrOutOfBuffer
	}
	return nil
}

func (w *Writer) PutUint8(v uint8) error {
	if err := w.room(1); err != nil {
		return err
	}
	w.buf[w.pos] = v
	w.pos++
	return nil
}

func (w *Writer) PutInt8(v int8) error {
	return w.PutUint8(uint8(v))
}

func (w *Writer) PutUint16(v uint16) error {
	if err := w.room(2); err != nil {
		return err
	}
	binary.BigEndian.PutUint16(w.buf[w.pos:], v)
	w.pos += 2
	return nil
}

func (w *Writer) PutInt16(v int16) error {
	return w.PutUint16(uint16(v))
}

func (w *Writer) PutUint32(v uint32) error {
	if err := w.room(4); err != nil {
		return err
	}
	binary.BigEndian.PutUint32(w.buf[w.pos:], v)
	w.pos += 4
	return nil
}

func (w *Writer) PutInt32(v int32) error {
	return w.PutUint32(uint32(v))
}

func (w *Writer) PutUint64(v uint64) error {
	if err := w.room(8); err != nil {
		return err
	}
	binary.BigEndian.PutUint64(w.buf[w.pos:], v)
	w.pos += 8
	return nil
}

func (w *Writer) PutInt64(v int64) error {
	return w.PutUint64(uint64(v))
}

func (w *Writer) PutFloat32(v float32) error {
	return w.PutUint32(math.Float32bits(v))
}

func (w *Writer) PutFloat64(v float64) error {
	return w.PutUint64(math.Float64bits(v))
}

// PutBool encodes a boolean as a 32-bit 1 or 0.
func (w *Writer) PutBool(v bool) error {
	if v {
		return w.PutUint32(1)
	}
	return w.PutUint32(0)
}

func (w *Writer) PutBytes(p []byte) error {
	if err := w.room(len(p)); err != nil {
		return err
	}
	copy(w.buf[w.pos:], p)
	w.pos += len(p)
	return nil
}

// PutZeros writes n zero bytes, used for body padding.
func (w *Writer) PutZeros(n int) error {
	if err := w.room(n); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		w.buf[w.pos+i] = 0
	}
	w.pos += n
	return nil
}
