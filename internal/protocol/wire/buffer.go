package wire

import "fmt"

// Buffer is the owned receive buffer for a byte stream. Newly read chunks
// are appended at the tail; decode consumes from the head only after a
// complete value has been parsed, so a failed decode attempt leaves the
// buffered bytes untouched.
type Buffer struct {
	data []byte
	off  int
}

// NewBuffer returns a Buffer with the given initial capacity.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{data: make([]byte, 0, capacity)}
}

// Reserve ensures capacity for n more bytes without reallocation.
func (b *Buffer) Reserve(n int) {
	b.compact()
	if cap(b.data)-len(b.data) >= n {
		return
	}
	grown := make([]byte, len(b.data), len(b.data)+n)
	copy(grown, b.data)
	b.data = grown
}

// Append adds newly received bytes at the tail, preserving already-buffered
// unconsumed bytes.
func (b *Buffer) Append(p []byte) {
	if len(p) == 0 {
		return
	}
	b.compact()
	b.data = append(b.data, p...)
}

// Len reports the number of buffered, unconsumed bytes.
func (b *Buffer) Len() int {
	return len(b.data) - b.off
}

// Bytes returns a view of the unconsumed bytes. The view is invalidated by
// the next Append or Consume.
func (b *Buffer) Bytes() []byte {
	return b.data[b.off:]
}

// Consume discards n bytes from the head.
func (b *Buffer) Consume(n int) error {
	if n < 0 || n > b.Len() {
		return fmt.Errorf("wire: consume %d of %d buffered bytes", n, b.Len())
	}
	b.off += n
	return nil
}

// compact reclaims the consumed prefix once it dominates the backing array.
func (b *Buffer) compact() {
	if b.off == 0 {
		return
	}
	if b.off >= len(b.data) {
		b.data = b.data[:0]
		b.off = 0
		return
	}
	if b.off*2 < cap(b.data) {
		return
	}
	n := copy(b.data, b.data[b.off:])
	b.data = b.data[:n]
	b.off = 0
}
