package wire

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBuffer reports an encode destination with too little free
	// capacity. The caller grows the buffer and retries; not a protocol fault.
	ErrOutOfBuffer = errors.New("wire: out of buffer space")

	// ErrTrailingBytes reports bytes left over after a value was fully
	// decoded from a buffer meant to contain exactly that value.
	ErrTrailingBytes = errors.New("wire: trailing bytes after complete value")
)

// NeedMoreDataError is the recoverable decode shortfall. The caller must
// append at least Needed more bytes (exactly Needed when Exact is set) and
// retry the same decode from the unmodified buffer start.
type NeedMoreDataError struct {
	Needed int
	Exact  bool
}

func (e *NeedMoreDataError) Error() string {
	if e.Exact {
		return fmt.Sprintf("wire: need exactly %d more bytes", e.Needed)
	}
	return fmt.Sprintf("wire: need at least %d more bytes", e.Needed)
}

// NeedAtLeast reports a shortfall whose true size is a lower bound.
func NeedAtLeast(n int) error {
	return &NeedMoreDataError{Needed: n}
}

// NeedExactly reports a shortfall whose exact size is known.
func NeedExactly(n int) error {
	return &NeedMoreDataError{Needed: n, Exact: true}
}

// AsNeedMoreData unwraps err into a NeedMoreDataError, if it is one.
func AsNeedMoreData(err error) (*NeedMoreDataError, bool) {
	var need *NeedMoreDataError
	if errors.As(err, &need) {
		return need, true
	}
	return nil, false
}

// IsNeedMoreData reports whether err is a recoverable decode shortfall.
func IsNeedMoreData(err error) bool {
	_, ok := AsNeedMoreData(err)
	return ok
}

// ExactToAtLeast downgrades an exact shortfall to a lower bound. Used when
// an outer decode cannot know the full message size yet, e.g. while the
// length field itself is still incomplete.
func ExactToAtLeast(err error) error {
	if need, ok := AsNeedMoreData(err); ok && need.Exact {
		return NeedAtLeast(need.Needed)
	}
	return err
}
