package connection

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/avask/devlink/internal/logging"
	"github.com/avask/devlink/internal/protocol"
	"github.com/avask/devlink/internal/protocol/frame"
	"github.com/avask/devlink/internal/protocol/session"
	"github.com/avask/devlink/internal/protocol/wire"
)

// FileEndpoint replays a saved stream log: a file cookie followed by
// framed messages. It is a read-only pseudo-connection; there is no peer
// to hand outbound traffic to.
type FileEndpoint struct {
	r      io.ReadCloser
	rx     *wire.Buffer
	limits frame.Limits
	cookie session.CookieData
	chunk  []byte
}

// OpenFile opens a stream log and validates its cookie against the file
// version. Version incompatibility fails here, before any frame is read.
func OpenFile(path string, limits frame.Limits) (*FileEndpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("connection: open stream log: %w", err)
	}
	ep, err := NewFileEndpoint(f, limits)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return ep, nil
}

// NewFileEndpoint reads and checks the file cookie from r.
func NewFileEndpoint(r io.ReadCloser, limits frame.Limits) (*FileEndpoint, error) {
	cookie, err := session.ReadCookie(r)
	if err != nil {
		return nil, err
	}
	if err := cookie.CheckVersion(session.FileVersion); err != nil {
		return nil, err
	}
	return &FileEndpoint{
		r:      r,
		rx:     wire.NewBuffer(2 * readChunkSize),
		limits: limits,
		cookie: cookie,
		chunk:  make([]byte, readChunkSize),
	}, nil
}

// Cookie returns the preamble read from the head of the file.
func (e *FileEndpoint) Cookie() session.CookieData {
	return e.cookie
}

// Next returns the next complete message, or io.EOF at the end of the log.
// A trailing partial frame is discarded silently, mirroring connection
// teardown semantics.
func (e *FileEndpoint) Next() (protocol.SequencedMessage, error) {
	for {
		msg, err := frame.DecodeBuffer(e.rx, e.limits)
		if err == nil {
			return msg, nil
		}
		if _, ok := wire.AsNeedMoreData(err); !ok {
			return protocol.SequencedMessage{}, err
		}

		n, readErr := e.r.Read(e.chunk)
		if n > 0 {
			e.rx.Append(e.chunk[:n])
			continue
		}
		if readErr == nil {
			continue
		}
		if errors.Is(readErr, io.EOF) {
			if e.rx.Len() > 0 {
				logging.Debugf("connection.FileEndpoint discarding %d-byte partial frame at end of log", e.rx.Len())
			}
			return protocol.SequencedMessage{}, io.EOF
		}
		return protocol.SequencedMessage{}, fmt.Errorf("connection: reading stream log: %w", readErr)
	}
}

func (e *FileEndpoint) Close() error {
	return e.r.Close()
}

// WriteFileHeader writes the stream-log cookie at the head of a fresh log.
func WriteFileHeader(w io.Writer, logMode uint8) error {
	return session.WriteCookie(w, session.CookieData{
		Version: session.FileVersion,
		LogMode: logMode,
	})
}
