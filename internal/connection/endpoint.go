package connection

import (
	"errors"
	"fmt"
	"io"

	"github.com/avask/devlink/internal/logging"
	"github.com/avask/devlink/internal/observability"
	"github.com/avask/devlink/internal/protocol"
	"github.com/avask/devlink/internal/protocol/dispatch"
	"github.com/avask/devlink/internal/protocol/frame"
	"github.com/avask/devlink/internal/protocol/wire"
)

const readChunkSize = 4096

type queuedMessage struct {
	msg   protocol.SequencedMessage
	class protocol.ClassOfService
}

// identityRegistry resolves names to local IDs. An attached endpoint uses
// the connection-wide registry so translated IDs agree with the IDs
// handlers filter on; a detached endpoint falls back to its own numbering.
type identityRegistry interface {
	AddType(name protocol.TypeName) protocol.Local[protocol.TypeID]
	AddSender(name protocol.SenderName) protocol.Local[protocol.SenderID]
}

// Endpoint is one physical link of a Connection. It owns its own
// translation tables (two peers may number the same name differently), the
// stream receive buffer, and the outbound queue. All methods are confined
// to the owning connection's task.
type Endpoint struct {
	rw       io.ReadWriteCloser
	tables   dispatch.TranslationTables
	registry identityRegistry
	rx       *wire.Buffer
	limits   frame.Limits

	outbound []queuedMessage
	seq      uint32
	chunk    []byte
}

// NewEndpoint wraps an already-handshaken byte stream.
func NewEndpoint(rw io.ReadWriteCloser, limits frame.Limits) *Endpoint {
	return &Endpoint{
		rw:     rw,
		tables: dispatch.NewTranslationTables(),
		rx:     wire.NewBuffer(2 * readChunkSize),
		limits: limits,
		chunk:  make([]byte, readChunkSize),
	}
}

func (e *Endpoint) bindRegistry(r identityRegistry) {
	e.registry = r
}

func (e *Endpoint) localTypeFor(name string) protocol.Local[protocol.TypeID] {
	if e.registry != nil {
		return e.registry.AddType(protocol.TypeName(name))
	}
	return e.tables.Types.Add(name)
}

func (e *Endpoint) localSenderFor(name string) protocol.Local[protocol.SenderID] {
	if e.registry != nil {
		return e.registry.AddSender(protocol.SenderName(name))
	}
	return e.tables.Senders.Add(name)
}

// Tables exposes this endpoint's translation tables.
func (e *Endpoint) Tables() *dispatch.TranslationTables {
	return &e.tables
}

func (e *Endpoint) nextSequence() uint32 {
	seq := e.seq
	e.seq++
	return seq
}

// BufferMessage enqueues msg for the next Flush, tagged with advisory
// class-of-service flags. The core's responsibility ends at classification;
// channel selection by flag belongs to the transport.
func (e *Endpoint) BufferMessage(msg protocol.GenericMessage, class protocol.ClassOfService) {
	e.outbound = append(e.outbound, queuedMessage{
		msg: protocol.SequencedMessage{
			GenericMessage: msg,
			Sequence:       e.nextSequence(),
		},
		class: class,
	})
}

// PendingOutbound reports the number of buffered, unflushed messages.
func (e *Endpoint) PendingOutbound() int {
	return len(e.outbound)
}

// SendSystemChange writes msg immediately, bypassing the outbound queue.
// Descriptions for a new local ID must reach the peer before any message
// referencing that ID; the bypass is what preserves that ordering.
func (e *Endpoint) SendSystemChange(msg protocol.GenericMessage) error {
	sm := protocol.SequencedMessage{
		GenericMessage: msg,
		Sequence:       e.nextSequence(),
	}
	return e.writeFrame(&sm)
}

// Flush writes every queued message in order and empties the queue.
func (e *Endpoint) Flush() error {
	for i := range e.outbound {
		if err := e.writeFrame(&e.outbound[i].msg); err != nil {
			e.outbound = e.outbound[i:]
			return err
		}
	}
	e.outbound = e.outbound[:0]
	return nil
}

func (e *Endpoint) writeFrame(msg *protocol.SequencedMessage) error {
	raw, err := frame.EncodeBytes(msg)
	if err != nil {
		return err
	}
	if _, err := e.rw.Write(raw); err != nil {
		return fmt.Errorf("connection: writing frame: %w", err)
	}
	observability.RecordFrameEncoded(len(raw))
	return nil
}

// Poll reads one chunk from the transport and returns every complete
// message now available, identities already translated into local
// numbering. A nil slice with nil error means no complete frame yet.
func (e *Endpoint) Poll() ([]IncomingMessage, error) {
	n, err := e.rw.Read(e.chunk)
	if n > 0 {
		e.rx.Append(e.chunk[:n])
	}
	msgs, decodeErr := e.Drain()
	if decodeErr != nil {
		return msgs, decodeErr
	}
	if err != nil {
		if errors.Is(err, io.EOF) {
			return msgs, io.EOF
		}
		return msgs, fmt.Errorf("connection: reading stream: %w", err)
	}
	return msgs, nil
}

// IncomingMessage is a decoded message plus the outcome of identity
// translation. Unresolved messages still flow to wildcard handlers.
type IncomingMessage struct {
	Msg      protocol.SequencedMessage
	Resolved bool
}

// Drain decodes as many complete frames as the receive buffer holds. A
// shortfall ends the drain without touching the partial frame; appending
// more bytes and draining again duplicates nothing.
func (e *Endpoint) Drain() ([]IncomingMessage, error) {
	var out []IncomingMessage
	for {
		wireSize := e.rx.Len()
		msg, err := frame.DecodeBuffer(e.rx, e.limits)
		if err != nil {
			if _, ok := wire.AsNeedMoreData(err); ok {
				return out, nil
			}
			return out, err
		}
		observability.RecordFrameDecoded(wireSize - e.rx.Len())
		resolved, err := e.translateIncoming(&msg)
		if err != nil {
			return out, err
		}
		out = append(out, IncomingMessage{Msg: msg, Resolved: resolved})
	}
}

// translateIncoming rewrites msg's identities from the peer's numbering to
// ours. Description messages bind the peer's numbering first, so a
// description for ID N always lands before traffic referencing N.
func (e *Endpoint) translateIncoming(msg *protocol.SequencedMessage) (bool, error) {
	if msg.IsSystem() {
		switch msg.Header.Type {
		case protocol.TypeDescription:
			var body protocol.DescriptionBody
			if err := protocol.DecodeBody(&msg.GenericMessage, &body); err != nil {
				return false, fmt.Errorf("connection: type description: %w", err)
			}
			remote := protocol.RemoteID(protocol.TypeID(msg.Header.Sender))
			local := e.localTypeFor(string(body.Name))
			e.tables.Types.BindRemoteTo(remote, local, string(body.Name))
			logging.Debugf("connection.Endpoint bind type %q remote=%d local=%d",
				body.Name, remote.ID, local.ID)
		case protocol.SenderDescription:
			var body protocol.DescriptionBody
			if err := protocol.DecodeBody(&msg.GenericMessage, &body); err != nil {
				return false, fmt.Errorf("connection: sender description: %w", err)
			}
			remote := protocol.RemoteID(msg.Header.Sender)
			local := e.localSenderFor(string(body.Name))
			e.tables.Senders.BindRemoteTo(remote, local, string(body.Name))
			logging.Debugf("connection.Endpoint bind sender %q remote=%d local=%d",
				body.Name, remote.ID, local.ID)
		}
		return true, nil
	}

	localType, ok := e.tables.Types.LocalFromRemote(protocol.RemoteID(msg.Header.Type))
	if !ok {
		return false, nil
	}
	localSender, ok := e.tables.Senders.LocalFromRemote(protocol.RemoteID(msg.Header.Sender))
	if !ok {
		return false, nil
	}
	msg.Header.Type = localType.ID
	msg.Header.Sender = localSender.ID
	return true, nil
}

// Close tears the endpoint down: buffered-but-unsent messages are dropped
// and an in-flight partial frame in the receive buffer is discarded, not
// treated as corruption.
func (e *Endpoint) Close() error {
	if n := len(e.outbound); n > 0 {
		logging.Debugf("connection.Endpoint close dropping %d unsent messages", n)
		e.outbound = nil
	}
	if n := e.rx.Len(); n > 0 {
		logging.Debugf("connection.Endpoint close discarding %d-byte partial frame", n)
	}
	return e.rw.Close()
}
