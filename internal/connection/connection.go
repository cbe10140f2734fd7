package connection

import (
	"errors"

	"github.com/avask/devlink/internal/logging"
	"github.com/avask/devlink/internal/observability"
	"github.com/avask/devlink/internal/protocol"
	"github.com/avask/devlink/internal/protocol/dispatch"
	"github.com/avask/devlink/internal/protocol/session"
)

// ErrNoEndpoints reports a send with nowhere to go.
var ErrNoEndpoints = errors.New("connection: no endpoints attached")

// LogFileNames configures where a side's incoming/outgoing stream logs
// should be written. Carried and exchanged as configuration; the log
// writer itself is an external collaborator.
type LogFileNames struct {
	InLog  string
	OutLog string
}

// Connection owns the dispatcher, logging configuration, and a collection
// of endpoints. Normally one endpoint; relay and fan-out topologies attach
// several, each with its own translation tables.
type Connection struct {
	dispatcher *dispatch.TypeDispatcher
	localLog   LogFileNames
	remoteLog  LogFileNames
	endpoints  []*Endpoint
	cfg        session.Config

	// system carries heartbeat-produced messages from the timer task into
	// the I/O task. The queue is the only state shared between them.
	system chan protocol.GenericMessage
}

func newConnection(cfg session.Config, localLog, remoteLog LogFileNames) *Connection {
	return &Connection{
		dispatcher: dispatch.New(),
		localLog:   localLog,
		remoteLog:  remoteLog,
		cfg:        cfg.WithDefaults(),
		system:     make(chan protocol.GenericMessage, 16),
	}
}

// NewServer builds a connection that waits for peers; endpoints are
// attached as transports accept them.
func NewServer(cfg session.Config, localLog LogFileNames) *Connection {
	return newConnection(cfg, localLog, LogFileNames{})
}

// NewClient builds a connection around one dialed endpoint.
func NewClient(ep *Endpoint, cfg session.Config, localLog, remoteLog LogFileNames) *Connection {
	c := newConnection(cfg, localLog, remoteLog)
	c.AddEndpoint(ep)
	return c
}

// Dispatcher exposes the routing registry for handler registration.
func (c *Connection) Dispatcher() *dispatch.TypeDispatcher {
	return c.dispatcher
}

// Config returns the session configuration in effect.
func (c *Connection) Config() session.Config {
	return c.cfg
}

// LocalLogNames returns this side's log configuration.
func (c *Connection) LocalLogNames() LogFileNames {
	return c.localLog
}

// RemoteLogNames returns the logging requested of the peer.
func (c *Connection) RemoteLogNames() LogFileNames {
	return c.remoteLog
}

// AddEndpoint attaches a handshaken endpoint and announces every name
// registered so far, so a late-joining peer can translate from the start.
func (c *Connection) AddEndpoint(ep *Endpoint) {
	ep.bindRegistry(c.dispatcher)
	c.endpoints = append(c.endpoints, ep)
	c.announceAll(ep)
}

// Endpoints returns the attached endpoints.
func (c *Connection) Endpoints() []*Endpoint {
	return c.endpoints
}

// AddType registers a type name. First registration announces the binding
// to every attached peer before returning, so no message referencing the
// new ID can precede its description on the wire. Registering before any
// endpoint is attached is the normal server startup order; late-joining
// endpoints get the name from AddEndpoint's announcement replay.
func (c *Connection) AddType(name protocol.TypeName) (protocol.Local[protocol.TypeID], error) {
	if id, ok := c.dispatcher.TypeID(name); ok {
		return id, nil
	}
	id := c.dispatcher.AddType(name)
	desc, err := protocol.NewTypeDescription(id.ID, name)
	if err != nil {
		return id, err
	}
	return id, c.announce(desc)
}

// AddSender registers a sender name, announcing first registrations the
// same way as AddType.
func (c *Connection) AddSender(name protocol.SenderName) (protocol.Local[protocol.SenderID], error) {
	if id, ok := c.dispatcher.SenderID(name); ok {
		return id, nil
	}
	id := c.dispatcher.AddSender(name)
	desc, err := protocol.NewSenderDescription(id.ID, name)
	if err != nil {
		return id, err
	}
	return id, c.announce(desc)
}

// announce writes a description to the endpoints attached right now. No
// endpoints is not an error; there is simply nobody to tell yet.
func (c *Connection) announce(desc protocol.GenericMessage) error {
	for _, ep := range c.endpoints {
		if err := ep.SendSystemChange(desc); err != nil {
			return err
		}
	}
	return nil
}

func (c *Connection) announceAll(ep *Endpoint) {
	for id := protocol.TypeID(0); ; id++ {
		name, ok := c.dispatcher.TypeName(protocol.LocalID(id))
		if !ok {
			break
		}
		if desc, err := protocol.NewTypeDescription(id, name); err == nil {
			if err := ep.SendSystemChange(desc); err != nil {
				logging.Warnf("connection: announcing type %q: %v", name, err)
			}
		}
	}
	for id := protocol.SenderID(0); ; id++ {
		name, ok := c.dispatcher.SenderName(protocol.LocalID(id))
		if !ok {
			break
		}
		if desc, err := protocol.NewSenderDescription(id, name); err == nil {
			if err := ep.SendSystemChange(desc); err != nil {
				logging.Warnf("connection: announcing sender %q: %v", name, err)
			}
		}
	}
}

// Send buffers msg on every endpoint, tagged with class-of-service flags.
func (c *Connection) Send(msg protocol.GenericMessage, class protocol.ClassOfService) error {
	if len(c.endpoints) == 0 {
		return ErrNoEndpoints
	}
	for _, ep := range c.endpoints {
		ep.BufferMessage(msg, class)
	}
	return nil
}

// SendSystemChange writes msg immediately on every endpoint, bypassing the
// outbound buffers.
func (c *Connection) SendSystemChange(msg protocol.GenericMessage) error {
	if len(c.endpoints) == 0 {
		return ErrNoEndpoints
	}
	for _, ep := range c.endpoints {
		if err := ep.SendSystemChange(msg); err != nil {
			return err
		}
	}
	return nil
}

// QueueSystem hands a system message from another task to the I/O task.
// The next Poll drains the queue onto the wire.
func (c *Connection) QueueSystem(msg protocol.GenericMessage) {
	c.system <- msg
}

// Flush writes all buffered outbound traffic.
func (c *Connection) Flush() error {
	for _, ep := range c.endpoints {
		if err := ep.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// Poll drains the system queue onto the wire, reads each endpoint once,
// and dispatches every complete message. Unresolved identities are routed
// to wildcard handlers only and recorded, never fatal.
func (c *Connection) Poll() error {
	for {
		select {
		case msg := <-c.system:
			if err := c.SendSystemChange(msg); err != nil {
				return err
			}
			continue
		default:
		}
		break
	}

	for _, ep := range c.endpoints {
		msgs, err := ep.Poll()
		for i := range msgs {
			if dispatchErr := c.dispatchIncoming(&msgs[i]); dispatchErr != nil {
				return dispatchErr
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Connection) dispatchIncoming(in *IncomingMessage) error {
	if in.Resolved {
		return c.dispatcher.Dispatch(&in.Msg.GenericMessage)
	}
	observability.RecordMessageDropped("unresolved_identity")
	logging.Debugf("connection: unresolved identity type=%d sender=%d seq=%d",
		in.Msg.Header.Type, in.Msg.Header.Sender, in.Msg.Sequence)
	return c.dispatcher.DispatchUnresolved(&in.Msg.GenericMessage)
}

// Close tears down every endpoint. Buffered-but-unsent messages are
// dropped and partial inbound frames discarded; neither is an error.
func (c *Connection) Close() error {
	var firstErr error
	for _, ep := range c.endpoints {
		if err := ep.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.endpoints = nil
	return firstErr
}
