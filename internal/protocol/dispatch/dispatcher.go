package dispatch

import (
	"errors"
	"fmt"

	"github.com/avask/devlink/internal/protocol"
)

var (
	// ErrUnresolvedIdentity reports a message referencing a type or sender
	// ID the translation table cannot resolve. Per-message and recoverable.
	ErrUnresolvedIdentity = errors.New("dispatch: unresolved type or sender identity")

	// ErrReservedSystemHandler reports an attempt to replace a built-in
	// system handler.
	ErrReservedSystemHandler = errors.New("dispatch: system handler is reserved")
)

// Handler consumes one routed message.
type Handler func(msg *protocol.GenericMessage) error

// ExactType builds an exact-match type filter; nil means any.
func ExactType(id protocol.TypeID) *protocol.TypeID {
	return &id
}

// ExactSender builds an exact-match sender filter; nil means any.
func ExactSender(id protocol.SenderID) *protocol.SenderID {
	return &id
}

type registration struct {
	id           int
	typeFilter   *protocol.TypeID
	senderFilter *protocol.SenderID
	handler      Handler
}

// TypeDispatcher owns the connection-wide type and sender registries and
// the routing registry of filtered handlers. Handlers run in registration
// order; the description system handlers are installed at construction,
// run before any user handler for the same message, and cannot be removed
// or replaced. They are what keeps the registries current as peers
// announce names mid-session.
type TypeDispatcher struct {
	types   *Table[protocol.TypeID]
	senders *Table[protocol.SenderID]

	handlers []registration
	nextID   int
	system   map[protocol.TypeID]Handler
}

func New() *TypeDispatcher {
	d := &TypeDispatcher{
		types:   NewTable[protocol.TypeID](),
		senders: NewTable[protocol.SenderID](),
		system:  make(map[protocol.TypeID]Handler),
	}
	d.system[protocol.TypeDescription] = d.handleTypeDescription
	d.system[protocol.SenderDescription] = d.handleSenderDescription
	return d
}

// AddType registers a type name, returning its stable local ID.
func (d *TypeDispatcher) AddType(name protocol.TypeName) protocol.Local[protocol.TypeID] {
	return d.types.Add(string(name))
}

// AddSender registers a sender name, returning its stable local ID.
func (d *TypeDispatcher) AddSender(name protocol.SenderName) protocol.Local[protocol.SenderID] {
	return d.senders.Add(string(name))
}

// TypeID returns the local ID for a type name, if registered.
func (d *TypeDispatcher) TypeID(name protocol.TypeName) (protocol.Local[protocol.TypeID], bool) {
	return d.types.LookupByName(string(name))
}

// SenderID returns the local ID for a sender name, if registered.
func (d *TypeDispatcher) SenderID(name protocol.SenderName) (protocol.Local[protocol.SenderID], bool) {
	return d.senders.LookupByName(string(name))
}

// TypeName returns the name registered under a local type ID.
func (d *TypeDispatcher) TypeName(id protocol.Local[protocol.TypeID]) (protocol.TypeName, bool) {
	name, ok := d.types.NameByLocal(id)
	return protocol.TypeName(name), ok
}

// SenderName returns the name registered under a local sender ID.
func (d *TypeDispatcher) SenderName(id protocol.Local[protocol.SenderID]) (protocol.SenderName, bool) {
	name, ok := d.senders.NameByLocal(id)
	return protocol.SenderName(name), ok
}

// Register appends a handler to the routing registry. A nil filter matches
// any value; a non-nil filter matches only its own value. The returned
// token removes the registration via Unregister.
func (d *TypeDispatcher) Register(typeFilter *protocol.TypeID, senderFilter *protocol.SenderID, h Handler) int {
	d.nextID++
	d.handlers = append(d.handlers, registration{
		id:           d.nextID,
		typeFilter:   typeFilter,
		senderFilter: senderFilter,
		handler:      h,
	})
	return d.nextID
}

// Unregister removes a previously registered handler.
func (d *TypeDispatcher) Unregister(token int) {
	for i, reg := range d.handlers {
		if reg.id == token {
			d.handlers = append(d.handlers[:i], d.handlers[i+1:]...)
			return
		}
	}
}

// SetSystemHandler installs a handler for a reserved system type, e.g.
// ping. The description handlers installed at construction are reserved.
func (d *TypeDispatcher) SetSystemHandler(id protocol.TypeID, h Handler) error {
	if id == protocol.TypeDescription || id == protocol.SenderDescription {
		return fmt.Errorf("%w: %d", ErrReservedSystemHandler, id)
	}
	d.system[id] = h
	return nil
}

// Dispatch routes msg, whose identities must already be in this
// connection's numbering. System messages hit their system handler first,
// then any user handlers whose filters match. A type ID absent from the
// registry is not a routing error: wildcard handlers still run, exact-match
// handlers for other types are skipped.
func (d *TypeDispatcher) Dispatch(msg *protocol.GenericMessage) error {
	if msg.IsSystem() {
		if h, ok := d.system[msg.Header.Type]; ok {
			if err := h(msg); err != nil {
				return err
			}
		}
	}
	for _, reg := range d.handlers {
		if !protocol.FilterMatches(reg.typeFilter, msg.Header.Type) {
			continue
		}
		if !protocol.FilterMatches(reg.senderFilter, msg.Header.Sender) {
			continue
		}
		if err := reg.handler(msg); err != nil {
			return err
		}
	}
	return nil
}

// DispatchUnresolved routes a message whose identities are still in the
// peer's numbering because translation failed. Exact-match filters cannot
// be trusted against foreign numbers, so only fully wildcard handlers run.
func (d *TypeDispatcher) DispatchUnresolved(msg *protocol.GenericMessage) error {
	for _, reg := range d.handlers {
		if reg.typeFilter != nil || reg.senderFilter != nil {
			continue
		}
		if err := reg.handler(msg); err != nil {
			return err
		}
	}
	return nil
}

func (d *TypeDispatcher) handleTypeDescription(msg *protocol.GenericMessage) error {
	var body protocol.DescriptionBody
	if err := protocol.DecodeBody(msg, &body); err != nil {
		return fmt.Errorf("type description: %w", err)
	}
	d.types.Add(string(body.Name))
	return nil
}

func (d *TypeDispatcher) handleSenderDescription(msg *protocol.GenericMessage) error {
	var body protocol.DescriptionBody
	if err := protocol.DecodeBody(msg, &body); err != nil {
		return fmt.Errorf("sender description: %w", err)
	}
	d.senders.Add(string(body.Name))
	return nil
}
