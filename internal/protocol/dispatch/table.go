package dispatch

import (
	"github.com/avask/devlink/internal/protocol"
)

type tableEntry[T protocol.ID] struct {
	name      string
	remote    T
	hasRemote bool
}

// Table is one category's translation table: a dense, append-only sequence
// of entries indexed by local ID, plus a name index and the peer's
// numbering once announced. Local IDs start at 0, are assigned in
// registration order, and are never reused or renumbered for the table's
// lifetime.
//
// Tables are confined to their owning connection's task; no locking.
type Table[T protocol.ID] struct {
	entries []tableEntry[T]
	byName  map[string]T
	byRemote map[T]T
}

func NewTable[T protocol.ID]() *Table[T] {
	return &Table[T]{
		byName:   make(map[string]T),
		byRemote: make(map[T]T),
	}
}

// Len reports the number of registered entries.
func (t *Table[T]) Len() int {
	return len(t.entries)
}

// Add registers name, returning its stable local ID. Re-adding an existing
// name returns the original ID unchanged.
func (t *Table[T]) Add(name string) protocol.Local[T] {
	if id, ok := t.byName[name]; ok {
		return protocol.LocalID(id)
	}
	id := T(len(t.entries))
	t.entries = append(t.entries, tableEntry[T]{name: name})
	t.byName[name] = id
	return protocol.LocalID(id)
}

// LookupByName returns the local ID for name, if registered.
func (t *Table[T]) LookupByName(name string) (protocol.Local[T], bool) {
	id, ok := t.byName[name]
	return protocol.LocalID(id), ok
}

// NameByLocal returns the name registered under local ID id.
func (t *Table[T]) NameByLocal(id protocol.Local[T]) (string, bool) {
	if protocol.RangeOf(id.ID, len(t.entries)) != protocol.IDInTable {
		return "", false
	}
	return t.entries[id.ID].name, true
}

// BindRemote records that the peer numbers name as remote, creating the
// local entry if the name is new. Returns the local ID for the name.
func (t *Table[T]) BindRemote(remote protocol.Remote[T], name string) protocol.Local[T] {
	local := t.Add(name)
	t.BindRemoteTo(remote, local, name)
	return local
}

// BindRemoteTo records the peer's numbering against an externally assigned
// local ID. Used when local IDs come from a shared registry rather than
// this table's own numbering; gaps below local are reserved unnamed.
func (t *Table[T]) BindRemoteTo(remote protocol.Remote[T], local protocol.Local[T], name string) {
	for int(local.ID) >= len(t.entries) {
		t.entries = append(t.entries, tableEntry[T]{})
	}
	entry := &t.entries[local.ID]
	entry.name = name
	entry.remote = remote.ID
	entry.hasRemote = true
	t.byName[name] = local.ID
	t.byRemote[remote.ID] = local.ID
}

// LocalFromRemote translates the peer's numbering into our own.
func (t *Table[T]) LocalFromRemote(remote protocol.Remote[T]) (protocol.Local[T], bool) {
	id, ok := t.byRemote[remote.ID]
	return protocol.LocalID(id), ok
}

// RemoteFromLocal returns the peer's ID for our local ID, once announced.
func (t *Table[T]) RemoteFromLocal(id protocol.Local[T]) (protocol.Remote[T], bool) {
	if protocol.RangeOf(id.ID, len(t.entries)) != protocol.IDInTable {
		return protocol.Remote[T]{}, false
	}
	entry := t.entries[id.ID]
	if !entry.hasRemote {
		return protocol.Remote[T]{}, false
	}
	return protocol.RemoteID(entry.remote), true
}

// TranslationTables pairs the two per-endpoint tables. Each endpoint owns
// its own instance: two peers may number the same name differently.
type TranslationTables struct {
	Types   *Table[protocol.TypeID]
	Senders *Table[protocol.SenderID]
}

func NewTranslationTables() TranslationTables {
	return TranslationTables{
		Types:   NewTable[protocol.TypeID](),
		Senders: NewTable[protocol.SenderID](),
	}
}
