package protocol

// TypeID identifies a message type. Negative values are reserved system
// identities; non-negative values are user-registered and double as dense
// indexes into a translation table.
type TypeID int32

// SenderID identifies a sender under the same numbering rules as TypeID.
type SenderID int32

// IsSystem reports whether the ID names protocol infrastructure.
func (id TypeID) IsSystem() bool {
	return id < 0
}

// IsSystem reports whether the ID names protocol infrastructure.
func (id SenderID) IsSystem() bool {
	return id < 0
}

// ID constrains the two identity categories of the protocol.
type ID interface {
	~int32
}

// Local tags an ID as assigned by this process's own translation table.
type Local[T ID] struct {
	ID T
}

// Remote tags an ID as assigned by the peer's translation table. A logical
// name commonly has a different Remote ID than Local ID; the tags exist so
// the two numberings cannot be mixed up silently.
type Remote[T ID] struct {
	ID T
}

// LocalID wraps an ID with the local namespace tag.
func LocalID[T ID](id T) Local[T] {
	return Local[T]{ID: id}
}

// RemoteID wraps an ID with the peer namespace tag.
func RemoteID[T ID](id T) Remote[T] {
	return Remote[T]{ID: id}
}

// FilterMatches implements wildcard-or-exact matching: a nil filter matches
// any value, a non-nil filter matches only its own value.
func FilterMatches[T ID](filter *T, value T) bool {
	return filter == nil || *filter == value
}

// IDRange classifies a raw ID against a dense table of the given length.
type IDRange int

const (
	IDBelowZero IDRange = iota
	IDInTable
	IDAboveTable
)

// RangeOf categorizes id for bounds handling. Which ranges are errors
// depends on the caller: system dispatch accepts below-zero, table lookups
// accept only in-table.
func RangeOf[T ID](id T, tableLen int) IDRange {
	switch {
	case id < 0:
		return IDBelowZero
	case int(id) < tableLen:
		return IDInTable
	default:
		return IDAboveTable
	}
}

// TypeName is the stable cross-process identity of a message type. Numeric
// IDs are a per-connection optimization over these names.
type TypeName string

// SenderName is the stable cross-process identity of a sender.
type SenderName string
