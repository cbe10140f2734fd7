package protocol

// Reserved system message type IDs. These are process-wide immutable
// constants shared by every compliant implementation; the first five match
// the classic VRPN reservations, ping/pong are devlink's own reservations
// in the same negative space.
const (
	SenderDescription TypeID = -1
	TypeDescription   TypeID = -2
	UDPDescription    TypeID = -3
	LogDescription    TypeID = -4
	DisconnectMessage TypeID = -5
	PingRequest       TypeID = -6
	PingReply         TypeID = -7
)

// Reserved names used by the protocol infrastructure itself.
const (
	ControlSenderName SenderName = "VRPN Control"

	GotFirstConnectionName    TypeName = "VRPN_Connection_Got_First_Connection"
	GotConnectionName         TypeName = "VRPN_Connection_Got_Connection"
	DroppedConnectionName     TypeName = "VRPN_Connection_Dropped_Connection"
	DroppedLastConnectionName TypeName = "VRPN_Connection_Dropped_Last_Connection"
)
