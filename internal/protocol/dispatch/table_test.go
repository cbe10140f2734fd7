package dispatch

import (
	"testing"

	"github.com/avask/devlink/internal/protocol"
)

func TestTableAddIsDenseAndIdempotent(t *testing.T) {
	tbl := NewTable[protocol.TypeID]()
	a := tbl.Add("Tracker Pos/Quat")
	b := tbl.Add("Button Change")
	if a.ID != 0 || b.ID != 1 {
		t.Fatalf("IDs not dense from zero: a=%d b=%d", a.ID, b.ID)
	}
	if again := tbl.Add("Tracker Pos/Quat"); again.ID != a.ID {
		t.Fatalf("re-add changed the ID: got=%d want=%d", again.ID, a.ID)
	}
	if tbl.Len() != 2 {
		t.Fatalf("len: got=%d want=2", tbl.Len())
	}
}

func TestTableNameLookups(t *testing.T) {
	tbl := NewTable[protocol.SenderID]()
	id := tbl.Add("Tracker0")

	got, ok := tbl.LookupByName("Tracker0")
	if !ok || got.ID != id.ID {
		t.Fatalf("LookupByName: got=%d ok=%v", got.ID, ok)
	}
	if _, ok := tbl.LookupByName("missing"); ok {
		t.Fatal("unregistered name must not resolve")
	}

	name, ok := tbl.NameByLocal(id)
	if !ok || name != "Tracker0" {
		t.Fatalf("NameByLocal: got=%q ok=%v", name, ok)
	}
	if _, ok := tbl.NameByLocal(protocol.LocalID(protocol.SenderID(7))); ok {
		t.Fatal("out-of-table ID must not resolve")
	}
}

func TestTableRemoteBinding(t *testing.T) {
	tbl := NewTable[protocol.TypeID]()
	local := tbl.Add("Tracker Pos/Quat")

	// The peer numbers the same name 5.
	bound := tbl.BindRemote(protocol.RemoteID(protocol.TypeID(5)), "Tracker Pos/Quat")
	if bound.ID != local.ID {
		t.Fatalf("binding must reuse the existing entry: got=%d want=%d", bound.ID, local.ID)
	}

	back, ok := tbl.LocalFromRemote(protocol.RemoteID(protocol.TypeID(5)))
	if !ok || back.ID != local.ID {
		t.Fatalf("LocalFromRemote: got=%d ok=%v", back.ID, ok)
	}
	if _, ok := tbl.LocalFromRemote(protocol.RemoteID(protocol.TypeID(9))); ok {
		t.Fatal("unannounced remote ID must not resolve")
	}

	remote, ok := tbl.RemoteFromLocal(local)
	if !ok || remote.ID != 5 {
		t.Fatalf("RemoteFromLocal: got=%d ok=%v", remote.ID, ok)
	}
}

func TestTableRemoteBindingCreatesEntry(t *testing.T) {
	tbl := NewTable[protocol.TypeID]()
	local := tbl.BindRemote(protocol.RemoteID(protocol.TypeID(0)), "Analog Channel")
	if local.ID != 0 {
		t.Fatalf("first entry must get ID 0: got=%d", local.ID)
	}
	if _, ok := tbl.LookupByName("Analog Channel"); !ok {
		t.Fatal("binding a new name must register it")
	}
}

func TestTableRemoteFromLocalUnannounced(t *testing.T) {
	tbl := NewTable[protocol.SenderID]()
	local := tbl.Add("Tracker0")
	if _, ok := tbl.RemoteFromLocal(local); ok {
		t.Fatal("entry without a remote binding must not resolve")
	}
}
