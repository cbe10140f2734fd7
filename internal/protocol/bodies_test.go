package protocol

import (
	"bytes"
	"errors"
	"testing"

	"github.com/avask/devlink/internal/protocol/wire"
)

func TestDescriptionBodyWireForm(t *testing.T) {
	raw, err := wire.MarshalBytes(DescriptionBody{Name: []byte("Tracker0")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := append([]byte{0, 0, 0, 9}, []byte("Tracker0\x00")...)
	if !bytes.Equal(raw, want) {
		t.Fatalf("wire form: got=%v want=%v", raw, want)
	}

	var out DescriptionBody
	if err := wire.UnmarshalBytes(&out, raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if string(out.Name) != "Tracker0" {
		t.Fatalf("name: got=%q", out.Name)
	}
}

func TestDescriptionBodyRejectsMalformed(t *testing.T) {
	cases := []struct {
		name string
		raw  []byte
	}{
		{"zero length prefix", []byte{0, 0, 0, 0}},
		{"missing terminator", []byte{0, 0, 0, 2, 'a', 'b'}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out DescriptionBody
			if err := wire.UnmarshalBytes(&out, tc.raw); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestDescriptionBodyTrailingBytes(t *testing.T) {
	raw, err := wire.MarshalBytes(DescriptionBody{Name: []byte("x")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out DescriptionBody
	err = wire.UnmarshalBytes(&out, append(raw, 0xFF))
	if !errors.Is(err, wire.ErrTrailingBytes) {
		t.Fatalf("expected ErrTrailingBytes, got %v", err)
	}
}

func TestNewTypeDescriptionCarriesIDInSenderField(t *testing.T) {
	msg, err := NewTypeDescription(TypeID(3), "Tracker Pos/Quat")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if msg.Header.Type != TypeDescription {
		t.Fatalf("type: got=%d want=%d", msg.Header.Type, TypeDescription)
	}
	if msg.Header.Sender != SenderID(3) {
		t.Fatalf("described ID must ride in the sender field: got=%d", msg.Header.Sender)
	}
	var body DescriptionBody
	if err := DecodeBody(&msg, &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if string(body.Name) != "Tracker Pos/Quat" {
		t.Fatalf("name: got=%q", body.Name)
	}
}

func TestEmptyBodyIsZeroLength(t *testing.T) {
	msg, err := NewGeneric(NewHeader(TimeVal{}, PingRequest, SenderID(0)), EmptyBody{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(msg.Body) != 0 {
		t.Fatalf("body: got=%d bytes want=0", len(msg.Body))
	}
	if !msg.IsSystem() {
		t.Fatal("ping request is a system message")
	}
}
