package session

import (
	"testing"
	"time"

	"github.com/avask/devlink/internal/protocol"
	"github.com/avask/devlink/internal/protocol/dispatch"
	"github.com/avask/devlink/internal/testutil/testlog"
)

type captureSender struct {
	sent []protocol.GenericMessage
}

func (c *captureSender) SendSystemChange(msg protocol.GenericMessage) error {
	c.sent = append(c.sent, msg)
	return nil
}

func pingSender() protocol.Local[protocol.SenderID] {
	return protocol.LocalID(protocol.SenderID(0))
}

func TestTickSendsPingWhenIdle(t *testing.T) {
	testlog.Start(t)
	out := &captureSender{}
	m := NewPingMonitor(pingSender(), out, 3*time.Second)

	now := time.Unix(1700000000, 0)
	silence, err := m.Tick(now)
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if silence != 0 {
		t.Fatalf("fresh ping reported silence %s", silence)
	}
	if len(out.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(out.sent))
	}
	msg := out.sent[0]
	if msg.Header.Type != protocol.PingRequest {
		t.Fatalf("type: got=%d want=%d", msg.Header.Type, protocol.PingRequest)
	}
	if len(msg.Body) != 0 {
		t.Fatalf("ping body: got=%d bytes want=0", len(msg.Body))
	}
	if !m.Awaiting() {
		t.Fatal("monitor must be awaiting after sending")
	}
}

func TestAwaitingTicksSendNothing(t *testing.T) {
	testlog.Start(t)
	out := &captureSender{}
	m := NewPingMonitor(pingSender(), out, 3*time.Second)

	start := time.Unix(1700000000, 0)
	if _, err := m.Tick(start); err != nil {
		t.Fatalf("tick: %v", err)
	}

	// Three silent one-second ticks. Only the third crosses the warn
	// threshold; none sends a second ping.
	for i := 1; i <= 3; i++ {
		now := start.Add(time.Duration(i) * time.Second)
		silence, err := m.Tick(now)
		if err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		if i < 3 && silence != 0 {
			t.Fatalf("tick %d: premature silence diagnostic %s", i, silence)
		}
		if i == 3 && silence != 3*time.Second {
			t.Fatalf("tick 3: silence got=%s want=3s", silence)
		}
	}
	if len(out.sent) != 1 {
		t.Fatalf("sent %d messages while awaiting, want 1", len(out.sent))
	}
}

func TestPongClearsSlot(t *testing.T) {
	testlog.Start(t)
	out := &captureSender{}
	m := NewPingMonitor(pingSender(), out, 3*time.Second)

	start := time.Unix(1700000000, 0)
	if _, err := m.Tick(start); err != nil {
		t.Fatalf("tick: %v", err)
	}
	m.OnPong(start.Add(500 * time.Millisecond))
	if m.Awaiting() {
		t.Fatal("pong must clear the outstanding slot")
	}

	// The next tick starts a fresh cycle with no silence diagnostic.
	silence, err := m.Tick(start.Add(time.Second))
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if silence != 0 {
		t.Fatalf("fresh cycle reported silence %s", silence)
	}
	if len(out.sent) != 2 {
		t.Fatalf("sent %d messages, want 2", len(out.sent))
	}
}

func TestPongWhileIdleIsIgnored(t *testing.T) {
	testlog.Start(t)
	m := NewPingMonitor(pingSender(), &captureSender{}, 3*time.Second)
	m.OnPong(time.Unix(1700000000, 0))
	if m.Awaiting() {
		t.Fatal("stray pong must not change state")
	}
}

func TestBindRoutesPongThroughDispatch(t *testing.T) {
	testlog.Start(t)
	out := &captureSender{}
	m := NewPingMonitor(pingSender(), out, 3*time.Second)

	d := dispatch.New()
	if err := m.Bind(d); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if _, err := m.Tick(time.Unix(1700000000, 0)); err != nil {
		t.Fatalf("tick: %v", err)
	}

	pong, err := protocol.NewGeneric(
		protocol.NewHeader(protocol.TimeVal{Sec: 1}, protocol.PingReply, 0),
		protocol.EmptyBody{},
	)
	if err != nil {
		t.Fatalf("build pong: %v", err)
	}
	if err := d.Dispatch(&pong); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if m.Awaiting() {
		t.Fatal("dispatched pong must clear the slot")
	}
}

func TestBindPingResponder(t *testing.T) {
	testlog.Start(t)
	out := &captureSender{}
	d := dispatch.New()
	if err := BindPingResponder(d, out); err != nil {
		t.Fatalf("bind: %v", err)
	}

	ping, err := protocol.NewGeneric(
		protocol.NewHeader(protocol.TimeVal{Sec: 1}, protocol.PingRequest, protocol.SenderID(4)),
		protocol.EmptyBody{},
	)
	if err != nil {
		t.Fatalf("build ping: %v", err)
	}
	if err := d.Dispatch(&ping); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(out.sent) != 1 {
		t.Fatalf("sent %d replies, want 1", len(out.sent))
	}
	reply := out.sent[0]
	if reply.Header.Type != protocol.PingReply {
		t.Fatalf("reply type: got=%d want=%d", reply.Header.Type, protocol.PingReply)
	}
	if reply.Header.Sender != protocol.SenderID(4) {
		t.Fatalf("reply must echo the requesting sender: got=%d", reply.Header.Sender)
	}
}
