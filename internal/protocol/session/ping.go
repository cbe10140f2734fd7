package session

import (
	"context"
	"time"

	"github.com/avask/devlink/internal/logging"
	"github.com/avask/devlink/internal/observability"
	"github.com/avask/devlink/internal/protocol"
	"github.com/avask/devlink/internal/protocol/dispatch"
)

// SystemSender is the outbound fast path for system messages, bypassing
// the class-of-service outbound buffer.
type SystemSender interface {
	SendSystemChange(msg protocol.GenericMessage) error
}

// PingMonitor is the heartbeat state machine. It holds one logical slot,
// the unanswered ping: Idle when nothing is outstanding, Awaiting after a
// ping is sent until the matching pong arrives. The step functions carry
// explicit times so any scheduler can drive them.
type PingMonitor struct {
	sender    protocol.Local[protocol.SenderID]
	out       SystemSender
	warnAfter time.Duration

	awaiting  bool
	firstSent time.Time
}

// NewPingMonitor builds a monitor sending pings as the given local sender.
func NewPingMonitor(sender protocol.Local[protocol.SenderID], out SystemSender, warnAfter time.Duration) *PingMonitor {
	if warnAfter <= 0 {
		warnAfter = DefaultConfig().SilenceWarnAfter
	}
	return &PingMonitor{sender: sender, out: out, warnAfter: warnAfter}
}

// Awaiting reports whether a ping is outstanding.
func (m *PingMonitor) Awaiting() bool {
	return m.awaiting
}

// Tick advances the state machine once. When Idle it sends a new ping and
// starts Awaiting. When Awaiting past the warn threshold it reports the
// silence duration so the caller can emit a diagnostic; the state is left
// unchanged, disconnect policy belongs to the embedding application.
func (m *PingMonitor) Tick(now time.Time) (silence time.Duration, err error) {
	if !m.awaiting {
		msg, err := protocol.NewGeneric(
			protocol.Header{
				Time:   protocol.TimeValFromTime(now),
				Type:   protocol.PingRequest,
				Sender: m.sender.ID,
			},
			protocol.EmptyBody{},
		)
		if err != nil {
			return 0, err
		}
		if err := m.out.SendSystemChange(msg); err != nil {
			return 0, err
		}
		m.awaiting = true
		m.firstSent = now
		return 0, nil
	}
	if elapsed := now.Sub(m.firstSent); elapsed >= m.warnAfter {
		return elapsed, nil
	}
	return 0, nil
}

// OnPong clears the outstanding slot: Awaiting becomes Idle.
func (m *PingMonitor) OnPong(now time.Time) {
	if !m.awaiting {
		return
	}
	observability.RecordPingRoundTrip(now.Sub(m.firstSent))
	m.awaiting = false
}

// Bind installs the pong handler on the dispatcher so replies routed
// through the normal dispatch path clear the slot.
func (m *PingMonitor) Bind(d *dispatch.TypeDispatcher) error {
	return d.SetSystemHandler(protocol.PingReply, func(*protocol.GenericMessage) error {
		m.OnPong(time.Now())
		return nil
	})
}

// Run drives the monitor from a real timer until ctx is done. Silence past
// the threshold is logged once per tick.
func (m *PingMonitor) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultConfig().PingInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			silence, err := m.Tick(now)
			if err != nil {
				return err
			}
			if silence > 0 {
				observability.RecordPingSilence(silence)
				logging.Warnf("session.PingMonitor silence=%s since first unanswered ping", silence)
			}
		}
	}
}

// BindPingResponder installs the server-side ping handler: every ping is
// answered immediately with a pong over the system fast path.
func BindPingResponder(d *dispatch.TypeDispatcher, out SystemSender) error {
	return d.SetSystemHandler(protocol.PingRequest, func(msg *protocol.GenericMessage) error {
		reply, err := protocol.NewGeneric(
			protocol.Header{
				Time:   protocol.TimeValNow(),
				Type:   protocol.PingReply,
				Sender: msg.Header.Sender,
			},
			protocol.EmptyBody{},
		)
		if err != nil {
			return err
		}
		return out.SendSystemChange(reply)
	})
}
