package connection

import (
	"context"
	"fmt"
	"math/rand"
	"net"
	"time"

	"github.com/avask/devlink/internal/logging"
	"github.com/avask/devlink/internal/protocol/session"
)

// DialEndpoint connects to addr, performs the cookie handshake, and wraps
// the stream in an Endpoint. Dial failures retry with backoff up to
// maxAttempts (0 means a single attempt); a handshake failure is fatal
// immediately, never retried.
func DialEndpoint(ctx context.Context, addr string, cfg session.Config, maxAttempts int) (*Endpoint, error) {
	cfg = cfg.WithDefaults()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var attempt int
	for {
		attempt++
		conn, err := dialOnce(ctx, addr, cfg)
		if err == nil {
			return handshakeEndpoint(conn, cfg)
		}
		if maxAttempts > 0 && attempt >= maxAttempts {
			return nil, err
		}
		delay := session.NextBackoffDelay(cfg.Backoff, attempt, rng)
		logging.Warnf("connection: dial %s attempt=%d err=%v retry in %s", addr, attempt, err, delay)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}

func dialOnce(ctx context.Context, addr string, cfg session.Config) (net.Conn, error) {
	dialer := net.Dialer{Timeout: cfg.ConnectTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("connection: dial %s: %w", addr, err)
	}
	return conn, nil
}

// AcceptEndpoint performs the server side of the cookie handshake on an
// accepted stream.
func AcceptEndpoint(conn net.Conn, cfg session.Config) (*Endpoint, error) {
	return handshakeEndpoint(conn, cfg.WithDefaults())
}

func handshakeEndpoint(conn net.Conn, cfg session.Config) (*Endpoint, error) {
	local := session.CookieData{Version: session.NetworkVersion}
	if err := conn.SetDeadline(time.Now().Add(cfg.HandshakeTimeout)); err != nil {
		_ = conn.Close()
		return nil, err
	}
	peer, err := session.Exchange(conn, local)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := conn.SetDeadline(time.Time{}); err != nil {
		_ = conn.Close()
		return nil, err
	}
	logging.Debugf("connection: handshake ok peer=%s version=%02d.%02d log_mode=%d",
		conn.RemoteAddr(), peer.Version.Major, peer.Version.Minor, peer.LogMode)
	return NewEndpoint(conn, cfg.FrameLimits()), nil
}
