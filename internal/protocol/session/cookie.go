package session

import (
	"errors"
	"fmt"
	"io"
)

const (
	// CookieSize is the fixed byte width of the handshake preamble. The
	// read path consumes exactly this many bytes.
	CookieSize = 24

	cookieMagicPrefix = "vrpn: ver. "
)

var (
	// ErrBadCookieMagic is a fatal handshake failure: the stream does not
	// speak this protocol at all.
	ErrBadCookieMagic = errors.New("session: bad handshake magic")

	// ErrUnsupportedMajorVersion is a fatal handshake failure. There is no
	// negotiation fallback across major versions; minor differences are
	// tolerated.
	ErrUnsupportedMajorVersion = errors.New("session: unsupported major version")

	errShortCookie = errors.New("session: short cookie")
)

// Version is the protocol version pair carried in the cookie.
type Version struct {
	Major uint8
	Minor uint8
}

// NetworkVersion is the version written on network streams.
var NetworkVersion = Version{Major: 7, Minor: 35}

// FileVersion is the version written at the head of stream log files.
var FileVersion = Version{Major: 4, Minor: 0}

// CookieData is the decoded handshake preamble: magic plus version plus the
// remote-logging mode requested by the peer.
type CookieData struct {
	Version Version
	LogMode uint8
}

// Encode renders the cookie's fixed wire form: the magic, a zero-padded
// major.minor pair, and the log mode digit, zero-padded to CookieSize.
func (c CookieData) Encode() [CookieSize]byte {
	var out [CookieSize]byte
	s := fmt.Sprintf("%s%02d.%02d  %d", cookieMagicPrefix, c.Version.Major, c.Version.Minor, c.LogMode)
	copy(out[:], s)
	return out
}

// ParseCookie decodes a cookie from exactly CookieSize bytes.
func ParseCookie(p []byte) (CookieData, error) {
	if len(p) < CookieSize {
		return CookieData{}, fmt.Errorf("%w: %d bytes", errShortCookie, len(p))
	}
	if string(p[:len(cookieMagicPrefix)]) != cookieMagicPrefix {
		return CookieData{}, ErrBadCookieMagic
	}
	var c CookieData
	major, ok1 := parseTwoDigits(p[11], p[12])
	minor, ok2 := parseTwoDigits(p[14], p[15])
	if !ok1 || !ok2 || p[13] != '.' {
		return CookieData{}, ErrBadCookieMagic
	}
	c.Version.Major = major
	c.Version.Minor = minor
	if p[18] >= '0' && p[18] <= '9' {
		c.LogMode = p[18] - '0'
	}
	return c, nil
}

func parseTwoDigits(hi, lo byte) (uint8, bool) {
	if hi < '0' || hi > '9' || lo < '0' || lo > '9' {
		return 0, false
	}
	return (hi-'0')*10 + (lo - '0'), true
}

// CheckVersion enforces the compatibility rule: the major version must
// match exactly, the minor version may differ.
func (c CookieData) CheckVersion(want Version) error {
	if c.Version.Major != want.Major {
		return fmt.Errorf("%w: got %02d.%02d, want major %02d",
			ErrUnsupportedMajorVersion, c.Version.Major, c.Version.Minor, want.Major)
	}
	return nil
}

// WriteCookie writes the cookie preamble to a fresh byte stream.
func WriteCookie(w io.Writer, c CookieData) error {
	buf := c.Encode()
	_, err := w.Write(buf[:])
	return err
}

// ReadCookie consumes exactly one cookie's worth of bytes from the stream
// and validates the magic.
func ReadCookie(r io.Reader) (CookieData, error) {
	var buf [CookieSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return CookieData{}, fmt.Errorf("session: reading cookie: %w", err)
	}
	return ParseCookie(buf[:])
}

// Exchange performs the mutual cookie handshake on a fresh network stream:
// write ours, read theirs, enforce version compatibility. Framed decode
// must not begin until Exchange succeeds.
func Exchange(rw io.ReadWriter, local CookieData) (CookieData, error) {
	if err := WriteCookie(rw, local); err != nil {
		return CookieData{}, err
	}
	peer, err := ReadCookie(rw)
	if err != nil {
		return CookieData{}, err
	}
	if err := peer.CheckVersion(local.Version); err != nil {
		return CookieData{}, err
	}
	return peer, nil
}
