package protocol

import (
	"time"

	"github.com/avask/devlink/internal/protocol/wire"
)

const microsPerSecond = 1_000_000

// TimeVal is the wire timestamp: seconds and microseconds as two signed
// 32-bit fields, matching the legacy struct timeval layout.
type TimeVal struct {
	Sec  int32
	Usec int32
}

// TimeValFromTime converts a time.Time to its wire representation.
func TimeValFromTime(t time.Time) TimeVal {
	return TimeVal{
		Sec:  int32(t.Unix()),
		Usec: int32(t.Nanosecond() / 1000),
	}
}

// TimeValNow returns the current time of day as a TimeVal.
func TimeValNow() TimeVal {
	return TimeValFromTime(time.Now())
}

// Time converts back to a time.Time in the local zone.
func (tv TimeVal) Time() time.Time {
	return time.Unix(int64(tv.Sec), int64(tv.Usec)*1000)
}

// Normalized carries overflowing microseconds into the seconds field.
func (tv TimeVal) Normalized() TimeVal {
	out := tv
	for out.Usec >= microsPerSecond {
		out.Usec -= microsPerSecond
		out.Sec++
	}
	for out.Usec < 0 {
		out.Usec += microsPerSecond
		out.Sec--
	}
	return out
}

func (tv TimeVal) WireSize() int {
	return 8
}

func (tv TimeVal) MarshalWire(w *wire.Writer) error {
	if err := w.PutInt32(tv.Sec); err != nil {
		return err
	}
	return w.PutInt32(tv.Usec)
}

func (tv *TimeVal) UnmarshalWire(r *wire.Reader) error {
	sec, err := r.Int32()
	if err != nil {
		return err
	}
	usec, err := r.Int32()
	if err != nil {
		return err
	}
	tv.Sec, tv.Usec = sec, usec
	return nil
}
