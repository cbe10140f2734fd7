package protocol

import (
	"testing"
	"time"

	"github.com/avask/devlink/internal/protocol/wire"
)

func TestTimeValConversion(t *testing.T) {
	at := time.Unix(1700000000, 250_000_000)
	tv := TimeValFromTime(at)
	if tv.Sec != 1700000000 || tv.Usec != 250000 {
		t.Fatalf("conversion: got=%+v", tv)
	}
	if !tv.Time().Equal(at) {
		t.Fatalf("round trip: got=%v want=%v", tv.Time(), at)
	}
}

func TestTimeValNormalized(t *testing.T) {
	cases := []struct {
		in, want TimeVal
	}{
		{TimeVal{Sec: 1, Usec: 1_500_000}, TimeVal{Sec: 2, Usec: 500_000}},
		{TimeVal{Sec: 1, Usec: -250_000}, TimeVal{Sec: 0, Usec: 750_000}},
		{TimeVal{Sec: 5, Usec: 999_999}, TimeVal{Sec: 5, Usec: 999_999}},
		{TimeVal{Sec: 0, Usec: 3_000_000}, TimeVal{Sec: 3, Usec: 0}},
	}
	for _, tc := range cases {
		if got := tc.in.Normalized(); got != tc.want {
			t.Errorf("Normalized(%+v): got=%+v want=%+v", tc.in, got, tc.want)
		}
	}
}

func TestTimeValWireRoundTrip(t *testing.T) {
	in := TimeVal{Sec: -3, Usec: 17}
	raw, err := wire.MarshalBytes(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if len(raw) != in.WireSize() {
		t.Fatalf("size: got=%d want=%d", len(raw), in.WireSize())
	}
	var out TimeVal
	if err := wire.UnmarshalBytes(&out, raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out != in {
		t.Fatalf("round trip: got=%+v want=%+v", out, in)
	}
}
